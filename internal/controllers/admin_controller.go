package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/middleware"
	"github.com/zaqqye/attendance_backend_v1/internal/services"
)

type AdminController struct {
	Admins       *services.AdminService
	Directory    *services.DirectoryService
	CookieSecure bool
	Log          logging.Logger
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,strongpassword"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword        string `json:"oldPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required,strongpassword"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
}

func (ac *AdminController) setCookie(c *gin.Context, name, value string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   ac.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if ac.CookieSecure {
		cookie.SameSite = http.SameSiteNoneMode
	}
	if value == "" {
		cookie.MaxAge = -1
	} else {
		cookie.Expires = expires
		cookie.MaxAge = int(time.Until(expires).Seconds())
	}
	http.SetCookie(c.Writer, cookie)
}

func (ac *AdminController) sessionResponse(c *gin.Context, session *services.Session, message string) {
	ac.setCookie(c, middleware.AccessCookie, session.Tokens.AccessToken, session.Tokens.AccessExpiresAt)
	ac.setCookie(c, middleware.RefreshCookie, session.Tokens.RefreshToken, session.Tokens.RefreshExpiresAt)
	respond(c, http.StatusOK, gin.H{
		"admin":        session.Admin,
		"accessToken":  session.Tokens.AccessToken,
		"refreshToken": session.Tokens.RefreshToken,
	}, message)
}

func (ac *AdminController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ac.Log, err)
		return
	}
	admin, err := ac.Admins.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	respond(c, http.StatusCreated, admin, "Admin registered successfully")
}

func (ac *AdminController) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ac.Log, err)
		return
	}
	session, err := ac.Admins.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ac.sessionResponse(c, session, "Admin logged in successfully")
}

// RefreshToken takes the refresh token from its cookie or, for non-browser
// clients, from the body.
func (ac *AdminController) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshCookie)
	if token == "" {
		var req refreshRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondBindError(c, ac.Log, err)
				return
			}
		}
		token = req.RefreshToken
	}
	session, err := ac.Admins.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ac.sessionResponse(c, session, "Access token refreshed")
}

func (ac *AdminController) Logout(c *gin.Context) {
	admin, _ := middleware.CurrentAdmin(c)
	claims, _ := middleware.CurrentClaims(c)
	var jti string
	var expires time.Time
	if claims != nil {
		jti = claims.ID
		if claims.ExpiresAt != nil {
			expires = claims.ExpiresAt.Time
		}
	}
	if err := ac.Admins.Logout(c.Request.Context(), admin.ID, jti, expires); err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ac.setCookie(c, middleware.AccessCookie, "", time.Time{})
	ac.setCookie(c, middleware.RefreshCookie, "", time.Time{})
	respond(c, http.StatusOK, gin.H{}, "Admin logged out")
}

func (ac *AdminController) UpdatePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ac.Log, err)
		return
	}
	admin, _ := middleware.CurrentAdmin(c)
	err := ac.Admins.ChangePassword(c.Request.Context(), admin.ID, req.OldPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

func (ac *AdminController) GetAdmin(c *gin.Context) {
	admin, _ := middleware.CurrentAdmin(c)
	current, err := ac.Admins.Current(c.Request.Context(), admin.ID)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	respond(c, http.StatusOK, current, "Current admin fetched")
}

func (ac *AdminController) SystemStats(c *gin.Context) {
	stats, err := ac.Directory.SystemStats(c.Request.Context())
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	respond(c, http.StatusOK, stats, "System stats fetched successfully")
}
