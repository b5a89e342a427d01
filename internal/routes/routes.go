package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zaqqye/attendance_backend_v1/internal/auth"
	"github.com/zaqqye/attendance_backend_v1/internal/cache"
	"github.com/zaqqye/attendance_backend_v1/internal/config"
	"github.com/zaqqye/attendance_backend_v1/internal/controllers"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/metrics"
	"github.com/zaqqye/attendance_backend_v1/internal/middleware"
	"github.com/zaqqye/attendance_backend_v1/internal/services"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
	"github.com/zaqqye/attendance_backend_v1/internal/validation"
	"github.com/zaqqye/attendance_backend_v1/internal/ws"
)

const maxBodyBytes = 16 << 10

// Deps is everything the HTTP surface needs, built once in main.
type Deps struct {
	Config     *config.Config
	Store      store.Store
	Tokens     *auth.Issuer
	Blacklist  *cache.Blacklist
	Admins     *services.AdminService
	Directory  *services.DirectoryService
	Teachers   *services.TeacherService
	Attendance *services.AttendanceService
	Pins       *services.PinService
	Hub        *ws.Hub
	Log        logging.Logger
}

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origin == "*" {
		// credentials forbid a literal wildcard, echo the caller instead
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = strings.Split(origin, ",")
	}
	return cfg
}

func Register(r *gin.Engine, d Deps) {
	validation.Setup()

	r.Use(metrics.Middleware())
	r.Use(cors.New(corsConfig(d.Config.CORSOrigin)))
	r.Use(middleware.NoCache())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adminCtrl := &controllers.AdminController{
		Admins:       d.Admins,
		Directory:    d.Directory,
		CookieSecure: d.Config.CookieSecure,
		Log:          d.Log,
	}
	levelCtrl := &controllers.LevelController{Directory: d.Directory, Log: d.Log}
	teacherCtrl := &controllers.TeacherController{Teachers: d.Teachers, Log: d.Log}
	attendanceCtrl := &controllers.AttendanceController{Attendance: d.Attendance, Log: d.Log}
	pinCtrl := &controllers.PinController{Pins: d.Pins, Log: d.Log}

	authMW := middleware.AuthMiddleware(d.Store, d.Tokens, d.Blacklist, d.Log)

	api := r.Group("/api/v1")

	admin := api.Group("/admin")
	{
		admin.POST("/admin-register", adminCtrl.Register)
		admin.POST("/admin-login", adminCtrl.Login)
		admin.POST("/refresh-token", adminCtrl.RefreshToken)
		admin.GET("/system-stats", adminCtrl.SystemStats)

		admin.POST("/admin-logout", authMW, adminCtrl.Logout)
		admin.PATCH("/admin-updatePassword", authMW, adminCtrl.UpdatePassword)
		admin.GET("/admin-getAdmin", authMW, adminCtrl.GetAdmin)
	}

	level := api.Group("/level")
	{
		level.GET("/get-level", levelCtrl.ListLevels)
		// older clients use the capitalised path
		level.GET("/get-Level", levelCtrl.ListLevels)

		level.POST("/create-level", authMW, levelCtrl.CreateLevel)
		level.POST("/add-section", authMW, levelCtrl.AddSections)
		level.DELETE("/delete-level/:levelId", authMW, levelCtrl.DeleteLevel)
		level.PATCH("/update-level/:levelId", authMW, levelCtrl.UpdateLevel)
		level.DELETE("/delete-section/:sectionId", authMW, levelCtrl.DeleteSection)
		level.PATCH("/update-section/:sectionId", authMW, levelCtrl.UpdateSection)
	}

	teacher := api.Group("/teacher")
	{
		teacher.GET("/get-teachers", teacherCtrl.ListTeachers)

		teacher.POST("/create-teacher", authMW, teacherCtrl.CreateTeacher)
		teacher.PATCH("/update-teacher/:teacherId", authMW, teacherCtrl.UpdateTeacher)
		teacher.DELETE("/delete-teacher/:teacherId", authMW, teacherCtrl.DeleteTeacher)
	}

	attendance := api.Group("/attendance")
	{
		attendance.POST("/create-attendance", attendanceCtrl.CreateAttendance)
		attendance.GET("/get-attendance", attendanceCtrl.GetAttendance)

		attendance.GET("/get-attendance-excel", authMW, attendanceCtrl.ExportExcel)
		attendance.PUT("/update-attendance/:periodId", authMW, attendanceCtrl.UpdateAttendance)
		attendance.DELETE("/delete-attendance/:periodId", authMW, attendanceCtrl.DeleteAttendance)
		attendance.GET("/live", authMW, ws.Handler(d.Hub, d.Config.CORSOrigin))
	}

	pin := api.Group("/pin")
	{
		pin.POST("/validate", pinCtrl.Validate)

		pin.POST("/add", authMW, pinCtrl.Add)
		pin.PUT("/update/:pinId", authMW, pinCtrl.Update)
		pin.DELETE("/delete/:pinId", authMW, pinCtrl.Delete)
		pin.GET("/view", authMW, pinCtrl.List)
	}
}
