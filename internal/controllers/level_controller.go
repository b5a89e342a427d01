package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/services"
)

type LevelController struct {
	Directory *services.DirectoryService
	Log       logging.Logger
}

type createLevelRequest struct {
	Level    string   `json:"level" binding:"required"`
	Sections []string `json:"sections" binding:"required,min=1"`
}

type addSectionsRequest struct {
	LevelID            string   `json:"levelId" binding:"required"`
	AdditionalSections []string `json:"additionalSections" binding:"required,min=1"`
}

type updateLevelRequest struct {
	Level string `json:"level" binding:"required"`
}

type updateSectionRequest struct {
	SectionName string `json:"sectionName" binding:"required"`
}

func (lc *LevelController) CreateLevel(c *gin.Context) {
	var req createLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, lc.Log, err)
		return
	}
	level, err := lc.Directory.CreateLevel(c.Request.Context(), req.Level, req.Sections)
	if err != nil {
		respondError(c, lc.Log, err)
		return
	}
	respond(c, http.StatusCreated, level, "Level created successfully")
}

func (lc *LevelController) AddSections(c *gin.Context) {
	var req addSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, lc.Log, err)
		return
	}
	level, err := lc.Directory.AddSections(c.Request.Context(), req.LevelID, req.AdditionalSections)
	if err != nil {
		respondError(c, lc.Log, err)
		return
	}
	respond(c, http.StatusOK, level, "Added section successfully")
}

func (lc *LevelController) DeleteLevel(c *gin.Context) {
	if err := lc.Directory.DeleteLevel(c.Request.Context(), idParam(c, "levelId")); err != nil {
		respondError(c, lc.Log, err)
		return
	}
	respond(c, http.StatusOK, nil, "Level deleted successfully")
}

func (lc *LevelController) UpdateLevel(c *gin.Context) {
	var req updateLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, lc.Log, err)
		return
	}
	level, err := lc.Directory.RenameLevel(c.Request.Context(), idParam(c, "levelId"), req.Level)
	if err != nil {
		respondError(c, lc.Log, err)
		return
	}
	respond(c, http.StatusOK, level, "Level details updated successfully")
}

func (lc *LevelController) DeleteSection(c *gin.Context) {
	if err := lc.Directory.DeleteSection(c.Request.Context(), idParam(c, "sectionId")); err != nil {
		respondError(c, lc.Log, err)
		return
	}
	respond(c, http.StatusOK, nil, "Section deleted successfully")
}

func (lc *LevelController) UpdateSection(c *gin.Context) {
	var req updateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, lc.Log, err)
		return
	}
	section, err := lc.Directory.RenameSection(c.Request.Context(), idParam(c, "sectionId"), req.SectionName)
	if err != nil {
		respondError(c, lc.Log, err)
		return
	}
	respond(c, http.StatusOK, section, "Section updated successfully")
}

func (lc *LevelController) ListLevels(c *gin.Context) {
	levels, err := lc.Directory.ListLevels(c.Request.Context())
	if err != nil {
		respondError(c, lc.Log, err)
		return
	}
	if len(levels) == 0 {
		respond(c, http.StatusOK, levels, "No levels found")
		return
	}
	respond(c, http.StatusOK, levels, "Levels fetched successfully")
}
