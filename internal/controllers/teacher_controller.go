package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/services"
)

type TeacherController struct {
	Teachers *services.TeacherService
	Log      logging.Logger
}

type teacherRequest struct {
	TeacherName string `json:"teacherName" binding:"required"`
}

func (tc *TeacherController) CreateTeacher(c *gin.Context) {
	var req teacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, tc.Log, err)
		return
	}
	teacher, err := tc.Teachers.CreateTeacher(c.Request.Context(), req.TeacherName)
	if err != nil {
		respondError(c, tc.Log, err)
		return
	}
	respond(c, http.StatusCreated, teacher, "Teacher created successfully")
}

func (tc *TeacherController) UpdateTeacher(c *gin.Context) {
	var req teacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, tc.Log, err)
		return
	}
	teacher, err := tc.Teachers.RenameTeacher(c.Request.Context(), idParam(c, "teacherId"), req.TeacherName)
	if err != nil {
		respondError(c, tc.Log, err)
		return
	}
	respond(c, http.StatusOK, teacher, "Teacher updated successfully")
}

func (tc *TeacherController) DeleteTeacher(c *gin.Context) {
	if err := tc.Teachers.DeleteTeacher(c.Request.Context(), idParam(c, "teacherId")); err != nil {
		respondError(c, tc.Log, err)
		return
	}
	respond(c, http.StatusOK, nil, "Teacher deleted successfully")
}

// ListTeachers supports ?q= for a case-insensitive name search.
func (tc *TeacherController) ListTeachers(c *gin.Context) {
	teachers, err := tc.Teachers.ListTeachers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, tc.Log, err)
		return
	}
	respond(c, http.StatusOK, teachers, "Teachers fetched successfully")
}
