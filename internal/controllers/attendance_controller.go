package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend_v1/internal/export"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/services"
)

type AttendanceController struct {
	Attendance *services.AttendanceService
	Log        logging.Logger
}

type periodRequest struct {
	TeacherID    string     `json:"teacherId"`
	Teacher      string     `json:"teacher"`
	CheckInTime  *time.Time `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
}

type createAttendanceRequest struct {
	Date      *time.Time      `json:"date"`
	LevelID   string          `json:"levelId"`
	SectionID string          `json:"sectionId"`
	Periods   []periodRequest `json:"periods"`
}

type updateAttendanceRequest struct {
	TeacherID    *string    `json:"teacherId"`
	LevelID      *string    `json:"levelId"`
	SectionID    *string    `json:"sectionId"`
	CheckInTime  *time.Time `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
}

func queryFilter(c *gin.Context) services.QueryFilter {
	return services.QueryFilter{
		From:      c.Query("from"),
		To:        c.Query("to"),
		Range:     c.Query("checkInTimeRange"),
		LevelID:   c.Query("levelId"),
		SectionID: c.Query("sectionId"),
	}
}

func (ac *AttendanceController) CreateAttendance(c *gin.Context) {
	var req createAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ac.Log, err)
		return
	}
	in := services.RecordInput{
		Date:      req.Date,
		LevelID:   req.LevelID,
		SectionID: req.SectionID,
		Periods:   make([]services.PeriodInput, 0, len(req.Periods)),
	}
	for _, p := range req.Periods {
		teacherID := p.TeacherID
		if teacherID == "" {
			teacherID = p.Teacher
		}
		in.Periods = append(in.Periods, services.PeriodInput{
			TeacherID:    teacherID,
			CheckInTime:  p.CheckInTime,
			CheckOutTime: p.CheckOutTime,
		})
	}
	record, err := ac.Attendance.CreateRecord(c.Request.Context(), in)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	respond(c, http.StatusCreated, record, "Attendance record created successfully")
}

func (ac *AttendanceController) GetAttendance(c *gin.Context) {
	rows, err := ac.Attendance.Query(c.Request.Context(), queryFilter(c))
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	respond(c, http.StatusOK, rows, "All periods fetched successfully")
}

func (ac *AttendanceController) ExportExcel(c *gin.Context) {
	data, err := ac.Attendance.Export(c.Request.Context(), queryFilter(c))
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+export.FileName)
	c.Data(http.StatusOK, export.ContentType, data)
}

func (ac *AttendanceController) UpdateAttendance(c *gin.Context) {
	var req updateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ac.Log, err)
		return
	}
	period, err := ac.Attendance.UpdatePeriod(c.Request.Context(), idParam(c, "periodId"), services.PeriodUpdate{
		TeacherID:    req.TeacherID,
		LevelID:      req.LevelID,
		SectionID:    req.SectionID,
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
	})
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	respond(c, http.StatusOK, period, "Period updated successfully")
}

func (ac *AttendanceController) DeleteAttendance(c *gin.Context) {
	if err := ac.Attendance.DeletePeriod(c.Request.Context(), idParam(c, "periodId")); err != nil {
		respondError(c, ac.Log, err)
		return
	}
	respond(c, http.StatusOK, nil, "Period deleted successfully")
}
