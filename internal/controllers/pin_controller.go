package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/services"
)

type PinController struct {
	Pins *services.PinService
	Log  logging.Logger
}

// A missing PIN is left to the service so it can report it with its own
// message. Validation takes any candidate, the format only binds on writes.
type pinRequest struct {
	Pin FlexibleString `json:"pin"`
}

type addPinRequest struct {
	Pin FlexibleString `json:"pin" binding:"omitempty,pin"`
}

type updatePinRequest struct {
	NewPin FlexibleString `json:"newPin" binding:"omitempty,pin"`
}

func (pc *PinController) Validate(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, pc.Log, err)
		return
	}
	if err := pc.Pins.Validate(c.Request.Context(), c.ClientIP(), req.Pin.String()); err != nil {
		respondError(c, pc.Log, err)
		return
	}
	respond(c, http.StatusOK, nil, "PIN is valid")
}

func (pc *PinController) Add(c *gin.Context) {
	var req addPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, pc.Log, err)
		return
	}
	pin, err := pc.Pins.Add(c.Request.Context(), req.Pin.String())
	if err != nil {
		respondError(c, pc.Log, err)
		return
	}
	respond(c, http.StatusCreated, pin, "PIN added successfully")
}

func (pc *PinController) Update(c *gin.Context) {
	var req updatePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, pc.Log, err)
		return
	}
	pin, err := pc.Pins.Update(c.Request.Context(), idParam(c, "pinId"), req.NewPin.String())
	if err != nil {
		respondError(c, pc.Log, err)
		return
	}
	respond(c, http.StatusOK, pin, "PIN updated successfully")
}

func (pc *PinController) Delete(c *gin.Context) {
	if err := pc.Pins.Delete(c.Request.Context(), idParam(c, "pinId")); err != nil {
		respondError(c, pc.Log, err)
		return
	}
	respond(c, http.StatusOK, nil, "PIN deleted successfully")
}

func (pc *PinController) List(c *gin.Context) {
	pins, err := pc.Pins.List(c.Request.Context())
	if err != nil {
		respondError(c, pc.Log, err)
		return
	}
	respond(c, http.StatusOK, pins, "PINs fetched successfully")
}
