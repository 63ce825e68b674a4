package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smenalab/smena-backend/internal/services"
)

type LifecycleHandler struct {
	svc services.LifecycleService
}

func NewLifecycleHandler(svc services.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{svc: svc}
}

type updateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason"`
}

// PATCH /api/shifts/:id/status
func (h *LifecycleHandler) UpdateStatus(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shift id"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.UpdateShiftStatus(c.Request.Context(), shiftID, req.Status, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"shift_id":        result.ShiftID,
		"previous_status": result.PreviousStatus,
		"new_status":      result.NewStatus,
		"status_label":    result.StatusLabel,
	})
}

// GET /api/shifts/:id/status/history
func (h *LifecycleHandler) GetStatusHistory(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shift id"})
		return
	}

	history, err := h.svc.GetStatusHistory(c.Request.Context(), shiftID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

type checkInRequest struct {
	WorkerID  string   `json:"worker_id" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	PhotoURL  string   `json:"photo_url"`
}

// POST /api/shifts/:id/checkin
func (h *LifecycleHandler) CheckIn(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shift id"})
		return
	}
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker id"})
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}

	result, err := h.svc.CheckIn(c.Request.Context(), services.CheckInInput{
		ShiftID:   shiftID,
		WorkerID:  workerID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		PhotoURL:  req.PhotoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"shift_id":     result.ShiftID,
		"worker_id":    result.WorkerID,
		"checkin_time": result.CheckinTime,
	})
}

type checkOutRequest struct {
	WorkerID string `json:"worker_id" binding:"required"`
}

// POST /api/shifts/:id/checkout
func (h *LifecycleHandler) CheckOut(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shift id"})
		return
	}
	var req checkOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker id"})
		return
	}

	result, err := h.svc.CheckOut(c.Request.Context(), shiftID, workerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"shift_id":        result.ShiftID,
		"worker_id":       result.WorkerID,
		"checkout_time":   result.CheckoutTime,
		"shift_completed": result.ShiftCompleted,
	})
}
