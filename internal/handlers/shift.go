package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/smenalab/smena-backend/internal/services"
)

type ShiftHandler struct {
	svc services.ShiftService
}

func NewShiftHandler(svc services.ShiftService) *ShiftHandler {
	return &ShiftHandler{svc: svc}
}

type createShiftRequest struct {
	ClientID        string         `json:"client_id" binding:"required"`
	Title           string         `json:"title" binding:"required"`
	Status          string         `json:"status"`
	Date            string         `json:"date" binding:"required"`
	StartTime       string         `json:"start_time" binding:"required"`
	EndTime         string         `json:"end_time" binding:"required"`
	LocationAddress string         `json:"location_address"`
	LocationLat     *float64       `json:"location_lat"`
	LocationLng     *float64       `json:"location_lng"`
	WorkersNeeded   int            `json:"workers_needed"`
	HourlyRate      int            `json:"hourly_rate"`
	Metadata        datatypes.JSON `json:"metadata"`
}

// POST /api/shifts
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	var req createShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	shift, err := h.svc.CreateShift(c.Request.Context(), services.CreateShiftInput{
		ClientID:        clientID,
		Title:           req.Title,
		Status:          req.Status,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		LocationAddress: req.LocationAddress,
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		WorkersNeeded:   req.WorkersNeeded,
		HourlyRate:      req.HourlyRate,
		Metadata:        req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"shift": shift})
}

// GET /api/shifts/:id
func (h *ShiftHandler) GetShift(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shift id"})
		return
	}

	shift, err := h.svc.GetShift(c.Request.Context(), shiftID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shift": shift})
}

// GET /api/clients/:id/shifts
func (h *ShiftHandler) ListClientShifts(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	shifts, err := h.svc.ListShiftsByClient(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

// GET /api/shifts/:id/transitions
func (h *ShiftHandler) GetAllowedTransitions(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shift id"})
		return
	}

	options, err := h.svc.AllowedNextStatuses(c.Request.Context(), shiftID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transitions": options})
}

type assignWorkerRequest struct {
	WorkerID string `json:"worker_id" binding:"required"`
}

// POST /api/shifts/:id/workers
func (h *ShiftHandler) AssignWorker(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shift id"})
		return
	}
	var req assignWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker id"})
		return
	}

	assignment, err := h.svc.AssignWorker(c.Request.Context(), shiftID, workerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}
