package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/smenalab/smena-backend/internal/apierr"
)

func respondError(c *gin.Context, err error) {
	ae := apierr.From(err)
	payload := gin.H{"error": ae.Code, "message": ae.Error()}
	if len(ae.Details) > 0 {
		payload["details"] = ae.Details
	}
	c.JSON(ae.Status, payload)
}
