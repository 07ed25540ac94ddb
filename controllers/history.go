package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rakib5627/mixer-machine-server/apperrors"
	"github.com/Rakib5627/mixer-machine-server/models"
)

// POST /api/machine01/history
func (ctl *Controller) CreateHistory(c *gin.Context) {
	var req models.HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ValidationError("Invalid history data").WithField("reason", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		apperrors.Respond(c, apperrors.ValidationError("Invalid history data").WithField("reason", err.Error()))
		return
	}

	record := req.Record()
	id, err := ctl.stores.History.Record(c.Request.Context(), &record)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "History saved", "id": id})
}

// GET /api/machine01/history
func (ctl *Controller) GetHistory(c *gin.Context) {
	records, err := ctl.stores.History.List(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
