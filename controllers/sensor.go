package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rakib5627/mixer-machine-server/apperrors"
	"github.com/Rakib5627/mixer-machine-server/metrics"
	"github.com/Rakib5627/mixer-machine-server/models"
	"github.com/Rakib5627/mixer-machine-server/utils"
)

// ReceiveData stores a reading posted by the device.
// POST /api/data
func (ctl *Controller) ReceiveData(c *gin.Context) {
	var req models.SensorDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ValidationError("Invalid sensor data").WithField("reason", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		apperrors.Respond(c, apperrors.ValidationError("Invalid sensor data").WithField("reason", err.Error()))
		return
	}

	reading, err := ctl.stores.Sensors.Ingest(c.Request.Context(), req.Payload())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	metrics.SensorReadingsTotal.Inc()

	if abnormal := utils.GetAbnormalType(reading.SensorPayload); abnormal != "" {
		metrics.SensorAbnormalReadingsTotal.WithLabelValues(abnormal).Inc()
		ctl.logger.Warn("Abnormal sensor reading",
			"sensor", abnormal,
			"temperature", reading.Temperature,
			"humidity", reading.Humidity,
			"current", reading.Current,
			"request_id", c.GetString("request_id"),
		)
	}

	ctl.notifySensor(reading)

	c.JSON(http.StatusOK, gin.H{
		"message": "Sensor data stored successfully",
		"data":    reading.SensorPayload,
	})
}

// GetLatestData returns the last accepted reading.
// GET /api/data
func (ctl *Controller) GetLatestData(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.stores.Sensors.Latest())
}
