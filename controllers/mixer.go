package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rakib5627/mixer-machine-server/apperrors"
	"github.com/Rakib5627/mixer-machine-server/metrics"
	"github.com/Rakib5627/mixer-machine-server/models"
)

// GET /api/mixer/control
func (ctl *Controller) GetMixerState(c *gin.Context) {
	st, err := ctl.stores.Mixer.Get(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st.State})
}

// POST /api/mixer/control
func (ctl *Controller) SetMixerState(c *gin.Context) {
	var req models.MixerStateRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidMixerState(req.State) {
		apperrors.Respond(c, apperrors.ValidationError("Invalid state").WithField("state", req.State))
		return
	}

	st, err := ctl.stores.Mixer.Set(c.Request.Context(), req.State)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	recordMixerState(st)
	ctl.logger.Info("Mixer state changed", "state", st.State, "request_id", c.GetString("request_id"))
	ctl.notifyMixer(st)

	c.JSON(http.StatusOK, gin.H{"success": true, "state": st.State})
}

// SyncMixerState loads the stored state into the mixer gauge, so a restart
// reports what the machine was last told.
func (ctl *Controller) SyncMixerState(ctx context.Context) (models.MixerState, error) {
	st, err := ctl.stores.Mixer.Get(ctx)
	if err != nil {
		return models.MixerState{}, err
	}
	recordMixerState(st)
	return st, nil
}

func recordMixerState(st models.MixerState) {
	if st.State == models.MixerOn {
		metrics.MixerRunning.Set(1)
	} else {
		metrics.MixerRunning.Set(0)
	}
}
