package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rakib5627/mixer-machine-server/apperrors"
	"github.com/Rakib5627/mixer-machine-server/models"
	"github.com/Rakib5627/mixer-machine-server/utils"
)

// POST /api/machine01/presets
func (ctl *Controller) CreatePreset(c *gin.Context) {
	var preset models.Preset
	if err := c.ShouldBindJSON(&preset); err != nil {
		apperrors.Respond(c, apperrors.ValidationError("Invalid preset data").WithField("reason", err.Error()))
		return
	}
	if err := preset.Validate(); err != nil {
		apperrors.Respond(c, apperrors.ValidationError("Invalid preset data").WithField("reason", err.Error()))
		return
	}

	id, err := ctl.stores.Presets.Create(c.Request.Context(), &preset)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Preset saved successfully", "id": id})
}

// GET /api/machine01/presets
func (ctl *Controller) GetPresets(c *gin.Context) {
	presets, err := ctl.stores.Presets.List(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, presets)
}

// UpdatePreset merges the body into the preset. An unknown id is reported
// as success:false rather than an error.
// PUT /api/machine01/presets/:id
func (ctl *Controller) UpdatePreset(c *gin.Context) {
	id, err := utils.ParseObjectID(c.Param("id"), "preset")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var update models.PresetUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		apperrors.Respond(c, apperrors.ValidationError("Invalid preset data").WithField("reason", err.Error()))
		return
	}
	fields := update.Fields()
	if len(fields) == 0 {
		apperrors.Respond(c, apperrors.ValidationError("No fields to update"))
		return
	}

	ok, err := ctl.stores.Presets.Update(c.Request.Context(), id, fields)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

// DELETE /api/machine01/presets/:id
func (ctl *Controller) DeletePreset(c *gin.Context) {
	id, err := utils.ParseObjectID(c.Param("id"), "preset")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	ok, err := ctl.stores.Presets.Delete(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": ok})
}
