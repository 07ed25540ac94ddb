package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rakib5627/mixer-machine-server/apperrors"
	"github.com/Rakib5627/mixer-machine-server/database"
	"github.com/Rakib5627/mixer-machine-server/models"
)

// GET /users
func (ctl *Controller) GetUsers(c *gin.Context) {
	users, err := ctl.stores.Users.List(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// POST /users
func (ctl *Controller) CreateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		apperrors.Respond(c, apperrors.ValidationError("Invalid user data").WithField("reason", err.Error()))
		return
	}
	if err := user.Validate(); err != nil {
		apperrors.Respond(c, apperrors.ValidationError("Invalid user data").WithField("reason", err.Error()))
		return
	}

	id, err := ctl.stores.Users.Create(c.Request.Context(), &user)
	if errors.Is(err, database.ErrDuplicate) {
		apperrors.Respond(c, apperrors.ConflictError("User already exists").WithField("email", user.Email))
		return
	}
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	ctl.logger.Info("User registered", "user_id", id.Hex())
	c.JSON(http.StatusCreated, gin.H{"acknowledged": true, "insertedId": id})
}
