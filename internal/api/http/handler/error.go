package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filevault/filevault-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps domain errors onto HTTP status codes. Credential and
// lockout failures surface the error's own message so the client sees the
// lock countdown, but never more; anything unmapped collapses to a generic
// 500 body.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, errorResponse{Error: "email already registered"})
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrAccountLocked):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrFileTypeNotAllowed),
		errors.Is(err, model.ErrFileTooLarge),
		errors.Is(err, model.ErrDecryption),
		errors.Is(err, model.ErrPathTraversal):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrDuplicateFile):
		c.JSON(http.StatusConflict, errorResponse{Error: "file already exists"})
	case errors.Is(err, model.ErrFileNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "file not found"})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
