package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pushlogin/internal/model"
)

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidIdentifier):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrSessionCreation):
		c.JSON(http.StatusBadGateway, errorResponse{Error: "failed to create login session"})
	case errors.Is(err, model.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "login session not found"})
	case errors.Is(err, model.ErrSessionCancelled):
		c.JSON(http.StatusGone, errorResponse{Error: "login session cancelled"})
	case errors.Is(err, model.ErrShuttingDown):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "login agent is shutting down"})
	case errors.Is(err, model.ErrCredentialReplaced):
		c.JSON(http.StatusConflict, errorResponse{Error: "credential changed during refresh, retry"})
	case errors.Is(err, model.ErrNoCredential):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "not logged in", Redirect: model.RouteLogin})
	case errors.Is(err, model.ErrRemoteRejected):
		c.JSON(http.StatusBadGateway, errorResponse{Error: "identity service rejected request"})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
