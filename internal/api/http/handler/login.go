package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pushlogin/internal/api/http/middleware"
	"github.com/dtroode/pushlogin/internal/logger"
	"github.com/dtroode/pushlogin/internal/model"
)

// LoginService drives login sessions for the API.
type LoginService interface {
	Start(ctx context.Context, identifier string) (model.LoginSession, error)
	Get(id string) (model.LoginResult, error)
	Wait(ctx context.Context, id string) (model.LoginResult, error)
	Cancel(id string) error
	Logout(ctx context.Context) error
	RefreshVerification(ctx context.Context) (model.Decision, error)
}

// Gate decides access to protected capabilities.
type Gate interface {
	Authorize(ctx context.Context) (model.Credential, model.Decision)
}

type Login struct {
	service LoginService
	gate    Gate
	logger  *logger.Logger
}

func NewLogin(service LoginService, gate Gate, logger *logger.Logger) *Login {
	return &Login{
		service: service,
		gate:    gate,
		logger:  logger,
	}
}

// Start handles POST /login.
func (h *Login) Start(c *gin.Context) {
	var req startLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	session, err := h.service.Start(c.Request.Context(), req.Identifier)
	if err != nil {
		h.logger.Error("Login handler: failed to start session",
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSessionResponse(session))
}

// Get handles GET /login/:id. With wait=true it blocks until the session
// is terminal or the client goes away.
func (h *Login) Get(c *gin.Context) {
	id := c.Param("id")

	wait, _ := strconv.ParseBool(c.Query("wait"))
	if !wait {
		res, err := h.service.Get(id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, toResultResponse(res))
		return
	}

	res, err := h.service.Wait(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.Abort()
			return
		}
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResultResponse(res))
}

// Cancel handles DELETE /login/:id.
func (h *Login) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Logout handles POST /logout.
func (h *Login) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RefreshVerification handles POST /verification/refresh.
func (h *Login) RefreshVerification(c *gin.Context) {
	d, err := h.service.RefreshVerification(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDecisionResponse(d))
}

// Gate handles GET /gate.
func (h *Login) Gate(c *gin.Context) {
	_, d := h.gate.Authorize(c.Request.Context())
	c.JSON(http.StatusOK, toDecisionResponse(d))
}

// Me handles GET /me behind the gate middleware.
func (h *Login) Me(c *gin.Context) {
	cred, ok := middleware.CredentialFromContext(c)
	if !ok {
		handleError(c, model.ErrNoCredential)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(cred))
}
