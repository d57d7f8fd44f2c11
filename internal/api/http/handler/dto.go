package handler

import (
	"time"

	"github.com/dtroode/pushlogin/internal/model"
)

type startLoginRequest struct {
	Identifier string `json:"identifier"`
}

type redirectResponse struct {
	Route   model.Route `json:"route"`
	DelayMS int64       `json:"delay_ms"`
}

type sessionResponse struct {
	SessionID  string               `json:"session_id"`
	Identifier string               `json:"identifier"`
	Status     model.SessionStatus  `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	DeadlineAt time.Time            `json:"deadline_at"`
	Device     *model.DeviceContext `json:"device,omitempty"`
	Redirect   *redirectResponse    `json:"redirect,omitempty"`
	Reason     string               `json:"reason,omitempty"`
}

type decisionResponse struct {
	Admitted bool        `json:"admitted"`
	Redirect model.Route `json:"redirect,omitempty"`
}

type profileResponse struct {
	User      model.User `json:"user"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type errorResponse struct {
	Error    string      `json:"error"`
	Redirect model.Route `json:"redirect,omitempty"`
}

func toSessionResponse(session model.LoginSession) sessionResponse {
	return sessionResponse{
		SessionID:  session.ID,
		Identifier: session.Identifier,
		Status:     session.Status,
		CreatedAt:  session.CreatedAt,
		DeadlineAt: session.DeadlineAt,
		Device:     session.Device,
	}
}

func toResultResponse(res model.LoginResult) sessionResponse {
	resp := toSessionResponse(res.Session)
	if res.Redirect.Route != "" {
		resp.Redirect = &redirectResponse{
			Route:   res.Redirect.Route,
			DelayMS: res.Redirect.Delay.Milliseconds(),
		}
	}
	resp.Reason = res.Reason
	return resp
}

func toDecisionResponse(d model.Decision) decisionResponse {
	return decisionResponse{Admitted: d.Admitted, Redirect: d.Route}
}

func toProfileResponse(c model.Credential) profileResponse {
	resp := profileResponse{User: c.User, IssuedAt: c.IssuedAt}
	if !c.ExpiresAt.IsZero() {
		exp := c.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return resp
}
