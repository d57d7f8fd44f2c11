package service

import (
	"time"

	"github.com/dtroode/pushlogin/internal/model"
)

// Decide maps a terminal session status and the stored verification status
// to the next route. It has no side effects.
func Decide(status model.SessionStatus, verification model.VerificationStatus) model.Route {
	if status != model.SessionApproved {
		return model.RouteLogin
	}
	if model.ParseVerificationStatus(string(verification)) == model.VerificationApproved {
		return model.RouteDashboard
	}
	return model.RouteVerification
}

// RedirectFor is Decide plus the display delay shown before leaving a
// non-approved outcome.
func RedirectFor(status model.SessionStatus, verification model.VerificationStatus, displayDelay time.Duration) model.Redirect {
	r := model.Redirect{Route: Decide(status, verification)}
	if status != model.SessionApproved {
		r.Delay = displayDelay
	}
	return r
}
