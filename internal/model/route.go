package model

import "time"

// Route is the next screen a client should navigate to.
type Route string

const (
	RouteDashboard    Route = "dashboard"
	RouteVerification Route = "verification"
	RouteLogin        Route = "login"
)

// Redirect is a route together with how long the client should display
// the outcome before navigating.
type Redirect struct {
	Route Route
	Delay time.Duration
}

// Decision is the result of admitting a caller to a protected capability.
type Decision struct {
	Admitted bool
	Route    Route
}

// Admit returns an admitting decision.
func Admit() Decision {
	return Decision{Admitted: true}
}

// RedirectTo returns a decision sending the caller to route.
func RedirectTo(route Route) Decision {
	return Decision{Route: route}
}
