package common

import "time"

const (
	// MaxRequestBody limits JSON request bodies for menu/selection endpoints.
	MaxRequestBody = 1 << 20
	// RequestTimeout bounds each handler's use-case call.
	RequestTimeout = 5 * time.Second
	// RoleAdmin is the role claim required for /admin routes.
	RoleAdmin = "admin"
)
