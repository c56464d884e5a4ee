// Package common contains small helpers and constants shared by qacurator packages.
package common

const (
	// AuthorizationHeader carries the bearer credential on outbound requests.
	AuthorizationHeader = "Authorization"
	// BearerPrefix precedes the token in AuthorizationHeader.
	BearerPrefix = "Bearer "
	// RequestIDHeader correlates a request with client-side log lines.
	RequestIDHeader = "X-Request-ID"
)
