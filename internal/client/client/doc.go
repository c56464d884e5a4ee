// Package client is the API gateway of qacurator: the single facility every
// service uses to talk to the curation server.
//
// # Overview
//
// HTTPClient sends JSON (or urlencoded form) requests relative to the server
// base URL. Before each request it reads the bearer token from the session's
// durable storage and, when one is present, sends it in the Authorization
// header. A request without a token goes out unauthenticated unless it is
// marked RequireToken, in which case it fails with ErrNoCredential.
//
// # Error Handling
//
// Every failure is an *APIError. Its Message is the server's detail when one
// was sent, otherwise a generic fallback. Callers match the condition with
// errors.Is against ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict,
// ErrValidation, ErrBadRequest, ErrServer, ErrUnavailable and ErrNoCredential.
//
// A 401 response purges the session (once per response) and is still
// returned to the caller as an error.
//
// All methods are safe for concurrent use and honor context cancellation.
package client
