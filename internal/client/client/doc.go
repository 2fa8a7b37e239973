// Package client contains the EduLibrary API contract and its HTTP transport.
//
// # Overview
//
//  1. Client is a transport-agnostic contract covering every endpoint the
//     terminal client consumes: session probe, login/register/logout, the file
//     catalog, upload/delete/download, invitations, support tickets and the
//     admin surface.
//  2. HTTPClient implements Client over net/http. It keeps the server session
//     cookie in a cookie jar, stamps every request with an X-Request-Id, and
//     reports per-endpoint outcomes to an optional Observer.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx answers become *APIError
// carrying the server's `error` message verbatim; errors.Is matches them
// against ErrUnauthorized, ErrForbidden and ErrNotFound by status code.
// No call is retried.
package client
