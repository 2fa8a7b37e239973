// Package services contains the application services of the EduLibrary
// terminal client: the session gate, the settings store and the action
// dispatchers (upload, file actions, admin actions, support, invites).
//
// Each dispatcher issues its network requests through client.Client and, on
// success, reloads the store that depends on the mutation. Local
// precondition failures are reported as ErrInvalidInput or ErrCancelled
// before any request is sent. No dispatcher retries.
package services
