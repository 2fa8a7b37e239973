package devserver

import (
	"fmt"
	"net/http"
)

// Error is a rule violation reported to the API caller with the given
// status and message.
type Error struct {
	Status int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Msg)
}

func fail(status int, msg string) error {
	return &Error{Status: status, Msg: msg}
}

var (
	errAuthRequired  = fail(http.StatusUnauthorized, "Authentication required")
	errAdminRequired = fail(http.StatusForbidden, "Admin access required")
	errFileNotFound  = fail(http.StatusNotFound, "File not found")
	errUserNotFound  = fail(http.StatusNotFound, "User not found")
	errTicketMissing = fail(http.StatusNotFound, "Ticket not found")
)
