package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrCancelled    = errors.New("cancelled")
	ErrNotSignedIn  = errors.New("not signed in")
	ErrAdminOnly    = errors.New("admin access required")
	// ErrReloadFailed marks a mutation that succeeded on the server while the
	// follow-up reload of the dependent store did not.
	ErrReloadFailed = errors.New("reload failed")
)

// InputError is a local precondition failure. Msg is shown to the user.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// check runs struct validation and converts failures into an InputError.
func check(v any) error {
	validateOnce.Do(func() { validate = validator.New() })

	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is not valid", fe.Field()))
		}
	}
	return &InputError{Msg: strings.Join(msgs, ", ")}
}

// UserMessage returns the text to show for err: the server's message
// verbatim, the local precondition message, or fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg, ok := client.ServerMessage(err); ok {
		return msg
	}
	var inErr *InputError
	if errors.As(err, &inErr) {
		return inErr.Msg
	}
	switch {
	case errors.Is(err, ErrCancelled):
		return "Cancelled."
	case errors.Is(err, ErrNotSignedIn):
		return "Please log in first."
	case errors.Is(err, ErrAdminOnly):
		return "Admin access required."
	case errors.Is(err, ErrAllUploadsFailed):
		return "All uploads failed. Please try again."
	}
	return fallback
}
