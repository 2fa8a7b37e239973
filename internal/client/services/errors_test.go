package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"server message verbatim", fmt.Errorf("upload: %w", &client.APIError{Status: 400, Message: "Only PDF files are allowed"}), "Only PDF files are allowed"},
		{"server error without message", &client.APIError{Status: 500}, "fallback"},
		{"transport", errNetwork, "fallback"},
		{"local precondition", invalid("Please enter a response"), "Please enter a response"},
		{"cancelled", ErrCancelled, "Cancelled."},
		{"signed out", fmt.Errorf("x: %w", ErrNotSignedIn), "Please log in first."},
		{"admin only", ErrAdminOnly, "Admin access required."},
		{"unknown", errors.New("boom"), "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, "fallback"))
		})
	}
}

func TestInputError_IsInvalidInput(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", invalid("bad %s", "thing"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.EqualError(t, err, "wrapped: bad thing")
}
