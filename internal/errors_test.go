package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeFailure(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		prefix string
	}{
		{"empty", fmt.Errorf("%w: vid", ErrEmptyTranscript), "Empty transcript for video ID vid"},
		{"none available", fmt.Errorf("%w: vid", ErrNoTranscriptsAvailable), "Could not retrieve a transcript for video ID vid. Reason:"},
		{"not found", ErrNoTranscriptFound, "Could not retrieve a transcript for video ID vid. Reason:"},
		{"disabled", fmt.Errorf("listing: %w", ErrTranscriptsDisabled), "Could not retrieve a transcript for video ID vid. Reason:"},
		{"unavailable", ErrVideoUnavailable, "Could not retrieve a transcript for video ID vid. Reason:"},
		{"unexpected", errors.New("socket closed"), "An unexpected error occurred for video ID vid: socket closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := DescribeFailure("vid", tt.err)
			assert.True(t, strings.HasPrefix(msg, tt.prefix), msg)
		})
	}
}

func TestFailureError(t *testing.T) {
	err := error(&FailureError{VideoID: "vid", Err: fmt.Errorf("%w: vid", ErrNoTranscriptsAvailable)})

	assert.ErrorIs(t, err, ErrNoTranscriptsAvailable)
	assert.Equal(t, DescribeFailure("vid", errors.Unwrap(err)), err.Error())

	var failure *FailureError
	assert.ErrorAs(t, err, &failure)
	assert.Equal(t, "vid", failure.VideoID)
}
