package internal

import (
	"errors"
	"fmt"
)

// ErrUsage is returned when the command line is missing the video ID.
var ErrUsage = errors.New("usage: ytranscript <video_id> [language_code]")

// DescribeFailure returns the diagnostic line for a failed resolution.
func DescribeFailure(videoID string, err error) string {
	switch {
	case errors.Is(err, ErrEmptyTranscript):
		return fmt.Sprintf("Empty transcript for video ID %s: %v", videoID, err)
	case errors.Is(err, ErrNoTranscriptFound),
		errors.Is(err, ErrNoTranscriptsAvailable),
		errors.Is(err, ErrTranscriptsDisabled),
		errors.Is(err, ErrVideoUnavailable):
		return fmt.Sprintf("Could not retrieve a transcript for video ID %s. Reason: %v", videoID, err)
	default:
		return fmt.Sprintf("An unexpected error occurred for video ID %s: %v (%#v)", videoID, err, err)
	}
}

// FailureError carries a resolution error together with its diagnostic line.
type FailureError struct {
	VideoID string
	Err     error
}

func (e *FailureError) Error() string {
	return DescribeFailure(e.VideoID, e.Err)
}

func (e *FailureError) Unwrap() error {
	return e.Err
}
