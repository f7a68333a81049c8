package transform

import "unicode/utf8"

// Extraction failure reasons reported to the user.
const (
	ReasonNoHTMLContent  = "no html content"
	ReasonMarkerNotFound = "html content marker not found"
	ReasonTooShort       = "html content too short"
)

// ExtractionError reports a page whose HTML body could not be isolated.
type ExtractionError struct{ Reason string }

func (e *ExtractionError) Error() string { return e.Reason }

// SynthesisError wraps a failure while assembling the canonical source.
type SynthesisError struct{ Err error }

func (e *SynthesisError) Error() string { return truncateReason(e.Err.Error()) }
func (e *SynthesisError) Unwrap() error { return e.Err }

const maxReasonLen = 80

func truncateReason(s string) string {
	if utf8.RuneCountInString(s) <= maxReasonLen {
		return s
	}
	return string([]rune(s)[:maxReasonLen])
}
