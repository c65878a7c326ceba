package editor

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a terminal failure class. Codes are machine-readable;
// user-facing phrasing is rendered per locale at the HTTP boundary.
type ErrorCode string

const (
	// CodeMissingCredential means no API key was supplied; nothing was sent upstream.
	CodeMissingCredential ErrorCode = "missing_credential"
	// CodeDecodeFailed means the source image could not be converted to the wire payload.
	CodeDecodeFailed ErrorCode = "decode_failed"
	// CodeRequestBlocked means the upstream model refused to process the prompt at all.
	CodeRequestBlocked ErrorCode = "request_blocked"
	// CodeGenerationStopped means generation began but ended abnormally, commonly safety filtering.
	CodeGenerationStopped ErrorCode = "generation_stopped"
	// CodeNoImage means generation completed without producing an image, typically a textual refusal.
	CodeNoImage ErrorCode = "no_image"
)

// Error is the terminal failure of one edit operation. Reason carries the
// upstream block or finish reason code; Detail carries any upstream text
// (block message or the model's refusal explanation).
type Error struct {
	Code   ErrorCode
	Kind   Kind
	Reason string
	Detail string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Code)
	if e.Reason != "" {
		msg += fmt.Sprintf(" (reason: %s)", e.Reason)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IsCode reports whether err is an editor Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
