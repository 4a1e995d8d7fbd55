package service

import "errors"

// Share pipeline error taxonomy. Wrapped with fmt.Errorf("%w: ...") so
// callers branch with errors.Is.
var (
	// ErrImageDecode means a design's image reference could not be decoded.
	ErrImageDecode = errors.New("image decode failed")

	// ErrEncode means the composited surface could not be encoded.
	ErrEncode = errors.New("image encode failed")

	// ErrShareCancelled means the user dismissed a native share prompt.
	// A terminal normal outcome, not a failure.
	ErrShareCancelled = errors.New("share cancelled")

	// ErrShareUnavailable means a delivery capability is absent; the
	// negotiator falls through to the next channel.
	ErrShareUnavailable = errors.New("share unavailable")

	// ErrPersistence means a local file save failed.
	ErrPersistence = errors.New("file save failed")

	// ErrNoGroupMembers rejects a group broadcast before any artifact is
	// generated when no member has a usable phone number.
	ErrNoGroupMembers = errors.New("select a group with members")
)
