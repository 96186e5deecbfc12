package handler

import (
	"errors"

	"github.com/aws/smithy-go"
)

// MalformedEventError means the SES event didn't carry a message ID in its
// first record.
type MalformedEventError struct {
	Reason string
}

func (e *MalformedEventError) Error() string {
	return "malformed SES event: " + e.Reason
}

type StorageFetchError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *StorageFetchError) Error() string {
	return "failed to get original message s3://" + e.Bucket + "/" + e.Key +
		": " + e.Err.Error()
}

func (e *StorageFetchError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the object store had no object under Key.
func (e *StorageFetchError) NotFound() bool {
	switch apiErrorCode(e.Err) {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

type MessageParseError struct {
	Location string
	Err      error
}

func (e *MessageParseError) Error() string {
	return "failed to parse message: " + e.Err.Error()
}

func (e *MessageParseError) Unwrap() error {
	return e.Err
}

// RelayError carries the provider's error code and message for a rejected
// send.
type RelayError struct {
	Code    string
	Message string
	Err     error
}

func newRelayError(err error) *RelayError {
	relayErr := &RelayError{Message: err.Error(), Err: err}
	var apiErr smithy.APIError

	if errors.As(err, &apiErr) {
		relayErr.Code = apiErr.ErrorCode()
		if msg := apiErr.ErrorMessage(); msg != "" {
			relayErr.Message = msg
		}
	}
	return relayErr
}

func (e *RelayError) Error() string {
	if e.Code == "" {
		return "send failed: " + e.Message
	}
	return "send failed: " + e.Code + ": " + e.Message
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// errorStage names the pipeline stage that produced err, for logging.
func errorStage(err error) string {
	var (
		eventErr *MalformedEventError
		fetchErr *StorageFetchError
		parseErr *MessageParseError
		relayErr *RelayError
	)

	switch {
	case errors.As(err, &eventErr):
		return "event"
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &parseErr):
		return "transform"
	case errors.As(err, &relayErr):
		return "relay"
	}
	return "unknown"
}
