//go:build small_tests || all_tests

package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"gotest.tools/assert"
)

func TestStorageFetchErrorNotFound(t *testing.T) {
	newErr := func(err error) *StorageFetchError {
		return &StorageFetchError{Bucket: "b", Key: "k", Err: err}
	}

	assert.Check(t, newErr(&smithy.GenericAPIError{Code: "NoSuchKey"}).NotFound())
	assert.Check(t, newErr(&smithy.GenericAPIError{Code: "NotFound"}).NotFound())
	assert.Check(t, !newErr(&smithy.GenericAPIError{Code: "AccessDenied"}).NotFound())
	assert.Check(t, !newErr(errors.New("connection reset")).NotFound())
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("cause")

	assert.Check(t, errors.Is(&StorageFetchError{Err: cause}, cause))
	assert.Check(t, errors.Is(&MessageParseError{Err: cause}, cause))
	assert.Check(t, errors.Is(newRelayError(cause), cause))
}

func TestErrorStage(t *testing.T) {
	cause := errors.New("cause")

	assert.Equal(t, errorStage(&MalformedEventError{Reason: "x"}), "event")
	assert.Equal(t, errorStage(&StorageFetchError{Err: cause}), "fetch")
	assert.Equal(t, errorStage(&MessageParseError{Err: cause}), "transform")
	assert.Equal(t, errorStage(newRelayError(cause)), "relay")
	assert.Equal(
		t,
		errorStage(fmt.Errorf("wrapped: %w", &MessageParseError{Err: cause})),
		"transform",
	)
	assert.Equal(t, errorStage(cause), "unknown")
}
