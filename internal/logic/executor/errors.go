package executor

import (
	"errors"
	"fmt"
)

var (
	ErrExecFailed       = errors.New("exec failed")
	ErrPortUnavailable  = errors.New("unable to attach to port")
	ErrRequestTimeout   = errors.New("request timeout")
	ErrRequestFailed    = errors.New("http request failed")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrUndecodableBody  = errors.New("response body is not valid utf-8")
	ErrUnknownRecipe    = errors.New("unknown recipe kind")
)

// UnexpectedStatusError carries the status code and body of a non-200 response.
type UnexpectedStatusError struct {
	Code int
	Body string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Body)
}

func (e *UnexpectedStatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}
