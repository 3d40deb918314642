package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type CommandError struct {
	Payload    interface{}
	StatusCode int
	Reason     *string
}

type CommandErrorOption func(*CommandError)

func WithReason(reason string) CommandErrorOption {
	return func(e *CommandError) {
		e.Reason = &reason
	}
}

func NewCommandError(statusCode int, payload interface{}, opts ...CommandErrorOption) CommandError {
	e := CommandError{
		StatusCode: statusCode,
		Payload:    payload,
	}

	for _, opt := range opts {
		opt(&e)
	}

	return e
}

func (r CommandError) Error() string {
	var values struct {
		Payload    interface{}
		StatusCode int
		Reason     string
	}

	values.Payload = r.Payload
	values.StatusCode = r.StatusCode

	if r.Reason != nil {
		values.Reason = *r.Reason
	}

	return fmt.Sprintf("%+v", values)
}

func (r CommandError) Unwrap() error {
	if err, ok := r.Payload.(error); ok {
		return err
	}

	return nil
}

// MarshalJSON writes the payload error message instead of the error value,
// which would otherwise marshal into an empty object.
func (r CommandError) MarshalJSON() ([]byte, error) {
	body := struct {
		Status int    `json:"status"`
		Error  string `json:"error"`
		Reason string `json:"reason,omitempty"`
	}{
		Status: r.StatusCode,
	}

	switch payload := r.Payload.(type) {
	case nil:
		body.Error = http.StatusText(r.StatusCode)
	case error:
		body.Error = payload.Error()
	case string:
		body.Error = payload
	default:
		body.Error = fmt.Sprintf("%v", payload)
	}

	if r.Reason != nil {
		body.Reason = *r.Reason
	}

	return json.Marshal(body)
}

// StatusCode returns the status carried by a CommandError anywhere in the
// chain of err, or 500.
func StatusCode(err error) int {
	var commandErr CommandError
	if errors.As(err, &commandErr) && commandErr.StatusCode != 0 {
		return commandErr.StatusCode
	}

	return http.StatusInternalServerError
}
