package apperrors

import (
	"context"
	"encoding/json"
)

// ActionError - failure payload of an action result. Issues are only set
// for validation failures.
type ActionError struct {
	Kind       Kind           `json:"kind"`
	Message    string         `json:"message"`
	Field      string         `json:"field,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Issues     []Issue        `json:"issues,omitempty"`
	StatusCode int            `json:"-"`
}

func (e *ActionError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// ActionResult - tagged result for call boundaries that never fail by
// returning an error. Exactly one of data / error is populated.
type ActionResult[T any] struct {
	ok   bool
	data T
	err  *ActionError
}

// Ok wraps a successful value.
func Ok[T any](data T) ActionResult[T] {
	return ActionResult[T]{ok: true, data: data}
}

// Failed wraps a failure payload.
func Failed[T any](e *ActionError) ActionResult[T] {
	return ActionResult[T]{err: e}
}

func (r ActionResult[T]) IsOK() bool {
	return r.ok
}

// Unwrap returns (data, nil) on success and (zero, error) on failure.
func (r ActionResult[T]) Unwrap() (T, *ActionError) {
	if r.ok {
		return r.data, nil
	}
	var zero T
	return zero, r.err
}

func (r ActionResult[T]) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(struct {
			OK   bool `json:"ok"`
			Data T    `json:"data"`
		}{OK: true, Data: r.data})
	}
	return json.Marshal(struct {
		OK    bool         `json:"ok"`
		Error *ActionError `json:"error"`
	}{OK: false, Error: r.err})
}

func (r *ActionResult[T]) UnmarshalJSON(b []byte) error {
	var raw struct {
		OK    bool            `json:"ok"`
		Data  json.RawMessage `json:"data"`
		Error *ActionError    `json:"error"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = ActionResult[T]{ok: raw.OK, err: raw.Error}
	if raw.OK && len(raw.Data) > 0 {
		return json.Unmarshal(raw.Data, &r.data)
	}
	return nil
}

// ActionFailure converts err into the failure payload used by actions.
func (c *Converter) ActionFailure(ctx context.Context, err error) *ActionError {
	appErr := c.Normalize(ctx, err)
	if appErr == nil {
		appErr = InternalFrom(nil)
	}

	ae := &ActionError{
		Kind:       appErr.Kind,
		Message:    appErr.Message,
		Field:      appErr.Field,
		StatusCode: appErr.StatusCode,
	}

	md := c.external(appErr).Metadata
	if appErr.Kind == KindValidation {
		if issues, ok := md[MetadataIssues].([]Issue); ok {
			ae.Issues = issues
			delete(md, MetadataIssues)
		}
	}
	if len(md) > 0 {
		ae.Metadata = md
	}
	return ae
}

// HandleAction is the action-side entry point: callers return
// HandleAction[T](ctx, conv, err) from their error branch and Ok(data)
// from the success branch.
func HandleAction[T any](ctx context.Context, c *Converter, err error) ActionResult[T] {
	return Failed[T](c.ActionFailure(ctx, err))
}
