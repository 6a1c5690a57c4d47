package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Kind classifies completion failures so callers can decide whether a fallback is legitimate.
type Kind int

const (
	// KindNetwork covers transport failures, timeouts and every non-2xx answer.
	KindNetwork Kind = iota + 1
	// KindSchema covers answers that arrived but hold no usable JSON.
	KindSchema
	// KindInvalid covers requests rejected before they are sent. These are bugs, not outages.
	KindInvalid
	// KindCanceled means the caller gave up.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindSchema:
		return "schema"
	case KindInvalid:
		return "invalid"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is returned by every completion call
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm %s (%s, status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("llm %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or 0 when err did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsRecoverable reports whether a deterministic fallback may replace the failed answer.
// Only network and schema failures qualify.
func IsRecoverable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindSchema:
		return true
	}
	return false
}

// NewSchemaError wraps a decoding failure of op's answer.
func NewSchemaError(op string, err error) error {
	return &Error{Kind: KindSchema, Op: op, Err: err}
}

// NewInvalidError reports a request that should never have been built.
func NewInvalidError(op string, err error) error {
	return &Error{Kind: KindInvalid, Op: op, Err: err}
}

func classify(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	var already *Error
	if errors.As(err, &already) {
		return err
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return &Error{Kind: KindNetwork, Op: op, Err: err}
		}
		return &Error{Kind: KindCanceled, Op: op, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCanceled, Op: op, Err: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(op, apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusError(op, reqErr.HTTPStatusCode, err)
	}

	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

// statusError keeps the upstream status for logs. A rejected key or an unknown model
// is a provider outage from the page's point of view, so every status is KindNetwork.
func statusError(op string, status int, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, StatusCode: status, Err: err}
}
