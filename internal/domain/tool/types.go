// Package tool synthesizes callable tools from schema operations. One
// generic invoker is parameterized by the Operation value; there is no
// per-operation code generation.
package tool

import (
	"context"
	"fmt"

	"github.com/caregate/caregate/internal/domain/schema"
)

// Result is the structured envelope every tool invocation returns.
// Failures are data, never errors: an agent consuming the tool branches
// on Success instead of handling exceptions.
type Result struct {
	Success bool   `json:"success"`
	Status  int    `json:"status,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Invoker executes one tool call with named arguments.
type Invoker func(ctx context.Context, args map[string]any) Result

// GeneratedTool is one synthesized tool, ready for registration with a
// tool sink. Name is always the operation id.
type GeneratedTool struct {
	Name        string
	Description string
	Operation   schema.Operation
	Invoke      Invoker
}

// HeaderSource supplies current authorization headers. Obtaining them
// may suspend on network I/O when a token refresh is due.
type HeaderSource interface {
	Headers(ctx context.Context) (map[string]string, error)
}

// Transport dispatches one HTTP call. On a non-2xx response it returns
// a *StatusError wrapping the status and response body.
type Transport interface {
	Send(ctx context.Context, method, url string, headers, query map[string]string, body []byte) (status int, respBody []byte, err error)
}

// StatusError reports a non-2xx HTTP response. Defined here so the
// factory can translate it into a failure envelope without depending on
// any transport implementation.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Status)
}
