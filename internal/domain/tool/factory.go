package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caregate/caregate/internal/domain/catalog"
	"github.com/caregate/caregate/internal/domain/schema"
)

// detailLimit caps the response body carried in a failure envelope.
const detailLimit = 500

// Factory builds one generic invoker per allowed operation. All built
// invokers share the same auth and transport capabilities; invocations
// are stateless and safe to run concurrently.
type Factory struct {
	baseURL   string
	auth      HeaderSource
	transport Transport
	catalog   *catalog.Catalog
	logger    *slog.Logger
}

// NewFactory creates a Factory. baseURL is prefixed onto every
// operation path; a trailing slash is trimmed so templates starting
// with "/" join cleanly.
func NewFactory(baseURL string, auth HeaderSource, transport Transport, cat *catalog.Catalog, logger *slog.Logger) *Factory {
	return &Factory{
		baseURL:   strings.TrimRight(baseURL, "/"),
		auth:      auth,
		transport: transport,
		catalog:   cat,
		logger:    logger,
	}
}

// Build synthesizes the tool for one operation. The operation value is
// captured; the schema document is no longer needed at call time.
func (f *Factory) Build(op schema.Operation) GeneratedTool {
	return GeneratedTool{
		Name:        op.ID,
		Description: f.describe(op),
		Operation:   op,
		Invoke: func(ctx context.Context, args map[string]any) Result {
			return f.invoke(ctx, op, args)
		},
	}
}

// describe prefers the catalog entry, then the schema summary, then the
// schema description, then a generic fallback.
func (f *Factory) describe(op schema.Operation) string {
	if e, ok := f.catalog.Get(op.ID); ok {
		if e.Description != "" {
			return strings.TrimSpace(e.Title + "\n\n" + e.Description)
		}
		if e.Title != "" {
			return e.Title
		}
	}
	if op.Summary != "" {
		return op.Summary
	}
	if op.Description != "" {
		return op.Description
	}
	return fmt.Sprintf("Execute %s", op.ID)
}

// invoke is the single generic dispatcher behind every generated tool.
func (f *Factory) invoke(ctx context.Context, op schema.Operation, args map[string]any) Result {
	pathArgs, queryArgs, bodyArgs := classify(op, args)

	url := f.baseURL + substitutePath(op.Path, pathArgs)

	headers, err := f.auth.Headers(ctx)
	if err != nil {
		return Result{Success: false, Error: "authentication failed", Detail: err.Error()}
	}

	var body []byte
	// An empty body set means no body at all, not an empty JSON object.
	if op.HasBody() && len(bodyArgs) > 0 {
		body, err = json.Marshal(bodyArgs)
		if err != nil {
			return Result{Success: false, Error: "request encoding failed", Detail: err.Error()}
		}
	}

	f.logger.Debug("invoking operation",
		"operation", op.ID,
		"method", strings.ToUpper(op.Method),
		"url", url)

	status, respBody, err := f.transport.Send(ctx, strings.ToUpper(op.Method), url, headers, queryArgs, body)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return Result{
				Success: false,
				Status:  statusErr.Status,
				Error:   statusErr.Error(),
				Detail:  truncate(statusErr.Body, detailLimit),
			}
		}
		return Result{Success: false, Error: "request failed", Detail: err.Error()}
	}

	return Result{Success: true, Status: status, Data: decodeBody(respBody)}
}

// classify splits call-time arguments into path, query, and body sets.
// Declared path and query parameter names claim their arguments; when
// the operation declares a request body, everything left over falls to
// the body set, including names the schema never declared. The
// whitelist and the remote schema are the safety boundary, not argument
// validation.
func classify(op schema.Operation, args map[string]any) (pathArgs map[string]any, queryArgs map[string]string, bodyArgs map[string]any) {
	pathArgs = make(map[string]any)
	queryArgs = make(map[string]string)
	bodyArgs = make(map[string]any)

	pathNames := make(map[string]bool, len(op.PathParams))
	for _, p := range op.PathParams {
		pathNames[p.Name] = true
	}
	queryNames := make(map[string]bool, len(op.QueryParams))
	for _, p := range op.QueryParams {
		queryNames[p.Name] = true
	}

	for name, value := range args {
		switch {
		case pathNames[name]:
			pathArgs[name] = value
		case queryNames[name]:
			queryArgs[name] = coerce(value)
		case op.RequestBody != nil:
			bodyArgs[name] = value
		}
	}
	return pathArgs, queryArgs, bodyArgs
}

// substitutePath replaces every {name} placeholder with the
// string-coerced path argument.
func substitutePath(template string, pathArgs map[string]any) string {
	result := template
	for name, value := range pathArgs {
		result = strings.ReplaceAll(result, "{"+name+"}", coerce(value))
	}
	return result
}

// coerce renders an argument value for use in a URL. JSON numbers
// decode as float64; integral values must not pick up a ".0".
func coerce(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// decodeBody parses the response as JSON, falling back to the raw text
// when the body is not valid JSON.
func decodeBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return string(body)
	}
	return data
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
