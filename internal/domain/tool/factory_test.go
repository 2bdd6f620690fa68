package tool

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/caregate/caregate/internal/domain/catalog"
	"github.com/caregate/caregate/internal/domain/schema"
)

type fakeAuth struct {
	headers map[string]string
	err     error
}

func (f *fakeAuth) Headers(ctx context.Context) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.headers, nil
}

type sentCall struct {
	method  string
	url     string
	headers map[string]string
	query   map[string]string
	body    []byte
}

type fakeTransport struct {
	calls  []sentCall
	status int
	body   []byte
	err    error
}

func (f *fakeTransport) Send(ctx context.Context, method, url string, headers, query map[string]string, body []byte) (int, []byte, error) {
	f.calls = append(f.calls, sentCall{method: method, url: url, headers: headers, query: query, body: body})
	if f.err != nil {
		return 0, nil, f.err
	}
	return f.status, f.body, nil
}

func newFactory(transport *fakeTransport, cat *catalog.Catalog) *Factory {
	if cat == nil {
		cat = catalog.NewWithEntries(nil)
	}
	auth := &fakeAuth{headers: map[string]string{"Authorization": "Bearer token"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFactory("https://care.example.com", auth, transport, cat, logger)
}

func retrieveOp() schema.Operation {
	return schema.Operation{
		ID:     "api_v1_facility_retrieve",
		Path:   "/api/v1/facility/{id}/",
		Method: "get",
		PathParams: []schema.ParamSpec{
			{Name: "id", Required: true, Type: "integer"},
		},
	}
}

func TestInvoke_PathSubstitutionAndSuccess(t *testing.T) {
	transport := &fakeTransport{status: 200, body: []byte(`{"name":"General Hospital"}`)}
	factory := newFactory(transport, nil)

	generated := factory.Build(retrieveOp())
	res := generated.Invoke(context.Background(), map[string]any{"id": float64(123)})

	if !res.Success {
		t.Fatalf("Result = %+v, want success", res)
	}
	if res.Status != 200 {
		t.Errorf("Status = %d, want 200", res.Status)
	}
	data, ok := res.Data.(map[string]any)
	if !ok || data["name"] != "General Hospital" {
		t.Errorf("Data = %v, want parsed JSON body", res.Data)
	}

	call := transport.calls[0]
	if call.url != "https://care.example.com/api/v1/facility/123/" {
		t.Errorf("url = %q, want substituted path", call.url)
	}
	if call.method != "GET" {
		t.Errorf("method = %q, want GET", call.method)
	}
	if len(call.query) != 0 {
		t.Errorf("query = %v, want empty", call.query)
	}
	if call.body != nil {
		t.Errorf("body = %q, want none", call.body)
	}
	if call.headers["Authorization"] != "Bearer token" {
		t.Errorf("headers = %v, want auth header forwarded", call.headers)
	}
}

func TestInvoke_StatusErrorEnvelope(t *testing.T) {
	transport := &fakeTransport{err: &StatusError{Status: 404, Body: `{"detail":"Not found."}`}}
	factory := newFactory(transport, nil)

	res := factory.Build(retrieveOp()).Invoke(context.Background(), map[string]any{"id": 9})

	if res.Success {
		t.Fatal("Result.Success = true on 404")
	}
	if res.Status != 404 {
		t.Errorf("Status = %d, want 404", res.Status)
	}
	if !strings.Contains(res.Error, "404") {
		t.Errorf("Error = %q, want mention of 404", res.Error)
	}
	if !strings.Contains(res.Detail, "Not found") {
		t.Errorf("Detail = %q, want response body", res.Detail)
	}
}

func TestInvoke_TransportErrorEnvelope(t *testing.T) {
	transport := &fakeTransport{err: errors.New("dial tcp: connection refused")}
	factory := newFactory(transport, nil)

	res := factory.Build(retrieveOp()).Invoke(context.Background(), map[string]any{"id": 9})

	if res.Success {
		t.Fatal("Result.Success = true on transport error")
	}
	if res.Status != 0 {
		t.Errorf("Status = %d, want unset", res.Status)
	}
	if res.Error != "request failed" {
		t.Errorf("Error = %q, want \"request failed\"", res.Error)
	}
	if !strings.Contains(res.Detail, "connection refused") {
		t.Errorf("Detail = %q, want underlying cause", res.Detail)
	}
}

func TestInvoke_AuthErrorEnvelope(t *testing.T) {
	transport := &fakeTransport{status: 200}
	factory := newFactory(transport, nil)
	factory.auth = &fakeAuth{err: errors.New("login rejected")}

	res := factory.Build(retrieveOp()).Invoke(context.Background(), nil)

	if res.Success {
		t.Fatal("Result.Success = true on auth failure")
	}
	if len(transport.calls) != 0 {
		t.Error("transport called despite auth failure")
	}
}

func TestInvoke_BodyClassification(t *testing.T) {
	transport := &fakeTransport{status: 201, body: []byte(`{"id":1}`)}
	factory := newFactory(transport, nil)

	op := schema.Operation{
		ID:     "api_v1_facility_create",
		Path:   "/api/v1/facility/",
		Method: "post",
		QueryParams: []schema.ParamSpec{
			{Name: "dry_run", Type: "boolean"},
		},
		RequestBody: &schema.RequestBody{
			Required:   true,
			Properties: []schema.ParamSpec{{Name: "name", Required: true, Type: "string"}},
		},
	}

	res := factory.Build(op).Invoke(context.Background(), map[string]any{
		"dry_run": true,
		"name":    "Clinic",
		"extra":   "undeclared but forwarded",
	})
	if !res.Success {
		t.Fatalf("Result = %+v, want success", res)
	}

	call := transport.calls[0]
	if call.query["dry_run"] != "true" {
		t.Errorf("query = %v, want dry_run=true", call.query)
	}
	if !strings.Contains(string(call.body), `"name":"Clinic"`) {
		t.Errorf("body = %s, want declared property", call.body)
	}
	// Unknown keys still ride along in the body set.
	if !strings.Contains(string(call.body), `"extra"`) {
		t.Errorf("body = %s, want undeclared argument forwarded", call.body)
	}
}

func TestInvoke_EmptyBodyOmitted(t *testing.T) {
	transport := &fakeTransport{status: 200, body: []byte(`{}`)}
	factory := newFactory(transport, nil)

	op := schema.Operation{
		ID:          "api_v1_facility_create",
		Path:        "/api/v1/facility/",
		Method:      "post",
		RequestBody: &schema.RequestBody{},
	}

	factory.Build(op).Invoke(context.Background(), nil)

	if transport.calls[0].body != nil {
		t.Errorf("body = %q, want omitted entirely for empty body set", transport.calls[0].body)
	}
}

func TestInvoke_NonJSONResponseFallsBackToText(t *testing.T) {
	transport := &fakeTransport{status: 200, body: []byte("plain text response")}
	factory := newFactory(transport, nil)

	res := factory.Build(retrieveOp()).Invoke(context.Background(), map[string]any{"id": 1})
	if res.Data != "plain text response" {
		t.Errorf("Data = %v, want raw text fallback", res.Data)
	}
}

func TestBuild_DescriptionPreference(t *testing.T) {
	cat := catalog.NewWithEntries(map[string]catalog.Enhancement{
		"api_v1_facility_create": {
			OperationID: "api_v1_facility_create",
			Title:       "Create Healthcare Facility",
			Description: "Creates a facility.",
		},
	})
	factory := newFactory(&fakeTransport{}, cat)

	tests := []struct {
		name string
		op   schema.Operation
		want string
	}{
		{
			"catalog entry wins",
			schema.Operation{ID: "api_v1_facility_create", Summary: "schema summary"},
			"Create Healthcare Facility\n\nCreates a facility.",
		},
		{
			"summary fallback",
			schema.Operation{ID: "api_v1_bed_list", Summary: "List beds"},
			"List beds",
		},
		{
			"description fallback",
			schema.Operation{ID: "api_v1_bed_list", Description: "Lists all beds."},
			"Lists all beds.",
		},
		{
			"generic fallback",
			schema.Operation{ID: "api_v1_bed_list"},
			"Execute api_v1_bed_list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := factory.Build(tt.op)
			if got.Description != tt.want {
				t.Errorf("Description = %q, want %q", got.Description, tt.want)
			}
			if got.Name != tt.op.ID {
				t.Errorf("Name = %q, want operation id", got.Name)
			}
		})
	}
}

func TestSubstitutePath_Coercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"integral float", float64(123), "/api/v1/facility/123/"},
		{"string", "ext-9", "/api/v1/facility/ext-9/"},
		{"bool", true, "/api/v1/facility/true/"},
		{"fractional float", 1.5, "/api/v1/facility/1.5/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := substitutePath("/api/v1/facility/{id}/", map[string]any{"id": tt.value})
			if got != tt.want {
				t.Errorf("substitutePath = %q, want %q", got, tt.want)
			}
		})
	}
}
