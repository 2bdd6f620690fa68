package careapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caregate/caregate/internal/domain/tool"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSend_Success(t *testing.T) {
	var gotMethod, gotQuery, gotAuth, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	client := NewClient(0, discardLogger())
	status, body, err := client.Send(context.Background(),
		http.MethodPost, srv.URL+"/api/v1/facility/",
		map[string]string{"Authorization": "Bearer tok"},
		map[string]string{"dry_run": "true"},
		[]byte(`{"name":"Clinic"}`))

	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if status != http.StatusCreated {
		t.Errorf("status = %d, want 201", status)
	}
	if string(body) != `{"id":1}` {
		t.Errorf("body = %s, want response body", body)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("server saw method %q", gotMethod)
	}
	if !strings.Contains(gotQuery, "dry_run=true") {
		t.Errorf("server saw query %q, want dry_run=true", gotQuery)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("server saw Authorization %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("server saw Content-Type %q, want application/json", gotContentType)
	}
	if string(gotBody) != `{"name":"Clinic"}` {
		t.Errorf("server saw body %s", gotBody)
	}
}

func TestSend_NoBodyNoContentType(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(0, discardLogger())
	if _, _, err := client.Send(context.Background(), http.MethodGet, srv.URL, nil, nil, nil); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if gotContentType != "" {
		t.Errorf("Content-Type = %q on bodyless request, want unset", gotContentType)
	}
}

func TestSend_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
	}))
	defer srv.Close()

	client := NewClient(0, discardLogger())
	status, body, err := client.Send(context.Background(), http.MethodGet, srv.URL, nil, nil, nil)

	if err == nil {
		t.Fatal("Send returned nil error on 404")
	}
	var statusErr *tool.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *tool.StatusError", err)
	}
	if statusErr.Status != http.StatusNotFound || status != http.StatusNotFound {
		t.Errorf("status = %d/%d, want 404", statusErr.Status, status)
	}
	if !strings.Contains(statusErr.Body, "Not found") {
		t.Errorf("StatusError.Body = %q, want response body", statusErr.Body)
	}
	if !strings.Contains(string(body), "Not found") {
		t.Errorf("body = %s, want returned alongside error", body)
	}
}

func TestSend_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use

	client := NewClient(0, discardLogger())
	_, _, err := client.Send(context.Background(), http.MethodGet, srv.URL, nil, nil, nil)
	if err == nil {
		t.Fatal("Send succeeded against closed server")
	}
	var statusErr *tool.StatusError
	if errors.As(err, &statusErr) {
		t.Error("connection error should not be a StatusError")
	}
}
