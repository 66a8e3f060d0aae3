package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerWritesZapEntry(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := middleware.RequestID(requestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/api/ping" || fields["method"] != "GET" {
		t.Fatalf("unexpected request fields %v", fields)
	}
	if fields["status"] != int64(http.StatusTeapot) || fields["bytes"] != int64(2) {
		t.Fatalf("expected status and size recorded, got %v", fields)
	}
	if fields["request_id"] == "" {
		t.Fatalf("expected the request id to be logged")
	}
}

func TestRecovererLogsPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	handler := recoverer(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/move", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	entries := logs.FilterMessage("handler panic").All()
	if len(entries) != 1 || entries[0].ContextMap()["panic"] != "boom" {
		t.Fatalf("expected the panic to be logged, got %+v", entries)
	}
}
