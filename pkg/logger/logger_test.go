package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"request_id\"")) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
}

func TestLoggerDomainHelpers(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithAdminEmail(ctx, "admin@festival.example")
	ctx = log.WithYear(ctx, 2024)

	log.Info(ctx, "content.updated")

	if !bytes.Contains(buf.Bytes(), []byte("admin@festival.example")) {
		t.Fatalf("expected admin email in entry; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("2024")) {
		t.Fatalf("expected year in entry; entry=%s", buf.String())
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if lvl := ParseLevel(""); lvl.String() != "info" {
		t.Fatalf("expected info level, got %v", lvl)
	}
}
