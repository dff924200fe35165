package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentHTTP, Output: &buf})
	logger.Info("hello", FieldMonth, 3)

	out := buf.String()
	if !strings.Contains(out, "component=http") || !strings.Contains(out, "month=3") {
		t.Fatalf("unexpected output: %q", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Fatalf("component should be logged once: %q", out)
	}

	buf.Reset()
	logger.WithComponent(ComponentSummary).LogError(context.Background(), "boom", errors.New("bad"), OpRender)
	out = buf.String()
	if !strings.Contains(out, "component=summary") || !strings.Contains(out, "error=bad") || !strings.Contains(out, "operation=render") {
		t.Fatalf("unexpected output: %q", out)
	}
	if strings.Contains(out, "component=http") {
		t.Fatalf("sub-component should replace the parent tag: %q", out)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("level filter not applied: %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected fallback logger")
	}
	l := New(DefaultConfig())
	if got := FromContext(WithContext(context.Background(), l)); got != l {
		t.Fatal("expected logger from context")
	}
}

func TestLogFieldsToSliceSorted(t *testing.T) {
	s := NewFields().WithOperation(OpList).WithComponent(ComponentApp).ToSlice()
	if len(s) != 4 || s[0] != FieldComponent || s[2] != FieldOperation {
		t.Fatalf("unexpected slice: %v", s)
	}
}
