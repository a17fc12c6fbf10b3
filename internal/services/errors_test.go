package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrExternalTool, "llm", "classify", "chat completion failed", cause)

	if !errors.Is(err, ErrExternalTool) {
		t.Fatal("expected marker to be preserved")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be preserved")
	}
	if want := "llm: classify: chat completion failed"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected %q in %q", want, err.Error())
	}
}

func TestWrapDefaults(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatal("expected transient marker when none supplied")
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), ""},
		{"not found", Wrap(ErrNotFound, "moviedata", "load", "", nil), "dataset fetch"},
		{"external", Wrap(ErrExternalTool, "llm", "", "", nil), "llm check"},
		{"config", Wrap(ErrConfiguration, "", "", "bad", nil), "config validate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hint(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Fatalf("expected no hint, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Fatalf("hint %q does not mention %q", got, tt.want)
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id")
	}
	if WithRunID(ctx, "") != ctx {
		t.Fatal("expected empty run id to leave context untouched")
	}
	ctx = WithRunID(ctx, "run-1")
	ctx = WithMovieID(ctx, 975900)

	if id, ok := RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("run id = %q (%v)", id, ok)
	}
	if id, ok := MovieIDFromContext(ctx); !ok || id != 975900 {
		t.Fatalf("movie id = %d (%v)", id, ok)
	}
}
