package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestWithMessage(t *testing.T) {
	got := ErrRateLimited.WithMessage("Too many requests, slow down.")

	if got.Message != "Too many requests, slow down." {
		t.Errorf("Message = %q", got.Message)
	}
	if got.Kind != ErrRateLimited.Kind || got.StatusCode != http.StatusTooManyRequests {
		t.Errorf("kind/status not carried over: %v %d", got.Kind, got.StatusCode)
	}
	if got == ErrRateLimited {
		t.Error("WithMessage() returned the sentinel itself")
	}
	if ErrRateLimited.Message == "Too many requests, slow down." {
		t.Error("sentinel message mutated")
	}
}

func TestIsKind(t *testing.T) {
	if !IsKind(NewAuthError("nope"), KindAuth) {
		t.Error("IsKind() = false for matching kind")
	}
	if IsKind(NewAuthError("nope"), KindConflict) {
		t.Error("IsKind() = true for wrong kind")
	}
	if IsKind(fmt.Errorf("plain"), KindAuth) {
		t.Error("IsKind() = true for non-WebError")
	}
}

func TestAsWebError(t *testing.T) {
	if got := AsWebError(ErrNotFound); got != ErrNotFound {
		t.Errorf("AsWebError() = %v, want the sentinel", got)
	}
	if got := AsWebError(fmt.Errorf("plain")); got != ErrInternal {
		t.Errorf("AsWebError() = %v, want ErrInternal", got)
	}
}
