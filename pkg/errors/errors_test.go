package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeNetwork, cause, "load cart")

	if err.Code() != CodeNetwork {
		t.Fatalf("unexpected code %q", err.Code())
	}
	if !stdErrors.Is(err, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeServerRejected, "wrong message")
	wrapped := fmt.Errorf("checkout: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeServerRejected {
		t.Fatalf("unexpected code %q", typed.Code())
	}
}

func TestHasCode(t *testing.T) {
	err := New(CodeAuthMissing, "no credential")
	if !HasCode(err, CodeAuthMissing) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, CodeNetwork) {
		t.Fatal("unexpected match on different code")
	}
	if HasCode(stdErrors.New("plain"), CodeNetwork) {
		t.Fatal("plain errors carry no code")
	}
}

func TestCodeForStatus(t *testing.T) {
	cases := map[int]Code{
		http.StatusUnauthorized:        CodeUnauthorized,
		http.StatusNotFound:            CodeNotFound,
		http.StatusConflict:            CodeConflict,
		http.StatusBadRequest:          CodeServerRejected,
		http.StatusUnprocessableEntity: CodeServerRejected,
		http.StatusInternalServerError: CodeDependency,
		http.StatusBadGateway:          CodeDependency,
	}
	for status, want := range cases {
		if got := CodeForStatus(status); got != want {
			t.Fatalf("status %d: got %q want %q", status, got, want)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
}
