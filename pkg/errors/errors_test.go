package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestErrorIncludesInternal(t *testing.T) {
	internal := stdErrors.New("boom")
	err := Wrap(internal, "failed")

	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestWithInternalCopies(t *testing.T) {
	base := New("TEST", "test", 400)
	with := base.WithInternal(stdErrors.New("oops"))

	if with == base {
		t.Fatal("expected WithInternal to return a copy")
	}

	if base.Internal != nil {
		t.Fatal("expected original error to remain unchanged")
	}

	if with.Internal == nil {
		t.Fatal("expected internal error to be set")
	}
}

func TestWithMessageCopies(t *testing.T) {
	with := ErrInvalidTransition.WithMessage("cannot advance from hired")

	if with == ErrInvalidTransition {
		t.Fatal("expected WithMessage to return a copy")
	}
	if with.Code != ErrInvalidTransition.Code {
		t.Fatalf("expected code to be preserved, got %s", with.Code)
	}
	if with.Message != "cannot advance from hired" {
		t.Fatalf("unexpected message: %s", with.Message)
	}
}

func TestFromError(t *testing.T) {
	appErr := ErrNotFound
	if out := FromError(appErr); out != appErr {
		t.Fatal("expected FromError to return the same AppError instance")
	}

	raw := stdErrors.New("raw")
	out := FromError(raw)
	if out.Code != ErrInternalServer.Code {
		t.Fatalf("expected internal server code, got %s", out.Code)
	}
	if out.Internal == nil {
		t.Fatal("expected internal error to be attached")
	}
}

func TestDomainErrorStatusCodes(t *testing.T) {
	cases := map[*AppError]int{
		ErrInvalidTransition:      http.StatusBadRequest,
		ErrAlreadyTerminal:        http.StatusConflict,
		ErrAlreadySubmitted:       http.StatusConflict,
		ErrConcurrentModification: http.StatusConflict,
		ErrPlanLimit:              http.StatusUnprocessableEntity,
		ErrUnsupportedDocument:    http.StatusBadRequest,
	}

	for err, status := range cases {
		if err.StatusCode != status {
			t.Fatalf("%s: expected status %d got %d", err.Code, status, err.StatusCode)
		}
	}
}

func TestNewBadRequest(t *testing.T) {
	err := NewBadRequest("invalid payload")
	if err.Code != ErrBadRequest.Code {
		t.Fatalf("expected %s, got %s", ErrBadRequest.Code, err.Code)
	}
	if err.Message != "invalid payload" {
		t.Fatalf("unexpected message: %s", err.Message)
	}
}
