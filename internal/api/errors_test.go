package api

import (
	"errors"
	"net/http"
	"testing"
)

func TestKindForStatus(t *testing.T) {
	cases := []struct {
		status int
		want   Kind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusServiceUnavailable, KindUnavailable},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
		{http.StatusBadRequest, KindRequest},
		{http.StatusConflict, KindRequest},
	}
	for _, tc := range cases {
		if got := kindForStatus(tc.status); got != tc.want {
			t.Errorf("kindForStatus(%d) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	for kind, want := range map[Kind]bool{
		KindUnavailable:  true,
		KindNetwork:      true,
		KindUnauthorized: false,
		KindValidation:   false,
		KindServer:       false,
	} {
		e := &Error{Kind: kind}
		if got := e.Retryable(); got != want {
			t.Errorf("Retryable(%s) = %v, want %v", kind, got, want)
		}
	}
}

func TestMessage_ValidationFallsBackToDetail(t *testing.T) {
	e := &Error{Kind: KindValidation, Detail: "validation failed"}
	if got := e.Message(); got != "validation failed" {
		t.Errorf("Message() = %q", got)
	}
}

func TestNetError_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := netError(cause)
	if !errors.Is(err, cause) {
		t.Error("netError should wrap its cause")
	}
	if !IsKind(err, KindNetwork) {
		t.Error("netError should be KindNetwork")
	}
}

func TestIsKind_NonAPIError(t *testing.T) {
	if IsKind(errors.New("plain"), KindServer) {
		t.Error("plain errors are not api errors")
	}
	if IsKind(nil, KindServer) {
		t.Error("nil is not an api error")
	}
}
