package jwtverify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Deek-011/formbot/internal/auth/token"
	"github.com/Deek-011/formbot/internal/common/clock"
	commonhttp "github.com/Deek-011/formbot/internal/common/http"
	"github.com/Deek-011/formbot/internal/common/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type gateResult struct {
	status  int
	code    string
	message string
	reached bool
	id      Identity
}

func runGate(t *testing.T, v Verifier, header string, setHeader bool) gateResult {
	t.Helper()

	var res gateResult
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res.reached = true
		res.id, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/folders", nil)
	if setHeader {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	Middleware(v, logger.NewDiscard())(next).ServeHTTP(rr, req)

	res.status = rr.Code
	if rr.Code != http.StatusOK {
		var env commonhttp.ErrorEnvelope
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		res.code = env.Code
		res.message = env.Message
	}
	return res
}

func TestMiddlewareRejections(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mgr := token.NewManager(testSecret, time.Hour, clk)
	other := token.NewManager("ffffffffffffffffffffffffffffffff", time.Hour, clk)
	foreign, err := other.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name      string
		header    string
		setHeader bool
		code      string
		message   string
	}{
		{"no header", "", false, commonhttp.CodeMissingAuthorization, MsgMissingAuthorization},
		{"blank header", "   ", true, commonhttp.CodeMissingAuthorization, MsgMissingAuthorization},
		{"bearer without token", "Bearer", true, commonhttp.CodeTokenNotFound, MsgTokenNotFound},
		{"bearer with trailing space", "Bearer ", true, commonhttp.CodeTokenNotFound, MsgTokenNotFound},
		{"basic scheme", "Basic dXNlcjpwYXNz", true, commonhttp.CodeTokenNotFound, MsgTokenNotFound},
		{"garbage token", "Bearer not-a-jwt", true, commonhttp.CodeInvalidToken, MsgInvalidToken},
		{"wrong secret", "Bearer " + foreign, true, commonhttp.CodeInvalidToken, MsgInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runGate(t, mgr, tt.header, tt.setHeader)
			if res.reached {
				t.Fatal("next handler must not run")
			}
			if res.status != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", res.status)
			}
			if res.code != tt.code {
				t.Errorf("code = %q, want %q", res.code, tt.code)
			}
			if res.message != tt.message {
				t.Errorf("message = %q, want %q", res.message, tt.message)
			}
		})
	}
}

func TestMiddlewareExpiredToken(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mgr := token.NewManager(testSecret, time.Hour, clk)
	tok, err := mgr.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	clk.Advance(2 * time.Hour)

	res := runGate(t, mgr, "Bearer "+tok, true)
	if res.reached || res.status != http.StatusUnauthorized || res.message != MsgInvalidToken {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(issued)
	mgr := token.NewManager(testSecret, time.Hour, clk)
	tok, err := mgr.Issue("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, header := range []string{"Bearer " + tok, "bearer " + tok, "Bearer   " + tok} {
		res := runGate(t, mgr, header, true)
		if !res.reached {
			t.Fatalf("header %q: next handler was not called (status %d)", header, res.status)
		}
		if res.id.UserID != "user-42" {
			t.Errorf("UserID = %q, want user-42", res.id.UserID)
		}
		if !res.id.IssuedAt.Equal(issued) {
			t.Errorf("IssuedAt = %v, want %v", res.id.IssuedAt, issued)
		}
		if !res.id.ExpiresAt.Equal(issued.Add(time.Hour)) {
			t.Errorf("ExpiresAt = %v", res.id.ExpiresAt)
		}
	}
}

func TestFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := FromContext(req.Context()); ok {
		t.Fatal("expected no identity")
	}
}
