package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.IssueToken("user-1", "seller")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	actor, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if actor.ID != "user-1" || actor.Role != "seller" {
		t.Errorf("actor = %+v, want user-1/seller", actor)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).IssueToken("user-1", "user")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := NewJWTManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatal("a token signed with another secret must not verify")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := NewJWTManager("test-secret", -time.Minute).IssueToken("user-1", "user")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := NewJWTManager("test-secret", time.Hour).Parse(token); err == nil {
		t.Fatal("an expired token must not verify")
	}
}

func TestRequireAuth(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	token, err := manager.IssueToken("user-1", "user")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	var seen Actor
	handler := manager.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ActorFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{name: "bearer header", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "query token", query: token, wantStatus: http.StatusOK},
		{name: "missing token", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-token", wantStatus: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = Actor{}
			url := "/pets"
			if tc.query != "" {
				url += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", recorder.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusOK && seen.ID != "user-1" {
				t.Errorf("actor = %+v, want user-1 in context", seen)
			}
		})
	}
}
