package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"speechcoach/internal/models"
)

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	m := NewMiddleware(nil, nil)

	called := false
	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest("GET", "/api/progress", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	if called {
		t.Fatal("next handler should not run for anonymous request")
	}
}

func TestIsMutating(t *testing.T) {
	tests := []struct {
		method string
		want   bool
	}{
		{"GET", false},
		{"HEAD", false},
		{"OPTIONS", false},
		{"POST", true},
		{"PUT", true},
		{"DELETE", true},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if got := isMutating(tt.method); got != tt.want {
				t.Fatalf("isMutating(%s) = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}

func TestGetUserFromContext(t *testing.T) {
	if user := GetUserFromContext(context.Background()); user != nil {
		t.Fatalf("expected nil user for empty context, got %+v", user)
	}

	want := &models.User{ID: 3, Role: models.RoleStudent}
	ctx := context.WithValue(context.Background(), UserContextKey, want)
	if got := GetUserFromContext(ctx); got != want {
		t.Fatalf("expected user from context, got %+v", got)
	}
}
