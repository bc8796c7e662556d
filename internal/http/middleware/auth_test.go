package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JithuMorrison/Lingzee/internal/platform/ctxutil"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

// fakeAuth accepts the tokens in its map.
type fakeAuth struct {
	services.AuthService
	tokens map[string]*ctxutil.RequestData
}

func (f *fakeAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	rd, ok := f.tokens[token]
	if !ok {
		return ctx, services.ErrUnauthenticated
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	learner := &ctxutil.RequestData{UserID: uuid.New()}
	admin := &ctxutil.RequestData{UserID: uuid.New(), IsAdmin: true}
	am := NewAuthMiddleware(logger.Nop(), &fakeAuth{tokens: map[string]*ctxutil.RequestData{
		"learner": learner,
		"admin":   admin,
	}})

	r := gin.New()
	ok := func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()).String())
	}
	r.GET("/me", am.RequireAuth(), ok)
	r.GET("/stream", am.RequireStreamAuth(), ok)
	r.GET("/admin", am.RequireAuth(), am.RequireAdmin(), ok)

	tests := []struct {
		name   string
		path   string
		header string
		status int
		user   uuid.UUID
	}{
		{name: "no token", path: "/me", status: http.StatusUnauthorized},
		{name: "bad token", path: "/me", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "not bearer", path: "/me", header: "Basic learner", status: http.StatusUnauthorized},
		{name: "bearer", path: "/me", header: "Bearer learner", status: http.StatusOK, user: learner.UserID},
		{name: "lowercase scheme", path: "/me", header: "bearer learner", status: http.StatusOK, user: learner.UserID},
		{name: "query token rejected", path: "/me?token=learner", status: http.StatusUnauthorized},
		{name: "query token on stream", path: "/stream?token=learner", status: http.StatusOK, user: learner.UserID},
		{name: "admin as learner", path: "/admin", header: "Bearer learner", status: http.StatusForbidden},
		{name: "admin", path: "/admin", header: "Bearer admin", status: http.StatusOK, user: admin.UserID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status: want %d got %d body=%s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status == http.StatusOK && rec.Body.String() != tt.user.String() {
				t.Fatalf("user: want %s got %s", tt.user, rec.Body.String())
			}
		})
	}
}
