package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	getFn func(ctx context.Context, id int64) (user.User, error)
}

func (f *fakeResolver) GetByID(ctx context.Context, id int64) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.User{ID: id, Username: "amina", Email: "amina@example.com"}, nil
}

func protectedRouter(verifier middlewares.TokenVerifier, users middlewares.UserResolver) *gin.Engine {
	r := gin.New()

	m := middlewares.NewAuthMiddleware(verifier, users)

	r.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthAdmitsValidToken(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	token, err := m.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := protectedRouter(m, &fakeResolver{})

	w := get(r, "Bearer "+token)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), `"id":42`) {
		t.Fatalf("resolved identity missing from response: %s", w.Body.String())
	}
}

func TestRequireAuthRejections(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	valid, err := m.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	expiredManager := auth.NewManager("test-secret", time.Nanosecond)
	expired, err := expiredManager.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	// token signed with a different secret looks tampered to the verifier
	tampered, err := auth.NewManager("other-secret", time.Hour).GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		resolver   *fakeResolver
		wantStatus int
	}{
		{name: "missing header", header: "", resolver: &fakeResolver{}, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", resolver: &fakeResolver{}, wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", resolver: &fakeResolver{}, wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, resolver: &fakeResolver{}, wantStatus: http.StatusUnauthorized},
		{name: "tampered signature", header: "Bearer " + tampered, resolver: &fakeResolver{}, wantStatus: http.StatusForbidden},
		{name: "garbage token", header: "Bearer not.a.jwt", resolver: &fakeResolver{}, wantStatus: http.StatusForbidden},
		{
			name:   "subject row gone",
			header: "Bearer " + valid,
			resolver: &fakeResolver{
				getFn: func(ctx context.Context, id int64) (user.User, error) {
					return user.User{}, user.ErrNotFound
				},
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "resolver failure is a 500",
			header: "Bearer " + valid,
			resolver: &fakeResolver{
				getFn: func(ctx context.Context, id int64) (user.User, error) {
					return user.User{}, errors.New("connection refused")
				},
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := protectedRouter(m, tc.resolver)

			w := get(r, tc.header)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}
