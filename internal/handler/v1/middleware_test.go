package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GFattehallah/cmhe-manager/internal/config"
	"github.com/GFattehallah/cmhe-manager/internal/domain"
	"github.com/GFattehallah/cmhe-manager/pkg/auth"
)

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "test",
	})
}

func authedRouter(t *testing.T, gate gin.HandlerFunc) (*gin.Engine, *auth.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtManager := testJWTManager()

	r := gin.New()
	group := r.Group("/guarded", RequireAuth(jwtManager))
	if gate != nil {
		group.Use(gate)
	}
	group.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, jwtManager
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r, _ := authedRouter(t, nil)
	if w := doRequest(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	r, _ := authedRouter(t, nil)
	if w := doRequest(r, "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	r, jwtManager := authedRouter(t, nil)
	pair, err := jwtManager.GenerateTokenPair(&domain.Claims{
		UserID: "u1",
		Email:  "doc@clinic.ma",
		Role:   domain.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if w := doRequest(r, pair.AccessToken); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	r, jwtManager := authedRouter(t, nil)
	pair, err := jwtManager.GenerateTokenPair(&domain.Claims{UserID: "u1", Role: domain.RoleDoctor})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if w := doRequest(r, pair.RefreshToken); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name   string
		claims domain.Claims
		want   int
	}{
		{
			name:   "admin passes every gate",
			claims: domain.Claims{UserID: "u1", Role: domain.RoleAdmin},
			want:   http.StatusOK,
		},
		{
			name: "holder of the tag passes",
			claims: domain.Claims{
				UserID:      "u2",
				Role:        domain.RoleSecretary,
				Permissions: []domain.Permission{domain.PermBilling},
			},
			want: http.StatusOK,
		},
		{
			name: "holder of other tags is refused",
			claims: domain.Claims{
				UserID:      "u3",
				Role:        domain.RoleSecretary,
				Permissions: []domain.Permission{domain.PermPatients},
			},
			want: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, jwtManager := authedRouter(t, RequirePermission(domain.PermBilling))
			pair, err := jwtManager.GenerateTokenPair(&tt.claims)
			if err != nil {
				t.Fatalf("GenerateTokenPair: %v", err)
			}
			if w := doRequest(r, pair.AccessToken); w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
