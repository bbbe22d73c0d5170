package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/filmharbor/festival-backend/pkg/auth"
	"github.com/filmharbor/festival-backend/pkg/config"
	"github.com/filmharbor/festival-backend/pkg/db/models"
	pkgerrors "github.com/filmharbor/festival-backend/pkg/errors"
)

type stubResolver struct {
	principal *models.Principal
	err       error
}

func (s stubResolver) PrincipalByID(context.Context, string) (*models.Principal, error) {
	return s.principal, s.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationHours: 12}
}

func testAdminConfig() config.AdminConfig {
	return config.AdminConfig{SharedSecret: "legacy-secret", SecretHeader: "X-Admin-Secret"}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, now time.Time) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, now, auth.AccessTokenPayload{
		AdminID: "64f0c2a4a7b1d2e3f4a5b6c7",
		Email:   "admin@festival.example",
		Role:    "admin",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func gateHandler(cfg config.JWTConfig, adminCfg config.AdminConfig, resolver PrincipalResolver, captured *models.Principal) http.Handler {
	return AdminGate(cfg, adminCfg, resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			if principal, ok := PrincipalFromContext(r.Context()); ok {
				*captured = principal
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAdminGateAllowsValidToken(t *testing.T) {
	cfg := testJWTConfig()
	resolver := stubResolver{principal: &models.Principal{ID: "64f0c2a4a7b1d2e3f4a5b6c7", Email: "admin@festival.example", Role: "admin"}}

	var captured models.Principal
	handler := gateHandler(cfg, testAdminConfig(), resolver, &captured)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, time.Now()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.Email != "admin@festival.example" {
		t.Fatalf("expected principal in context, got %+v", captured)
	}
}

func TestAdminGateAllowsSharedSecretOnly(t *testing.T) {
	var captured models.Principal
	handler := gateHandler(testJWTConfig(), testAdminConfig(), stubResolver{}, &captured)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Admin-Secret", "legacy-secret")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.Email != models.LegacyAdminEmail {
		t.Fatalf("expected legacy principal, got %+v", captured)
	}
}

func TestAdminGateRejectsMissingCredentials(t *testing.T) {
	handler := gateHandler(testJWTConfig(), testAdminConfig(), stubResolver{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAdminGateExpiredTokenFallsThroughToSecret(t *testing.T) {
	cfg := testJWTConfig()
	resolver := stubResolver{principal: &models.Principal{ID: "64f0c2a4a7b1d2e3f4a5b6c7", Email: "admin@festival.example", Role: "admin"}}

	expired := mintTestToken(t, cfg, time.Now().Add(-48*time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	resp := httptest.NewRecorder()
	gateHandler(cfg, testAdminConfig(), resolver, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token without secret, got %d", resp.Code)
	}

	var captured models.Principal
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	req.Header.Set("X-Admin-Secret", "legacy-secret")
	resp = httptest.NewRecorder()
	gateHandler(cfg, testAdminConfig(), resolver, &captured).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected expired token to fall through to secret, got %d", resp.Code)
	}
	if captured.Email != models.LegacyAdminEmail {
		t.Fatalf("expected legacy principal, got %+v", captured)
	}
}

func TestAdminGateRejectsWrongSecret(t *testing.T) {
	handler := gateHandler(testJWTConfig(), testAdminConfig(), stubResolver{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Admin-Secret", "nope")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAdminGateMissingAccountFallsThrough(t *testing.T) {
	cfg := testJWTConfig()
	resolver := stubResolver{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "account not found")}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, time.Now()))
	resp := httptest.NewRecorder()
	gateHandler(cfg, testAdminConfig(), resolver, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAdminGateIgnoresAuthorizationWithoutBearerScheme(t *testing.T) {
	cfg := testJWTConfig()
	resolver := stubResolver{principal: &models.Principal{ID: "64f0c2a4a7b1d2e3f4a5b6c7", Email: "admin@festival.example", Role: "admin"}}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", mintTestToken(t, cfg, time.Now()))
	resp := httptest.NewRecorder()
	gateHandler(cfg, testAdminConfig(), resolver, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected the raw token to be ignored without the scheme, got %d", resp.Code)
	}
}
