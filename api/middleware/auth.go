package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/filmharbor/festival-backend/api/responses"
	pkgAuth "github.com/filmharbor/festival-backend/pkg/auth"
	"github.com/filmharbor/festival-backend/pkg/config"
	"github.com/filmharbor/festival-backend/pkg/db/models"
	pkgerrors "github.com/filmharbor/festival-backend/pkg/errors"
	"github.com/filmharbor/festival-backend/pkg/logger"
)

// PrincipalResolver loads the account behind a verified token subject.
type PrincipalResolver interface {
	PrincipalByID(ctx context.Context, id string) (*models.Principal, error)
}

// AdminGate admits requests that carry either a valid bearer token or the
// legacy shared secret header. A bad or expired token does not short-circuit
// the request; the secret header is still consulted before rejecting.
func AdminGate(jwtCfg config.JWTConfig, adminCfg config.AdminConfig, resolver PrincipalResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if principal, ok := bearerPrincipal(r, jwtCfg, resolver); ok {
				ctx := WithPrincipal(r.Context(), principal)
				if logg != nil {
					ctx = logg.WithAdminEmail(ctx, principal.Email)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if secretMatches(r, adminCfg) {
				principal := models.LegacyPrincipal()
				ctx := WithPrincipal(r.Context(), principal)
				if logg != nil {
					ctx = logg.WithAdminEmail(ctx, principal.Email)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
		})
	}
}

func bearerPrincipal(r *http.Request, cfg config.JWTConfig, resolver PrincipalResolver) (models.Principal, bool) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return models.Principal{}, false
	}

	const scheme = "bearer "
	if len(raw) <= len(scheme) || !strings.EqualFold(raw[:len(scheme)], scheme) {
		return models.Principal{}, false
	}
	token := strings.TrimSpace(raw[len(scheme):])
	if token == "" {
		return models.Principal{}, false
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil || claims.AdminID == "" {
		return models.Principal{}, false
	}

	if resolver == nil {
		return models.Principal{ID: claims.AdminID, Email: claims.Email, Role: claims.Role}, true
	}

	principal, err := resolver.PrincipalByID(r.Context(), claims.AdminID)
	if err != nil || principal == nil {
		return models.Principal{}, false
	}
	return *principal, true
}

func secretMatches(r *http.Request, cfg config.AdminConfig) bool {
	if cfg.SharedSecret == "" {
		return false
	}
	header := cfg.SecretHeader
	if header == "" {
		header = "X-Admin-Secret"
	}
	provided := strings.TrimSpace(r.Header.Get(header))
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.SharedSecret)) == 1
}
