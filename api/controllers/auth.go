package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/filmharbor/festival-backend/api/middleware"
	"github.com/filmharbor/festival-backend/api/responses"
	"github.com/filmharbor/festival-backend/api/validators"
	"github.com/filmharbor/festival-backend/internal/auth"
	"github.com/filmharbor/festival-backend/pkg/config"
	pkgerrors "github.com/filmharbor/festival-backend/pkg/errors"
	"github.com/filmharbor/festival-backend/pkg/logger"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body loginBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginRequest{Email: body.Email, Password: body.Password})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AuthRegister creates an admin account. The endpoint is only reachable with
// the legacy shared secret, so a stolen bearer token cannot mint accounts.
func AuthRegister(svc auth.Service, adminCfg config.AdminConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !sharedSecretOK(r, adminCfg) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body registerBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		principal, err := svc.Register(r.Context(), auth.RegisterRequest{Email: body.Email, Password: body.Password})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, principal)
	}
}

// AuthMe echoes the principal resolved by the access gate.
func AuthMe(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		responses.WriteSuccess(w, principal)
	}
}

func sharedSecretOK(r *http.Request, cfg config.AdminConfig) bool {
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
