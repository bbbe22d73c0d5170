package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/filmharbor/festival-backend/pkg/auth"
	"github.com/filmharbor/festival-backend/pkg/config"
	"github.com/filmharbor/festival-backend/pkg/db"
	"github.com/filmharbor/festival-backend/pkg/db/models"
	pkgerrors "github.com/filmharbor/festival-backend/pkg/errors"
	"github.com/filmharbor/festival-backend/pkg/security"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const invalidCredentialsMessage = "invalid credentials"

type adminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
}

// LoginRequest carries the credentials submitted by the admin panel.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse returns the signed session token and the account it names.
type LoginResponse struct {
	Token string           `json:"token"`
	Admin models.Principal `json:"admin"`
}

// RegisterRequest carries the payload for the bootstrap account creation path.
type RegisterRequest struct {
	Email    string
	Password string
}

// Service defines the behavior needed by the auth controllers and the access
// gate.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*models.Principal, error)
	PrincipalByID(ctx context.Context, id string) (*models.Principal, error)
}

type service struct {
	admins adminRepository
	jwtCfg config.JWTConfig
	pwdCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	AdminRepo      adminRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AdminRepo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	return &service{
		admins: params.AdminRepo,
		jwtCfg: params.JWTConfig,
		pwdCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	valid, err := security.VerifyPassword(req.Password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		AdminID: admin.ID.Hex(),
		Email:   admin.Email,
		Role:    admin.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		Token: token,
		Admin: models.Principal{ID: admin.ID.Hex(), Email: admin.Email, Role: admin.Role},
	}, nil
}

// Register creates an admin account. The shared-secret requirement is
// enforced at the route; this is the bootstrap path and is never reachable
// with a bearer token.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*models.Principal, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(req.Password, s.pwdCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	admin := &models.Admin{Email: email, PasswordHash: hash, Role: "admin"}
	if err := s.admins.Create(ctx, admin); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
	}

	principal := models.Principal{ID: admin.ID.Hex(), Email: admin.Email, Role: admin.Role}
	return &principal, nil
}

// PrincipalByID resolves a verified token's subject to a live account. A
// missing account is reported as unauthorized so the gate can fall through to
// its next acceptance path.
func (s *service) PrincipalByID(ctx context.Context, id string) (*models.Principal, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid principal id")
	}
	admin, err := s.admins.FindByID(ctx, oid)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}
	principal := models.Principal{ID: admin.ID.Hex(), Email: admin.Email, Role: admin.Role}
	return &principal, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
