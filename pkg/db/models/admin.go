package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LegacyAdminEmail is the sentinel identity attached to requests accepted via
// the static shared secret rather than a bearer token.
const LegacyAdminEmail = "legacy@festival"

// Admin is a persisted admin panel account.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
}

// Principal is the authenticated identity attached to a request after the
// access gate accepts it. Both the persisted and the legacy variants carry
// role "admin" and are treated identically downstream.
type Principal struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LegacyPrincipal returns the synthetic identity for shared-secret requests.
func LegacyPrincipal() Principal {
	return Principal{Email: LegacyAdminEmail, Role: "admin"}
}
