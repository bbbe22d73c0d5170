package admins

import (
	"context"
	"time"

	"github.com/filmharbor/festival-backend/pkg/db"
	"github.com/filmharbor/festival-backend/pkg/db/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository exposes admin-account persistence operations.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository constructs an admins repo bound to the provided database.
func NewRepository(database *mongo.Database) *Repository {
	return &Repository{coll: database.Collection(db.AdminsCollection)}
}

// Create inserts a new admin account; the unique index on email rejects
// duplicates.
func (r *Repository) Create(ctx context.Context, admin *models.Admin) error {
	admin.CreatedAt = time.Now().UTC()
	result, err := r.coll.InsertOne(ctx, admin)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		admin.ID = oid
	}
	return nil
}

// FindByEmail retrieves the account matching the provided email, including
// the password hash for credential verification.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID loads an account with the password hash projected away. Token
// verification resolves principals through here.
func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	opts := options.FindOne().SetProjection(bson.M{"passwordHash": 0})
	var admin models.Admin
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&admin); err != nil {
		return nil, err
	}
	return &admin, nil
}
