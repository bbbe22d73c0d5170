package years

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

// Repository exposes year-record persistence operations.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository constructs a years repo bound to the provided database.
func NewRepository(database *mongo.Database) *Repository {
	return &Repository{coll: database.Collection(db.YearsCollection)}
}

// FindByYear retrieves the record for the given year.
func (r *Repository) FindByYear(ctx context.Context, year int) (*models.YearRecord, error) {
	var record models.YearRecord
	if err := r.coll.FindOne(ctx, bson.M{"year": year}).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Insert persists a new record; the unique index on year rejects duplicates.
func (r *Repository) Insert(ctx context.Context, record *models.YearRecord) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	result, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}
	return nil
}

// Save replaces the stored document with the in-memory record.
func (r *Repository) Save(ctx context.Context, record *models.YearRecord) error {
	record.UpdatedAt = time.Now().UTC()
	_, err := r.coll.ReplaceOne(ctx, bson.M{"year": record.Year}, record)
	return err
}

// ListYears returns every stored festival year, ascending.
func (r *Repository) ListYears(ctx context.Context) ([]int, error) {
	opts := options.Find().
		SetProjection(bson.M{"year": 1}).
		SetSort(bson.M{"year": 1})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var years []int
	for cursor.Next(ctx) {
		var doc struct {
			Year int `bson:"year"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		years = append(years, doc.Year)
	}
	return years, cursor.Err()
}

// DeleteAll removes every year record. Used by the destructive reset.
func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}
