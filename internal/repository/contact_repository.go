package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contactform/contactform/internal/database"
	"github.com/contactform/contactform/internal/model"
)

// ContactRepository appends submissions to a document collection.
// It never reads, updates or deletes.
type ContactRepository interface {
	// Insert stores the submission as a new document and returns the id the store assigned.
	Insert(ctx context.Context, sub *model.Submission) (string, error)
}

// MongoContactRepository stores submissions in a MongoDB collection
type MongoContactRepository struct {
	coll *mongo.Collection
}

// NewMongoContactRepository creates a new MongoContactRepository
func NewMongoContactRepository(coll *mongo.Collection) *MongoContactRepository {
	return &MongoContactRepository{coll: coll}
}

// Insert adds the submission document to the collection
func (r *MongoContactRepository) Insert(ctx context.Context, sub *model.Submission) (string, error) {
	if sub == nil {
		return "", ErrInvalidInput
	}

	res, err := r.coll.InsertOne(ctx, bson.M(sub.Document()))
	if err != nil {
		return "", fmt.Errorf("failed to insert contact: %w", err)
	}

	switch id := res.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	default:
		return fmt.Sprint(id), nil
	}
}

// PostgresContactRepository stores submissions as JSONB documents in a table
// created by the migrations in migrations/.
type PostgresContactRepository struct {
	db    *database.Postgres
	table string
}

// NewPostgresContactRepository creates a new PostgresContactRepository
func NewPostgresContactRepository(db *database.Postgres, table string) *PostgresContactRepository {
	return &PostgresContactRepository{db: db, table: table}
}

// Insert adds the submission document as a new row; id and created_at are column defaults
func (r *PostgresContactRepository) Insert(ctx context.Context, sub *model.Submission) (string, error) {
	if sub == nil {
		return "", ErrInvalidInput
	}

	doc, err := json.Marshal(sub.Document())
	if err != nil {
		return "", fmt.Errorf("failed to encode contact: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (document) VALUES ($1) RETURNING id`, pq.QuoteIdentifier(r.table))

	var id string
	if err := r.db.QueryRowContext(ctx, query, doc).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to insert contact: %w", err)
	}
	return id, nil
}
