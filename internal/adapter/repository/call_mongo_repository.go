package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
)

// callDocument is the BSON shape of a call record
type callDocument struct {
	ID        string                 `bson:"_id"`
	UserID    string                 `bson:"user_id"`
	Summary   string                 `bson:"summary"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty"`
	CreatedAt time.Time              `bson:"created_at"`
}

// MongoCallRepository stores call records in a MongoDB collection
type MongoCallRepository struct {
	coll *mongo.Collection
}

// NewMongoCallRepository creates a call repository backed by the given collection
func NewMongoCallRepository(coll *mongo.Collection) *MongoCallRepository {
	return &MongoCallRepository{
		coll: coll,
	}
}

// EnsureIndexes creates the per-user listing index
func (r *MongoCallRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create calls index: %w", err)
	}
	return nil
}

// Create inserts a call record
func (r *MongoCallRepository) Create(ctx context.Context, call *entities.Call) error {
	if call.ID == uuid.Nil {
		call.ID = uuid.New()
	}
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now().UTC()
	}

	doc := callDocument{
		ID:        call.ID.String(),
		UserID:    call.UserID,
		Summary:   call.Summary,
		Metadata:  call.Metadata,
		CreatedAt: call.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create call: %w", err)
	}
	return nil
}

// ListByUser returns a user's calls, newest first
func (r *MongoCallRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Call, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls by user: %w", err)
	}

	var docs []callDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode calls: %w", err)
	}

	calls := make([]*entities.Call, 0, len(docs))
	for _, d := range docs {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid call id %q: %w", d.ID, err)
		}
		calls = append(calls, &entities.Call{
			ID:        id,
			UserID:    d.UserID,
			Summary:   d.Summary,
			Metadata:  d.Metadata,
			CreatedAt: d.CreatedAt,
		})
	}
	return calls, nil
}
