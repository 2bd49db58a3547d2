package assessment

import (
	"context"
	"errors"
	"sync"
	"time"

	"career-console/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrSessionNotFound = errors.New("test session not found")

type AssessmentRepository interface {
	Save(ctx context.Context, rec *SessionRecord) error
	Get(ctx context.Context, id string) (*SessionRecord, error)
	Delete(ctx context.Context, id string) error
	FindIdle(ctx context.Context, before time.Time) ([]string, error)
	EnsureIndexes(ctx context.Context) error
}

func NewAssessmentRepository(db *database.MongodbDB) AssessmentRepository {
	if db.Enabled() {
		return &AssessmentRepositoryImpl{collection: db.DB.Collection("assessment_sessions")}
	}
	return NewMemoryAssessmentRepository()
}

type AssessmentRepositoryImpl struct {
	collection *mongo.Collection
}

func (r *AssessmentRepositoryImpl) Save(ctx context.Context, rec *SessionRecord) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	return err
}

func (r *AssessmentRepositoryImpl) Get(ctx context.Context, id string) (*SessionRecord, error) {
	var rec SessionRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *AssessmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *AssessmentRepositoryImpl) FindIdle(ctx context.Context, before time.Time) ([]string, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"updated_at": bson.M{"$lt": before}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

type MemoryAssessmentRepository struct {
	mu      sync.RWMutex
	records map[string]SessionRecord
}

func NewMemoryAssessmentRepository() *MemoryAssessmentRepository {
	return &MemoryAssessmentRepository{records: map[string]SessionRecord{}}
}

func (r *MemoryAssessmentRepository) Save(ctx context.Context, rec *SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = *rec
	return nil
}

func (r *MemoryAssessmentRepository) Get(ctx context.Context, id string) (*SessionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &rec, nil
}

func (r *MemoryAssessmentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

func (r *MemoryAssessmentRepository) FindIdle(ctx context.Context, before time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for id, rec := range r.records {
		if rec.UpdatedAt.Before(before) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *AssessmentRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetName("idx_updated_at"),
		},
		{
			Keys:    bson.D{{Key: "owner_email", Value: 1}},
			Options: options.Index().SetName("idx_owner_email"),
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MemoryAssessmentRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
