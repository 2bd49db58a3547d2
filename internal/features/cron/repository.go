package cron_feature

import (
	"context"
	"sync"

	"career-console/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxMemoryRuns bounds the in-memory run history.
const maxMemoryRuns = 100

type SweepRunRepository interface {
	Create(ctx context.Context, run *SweepRun) error
	List(ctx context.Context, limit int) ([]SweepRun, error)
}

func NewSweepRunRepository(db *database.MongodbDB) SweepRunRepository {
	if db.Enabled() {
		return &SweepRunRepositoryImpl{collection: db.DB.Collection("sweep_runs")}
	}
	return &MemorySweepRunRepository{}
}

type SweepRunRepositoryImpl struct {
	collection *mongo.Collection
}

func (r *SweepRunRepositoryImpl) Create(ctx context.Context, run *SweepRun) error {
	if run.ID.IsZero() {
		run.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, run)
	return err
}

func (r *SweepRunRepositoryImpl) List(ctx context.Context, limit int) ([]SweepRun, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []SweepRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

type MemorySweepRunRepository struct {
	mu   sync.RWMutex
	runs []SweepRun
}

func (r *MemorySweepRunRepository) Create(ctx context.Context, run *SweepRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run.ID.IsZero() {
		run.ID = primitive.NewObjectID()
	}
	r.runs = append(r.runs, *run)
	if len(r.runs) > maxMemoryRuns {
		r.runs = r.runs[len(r.runs)-maxMemoryRuns:]
	}
	return nil
}

// List returns the newest runs first.
func (r *MemorySweepRunRepository) List(ctx context.Context, limit int) ([]SweepRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []SweepRun
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}
	return out, nil
}
