package import_feature

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

var ErrSessionNotFound = errors.New("import session not found")

// maxRecordSize keeps a session document under MongoDB's 16MiB limit.
var maxRecordSize = 15 << 20

// recordSize reports the BSON-encoded size of rec.
func recordSize(rec *WizardRecord) (int, error) {
	raw, err := bson.Marshal(rec)
	if err != nil {
		return 0, err
	}
	return len(raw), nil
}

type ImportRepository interface {
	Save(ctx context.Context, rec *WizardRecord) error
	Get(ctx context.Context, id string) (*WizardRecord, error)
	Delete(ctx context.Context, id string) error
	FindIdle(ctx context.Context, before time.Time) ([]string, error)
	EnsureIndexes(ctx context.Context) error
}

// NewImportRepository picks the Mongo store when a database is configured.
func NewImportRepository(db *database.MongodbDB) ImportRepository {
	if db.Enabled() {
		return &ImportRepositoryImpl{collection: db.DB.Collection("import_sessions")}
	}
	return NewMemoryImportRepository()
}

type ImportRepositoryImpl struct {
	collection *mongo.Collection
}

func (r *ImportRepositoryImpl) Save(ctx context.Context, rec *WizardRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, opts)
	return err
}

func (r *ImportRepositoryImpl) Get(ctx context.Context, id string) (*WizardRecord, error) {
	var rec WizardRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ImportRepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *ImportRepositoryImpl) FindIdle(ctx context.Context, before time.Time) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"updated_at": bson.M{"$lt": before}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// MemoryImportRepository keeps records in process memory.
type MemoryImportRepository struct {
	mu      sync.RWMutex
	records map[string]*WizardRecord
}

func NewMemoryImportRepository() *MemoryImportRepository {
	return &MemoryImportRepository{records: map[string]*WizardRecord{}}
}

func (r *MemoryImportRepository) Save(ctx context.Context, rec *WizardRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *MemoryImportRepository) Get(ctx context.Context, id string) (*WizardRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *MemoryImportRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

func (r *MemoryImportRepository) FindIdle(ctx context.Context, before time.Time) ([]string, error) {
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

func (r *ImportRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetName("idx_updated_at"),
		},
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetName("idx_owner"),
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MemoryImportRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
