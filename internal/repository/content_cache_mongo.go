package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fetchedFile is the cache document for one GitHub file blob.
type fetchedFile struct {
	ID        string    `bson:"_id"` // fullName/path@sha
	Content   string    `bson:"content"`
	FetchedAt time.Time `bson:"fetched_at"`
}

// ContentCacheRepository caches decoded GitHub file content in the
// "fetched_files" collection. Entries expire through a TTL index on
// fetched_at; the blob sha in the key keeps a stale file version from ever
// being served after the file changes upstream.
type ContentCacheRepository struct {
	col *mongo.Collection
}

// NewContentCacheRepository returns a cache over the "fetched_files"
// collection and ensures its TTL index exists.
func NewContentCacheRepository(ctx context.Context, db *mongo.Database, ttl time.Duration) (*ContentCacheRepository, error) {
	col := db.Collection("fetched_files")

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"fetched_at": 1},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create TTL index: %w", err)
	}

	return &ContentCacheRepository{col: col}, nil
}

func cacheID(fullName, path, sha string) string {
	return fmt.Sprintf("%s/%s@%s", fullName, path, sha)
}

// Get returns the cached content for one file version. A miss is reported
// with ok=false and a nil error so callers fall through to a plain fetch.
func (r *ContentCacheRepository) Get(ctx context.Context, fullName, path, sha string) (string, bool, error) {
	var doc fetchedFile
	err := r.col.FindOne(ctx, bson.M{"_id": cacheID(fullName, path, sha)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	log.Printf("[Content Cache] hit for %s/%s", fullName, path)
	return doc.Content, true, nil
}

// Put stores the decoded content for one file version.
func (r *ContentCacheRepository) Put(ctx context.Context, fullName, path, sha, content string) error {
	doc := fetchedFile{
		ID:        cacheID(fullName, path, sha),
		Content:   content,
		FetchedAt: time.Now(),
	}

	_, err := r.col.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}
