package story

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fabula/internal/model/story"
)

// ErrEntryNotFound 故事不存在
var ErrEntryNotFound = errors.New("story entry not found")

// EntryRepo 照片故事仓库
type EntryRepo struct {
	collection *mongo.Collection
}

// NewEntryRepo 创建照片故事仓库
func NewEntryRepo(db *mongo.Database) *EntryRepo {
	return &EntryRepo{
		collection: db.Collection("stories"),
	}
}

// Create 创建故事
func (r *EntryRepo) Create(ctx context.Context, entry *story.Entry) error {
	entry.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// ListByUser 查询用户的全部故事，按创建时间倒序
func (r *EntryRepo) ListByUser(ctx context.Context, userID string) ([]*story.Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]*story.Entry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete 删除用户的一条故事
// 条件同时带 user_id，用户无法删除他人的文档
func (r *EntryRepo) Delete(ctx context.Context, userID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrEntryNotFound
	}
	return nil
}
