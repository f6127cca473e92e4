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

// ErrMediaNotFound 媒体条目不存在
var ErrMediaNotFound = errors.New("media item not found")

// MediaRepo 媒体库仓库
type MediaRepo struct {
	collection *mongo.Collection
}

// NewMediaRepo 创建媒体库仓库
func NewMediaRepo(db *mongo.Database) *MediaRepo {
	return &MediaRepo{
		collection: db.Collection("media"),
	}
}

// Create 创建媒体条目
func (r *MediaRepo) Create(ctx context.Context, item *story.MediaItem) error {
	item.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, item)
	return err
}

// ListByUser 查询用户的全部媒体条目，按创建时间倒序
func (r *MediaRepo) ListByUser(ctx context.Context, userID string) ([]*story.MediaItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]*story.MediaItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete 删除用户的一条媒体
func (r *MediaRepo) Delete(ctx context.Context, userID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrMediaNotFound
	}
	return nil
}
