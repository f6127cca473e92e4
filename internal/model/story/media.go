package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MediaType 媒体来源
type MediaType string

const (
	MediaTypeUpload       MediaType = "upload"        // 直接上传
	MediaTypeGooglePhotos MediaType = "google_photos" // 从 Google 相册导入
)

// MediaItem 媒体库条目
// 与 Entry 相互独立，保存故事时图片内容直接内嵌，不引用媒体库
type MediaItem struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"user_id" json:"-"`
	Type       MediaType `bson:"type" json:"type"`
	ImageURL   string    `bson:"image_url" json:"imageUrl"` // data URL 或远端 URL
	Filename   string    `bson:"filename,omitempty" json:"filename,omitempty"`
	MimeType   string    `bson:"mime_type,omitempty" json:"mimeType,omitempty"`
	SourceID   string    `bson:"source_id,omitempty" json:"sourceId,omitempty"` // 外部来源的媒体ID
	StorageKey string    `bson:"storage_key,omitempty" json:"-"`                // 原图在对象存储中的键
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// Collection 返回集合名称
func (m *MediaItem) Collection() string { return "media" }

// EnsureIndexes 创建和维护索引
func (m *MediaItem) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(m.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
