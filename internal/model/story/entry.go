package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Entry 照片故事实体
// Image 为兼容保留的首图字段，Images 非空时以 Images 为准
// 保存后不可修改，只能整体删除
type Entry struct {
	ID        string    `bson:"_id" json:"id"`                      // UUID格式的ID
	UserID    string    `bson:"user_id" json:"-"`                   // 所属用户
	Narrative string    `bson:"narrative" json:"narrative"`         // 生成的叙事文本
	Image     string    `bson:"image" json:"image"`                 // 首图 data URL（兼容字段）
	Images    []string  `bson:"images,omitempty" json:"images,omitempty"` // 全部图片 data URL，按提交顺序
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Collection 返回集合名称
func (e *Entry) Collection() string { return "stories" }

// EnsureIndexes 创建和维护索引
func (e *Entry) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(e.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
