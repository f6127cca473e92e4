package auth

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Provider 身份来源
type Provider string

const (
	ProviderGoogle Provider = "google" // Google OAuth 登录
	ProviderLocal  Provider = "local"  // 本地邮箱密码账户
)

// IsValid 检查身份来源是否有效
func (p Provider) IsValid() bool {
	return p == ProviderGoogle || p == ProviderLocal
}

// String 返回身份来源字符串
func (p Provider) String() string {
	return string(p)
}

// User 用户实体
// ID 规则：Google 账户使用 id_token 的 sub，本地账户使用 "local:{email}"
// 两种身份统一存储，登录时 upsert 合并资料
type User struct {
	ID           string     `bson:"_id" json:"id"`
	Email        string     `bson:"email" json:"email"`
	Name         string     `bson:"name,omitempty" json:"name,omitempty"`
	Picture      string     `bson:"picture,omitempty" json:"picture,omitempty"`
	Provider     Provider   `bson:"provider" json:"provider"`
	PasswordHash string     `bson:"password_hash,omitempty" json:"-"` // 仅本地账户
	LastLoginAt  *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// LocalUserID 本地账户的文档 ID
func LocalUserID(email string) string {
	return fmt.Sprintf("local:%s", email)
}

// Collection 返回集合名称
func (u *User) Collection() string { return "users" }

// EnsureIndexes 创建和维护索引
func (u *User) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(u.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email"),
		},
		{
			Keys:    bson.D{{Key: "provider", Value: 1}},
			Options: options.Index().SetName("idx_provider"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
