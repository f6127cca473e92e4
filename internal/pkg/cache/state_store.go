package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"fabula/internal/config"
)

// OAuth state 的 key 模式与有效期
const (
	oauthStateKeyPrefix = "oauth_state:"
	oauthStateTTL       = 10 * time.Minute
)

// StateStore Redis 封装，用于 OAuth 回调的 state 一次性校验
// Redis 未配置时服务降级为不校验 state（透传），不影响登录流程
type StateStore struct {
	client *redis.Client
}

// NewStateStore 创建 StateStore
func NewStateStore(cfg *config.RedisConfig) (*StateStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &StateStore{client: client}, nil
}

// Put 记录一次性的 state，value 存回跳路径
func (s *StateStore) Put(ctx context.Context, state, next string) error {
	return s.client.Set(ctx, oauthStateKeyPrefix+state, next, oauthStateTTL).Err()
}

// Take 取出并删除 state，返回回跳路径
// state 不存在（已消费或过期）时返回 found=false
func (s *StateStore) Take(ctx context.Context, state string) (next string, found bool, err error) {
	key := oauthStateKeyPrefix + state
	val, err := s.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Close 关闭连接
func (s *StateStore) Close() error {
	return s.client.Close()
}
