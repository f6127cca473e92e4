package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置根结构
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Session    SessionConfig    `mapstructure:"session"`
	OAuth      OAuthConfig      `mapstructure:"oauth"`
	Vision     VisionConfig     `mapstructure:"vision"`
	Generation GenerationConfig `mapstructure:"generation"`
	Media      MediaConfig      `mapstructure:"media"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	FrontendOrigin string        `mapstructure:"frontend_origin"` // 允许的前端来源（CORS + 登录回跳）
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置（可选，仅用于 OAuth state 校验）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SessionConfig 会话 Cookie 配置
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`      // 签名密钥
	CookieName string        `mapstructure:"cookie_name"` // Cookie 名称
	MaxAge     time.Duration `mapstructure:"max_age"`     // 会话有效期
	Secure     bool          `mapstructure:"secure"`      // 仅 HTTPS 下发
}

// OAuthConfig Google OAuth 配置
type OAuthConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
}

// VisionConfig 图片标注服务配置
type VisionConfig struct {
	Provider        string    `mapstructure:"provider"` // vision（Google Vision API）或 ark（豆包 VLM）
	APIKey          string    `mapstructure:"api_key"`
	ProjectID       string    `mapstructure:"project_id"`
	CredentialsFile string    `mapstructure:"credentials_file"`
	BaseURL         string    `mapstructure:"base_url"`
	MaxLabels       int       `mapstructure:"max_labels"` // 每张图保留的标签数上限
	Ark             ArkConfig `mapstructure:"ark"`
}

// ArkConfig 豆包（火山引擎 Ark）配置
type ArkConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// GenerationConfig 叙事生成模型配置
type GenerationConfig struct {
	Provider string                  `mapstructure:"provider"` // gemini/openai/ark
	APIKey   string                  `mapstructure:"api_key"`
	Model    string                  `mapstructure:"model"`
	BaseURL  string                  `mapstructure:"base_url"`
	Options  GenerationOptionsConfig `mapstructure:"options"`
	Retry    RetryConfig             `mapstructure:"retry"`
}

// GenerationOptionsConfig 生成模型参数
type GenerationOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// RetryConfig 生成调用的重试策略（仅针对上游过载类错误）
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
}

// MediaConfig 图片处理配置
type MediaConfig struct {
	MaxImages   int  `mapstructure:"max_images"`   // 单次请求图片数上限
	MaxWidth    uint `mapstructure:"max_width"`    // 压缩后最大宽度（不放大）
	JPEGQuality int  `mapstructure:"jpeg_quality"` // 重压缩质量
}

// StorageConfig 原图留存配置（可选）
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // none, local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"` // 基础路径
	BaseURL  string `mapstructure:"base_url"`  // 基础URL（用于生成访问URL）
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
}

// AnalyticsConfig GA4 服务端埋点配置（可选）
type AnalyticsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	MeasurementID string `mapstructure:"measurement_id"`
	APISecret     string `mapstructure:"api_secret"`
}

// SetDefaults 设置默认值
func SetDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "120s")
	viper.SetDefault("server.frontend_origin", "http://localhost:3001")

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")

	// MongoDB
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "fabula")
	viper.SetDefault("mongo.max_pool_size", 100)
	viper.SetDefault("mongo.min_pool_size", 10)

	// Session
	viper.SetDefault("session.cookie_name", "sess")
	viper.SetDefault("session.max_age", "168h") // 7 天
	viper.SetDefault("session.secure", false)

	// OAuth
	viper.SetDefault("oauth.scopes", []string{
		"openid",
		"email",
		"profile",
		"https://www.googleapis.com/auth/photoslibrary.readonly",
	})

	// Vision
	viper.SetDefault("vision.provider", "vision")
	viper.SetDefault("vision.base_url", "https://vision.googleapis.com/v1")
	viper.SetDefault("vision.max_labels", 10)
	viper.SetDefault("vision.ark.base_url", "https://ark.cn-beijing.volces.com/api/v3")
	viper.SetDefault("vision.ark.model", "doubao-seed-1-6-flash-250615")

	// Generation
	viper.SetDefault("generation.provider", "gemini")
	viper.SetDefault("generation.model", "gemini-1.5-flash-latest")
	viper.SetDefault("generation.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("generation.options.temperature", 0.7)
	viper.SetDefault("generation.options.max_tokens", 4096)
	viper.SetDefault("generation.options.top_p", 1.0)
	viper.SetDefault("generation.retry.max_attempts", 3)
	viper.SetDefault("generation.retry.base_delay", "500ms")
	viper.SetDefault("generation.retry.max_delay", "8s")

	// Media
	viper.SetDefault("media.max_images", 5)
	viper.SetDefault("media.max_width", 800)
	viper.SetDefault("media.jpeg_quality", 80)

	// Storage
	viper.SetDefault("storage.type", "none")
}

// BindExternalEnv 绑定外部约定的环境变量名
// 这些名字是部署约定的一部分，不走 FABULA_ 前缀
func BindExternalEnv() {
	_ = viper.BindEnv("server.port", "PORT")
	_ = viper.BindEnv("server.frontend_origin", "FRONTEND_ORIGIN")
	_ = viper.BindEnv("session.secret", "SESSION_SECRET")
	_ = viper.BindEnv("oauth.client_id", "GOOGLE_CLIENT_ID")
	_ = viper.BindEnv("oauth.client_secret", "GOOGLE_CLIENT_SECRET")
	_ = viper.BindEnv("oauth.redirect_url", "GOOGLE_REDIRECT_URI")
	_ = viper.BindEnv("vision.api_key", "GOOGLE_API_KEY")
	_ = viper.BindEnv("vision.project_id", "GOOGLE_PROJECT_ID")
	_ = viper.BindEnv("vision.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS")
	_ = viper.BindEnv("vision.ark.api_key", "ARK_API_KEY")
	_ = viper.BindEnv("generation.api_key", "GOOGLE_API_KEY")
	_ = viper.BindEnv("mongo.uri", "MONGO_URI")
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.Session.Secret == "" {
		return errors.New("session secret is required (SESSION_SECRET)")
	}

	if c.Media.MaxImages <= 0 {
		return errors.New("media.max_images must be positive")
	}

	return nil
}
