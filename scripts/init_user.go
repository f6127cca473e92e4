package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"fabula/internal/config"
	"fabula/internal/model/auth"
	"fabula/internal/pkg/logger"
	"fabula/internal/pkg/mongodb"
	"fabula/internal/pkg/password"
	authrepo "fabula/internal/repository/auth"
)

func main() {
	// 1. 加载配置（与 cmd/root.go 保持一致的搜索路径）
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.fabula")

	viper.SetEnvPrefix("FABULA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
		os.Exit(1)
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	// 2. 连接 MongoDB
	client, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	db := client.Database()
	ctx := context.Background()

	userRepo := authrepo.NewUserRepo(db)

	// 3. 读取环境变量或使用默认值
	email := strings.ToLower(os.Getenv("INIT_USER_EMAIL"))
	if email == "" {
		email = "demo@example.com"
	}
	passwordPlain := os.Getenv("INIT_USER_PASSWORD")
	if passwordPlain == "" {
		passwordPlain = "demo123"
	}
	name := os.Getenv("INIT_USER_NAME")
	if name == "" {
		name = "Demo"
	}

	// 4. 已存在则跳过
	userID := auth.LocalUserID(email)
	if _, err := userRepo.FindByID(ctx, userID); err == nil {
		log.Info().Str("email", email).Msg("local user exists, nothing to do")
		fmt.Printf("User already initialized: email=%s\n", email)
		return
	} else if !errors.Is(err, authrepo.ErrUserNotFound) {
		log.Fatal().Err(err).Msg("failed to query user")
	}

	if err := createLocalUser(ctx, userRepo, userID, email, name, passwordPlain); err != nil {
		log.Fatal().Err(err).Msg("create local user failed")
	}

	fmt.Printf("User initialized: email=%s password=%s\n", email, passwordPlain)
}

func createLocalUser(ctx context.Context, repo *authrepo.UserRepo, userID, email, name, pwd string) error {
	hashed, err := password.Hash(pwd)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &auth.User{
		ID:           userID,
		Email:        email,
		Name:         name,
		Provider:     auth.ProviderLocal,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return repo.Create(ctx, user)
}
