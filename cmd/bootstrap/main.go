// Package main creates (or reuses) a user and issues an API key for it.
// The plaintext key is printed once on stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"

	"github.com/pricewatch/pricewatch/internal/auth"
	"github.com/pricewatch/pricewatch/internal/model"
	"github.com/pricewatch/pricewatch/internal/repository"
)

type bootstrapConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
}

// store is the slice of the repository bootstrap needs.
type store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateAPIKey(ctx context.Context, key *model.APIKey) error
	RevokeAPIKey(ctx context.Context, id string) error
}

type options struct {
	Username string
	Email    string
	Role     model.Role
	KeyName  string
}

func main() {
	var (
		envFile  string
		username string
		email    string
		role     string
		keyName  string
		revoke   string
	)
	flag.StringVar(&envFile, "env-file", ".env", "Optional .env file to load before reading the environment")
	flag.StringVar(&username, "username", "", "Username to create or reuse (required unless -revoke)")
	flag.StringVar(&email, "email", "", "Email for a newly created user")
	flag.StringVar(&role, "role", string(model.RoleUser), "Role for a newly created user (USER or ADMIN)")
	flag.StringVar(&keyName, "name", "bootstrap", "Label stored with the key")
	flag.StringVar(&revoke, "revoke", "", "Revoke the API key with this id instead of issuing one")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("failed to load env file", "file", envFile, "error", err)
		os.Exit(1)
	}

	var cfg bootstrapConfig
	if err := env.Parse(&cfg); err != nil {
		logger.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	if revoke != "" {
		if err := repo.RevokeAPIKey(ctx, revoke); err != nil {
			logger.Error("failed to revoke key", "key_id", revoke, "error", err)
			os.Exit(1)
		}
		logger.Info("api_key_revoked", "key_id", revoke)
		return
	}

	user, key, err := issue(ctx, repo, options{
		Username: username,
		Email:    email,
		Role:     model.Role(strings.ToUpper(role)),
		KeyName:  keyName,
	}, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}

	logger.Info("api_key_issued", "user_id", user.ID, "username", user.Username, "role", string(user.Role))
	fmt.Println(key)
}

// issue finds or creates the user, then stores a new key for it and
// returns the plaintext.
func issue(ctx context.Context, s store, opts options, logger *slog.Logger) (*model.User, string, error) {
	if strings.TrimSpace(opts.Username) == "" {
		return nil, "", errors.New("username is required")
	}
	if !opts.Role.IsValid() {
		return nil, "", fmt.Errorf("invalid role %q", opts.Role)
	}

	user, err := s.GetUserByUsername(ctx, opts.Username)
	switch {
	case err == nil:
		if user.Role != opts.Role {
			logger.Warn("existing user keeps its role", "username", user.Username, "role", string(user.Role))
		}
	case errors.Is(err, repository.ErrUserNotFound):
		user = &model.User{
			ID:        ulid.Make().String(),
			Username:  opts.Username,
			Email:     opts.Email,
			Role:      opts.Role,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.CreateUser(ctx, user); err != nil {
			return nil, "", fmt.Errorf("create user: %w", err)
		}
		logger.Info("user_created", "user_id", user.ID, "username", user.Username)
	default:
		return nil, "", fmt.Errorf("look up user: %w", err)
	}

	issued, err := auth.IssueKey()
	if err != nil {
		return nil, "", err
	}

	key := &model.APIKey{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		KeyHash:   issued.Hash,
		KeyPrefix: issued.Prefix,
		Name:      opts.KeyName,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CreateAPIKey(ctx, key); err != nil {
		return nil, "", fmt.Errorf("store key: %w", err)
	}

	return user, issued.Plaintext, nil
}
