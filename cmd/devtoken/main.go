// devtoken 建立（或沿用）本機開發用帳號並印出 Bearer token
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"go-gin-event-calendar/config"
	"go-gin-event-calendar/internal/database"
	"go-gin-event-calendar/internal/middleware"
	"go-gin-event-calendar/internal/model"
	"go-gin-event-calendar/internal/repository"
	apperrors "go-gin-event-calendar/pkg/app_errors"
	"go-gin-event-calendar/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	username := flag.String("username", "", "username to look up or create")
	fullName := flag.String("name", "", "full name used when the user is created")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	log := logger.WithComponent("devtoken")
	if *username == "" {
		log.Fatal("-username is required")
	}

	cfg := config.LoadConfig()
	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(pool)

	user, err := users.FindByUsername(ctx, *username)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		user, err = users.Create(ctx, &model.User{Username: *username, FullName: *fullName})
	}
	if err != nil {
		log.Fatal("Failed to resolve user", zap.Error(err))
	}

	token, err := middleware.IssueToken(cfg.Auth.JWTSecret, user.ID, *ttl)
	if err != nil {
		log.Fatal("Failed to issue token", zap.Error(err))
	}
	log.Info("Token issued", zap.Int("user_id", user.ID), zap.Duration("ttl", *ttl))
	fmt.Println(token)
}
