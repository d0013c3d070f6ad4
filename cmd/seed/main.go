// Package main provides a bootstrap tool that creates or promotes an admin user.
//
// Usage:
//
//	seed <username> <email>
//
// The server has no superuser signup path, so the first admin account is
// created out of band with this tool. Running it against an existing
// username promotes that account to admin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reviewdbapp/reviewdb-server/internal/config"
	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/id"
	"github.com/reviewdbapp/reviewdb-server/internal/logger"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
	"github.com/reviewdbapp/reviewdb-server/internal/store/sqlite"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: seed <username> <email>")
		os.Exit(2)
	}
	username := flag.Arg(0)
	email := flag.Arg(1)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	dbPath := filepath.Join(cfg.Metadata.BasePath, "reviewdb.db")
	st, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		log.Fatal("Failed to open database", "path", dbPath, "error", err)
	}
	defer st.Close()

	ctx := context.Background()

	user, err := st.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		user.Role = domain.RoleAdmin
		user.IsActive = true
		user.Touch()
		if err := st.UpdateUser(ctx, user); err != nil {
			log.Fatal("Failed to promote user", "username", username, "error", err)
		}
		log.Info("Promoted existing user to admin", "username", username)

	case errors.Is(err, store.ErrNotFound):
		user = &domain.User{
			Username: username,
			Email:    email,
			Role:     domain.RoleAdmin,
			IsActive: true,
		}
		user.ID = id.MustGenerate("user")
		user.InitTimestamps()
		if err := st.CreateUser(ctx, user); err != nil {
			log.Fatal("Failed to create admin user", "username", username, "error", err)
		}
		log.Info("Created admin user", "username", username, "email", email)

	default:
		log.Fatal("Failed to look up user", "username", username, "error", err)
	}
}
