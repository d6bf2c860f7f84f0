package main

import (
	"fmt"
	"log"

	"docsign_web/internal/audit"
	"docsign_web/internal/config"
	"docsign_web/internal/firebase"
	"docsign_web/internal/platform/database"
	"docsign_web/internal/platform/logger"
	"docsign_web/internal/shared"
	"docsign_web/internal/supabase"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	l, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return l, func() {
		if err := l.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}, nil
}

// provideAuthProvider picks the managed auth backend named by AUTH_PROVIDER.
func provideAuthProvider(cfg *config.Config, logger *zap.Logger) (shared.AuthProvider, error) {
	switch cfg.AuthProvider {
	case config.ProviderSupabase:
		return supabase.NewProvider(cfg, logger)
	case config.ProviderFirebase:
		return firebase.NewFirebaseService(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.AuthProvider)
	}
}

// provideDatabase opens the audit database and migrates its schema.
func provideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := audit.AutoMigrate(db); err != nil {
		database.CloseGORMDB(db)
		return nil, nil, fmt.Errorf("failed to migrate audit schema: %w", err)
	}
	logger.Info("Audit database ready", zap.String("driver", cfg.DBDriver))
	return db, func() { database.CloseGORMDB(db) }, nil
}
