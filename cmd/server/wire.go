// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"docsign_web/internal/app"
	"docsign_web/internal/audit"
	"docsign_web/internal/auth"
	"docsign_web/internal/config"
	"docsign_web/internal/jobs"
	"docsign_web/internal/session"
	"docsign_web/internal/web"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		provideLogger,
		provideDatabase,
		session.NewStore,

		// External auth backend
		provideAuthProvider,

		// Audit trail
		audit.NewGORMRepository,
		audit.NewService,
		wire.Bind(new(audit.Service), new(*audit.ServiceImplementation)),
		wire.Bind(new(jobs.Pruner), new(*audit.ServiceImplementation)),
		jobs.NewAuditRetentionJob,

		// Auth
		auth.NewService,
		wire.Bind(new(auth.Service), new(*auth.ServiceImplementation)),
		auth.NewHandler,
		web.NewHandler,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
