package services

import (
	"context"

	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/fairlance/treasury_backend/internal/dto"
)

// SettingsReaderSvc defines read operations for operational settings
type SettingsReaderSvc interface {
	// GetSettings retrieves a workspace's operational settings, falling back
	// to documented defaults when none were ever saved.
	GetSettings(ctx context.Context, workspaceID string) (*domain.OperationalSettings, error)
}

// SettingsWriterSvc defines write operations for operational settings
type SettingsWriterSvc interface {
	// UpdateSettings validates and replaces a workspace's settings.
	UpdateSettings(ctx context.Context, workspaceID string, req dto.UpdateSettingsRequest, actor domain.Actor) (*domain.OperationalSettings, error)
}

// SettingsSvcFacade combines settings read and write service interfaces
type SettingsSvcFacade interface {
	SettingsReaderSvc
	SettingsWriterSvc
}
