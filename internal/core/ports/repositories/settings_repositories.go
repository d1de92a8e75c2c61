package repositories

import (
	"context"

	"github.com/fairlance/treasury_backend/internal/core/domain"
)

// SettingsReader defines read operations for operational settings.
type SettingsReader interface {
	// FindSettingsByWorkspace retrieves the settings row for a workspace.
	// Returns apperrors.ErrNotFound when the workspace has never saved one.
	FindSettingsByWorkspace(ctx context.Context, workspaceID string) (*domain.OperationalSettings, error)
}

// SettingsWriter defines write operations for operational settings.
type SettingsWriter interface {
	// UpsertSettings inserts or fully replaces the single settings row of a
	// workspace.
	UpsertSettings(ctx context.Context, settings domain.OperationalSettings) (*domain.OperationalSettings, error)
}

// SettingsRepositoryFacade combines settings read and write interfaces.
type SettingsRepositoryFacade interface {
	SettingsReader
	SettingsWriter
}
