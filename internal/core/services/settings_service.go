package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/core/domain"
	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
	"github.com/fairlance/treasury_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// settingsService manages per-workspace operational guardrails.
type settingsService struct {
	BaseService
	settingsRepo portsrepo.SettingsRepositoryFacade
	now          func() time.Time
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settingsRepo portsrepo.SettingsRepositoryFacade) portssvc.SettingsSvcFacade {
	return &settingsService{
		settingsRepo: settingsRepo,
		now:          time.Now,
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetSettings returns the workspace's settings, or the documented defaults
// when none were ever saved. Absence is not an error for readers.
func (s *settingsService) GetSettings(ctx context.Context, workspaceID string) (*domain.OperationalSettings, error) {
	settings, err := s.settingsRepo.FindSettingsByWorkspace(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			defaults := domain.DefaultSettings(workspaceID)
			return &defaults, nil
		}
		return nil, err
	}
	return settings, nil
}

// UpdateSettings validates and replaces the workspace's settings wholesale.
func (s *settingsService) UpdateSettings(ctx context.Context, workspaceID string, req dto.UpdateSettingsRequest, actor domain.Actor) (*domain.OperationalSettings, error) {
	if err := s.RequireOperator(ctx, actor); err != nil {
		return nil, err
	}
	if req.LowBalanceAlertThreshold.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: low balance threshold must not be negative", apperrors.ErrValidation)
	}
	if req.AutoSweepThreshold.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: auto sweep threshold must not be negative", apperrors.ErrValidation)
	}

	now := s.now()
	settings := domain.OperationalSettings{
		WorkspaceID:              workspaceID,
		LowBalanceAlertThreshold: req.LowBalanceAlertThreshold,
		AutoSweepEnabled:         req.AutoSweepEnabled,
		AutoSweepThreshold:       req.AutoSweepThreshold,
		ReconciliationCadence:    req.ReconciliationCadence,
		DualControlEnabled:       req.DualControlEnabled,
		PayoutWindow:             req.PayoutWindow,
		RiskTier:                 req.RiskTier,
		ComplianceContact:        req.ComplianceContact,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.ID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.ID,
		},
	}

	saved, err := s.settingsRepo.UpsertSettings(ctx, settings)
	if err != nil {
		s.LogError(ctx, err, "Failed to upsert settings", "workspace_id", workspaceID)
		return nil, err
	}

	s.LogInfo(ctx, "Operational settings updated",
		"workspace_id", workspaceID, "dual_control", saved.DualControlEnabled,
		"low_balance_threshold", saved.LowBalanceAlertThreshold.String())
	return saved, nil
}
