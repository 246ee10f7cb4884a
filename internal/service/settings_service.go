package service

import (
	"context"
	"errors"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
	"storefront-service/internal/store"
)

type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	callbackURL  string
}

func NewSettingsService(settingsRepo *repository.SettingsRepository, callbackURL string) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		callbackURL:  callbackURL,
	}
}

// GetSettings returns the merchant configuration, writing defaults on first
// access.
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.EfiBankSettings, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		defaults := &entity.EfiBankSettings{
			CallbackURL: s.callbackURL,
			Environment: entity.EnvHomologacao,
			Enabled:     false,
		}
		return s.settingsRepo.SaveSettings(ctx, defaults)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Error getting EFI Bank settings")
		return nil, err
	}

	return settings, nil
}

// UpdateSettings merges only the provided fields into the singleton record.
func (s *SettingsService) UpdateSettings(ctx context.Context, patch *entity.EfiBankSettingsPatch) (*entity.EfiBankSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if patch.MerchantID != nil {
		settings.MerchantID = *patch.MerchantID
	}
	if patch.APIKey != nil {
		settings.APIKey = *patch.APIKey
	}
	if patch.PixKey != nil {
		settings.PixKey = *patch.PixKey
	}
	if patch.CallbackURL != nil {
		settings.CallbackURL = *patch.CallbackURL
	}
	if patch.Environment != nil {
		if *patch.Environment != entity.EnvHomologacao && *patch.Environment != entity.EnvProducao {
			return nil, errors.New("unknown environment")
		}
		settings.Environment = *patch.Environment
	}
	if patch.Enabled != nil {
		settings.Enabled = *patch.Enabled
	}

	updated, err := s.settingsRepo.SaveSettings(ctx, settings)
	if err != nil {
		logger.Error().Err(err).Msg("Error updating EFI Bank settings")
		return nil, err
	}

	return updated, nil
}
