package repository

import (
	"context"
	"encoding/json"
	"errors"

	"storefront-service/internal/entity"
	"storefront-service/internal/store"
)

// The settings collection holds a single record under this id.
const settingsRecordID = "efi-bank"

type SettingsRepository struct {
	kv store.KeyValue
}

func NewSettingsRepository(kv store.KeyValue) *SettingsRepository {
	return &SettingsRepository{kv}
}

func (r *SettingsRepository) GetSettings(ctx context.Context) (*entity.EfiBankSettings, error) {
	rec, err := r.kv.ReadByID(ctx, store.CollectionSettings, settingsRecordID)
	if err != nil {
		return nil, err
	}

	var settings entity.EfiBankSettings
	if err := json.Unmarshal(rec.Data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (r *SettingsRepository) SaveSettings(ctx context.Context, settings *entity.EfiBankSettings) (*entity.EfiBankSettings, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}

	rec := store.Record{ID: settingsRecordID, Data: data}
	err = r.kv.Replace(ctx, store.CollectionSettings, settingsRecordID, rec)
	if errors.Is(err, store.ErrNotFound) {
		err = r.kv.Append(ctx, store.CollectionSettings, rec)
	}
	if err != nil {
		return nil, err
	}

	return settings, nil
}
