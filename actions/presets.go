package actions

import (
	"context"

	"conversions/logger"
	"conversions/models"
)

type PresetResult struct {
	Preset *models.ConversionPreset `json:"preset"`
}

type PresetList struct {
	Items []models.ConversionPreset `json:"items"`
	Total int                       `json:"total"`
}

type DeleteResult struct {
	Success bool `json:"success"`
}

func (s *Service) CreatePreset(ctx context.Context, in CreatePresetInput) (*PresetResult, error) {
	userID, aerr := s.currentUser(ctx)
	if aerr != nil {
		return nil, aerr
	}
	if aerr := s.validate(in); aerr != nil {
		return nil, aerr
	}

	created, err := s.store.InsertPreset(ctx, &models.ConversionPreset{
		ID:           s.newID(),
		UserID:       userID,
		Name:         in.Name,
		SourceFormat: in.SourceFormat,
		TargetFormat: in.TargetFormat,
		Category:     in.Category,
		SettingsJSON: in.SettingsJSON,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, storeError(err, "preset")
	}

	logger.Debugf("[Actions] Created preset %s (%q) for user %s", created.ID, created.Name, userID)
	return &PresetResult{Preset: created}, nil
}

// UpdatePreset relies on the store matching id and owner in one statement;
// a foreign preset is indistinguishable from a missing one.
func (s *Service) UpdatePreset(ctx context.Context, in UpdatePresetInput) (*PresetResult, error) {
	userID, aerr := s.currentUser(ctx)
	if aerr != nil {
		return nil, aerr
	}
	if aerr := s.validate(in); aerr != nil {
		return nil, aerr
	}

	patch := in.patch()
	if patch.Empty() {
		return nil, Validation("at least one field required", nil)
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, Validation("", map[string]string{"name": "must not be empty"})
	}

	updated, err := s.store.UpdatePreset(ctx, in.ID, userID, patch)
	if err != nil {
		return nil, storeError(err, "preset")
	}
	return &PresetResult{Preset: updated}, nil
}

func (s *Service) DeletePreset(ctx context.Context, in IDInput) (*DeleteResult, error) {
	userID, aerr := s.currentUser(ctx)
	if aerr != nil {
		return nil, aerr
	}
	if aerr := s.validate(in); aerr != nil {
		return nil, aerr
	}

	if err := s.store.DeletePreset(ctx, in.ID, userID); err != nil {
		return nil, storeError(err, "preset")
	}

	logger.Debugf("[Actions] Deleted preset %s for user %s", in.ID, userID)
	return &DeleteResult{Success: true}, nil
}

func (s *Service) ListPresets(ctx context.Context) (*PresetList, error) {
	userID, aerr := s.currentUser(ctx)
	if aerr != nil {
		return nil, aerr
	}

	presets, err := s.store.ListPresets(ctx, userID)
	if err != nil {
		return nil, storeError(err, "presets")
	}
	if presets == nil {
		presets = []models.ConversionPreset{}
	}
	return &PresetList{Items: presets, Total: len(presets)}, nil
}

func (s *Service) GetPreset(ctx context.Context, in IDInput) (*PresetResult, error) {
	userID, aerr := s.currentUser(ctx)
	if aerr != nil {
		return nil, aerr
	}
	if aerr := s.validate(in); aerr != nil {
		return nil, aerr
	}

	preset, err := s.store.FindPreset(ctx, in.ID, userID)
	if err != nil {
		return nil, storeError(err, "preset")
	}
	return &PresetResult{Preset: preset}, nil
}
