package actions

import (
	"context"
	"errors"
	"sort"
	"sync"

	"conversions/models"
	"conversions/services"
)

// memStore mirrors DatabaseService semantics: every keyed operation matches
// on id and owner together.
type memStore struct {
	mu      sync.Mutex
	jobs    map[string]models.ConversionJob
	presets map[string]models.ConversionPreset
	calls   int
	failErr error
}

func newMemStore() *memStore {
	return &memStore{
		jobs:    map[string]models.ConversionJob{},
		presets: map[string]models.ConversionPreset{},
	}
}

func (m *memStore) begin() error {
	m.calls++
	return m.failErr
}

func (m *memStore) InsertJob(_ context.Context, job *models.ConversionJob) (*models.ConversionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	m.jobs[job.ID] = *job
	out := *job
	return &out, nil
}

func (m *memStore) UpdateJob(_ context.Context, id, userID string, patch models.JobPatch) (*models.ConversionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, errors.New("empty job patch")
	}
	job, ok := m.jobs[id]
	if !ok || job.UserID != userID {
		return nil, services.ErrNotFound
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.OutputFileName != nil {
		job.OutputFileName = patch.OutputFileName
	}
	if patch.OutputFileURL != nil {
		job.OutputFileURL = patch.OutputFileURL
	}
	if patch.SettingsJSON != nil {
		job.SettingsJSON = patch.SettingsJSON
	}
	if patch.ErrorMessage != nil {
		job.ErrorMessage = patch.ErrorMessage
	}
	if patch.InputSizeBytes != nil {
		job.InputSizeBytes = patch.InputSizeBytes
	}
	if patch.OutputSizeBytes != nil {
		job.OutputSizeBytes = patch.OutputSizeBytes
	}
	if patch.CompletedAt != nil {
		job.CompletedAt = patch.CompletedAt
	}
	m.jobs[id] = job
	return &job, nil
}

func (m *memStore) FindJob(_ context.Context, id, userID string) (*models.ConversionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	job, ok := m.jobs[id]
	if !ok || job.UserID != userID {
		return nil, services.ErrNotFound
	}
	return &job, nil
}

func (m *memStore) ListJobs(_ context.Context, userID string) ([]models.ConversionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	var out []models.ConversionJob
	for _, job := range m.jobs {
		if job.UserID == userID {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) InsertPreset(_ context.Context, preset *models.ConversionPreset) (*models.ConversionPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	m.presets[preset.ID] = *preset
	out := *preset
	return &out, nil
}

func (m *memStore) UpdatePreset(_ context.Context, id, userID string, patch models.PresetPatch) (*models.ConversionPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	preset, ok := m.presets[id]
	if !ok || preset.UserID != userID {
		return nil, services.ErrNotFound
	}
	if patch.Name != nil {
		preset.Name = *patch.Name
	}
	if patch.SourceFormat != nil {
		preset.SourceFormat = patch.SourceFormat
	}
	if patch.TargetFormat != nil {
		preset.TargetFormat = patch.TargetFormat
	}
	if patch.Category != nil {
		preset.Category = patch.Category
	}
	if patch.SettingsJSON != nil {
		preset.SettingsJSON = patch.SettingsJSON
	}
	m.presets[id] = preset
	return &preset, nil
}

func (m *memStore) DeletePreset(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return err
	}
	preset, ok := m.presets[id]
	if !ok || preset.UserID != userID {
		return services.ErrNotFound
	}
	delete(m.presets, id)
	return nil
}

func (m *memStore) FindPreset(_ context.Context, id, userID string) (*models.ConversionPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	preset, ok := m.presets[id]
	if !ok || preset.UserID != userID {
		return nil, services.ErrNotFound
	}
	return &preset, nil
}

func (m *memStore) ListPresets(_ context.Context, userID string) ([]models.ConversionPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	var out []models.ConversionPreset
	for _, preset := range m.presets {
		if preset.UserID == userID {
			out = append(out, preset)
		}
	}
	return out, nil
}

type stubPublisher struct {
	published []models.ConversionJob
	err       error
}

func (p *stubPublisher) Publish(_ context.Context, job *models.ConversionJob) error {
	p.published = append(p.published, *job)
	return p.err
}

type stubSigner struct{}

func (stubSigner) PresignOutput(ref string) (string, bool, error) {
	if _, _, ok := services.ParseS3Ref(ref); !ok {
		return "", false, nil
	}
	return "https://signed.example/" + ref[len("s3://"):], true, nil
}
