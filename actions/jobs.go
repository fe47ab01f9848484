package actions

import (
	"context"

	"conversions/logger"
	"conversions/models"
)

type JobResult struct {
	Job         *models.ConversionJob `json:"job"`
	DownloadURL string                `json:"downloadUrl,omitempty"`
}

type JobList struct {
	Items []models.ConversionJob `json:"items"`
	Total int                    `json:"total"`
}

func (s *Service) CreateConversionJob(ctx context.Context, in CreateJobInput) (*JobResult, error) {
	userID, aerr := s.currentUser(ctx)
	if aerr != nil {
		return nil, aerr
	}
	if aerr := s.validate(in); aerr != nil {
		return nil, aerr
	}

	job := &models.ConversionJob{
		ID:              s.newID(),
		UserID:          userID,
		SourceFormat:    in.SourceFormat,
		TargetFormat:    in.TargetFormat,
		Category:        in.Category,
		Status:          models.StatusQueued,
		InputFileName:   in.InputFileName,
		InputFileURL:    in.InputFileURL,
		OutputFileName:  in.OutputFileName,
		OutputFileURL:   in.OutputFileURL,
		SettingsJSON:    in.SettingsJSON,
		ErrorMessage:    in.ErrorMessage,
		InputSizeBytes:  in.InputSizeBytes,
		OutputSizeBytes: in.OutputSizeBytes,
		CreatedAt:       s.now(),
		CompletedAt:     in.CompletedAt,
	}
	if in.Status != nil {
		job.Status = *in.Status
	}
	if in.CreatedAt != nil {
		job.CreatedAt = *in.CreatedAt
	}

	created, err := s.store.InsertJob(ctx, job)
	if err != nil {
		return nil, storeError(err, "conversion job")
	}

	logger.Debugf("[Actions] Created conversion job %s for user %s (status=%s)", created.ID, userID, created.Status)
	s.publishStatus(ctx, created)
	return &JobResult{Job: created}, nil
}

func (s *Service) UpdateConversionJob(ctx context.Context, in UpdateJobInput) (*JobResult, error) {
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

	updated, err := s.store.UpdateJob(ctx, in.ID, userID, patch)
	if err != nil {
		return nil, storeError(err, "conversion job")
	}

	logger.Debugf("[Actions] Updated conversion job %s (status=%s)", updated.ID, updated.Status)
	s.publishStatus(ctx, updated)
	return &JobResult{Job: updated}, nil
}

func (s *Service) ListConversionJobs(ctx context.Context) (*JobList, error) {
	userID, aerr := s.currentUser(ctx)
	if aerr != nil {
		return nil, aerr
	}

	jobs, err := s.store.ListJobs(ctx, userID)
	if err != nil {
		return nil, storeError(err, "conversion jobs")
	}
	if jobs == nil {
		jobs = []models.ConversionJob{}
	}
	return &JobList{Items: jobs, Total: len(jobs)}, nil
}

// GetConversionJob returns one owned job, with a signed download link when
// its output lives in S3.
func (s *Service) GetConversionJob(ctx context.Context, in IDInput) (*JobResult, error) {
	userID, aerr := s.currentUser(ctx)
	if aerr != nil {
		return nil, aerr
	}
	if aerr := s.validate(in); aerr != nil {
		return nil, aerr
	}

	job, err := s.store.FindJob(ctx, in.ID, userID)
	if err != nil {
		return nil, storeError(err, "conversion job")
	}

	result := &JobResult{Job: job}
	if s.links != nil && job.OutputFileURL != nil {
		url, ok, err := s.links.PresignOutput(*job.OutputFileURL)
		if err != nil {
			logger.Warnf("[Actions] Could not sign output link for job %s: %v", job.ID, err)
		} else if ok {
			result.DownloadURL = url
		}
	}
	return result, nil
}
