package models

import "time"

// Conventional job status labels. Status is stored as free text and any
// value is accepted; these are what converters usually report.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type ConversionJob struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	SourceFormat    *string    `json:"sourceFormat"`
	TargetFormat    *string    `json:"targetFormat"`
	Category        *string    `json:"category"`
	Status          string     `json:"status"`
	InputFileName   *string    `json:"inputFileName"`
	InputFileURL    *string    `json:"inputFileUrl"`
	OutputFileName  *string    `json:"outputFileName"`
	OutputFileURL   *string    `json:"outputFileUrl"`
	SettingsJSON    *string    `json:"settingsJson"`
	ErrorMessage    *string    `json:"errorMessage"`
	InputSizeBytes  *int64     `json:"inputSizeBytes"`
	OutputSizeBytes *int64     `json:"outputSizeBytes"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt"`
}

// JobPatch carries the mutable job columns. A nil field is left untouched;
// a non-nil field is written even when it points at a zero value.
type JobPatch struct {
	Status          *string
	OutputFileName  *string
	OutputFileURL   *string
	SettingsJSON    *string
	ErrorMessage    *string
	InputSizeBytes  *int64
	OutputSizeBytes *int64
	CompletedAt     *time.Time
}

func (p JobPatch) Empty() bool {
	return p.Status == nil && p.OutputFileName == nil && p.OutputFileURL == nil &&
		p.SettingsJSON == nil && p.ErrorMessage == nil && p.InputSizeBytes == nil &&
		p.OutputSizeBytes == nil && p.CompletedAt == nil
}
