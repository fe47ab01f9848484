package actions

import (
	"reflect"
	"strings"
	"time"

	"conversions/models"

	"github.com/go-playground/validator/v10"
)

// Optional fields are pointers: a missing or null JSON key leaves them nil,
// while an explicit "" or 0 is a supplied value.

type CreateJobInput struct {
	SourceFormat    *string    `json:"sourceFormat"`
	TargetFormat    *string    `json:"targetFormat"`
	Category        *string    `json:"category"`
	Status          *string    `json:"status"`
	InputFileName   *string    `json:"inputFileName"`
	InputFileURL    *string    `json:"inputFileUrl"`
	OutputFileName  *string    `json:"outputFileName"`
	OutputFileURL   *string    `json:"outputFileUrl"`
	SettingsJSON    *string    `json:"settingsJson"`
	ErrorMessage    *string    `json:"errorMessage"`
	InputSizeBytes  *int64     `json:"inputSizeBytes" validate:"omitempty,gte=0"`
	OutputSizeBytes *int64     `json:"outputSizeBytes" validate:"omitempty,gte=0"`
	CreatedAt       *time.Time `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt"`
}

type UpdateJobInput struct {
	ID              string     `json:"id" validate:"required"`
	Status          *string    `json:"status"`
	OutputFileName  *string    `json:"outputFileName"`
	OutputFileURL   *string    `json:"outputFileUrl"`
	SettingsJSON    *string    `json:"settingsJson"`
	ErrorMessage    *string    `json:"errorMessage"`
	InputSizeBytes  *int64     `json:"inputSizeBytes" validate:"omitempty,gte=0"`
	OutputSizeBytes *int64     `json:"outputSizeBytes" validate:"omitempty,gte=0"`
	CompletedAt     *time.Time `json:"completedAt"`
}

func (in UpdateJobInput) patch() models.JobPatch {
	return models.JobPatch{
		Status:          in.Status,
		OutputFileName:  in.OutputFileName,
		OutputFileURL:   in.OutputFileURL,
		SettingsJSON:    in.SettingsJSON,
		ErrorMessage:    in.ErrorMessage,
		InputSizeBytes:  in.InputSizeBytes,
		OutputSizeBytes: in.OutputSizeBytes,
		CompletedAt:     in.CompletedAt,
	}
}

type CreatePresetInput struct {
	Name         string  `json:"name" validate:"required"`
	SourceFormat *string `json:"sourceFormat"`
	TargetFormat *string `json:"targetFormat"`
	Category     *string `json:"category"`
	SettingsJSON *string `json:"settingsJson"`
}

type UpdatePresetInput struct {
	ID           string  `json:"id" validate:"required"`
	Name         *string `json:"name"`
	SourceFormat *string `json:"sourceFormat"`
	TargetFormat *string `json:"targetFormat"`
	Category     *string `json:"category"`
	SettingsJSON *string `json:"settingsJson"`
}

func (in UpdatePresetInput) patch() models.PresetPatch {
	return models.PresetPatch{
		Name:         in.Name,
		SourceFormat: in.SourceFormat,
		TargetFormat: in.TargetFormat,
		Category:     in.Category,
		SettingsJSON: in.SettingsJSON,
	}
}

// IDInput addresses a single record.
type IDInput struct {
	ID string `json:"id" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func (s *Service) validate(in interface{}) *Error {
	err := s.validator.Struct(in)
	if err == nil {
		return nil
	}

	fields := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Validation(err.Error(), nil)
	}
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			fields[e.Field()] = "is required"
		case "gte":
			fields[e.Field()] = "must not be negative"
		default:
			fields[e.Field()] = "is invalid"
		}
	}
	return Validation("", fields)
}
