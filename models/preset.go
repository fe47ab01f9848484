package models

import "time"

type ConversionPreset struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	SourceFormat *string   `json:"sourceFormat"`
	TargetFormat *string   `json:"targetFormat"`
	Category     *string   `json:"category"`
	SettingsJSON *string   `json:"settingsJson"`
	CreatedAt    time.Time `json:"createdAt"`
}

type PresetPatch struct {
	Name         *string
	SourceFormat *string
	TargetFormat *string
	Category     *string
	SettingsJSON *string
}

func (p PresetPatch) Empty() bool {
	return p.Name == nil && p.SourceFormat == nil && p.TargetFormat == nil &&
		p.Category == nil && p.SettingsJSON == nil
}
