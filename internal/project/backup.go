package project

import (
	"errors"
	"time"

	"oss.terrastruct.com/xdefer"

	"github.com/piwi3910/SailQuote/internal/model"
)

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string            `json:"version"`
	CreatedAt string            `json:"created_at"`
	Config    model.AppConfig   `json:"config"`
	Catalog   model.Catalog     `json:"catalog"`
	Pricing   PricingProfile    `json:"pricing"`
	Designs   model.DesignStore `json:"designs"`
}

// NewBackup snapshots the given application data.
func NewBackup(config model.AppConfig, cat model.Catalog, p PricingProfile, designs model.DesignStore) BackupData {
	return BackupData{
		Version:   "1.0.0",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Catalog:   cat,
		Pricing:   p,
		Designs:   designs,
	}
}

// ExportAllData writes a backup to a single JSON file at the specified path.
func ExportAllData(exportPath string, backup BackupData) (err error) {
	defer xdefer.Errorf(&err, "failed to write backup file")
	return writeJSON(exportPath, backup)
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported data.
func ImportAllData(importPath string) (_ BackupData, err error) {
	defer xdefer.Errorf(&err, "failed to read backup file")

	var backup BackupData
	found, err := readJSON(importPath, &backup)
	if err != nil {
		return BackupData{}, err
	}
	if !found {
		return BackupData{}, errNotFound
	}
	if backup.Version == "" {
		return BackupData{}, errors.New("invalid backup file: missing version field")
	}
	if backup.Config.RecentDesigns == nil {
		backup.Config.RecentDesigns = []string{}
	}
	if backup.Designs.Designs == nil {
		backup.Designs = model.NewDesignStore()
	}
	if err := backup.Pricing.Validate(); err != nil {
		backup.Pricing = DefaultPricingProfile()
	}
	return backup, nil
}
