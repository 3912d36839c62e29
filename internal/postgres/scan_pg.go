package postgres

import (
	"fmt"

	"gorm.io/gorm/clause"

	"terramosaic/internal/model"
)

// SaveScanRecord upserts a scan summary with its closest points.
func SaveScanRecord(record *model.ScanRecord) error {
	if DB == nil {
		return fmt.Errorf("postgres: not initialized")
	}

	return DB.Clauses(clause.OnConflict{
		UpdateAll: true,
	}).Create(record).Error
}

// LoadScanRecord returns one persisted scan summary by id.
func LoadScanRecord(id string) (*model.ScanRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("postgres: not initialized")
	}

	var record model.ScanRecord
	if err := DB.Preload("Points").First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
