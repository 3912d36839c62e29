package model

import (
	"time"

	"gorm.io/gorm"
)

// ScanRecord is the persisted summary of one completed proximity scan.
type ScanRecord struct {
	ID        string  `json:"id" gorm:"primaryKey"`
	HaloKm    float64 `json:"halo_km" gorm:"not null"`
	TileCount int     `json:"tile_count" gorm:"not null"`
	LineCount int     `json:"line_count" gorm:"not null"`

	Points []ClosestPoint `json:"points" gorm:"foreignKey:ScanID;constraint:OnDelete:CASCADE"`

	UpdatedAt time.Time      `json:"updated_at" gorm:"column:updated_at"`
	CreatedAt time.Time      `json:"-" gorm:"column:created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

// ClosestPoint is one retained closest-approach point of a scan. Rank is the
// point's position in the ascending proximity order.
type ClosestPoint struct {
	ID     uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	ScanID string `json:"-" gorm:"index;not null"`
	Rank   int    `json:"rank" gorm:"not null"`

	TileIndex int     `json:"tile_index" gorm:"not null"`
	X         int     `json:"x" gorm:"not null"`
	Y         int     `json:"y" gorm:"not null"`
	Latitude  float64 `json:"latitude" gorm:"not null"`
	Longitude float64 `json:"longitude" gorm:"not null"`
	Proximity float64 `json:"proximity" gorm:"not null"`
}
