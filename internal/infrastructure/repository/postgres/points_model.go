package postgres

import (
	"database/sql"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/points"
)

type pointsConfigTableModel struct {
	ID               int64      `db:"id"`
	PublicID         string     `db:"public_id"`
	Description      string     `db:"description"`
	BasePoints       float64    `db:"base_points"`
	WeightFactor     float64    `db:"weight_factor"`
	SeparationFactor float64    `db:"separation_factor"`
	Active           bool       `db:"active"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at"`
}

func (m pointsConfigTableModel) toDomain() points.Config {
	return points.Config{
		ID:               m.PublicID,
		Description:      m.Description,
		BasePoints:       m.BasePoints,
		WeightFactor:     m.WeightFactor,
		SeparationFactor: m.SeparationFactor,
		Active:           m.Active,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

type collectionRecordTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	RequestID   string    `db:"request_public_id"`
	CompanyID   string    `db:"company_id"`
	WeightKg    float64   `db:"weight_kg"`
	Separated   bool      `db:"separated"`
	Points      int       `db:"points"`
	CollectedAt time.Time `db:"collected_at"`
}

func (m collectionRecordTableModel) toDomain() points.Record {
	return points.Record{
		ID:          m.PublicID,
		RequestID:   m.RequestID,
		CompanyID:   m.CompanyID,
		WeightKg:    m.WeightKg,
		Separated:   m.Separated,
		Points:      m.Points,
		CollectedAt: m.CollectedAt,
	}
}

type ledgerEntryTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	UserID    string         `db:"user_id"`
	RecordID  sql.NullString `db:"record_public_id"`
	Points    int            `db:"points"`
	Reason    string         `db:"reason"`
	CreatedAt time.Time      `db:"created_at"`
}

func (m ledgerEntryTableModel) toDomain() points.LedgerEntry {
	return points.LedgerEntry{
		ID:        m.PublicID,
		UserID:    m.UserID,
		RecordID:  m.RecordID.String,
		Points:    m.Points,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
	}
}
