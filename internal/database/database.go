package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"valuecraft/server/internal/models"
)

// ErrNotFound is returned when a requested analysis does not exist.
var ErrNotFound = errors.New("analysis not found")

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	return &Database{db: db}, nil
}

// NewTestDB opens a migrated in-memory database.
func NewTestDB() (*Database, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}

	// Every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	d := &Database{db: db}
	if err := d.MigrateSchema(); err != nil {
		return nil, err
	}
	return d, nil
}

// MigrateSchema creates or updates the analysis tables.
func (d *Database) MigrateSchema() error {
	if err := d.db.AutoMigrate(&models.AnalysisRecord{}); err != nil {
		return fmt.Errorf("failed to migrate analysis_records: %w", err)
	}

	err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_analysis_records_created_at
		ON analysis_records(created_at);
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create created_at index: %w", err)
	}
	return nil
}

// DB exposes the gorm handle for transactional writers.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// UpsertAnalyses writes records inside tx. A record whose run ID already
// exists replaces the stored one.
func UpsertAnalyses(tx *gorm.DB, records []*models.AnalysisRecord) error {
	if len(records) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "run_id"}},
		UpdateAll: true,
	}).Create(&records).Error
}

// GetRecentAnalyses returns the newest records first, optionally limited to
// one property type.
func (d *Database) GetRecentAnalyses(limit int, propertyType string) ([]models.AnalysisRecord, error) {
	query := d.db.Order("created_at DESC").Order("id DESC").Limit(limit)
	if propertyType != "" {
		query = query.Where("property_type = ?", propertyType)
	}

	var records []models.AnalysisRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query recent analyses: %w", err)
	}
	return records, nil
}

func (d *Database) GetAnalysis(runID string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	err := d.db.Where("run_id = ?", runID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis %s: %w", runID, err)
	}
	return &record, nil
}

func (d *Database) GetValuationStats(propertyType string) (models.ValuationStats, error) {
	query := `
        SELECT
            COUNT(*) as total_analyses,
            COALESCE(ROUND(AVG(estimated_value)), 0) as average_value,
            COALESCE(AVG(confidence), 0) as average_confidence,
            COALESCE(AVG(NULLIF(cap_rate, 0)), 0) as average_cap_rate,
            COALESCE(AVG(NULLIF(dscr, 0)), 0) as average_dscr
        FROM analysis_records
        WHERE (? = '' OR property_type = ?)
    `

	var stats models.ValuationStats
	err := d.db.Raw(query, propertyType, propertyType).Scan(&stats).Error
	if err != nil {
		return models.ValuationStats{}, fmt.Errorf("failed to query valuation stats: %w", err)
	}
	return stats, nil
}

// DeleteAnalysesBefore removes records created before cutoff and returns how
// many were deleted.
func (d *Database) DeleteAnalysesBefore(cutoff time.Time) (int64, error) {
	result := d.db.Where("created_at < ?", cutoff).Delete(&models.AnalysisRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old analyses: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
