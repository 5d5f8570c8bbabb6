package sim

import (
	"fmt"
	"strconv"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"manhattan-sim/internal/report"
)

type vehicleRecord struct {
	ID uint `gorm:"primaryKey"`
	report.VehicleRow
}

func (vehicleRecord) TableName() string { return report.VehicleTableName }

// runRecord stores the seed as text; SQLite integers cannot hold the full
// uint64 range.
type runRecord struct {
	ID   uint   `gorm:"primaryKey"`
	Seed string `gorm:"column:seed"`
	report.RunRow
}

func (runRecord) TableName() string { return report.RunTableName }

type sweepRecord struct {
	ID uint `gorm:"primaryKey"`
	report.SweepRow
}

func (sweepRecord) TableName() string { return report.SweepTableName }

// SQLiteWriter archives runs into a SQLite database through gorm.
type SQLiteWriter struct {
	db *gorm.DB
}

// NewSQLiteWriter opens (or creates) the archive at path and migrates it.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	if err := db.AutoMigrate(&vehicleRecord{}, &runRecord{}, &sweepRecord{}); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return &SQLiteWriter{db: db}, nil
}

// Write stores a single vehicle row.
func (w *SQLiteWriter) Write(row report.VehicleRow) error {
	return w.db.Create(&vehicleRecord{VehicleRow: row}).Error
}

// WriteBatch stores vehicle rows in one transaction.
func (w *SQLiteWriter) WriteBatch(rows []report.VehicleRow) error {
	if len(rows) == 0 {
		return nil
	}
	recs := make([]vehicleRecord, len(rows))
	for i, r := range rows {
		recs[i] = vehicleRecord{VehicleRow: r}
	}
	return w.db.CreateInBatches(recs, 500).Error
}

// WriteRun stores a run summary.
func (w *SQLiteWriter) WriteRun(row report.RunRow) error {
	return w.db.Create(&runRecord{Seed: strconv.FormatUint(row.Seed, 10), RunRow: row}).Error
}

// WriteSweep stores a sweep row.
func (w *SQLiteWriter) WriteSweep(row report.SweepRow) error {
	return w.db.Create(&sweepRecord{SweepRow: row}).Error
}

// Runs returns all archived runs in insertion order.
func (w *SQLiteWriter) Runs() ([]report.RunRow, error) {
	var recs []runRecord
	if err := w.db.Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]report.RunRow, len(recs))
	for i, r := range recs {
		seed, err := strconv.ParseUint(r.Seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad seed %q: %w", r.RunID, r.Seed, err)
		}
		out[i] = r.RunRow
		out[i].Seed = seed
	}
	return out, nil
}

// Vehicles returns the vehicle rows of one run ordered by index.
func (w *SQLiteWriter) Vehicles(runID string) ([]report.VehicleRow, error) {
	var recs []vehicleRecord
	if err := w.db.Where("run_id = ?", runID).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]report.VehicleRow, len(recs))
	for i, r := range recs {
		out[i] = r.VehicleRow
	}
	return out, nil
}

// Sweeps returns all archived sweep rows in insertion order.
func (w *SQLiteWriter) Sweeps() ([]report.SweepRow, error) {
	var recs []sweepRecord
	if err := w.db.Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]report.SweepRow, len(recs))
	for i, r := range recs {
		out[i] = r.SweepRow
	}
	return out, nil
}

// Close closes the underlying database handle.
func (w *SQLiteWriter) Close() error { return closeDB(w.db) }

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
