package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"price_feed/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the SQLite-backed journal of rejected feed lines.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (or creates) the journal database at dbPath.
func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		return nil, errors.New("empty journal path")
	}

	// Ensure directory exists
	if dbDir := filepath.Dir(dbPath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.RejectedLine{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// RecordRejectedLine stores a line the subscriber could not ingest.
func (s *Storage) RecordRejectedLine(line string, reason error) error {
	rec := domain.RejectedLine{Line: line}
	if reason != nil {
		rec.Reason = reason.Error()
	}
	return s.db.Create(&rec).Error
}

// CountRejectedLines returns the number of journaled lines
func (s *Storage) CountRejectedLines() (int64, error) {
	var n int64
	err := s.db.Model(&domain.RejectedLine{}).Count(&n).Error
	return n, err
}

// RecentRejectedLines returns up to limit lines, newest first
func (s *Storage) RecentRejectedLines(limit int) ([]domain.RejectedLine, error) {
	var lines []domain.RejectedLine
	err := s.db.Order("id desc").Limit(limit).Find(&lines).Error
	return lines, err
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ domain.RejectRepository = (*Storage)(nil)
