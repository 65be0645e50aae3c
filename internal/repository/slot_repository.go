package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"focusflow/internal/model"
)

// SlotRepository stores slots as rows of a SQLite table.
type SlotRepository struct {
	db  *gorm.DB
	dsn string
}

func NewSlotRepository(db *gorm.DB, dsn string) *SlotRepository {
	return &SlotRepository{db: db, dsn: dsn}
}

func (r *SlotRepository) Read(ctx context.Context, key string) ([]byte, error) {
	var slot model.Slot
	err := r.db.WithContext(ctx).Where("name = ?", key).First(&slot).Error
	switch {
	case err == nil:
		return slot.Value, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrSlotNotFound
	default:
		return nil, fmt.Errorf("read slot %s: %w", key, err)
	}
}

// Write upserts every slot inside one transaction, so readers never see a
// half-written state.
func (r *SlotRepository) Write(ctx context.Context, values map[string][]byte) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			slot := model.Slot{Name: key, Value: values[key]}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&slot).Error
			if err != nil {
				return fmt.Errorf("write slot %s: %w", key, err)
			}
		}
		return nil
	})
}

func (r *SlotRepository) WatchPath() string {
	if isMemoryDSN(r.dsn) {
		return ""
	}
	return sqliteFile(r.dsn)
}

func (r *SlotRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
