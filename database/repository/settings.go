package repository

import (
	"fmt"
	"strings"
	"time"

	baseGorm "gorm.io/gorm"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/gorm"
)

// Settings stores operator-tunable knobs as key/value pairs and keeps an
// append-only change history alongside them.
type Settings struct {
	DB *database.Connection
	tx *baseGorm.DB
}

func (s Settings) WithTx(tx *baseGorm.DB) Settings {
	s.tx = tx

	return s
}

func (s Settings) sql() *baseGorm.DB {
	if s.tx != nil {
		return s.tx
	}

	return s.DB.Sql()
}

// Get returns the setting stored under the given key, or nil when unset.
func (s Settings) Get(key string) *database.Setting {
	setting := database.Setting{}

	result := s.sql().
		Where("key = ?", strings.TrimSpace(key)).
		First(&setting)

	if gorm.IsFoundButHasErrors(result.Error) || gorm.IsNotFound(result.Error) {
		return nil
	}

	return &setting
}

// Upsert writes a setting and records the change in the same transaction.
// The history row captures the previous value, nil on first write.
func (s Settings) Upsert(attrs database.SettingAttrs, now time.Time) (*database.Setting, error) {
	var saved *database.Setting

	write := func(tx *baseGorm.DB) error {
		scoped := s.WithTx(tx)

		var oldValue *string
		if existing := scoped.Get(attrs.Key); existing != nil {
			value := existing.Value
			oldValue = &value
		}

		setting := database.Setting{
			Key:   strings.TrimSpace(attrs.Key),
			Value: attrs.Value,
		}

		result := tx.
			Where("key = ?", setting.Key).
			Assign(map[string]any{"value": setting.Value}).
			FirstOrCreate(&setting)

		if gorm.HasDbIssues(result.Error) {
			return fmt.Errorf("issue upserting setting [%s]: %w", attrs.Key, result.Error)
		}

		change := database.SettingChange{
			Key:       setting.Key,
			OldValue:  oldValue,
			NewValue:  attrs.Value,
			ChangedBy: attrs.ChangedBy,
			ChangedAt: now,
		}

		if result := tx.Create(&change); gorm.HasDbIssues(result.Error) {
			return fmt.Errorf("issue recording setting change [%s]: %w", attrs.Key, result.Error)
		}

		saved = &setting

		return nil
	}

	var err error
	if s.tx != nil {
		err = write(s.tx)
	} else {
		err = s.DB.Transaction(write)
	}

	if err != nil {
		return nil, err
	}

	return saved, nil
}

// History lists the most recent changes for a key, newest first.
func (s Settings) History(key string, limit int) ([]database.SettingChange, error) {
	var changes []database.SettingChange

	result := s.sql().
		Where("key = ?", strings.TrimSpace(key)).
		Order("changed_at DESC").
		Limit(limit).
		Find(&changes)

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue listing setting history [%s]: %w", key, result.Error)
	}

	return changes, nil
}
