package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixed keys mirroring what the storefront keeps per browser session.
const (
	KeyCart       = "cart"
	KeyConsent    = "data_processing_consent"
	KeyAdminToken = "admin_token"
)

// Entry is one JSON-serialized value owned by a storefront session.
type Entry struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName pins the goose-managed table name.
func (Entry) TableName() string {
	return "kv_entries"
}

// Store is the synchronous key-value substrate behind cart, consent and
// admin-token state.
type Store interface {
	Get(ctx context.Context, sessionID, key string, dest any) (bool, error)
	Set(ctx context.Context, sessionID, key string, value any) error
	Delete(ctx context.Context, sessionID, key string) error
}

type store struct {
	db *gorm.DB
}

// NewStore builds a Store backed by the provided GORM connection.
func NewStore(db *gorm.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &store{db: db}, nil
}

// Get unmarshals the stored value into dest. The boolean reports presence;
// a missing key is not an error.
func (s *store) Get(ctx context.Context, sessionID, key string, dest any) (bool, error) {
	if sessionID == "" || key == "" {
		return false, fmt.Errorf("session id and key required")
	}

	var entry Entry
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(entry.Value), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set serializes value as JSON and writes it back whole.
func (s *store) Set(ctx context.Context, sessionID, key string, value any) error {
	if sessionID == "" || key == "" {
		return fmt.Errorf("session id and key required")
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	entry := Entry{
		SessionID: sessionID,
		Key:       key,
		Value:     string(raw),
		UpdatedAt: time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is a no-op.
func (s *store) Delete(ctx context.Context, sessionID, key string) error {
	if sessionID == "" || key == "" {
		return fmt.Errorf("session id and key required")
	}
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
