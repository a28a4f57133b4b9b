package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Roniclay/agrovet-api/domain"
)

// AuditRepositoryImpl implements domain.AuditLogger using GORM. The table
// is append-only; nothing in this repository updates or deletes rows.
type AuditRepositoryImpl struct {
	db *gorm.DB
}

// DBAuditLog represents the database model for an audit entry
type DBAuditLog struct {
	ID         string  `gorm:"primaryKey;size:36"`
	TenantID   string  `gorm:"size:36;index"`
	UserID     *string `gorm:"size:36;index"`
	EntityName string  `gorm:"size:64;index"`
	EntityID   string  `gorm:"size:255"`
	Action     string  `gorm:"size:64;index"`
	IPAddress  string  `gorm:"size:64"`
	UserAgent  string  `gorm:"size:512"`
	BeforeData []byte  `gorm:"type:jsonb"`
	AfterData  []byte  `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

// TableName returns the table name for GORM
func (DBAuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) domain.AuditLogger {
	return &AuditRepositoryImpl{db: db}
}

// Record implements domain.AuditLogger
func (r *AuditRepositoryImpl) Record(ctx context.Context, entry *domain.AuditEntry) error {
	before, err := marshalAuditData(entry.Before)
	if err != nil {
		return fmt.Errorf("failed to encode before payload: %w", err)
	}
	after, err := marshalAuditData(entry.After)
	if err != nil {
		return fmt.Errorf("failed to encode after payload: %w", err)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row := &DBAuditLog{
		ID:         uuid.NewString(),
		TenantID:   entry.TenantID,
		UserID:     entry.UserID,
		EntityName: entry.EntityName,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		IPAddress:  entry.IP,
		UserAgent:  entry.UserAgent,
		BeforeData: before,
		AfterData:  after,
		CreatedAt:  createdAt,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func marshalAuditData(data domain.AuditData) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	return json.Marshal(data)
}
