package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Roniclay/agrovet-api/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository. The database
// holds the authoritative rows so session invalidation can join the
// password-rotation transaction; Redis fronts the hot bearer-token path as
// a short-TTL write-through cache.
type SessionRepositoryImpl struct {
	db       *gorm.DB
	cache    *redis.Client
	prefix   string
	cacheTTL time.Duration
}

// DBSession represents the database model for Session
type DBSession struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"size:36;index"`
	TenantID  string `gorm:"size:36;index"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "user_sessions"
}

// NewSessionRepository creates a new session repository. A nil cache client
// disables caching; everything falls through to the database.
func NewSessionRepository(db *gorm.DB, cache *redis.Client, cacheTTL time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{
		db:       db,
		cache:    cache,
		prefix:   "session:",
		cacheTTL: cacheTTL,
	}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	dbSession := &DBSession{
		ID:        session.ID,
		UserID:    session.UserID,
		TenantID:  session.TenantID,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(dbSession).Error; err != nil {
		return err
	}
	r.cacheSet(ctx, session)
	return nil
}

// FindByID implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	if session, ok := r.cacheGet(ctx, sessionID); ok {
		if session.ExpiresAt.Before(time.Now()) {
			return nil, domain.ErrSessionExpired
		}
		return session, nil
	}

	var dbSession DBSession
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&dbSession).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	session := &domain.Session{
		ID:        dbSession.ID,
		UserID:    dbSession.UserID,
		TenantID:  dbSession.TenantID,
		ExpiresAt: dbSession.ExpiresAt,
		CreatedAt: dbSession.CreatedAt,
	}

	if session.ExpiresAt.Before(time.Now()) {
		r.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&DBSession{})
		return nil, domain.ErrSessionExpired
	}

	r.cacheSet(ctx, session)
	return session, nil
}

// Delete implements domain.SessionRepository
func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&DBSession{}).Error; err != nil {
		return err
	}
	return r.EvictCached(ctx, []string{sessionID})
}

// EvictCached implements domain.SessionRepository. It only touches the
// cache layer; the database rows are managed by the callers.
func (r *SessionRepositoryImpl) EvictCached(ctx context.Context, sessionIDs []string) error {
	if r.cache == nil || len(sessionIDs) == 0 {
		return nil
	}
	keys := make([]string, len(sessionIDs))
	for i, id := range sessionIDs {
		keys[i] = r.prefix + id
	}
	return r.cache.Del(ctx, keys...).Err()
}

func (r *SessionRepositoryImpl) cacheSet(ctx context.Context, session *domain.Session) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	// Best effort: a cache write failure just means the next lookup hits
	// the database.
	_ = r.cache.Set(ctx, r.prefix+session.ID, data, r.cacheTTL).Err()
}

func (r *SessionRepositoryImpl) cacheGet(ctx context.Context, sessionID string) (*domain.Session, bool) {
	if r.cache == nil {
		return nil, false
	}
	data, err := r.cache.Get(ctx, r.prefix+sessionID).Result()
	if err != nil {
		return nil, false
	}
	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		_ = r.cache.Del(ctx, r.prefix+sessionID).Err()
		return nil, false
	}
	return &session, true
}
