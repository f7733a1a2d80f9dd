package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawcare-backend/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const adminTokenVersionKey = "admin_token_version"

// IncrAdminVersion bumps the persisted admin token version.
func (s *Store) IncrAdminVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"int_value":  gorm.Expr("settings.int_value + 1"),
				"updated_at": now,
			}),
		}).Create(&models.Setting{Key: adminTokenVersionKey, IntValue: 1, UpdatedAt: now}).Error
		if err != nil {
			return fmt.Errorf("bump admin token version: %w", err)
		}
		var setting models.Setting
		if err := tx.First(&setting, "key = ?", adminTokenVersionKey).Error; err != nil {
			return fmt.Errorf("read admin token version: %w", err)
		}
		version = int(setting.IntValue)
		return nil
	})
	return version, err
}

func (s *Store) AdminVersion(ctx context.Context) (int, error) {
	var setting models.Setting
	err := s.db.WithContext(ctx).First(&setting, "key = ?", adminTokenVersionKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read admin token version: %w", err)
	}
	return int(setting.IntValue), nil
}

// AdminVersionSource is the authoritative admin token version counter.
type AdminVersionSource interface {
	IncrAdminVersion(ctx context.Context) (int, error)
	AdminVersion(ctx context.Context) (int, error)
}

// adminVersionTTL bounds how long a cached version can outlive a failed
// cache write.
const adminVersionTTL = time.Minute

// raiseVersion stores ARGV[1] only when it is above the cached value, so a
// slow reader can never put back a version an admin login already replaced.
var raiseVersion = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]))
local want = tonumber(ARGV[1])
if cur == nil or cur < want then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
  return 1
end
return 0
`)

// CachedAdminVersions keeps the admin token version in Redis in front of the
// settings table. The database stays authoritative so a Redis flush never
// resurrects revoked tokens.
type CachedAdminVersions struct {
	rdb *redis.Client
	db  AdminVersionSource
}

func NewCachedAdminVersions(rdb *redis.Client, db AdminVersionSource) *CachedAdminVersions {
	return &CachedAdminVersions{rdb: rdb, db: db}
}

func (c *CachedAdminVersions) IncrAdminVersion(ctx context.Context) (int, error) {
	v, err := c.db.IncrAdminVersion(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.cache(ctx, v); err != nil {
		logrus.WithError(err).Warn("cache admin token version")
		if err := c.rdb.Del(ctx, adminTokenVersionKey).Err(); err != nil {
			logrus.WithError(err).Error("drop cached admin token version")
		}
	}
	return v, nil
}

func (c *CachedAdminVersions) AdminVersion(ctx context.Context) (int, error) {
	v, err := c.rdb.Get(ctx, adminTokenVersionKey).Int()
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, redis.Nil) {
		logrus.WithError(err).Warn("read cached admin token version")
	}
	v, err = c.db.AdminVersion(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.cache(ctx, v); err != nil {
		logrus.WithError(err).Warn("cache admin token version")
	}
	return v, nil
}

func (c *CachedAdminVersions) cache(ctx context.Context, v int) error {
	return raiseVersion.Run(ctx, c.rdb, []string{adminTokenVersionKey}, v, adminVersionTTL.Milliseconds()).Err()
}
