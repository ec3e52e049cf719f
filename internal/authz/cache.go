package authz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/attenda/attenda/internal/db/models"
)

// DefaultRoleCacheTTL keeps cached role grants for a few seconds only.
// The hierarchy guard and the engine both depend on freshness: a stale
// grant is a stale-privilege window.
const DefaultRoleCacheTTL = 10 * time.Second

// RoleCache is a read-through cache of role records in front of the role
// table. Role updates must call Invalidate so new grants take effect
// promptly. A nil redis client degrades to a pass-through (every Get is a
// miss), which keeps single-node deployments working without redis.
type RoleCache struct {
	rdb *redis.Client
	ttl time.Duration
	ctx context.Context
}

// NewRoleCache creates a role cache backed by the given redis client.
// A zero ttl falls back to DefaultRoleCacheTTL.
func NewRoleCache(rdb *redis.Client, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = DefaultRoleCacheTTL
	}

	return &RoleCache{rdb: rdb, ttl: ttl, ctx: context.Background()}
}

func (c *RoleCache) key(id uint) string {
	return fmt.Sprintf("attenda:role:%d", id)
}

// Get returns the cached role and true on a hit. Cache errors count as
// misses; the caller falls through to the database.
func (c *RoleCache) Get(id uint) (*models.Role, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(c.ctx, c.key(id)).Bytes()
	if err != nil {
		return nil, false
	}

	var role models.Role
	if err := json.Unmarshal(raw, &role); err != nil {
		return nil, false
	}

	return &role, true
}

// Put stores a role for the cache TTL. Failures are ignored; the next Get
// simply misses.
func (c *RoleCache) Put(role *models.Role) {
	if c == nil || c.rdb == nil || role == nil {
		return
	}

	raw, err := json.Marshal(role)
	if err != nil {
		return
	}

	c.rdb.Set(c.ctx, c.key(role.ID), raw, c.ttl)
}

// Invalidate drops the cached entry for a role. Called by the role update
// transition before it commits new grants.
func (c *RoleCache) Invalidate(id uint) {
	if c == nil || c.rdb == nil {
		return
	}

	c.rdb.Del(c.ctx, c.key(id))
}
