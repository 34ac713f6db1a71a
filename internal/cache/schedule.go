package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	departmentKeyPrefix = "schedule:dept:%s"
	staffKeyPrefix      = "schedule:staff:%d"
)

const (
	// DepartmentScheduleTTL bounds staleness when an invalidation is missed.
	DepartmentScheduleTTL = 10 * time.Minute
)

// DepartmentKey returns the cache key for a department schedule.
func DepartmentKey(department string) string {
	return fmt.Sprintf(departmentKeyPrefix, department)
}

// StaffKey returns the cache key for a single staff member's schedule.
func StaffKey(staffID uint) string {
	return fmt.Sprintf(staffKeyPrefix, staffID)
}

// ScheduleCache caches aggregate WFH schedule views in Redis. All methods
// degrade to no-ops when no client is configured; the cache is an
// optimization, never a source of truth.
type ScheduleCache struct {
	rdb *redis.Client
}

// NewScheduleCache returns a ScheduleCache over the given client, or nil
// when the client is nil.
func NewScheduleCache(rdb *redis.Client) *ScheduleCache {
	if rdb == nil {
		return nil
	}
	return &ScheduleCache{rdb: rdb}
}

// GetDepartment loads a cached department schedule into dest. Returns false
// on miss or any error.
func (c *ScheduleCache) GetDepartment(ctx context.Context, department string, dest interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, DepartmentKey(department)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetDepartment stores a department schedule with the standard TTL.
func (c *ScheduleCache) SetDepartment(ctx context.Context, department string, value interface{}) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, DepartmentKey(department), raw, DepartmentScheduleTTL)
}

// InvalidateDepartment drops the cached schedule for a department.
func (c *ScheduleCache) InvalidateDepartment(ctx context.Context, department string) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, DepartmentKey(department))
}

// InvalidateStaff drops the cached schedule for a staff member.
func (c *ScheduleCache) InvalidateStaff(ctx context.Context, staffID uint) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, StaffKey(staffID))
}
