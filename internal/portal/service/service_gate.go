// Copyright 2025 Wachportal Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/internal/portal/repo"
	"github.com/wachportal/wachportal/pkg/cache"
	"github.com/wachportal/wachportal/pkg/event"
	"github.com/wachportal/wachportal/pkg/log"
)

// Enablement is a point-in-time snapshot of one tenant's module flags.
// Missing modules are disabled; only an explicit record enables anything.
type Enablement struct {
	TenantId string
	Enabled  map[string]bool
}

// IsEnabled reports whether the module is reachable for this tenant. The
// admin tenant sees everything and home is always on so that no tenant can
// lock itself out of the entry page.
func (e Enablement) IsEnabled(moduleId string) bool {
	if e.TenantId == consts.AdminTenant {
		return true
	}
	if moduleId == consts.ModuleHome {
		return true
	}
	return e.Enabled[moduleId]
}

// TenantModuleGate answers per-tenant module enablement. Snapshots are
// cached in redis for a short TTL and dropped eagerly on writes.
type TenantModuleGate struct {
	tenantRepo repo.ITenantModuleRepository
	cache      cache.ICache
	bus        *event.EventBus
}

func NewTenantModuleGate(tenantRepo repo.ITenantModuleRepository, c cache.ICache, bus *event.EventBus) *TenantModuleGate {
	return &TenantModuleGate{
		tenantRepo: tenantRepo,
		cache:      c,
		bus:        bus,
	}
}

// Enablement returns the flag snapshot for a tenant. A store failure yields
// an empty snapshot: the tenant falls back to home only rather than gaining
// modules it never enabled.
func (s *TenantModuleGate) Enablement(ctx context.Context, tenantId string) Enablement {
	snapshot := Enablement{TenantId: tenantId, Enabled: map[string]bool{}}
	if tenantId == consts.AdminTenant {
		return snapshot
	}

	key := consts.TenantModuleKeyPrefix + tenantId
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var cached map[string]bool
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				snapshot.Enabled = cached
				return snapshot
			}
		} else if err != redis.Nil {
			log.Warnw("tenant module cache read failed", "tenantId", tenantId, "err", err)
		}
	}

	enabled, err := s.tenantRepo.ListEnabled(tenantId)
	if err != nil {
		log.Errorw("load tenant modules failed, denying by default", "tenantId", tenantId, "err", err)
		return snapshot
	}
	snapshot.Enabled = enabled

	if s.cache != nil {
		if data, err := json.Marshal(enabled); err == nil {
			if err := s.cache.Set(ctx, key, data, consts.TenantModuleCacheTTL).Err(); err != nil {
				log.Warnw("tenant module cache write failed", "tenantId", tenantId, "err", err)
			}
		}
	}
	return snapshot
}

// IsEnabled is a one-shot convenience around Enablement.
func (s *TenantModuleGate) IsEnabled(ctx context.Context, tenantId, moduleId string) bool {
	return s.Enablement(ctx, tenantId).IsEnabled(moduleId)
}

// SetEnabled flips one flag, drops the cached snapshot and announces the
// change on the bus.
func (s *TenantModuleGate) SetEnabled(ctx context.Context, tenantId, moduleId string, enabled bool) error {
	if err := s.tenantRepo.SetEnabled(tenantId, moduleId, enabled); err != nil {
		return err
	}
	s.Invalidate(ctx, tenantId)
	if s.bus != nil {
		s.bus.Publish(ModulesUpdatedEvent{TenantId: tenantId, ModuleId: moduleId})
	}
	return nil
}

// Invalidate drops the cached snapshot for a tenant.
func (s *TenantModuleGate) Invalidate(ctx context.Context, tenantId string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, consts.TenantModuleKeyPrefix+tenantId).Err(); err != nil {
		log.Warnw("tenant module cache invalidation failed", "tenantId", tenantId, "err", err)
	}
}
