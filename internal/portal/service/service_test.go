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
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/pkg/log"
)

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

var (
	superadminCtx = model.AuthorizationContext{Uid: "u-1", TenantId: "wache-nord", Role: consts.RoleSuperadmin}
	benutzerCtx   = model.AuthorizationContext{Uid: "u-2", TenantId: "wache-nord", Role: consts.RoleBenutzer}
)

// fakeModuleRepo is an in-memory IModuleRepository.
type fakeModuleRepo struct {
	records []model.ModuleRecord
	listErr error
	block   chan struct{} // when set, ListOverrides waits for a close
}

func (f *fakeModuleRepo) ListOverrides() ([]model.ModuleRecord, error) {
	if f.block != nil {
		<-f.block
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.ModuleRecord(nil), f.records...), nil
}

func (f *fakeModuleRepo) GetOverride(moduleId string) (*model.ModuleRecord, error) {
	for i := range f.records {
		if f.records[i].ModuleId == moduleId {
			return &f.records[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeModuleRepo) UpsertOverride(req *model.UpsertModuleRequest) error {
	roles, _ := json.Marshal(req.Roles)
	isActive := model.ModuleActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	rec := model.ModuleRecord{
		ModuleId: req.ModuleId,
		Label:    req.Label,
		Location: req.Location,
		Roles:    datatypes.JSON(roles),
		Order:    req.Order,
		IsActive: isActive,
	}
	for i := range f.records {
		if f.records[i].ModuleId == req.ModuleId {
			f.records[i] = rec
			return nil
		}
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeModuleRepo) DeleteOverride(moduleId string) error {
	for i := range f.records {
		if f.records[i].ModuleId == moduleId {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeTenantRepo is an in-memory ITenantModuleRepository.
type fakeTenantRepo struct {
	flags   map[string]map[string]bool
	listErr error
}

func (f *fakeTenantRepo) ListEnabled(tenantId string) (map[string]bool, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make(map[string]bool, len(f.flags[tenantId]))
	for k, v := range f.flags[tenantId] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeTenantRepo) SetEnabled(tenantId, moduleId string, enabled bool) error {
	if f.flags == nil {
		f.flags = make(map[string]map[string]bool)
	}
	if f.flags[tenantId] == nil {
		f.flags[tenantId] = make(map[string]bool)
	}
	f.flags[tenantId][moduleId] = enabled
	return nil
}

// fakeMenuRepo is an in-memory IMenuRepository.
type fakeMenuRepo struct {
	items     []model.MenuEntry
	exists    bool
	loadErr   error
	saveErr   error
	saves     int
	updatedBy string
}

func (f *fakeMenuRepo) Load() ([]model.MenuEntry, bool, error) {
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	return append([]model.MenuEntry(nil), f.items...), f.exists, nil
}

func (f *fakeMenuRepo) Save(items []model.MenuEntry, updatedBy string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.items = append([]model.MenuEntry(nil), items...)
	f.exists = true
	f.updatedBy = updatedBy
	f.saves++
	return nil
}

// fakeUserRepo is an in-memory IUserRepository.
type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) GetByUid(uid string) (*model.User, error) {
	if u, ok := f.users[uid]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// fakeCache is an in-memory ICache used to observe snapshot invalidation.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (f *fakeCache) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeCache) Expire(context.Context, string, time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCache) TTL(context.Context, string) *redis.DurationCmd {
	return redis.NewDurationResult(0, nil)
}

func (f *fakeCache) GetClient() *redis.Client { return nil }

func rolesJSON(t *testing.T, roles []string) datatypes.JSON {
	t.Helper()
	data, err := json.Marshal(roles)
	if err != nil {
		t.Fatalf("marshal roles: %v", err)
	}
	return datatypes.JSON(data)
}
