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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/pkg/event"
)

func newTestRegistry(moduleRepo *fakeModuleRepo) *ModuleRegistry {
	return NewModuleRegistry(moduleRepo, NewRoleAuthorizer(), event.NewEventBus())
}

func catalogById(catalog []model.ModuleInfo, id string) (model.ModuleInfo, bool) {
	for _, mod := range catalog {
		if mod.Id == id {
			return mod, true
		}
	}
	return model.ModuleInfo{}, false
}

func TestLoadCatalogDefaults(t *testing.T) {
	registry := newTestRegistry(&fakeModuleRepo{})

	catalog := registry.LoadCatalog()
	require.Len(t, catalog, len(model.DefaultCatalog()))

	home, ok := catalogById(catalog, consts.ModuleHome)
	require.True(t, ok)
	assert.Equal(t, "Startseite", home.Label)
	assert.Equal(t, "/home", home.Location)
	assert.True(t, home.Active)
}

func TestLoadCatalogOverrideNeverShrinksRoles(t *testing.T) {
	moduleRepo := &fakeModuleRepo{records: []model.ModuleRecord{{
		ModuleId: consts.ModuleSchichtplan,
		Label:    "Dienstplan",
		Location: "/dienstplan",
		Roles:    rolesJSON(t, []string{consts.RoleAdmin}),
		Order:    1,
		IsActive: model.ModuleActive,
	}}}
	registry := newTestRegistry(moduleRepo)

	mod, ok := catalogById(registry.LoadCatalog(), consts.ModuleSchichtplan)
	require.True(t, ok)

	// label and location follow the override
	assert.Equal(t, "Dienstplan", mod.Label)
	assert.Equal(t, "/dienstplan", mod.Location)

	// every default role survives the merge
	for _, role := range consts.AllRoles {
		assert.Contains(t, mod.Roles, role, "default role %q must survive the override", role)
	}
}

func TestLoadCatalogOverrideAddsRoles(t *testing.T) {
	moduleRepo := &fakeModuleRepo{records: []model.ModuleRecord{{
		ModuleId: consts.ModuleFuhrpark,
		Label:    "Fuhrpark",
		Location: "/fuhrpark",
		Roles:    rolesJSON(t, []string{"Benutzer"}),
		Order:    3,
		IsActive: model.ModuleActive,
	}}}
	registry := newTestRegistry(moduleRepo)

	mod, ok := catalogById(registry.LoadCatalog(), consts.ModuleFuhrpark)
	require.True(t, ok)
	assert.Contains(t, mod.Roles, consts.RoleBenutzer)
}

func TestLoadCatalogUnknownIdExtends(t *testing.T) {
	moduleRepo := &fakeModuleRepo{records: []model.ModuleRecord{{
		ModuleId: "lagekarte",
		Label:    "Lagekarte",
		Location: "/lagekarte",
		Roles:    rolesJSON(t, []string{consts.RoleOvd}),
		Order:    7,
		IsActive: model.ModuleActive,
	}}}
	registry := newTestRegistry(moduleRepo)

	catalog := registry.LoadCatalog()
	require.Len(t, catalog, len(model.DefaultCatalog())+1)

	mod, ok := catalogById(catalog, "lagekarte")
	require.True(t, ok)
	assert.Equal(t, []string{consts.RoleOvd}, mod.Roles)
}

func TestLoadCatalogDeactivation(t *testing.T) {
	moduleRepo := &fakeModuleRepo{records: []model.ModuleRecord{{
		ModuleId: consts.ModuleChat,
		Label:    "Chat",
		Location: "/chat",
		Order:    6,
		IsActive: model.ModuleInactive,
	}}}
	registry := newTestRegistry(moduleRepo)

	mod, ok := catalogById(registry.LoadCatalog(), consts.ModuleChat)
	require.True(t, ok)
	assert.False(t, mod.Active)
}

func TestLoadCatalogFailOpen(t *testing.T) {
	moduleRepo := &fakeModuleRepo{listErr: errors.New("connection refused")}
	registry := newTestRegistry(moduleRepo)

	// a broken store must not blank the navigation
	catalog := registry.LoadCatalog()
	assert.Len(t, catalog, len(model.DefaultCatalog()))
}

func TestLoadCatalogSortedByOrder(t *testing.T) {
	moduleRepo := &fakeModuleRepo{records: []model.ModuleRecord{{
		ModuleId: consts.ModuleChat,
		Label:    "Chat",
		Location: "/chat",
		Order:    0.5,
		IsActive: model.ModuleActive,
	}}}
	registry := newTestRegistry(moduleRepo)

	catalog := registry.LoadCatalog()
	for i := 1; i < len(catalog); i++ {
		assert.LessOrEqual(t, catalog[i-1].Order, catalog[i].Order)
	}
	assert.Equal(t, consts.ModuleChat, catalog[1].Id)
}

func TestUpsertRequiresSuperadmin(t *testing.T) {
	registry := newTestRegistry(&fakeModuleRepo{})

	err := registry.Upsert(benutzerCtx, &model.UpsertModuleRequest{ModuleId: consts.ModuleChat})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = registry.Remove(benutzerCtx, consts.ModuleChat)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpsertAndRemove(t *testing.T) {
	moduleRepo := &fakeModuleRepo{}
	registry := newTestRegistry(moduleRepo)

	err := registry.Upsert(superadminCtx, &model.UpsertModuleRequest{
		ModuleId: consts.ModuleChat,
		Label:    "Funk",
		Location: "/funk",
		Roles:    []string{"Administrator"},
		Order:    6,
	})
	require.NoError(t, err)

	mod, ok := catalogById(registry.LoadCatalog(), consts.ModuleChat)
	require.True(t, ok)
	assert.Equal(t, "Funk", mod.Label)

	require.NoError(t, registry.Remove(superadminCtx, consts.ModuleChat))
	mod, ok = catalogById(registry.LoadCatalog(), consts.ModuleChat)
	require.True(t, ok)
	assert.Equal(t, "Chat", mod.Label)
}
