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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/pkg/event"
)

func newTestGate(tenantRepo *fakeTenantRepo) *TenantModuleGate {
	return NewTenantModuleGate(tenantRepo, nil, event.NewEventBus())
}

func TestEnablementDefaultDeny(t *testing.T) {
	gate := newTestGate(&fakeTenantRepo{flags: map[string]map[string]bool{
		"wache-nord": {consts.ModuleSchichtplan: true, consts.ModuleChat: false},
	}})
	ctx := context.Background()

	snapshot := gate.Enablement(ctx, "wache-nord")

	// explicit record wins
	assert.True(t, snapshot.IsEnabled(consts.ModuleSchichtplan))
	assert.False(t, snapshot.IsEnabled(consts.ModuleChat))

	// no record means disabled
	assert.False(t, snapshot.IsEnabled(consts.ModuleFuhrpark))
}

func TestEnablementHomeAlwaysOn(t *testing.T) {
	gate := newTestGate(&fakeTenantRepo{})

	snapshot := gate.Enablement(context.Background(), "wache-sued")
	assert.True(t, snapshot.IsEnabled(consts.ModuleHome))
}

func TestEnablementAdminTenantBypass(t *testing.T) {
	gate := newTestGate(&fakeTenantRepo{})

	snapshot := gate.Enablement(context.Background(), consts.AdminTenant)
	assert.True(t, snapshot.IsEnabled(consts.ModuleKundenverwaltung))
	assert.True(t, snapshot.IsEnabled("anything-at-all"))
}

func TestEnablementStoreFailureDenies(t *testing.T) {
	gate := newTestGate(&fakeTenantRepo{listErr: errors.New("timeout")})

	snapshot := gate.Enablement(context.Background(), "wache-nord")

	// a broken store must not grant modules the tenant never enabled
	assert.False(t, snapshot.IsEnabled(consts.ModuleSchichtplan))
	assert.True(t, snapshot.IsEnabled(consts.ModuleHome))
}

func TestSetEnabled(t *testing.T) {
	tenantRepo := &fakeTenantRepo{}
	gate := newTestGate(tenantRepo)
	ctx := context.Background()

	require.NoError(t, gate.SetEnabled(ctx, "wache-nord", consts.ModuleChat, true))
	assert.True(t, gate.IsEnabled(ctx, "wache-nord", consts.ModuleChat))

	require.NoError(t, gate.SetEnabled(ctx, "wache-nord", consts.ModuleChat, false))
	assert.False(t, gate.IsEnabled(ctx, "wache-nord", consts.ModuleChat))
}

func TestSetEnabledPublishes(t *testing.T) {
	bus := event.NewEventBus()
	gate := NewTenantModuleGate(&fakeTenantRepo{}, nil, bus)

	var got []ModulesUpdatedEvent
	bus.RegisterHandler(consts.EventModulesUpdated, event.HandlerFunc(func(e event.Event) {
		if evt, ok := e.(ModulesUpdatedEvent); ok {
			got = append(got, evt)
		}
	}))

	require.NoError(t, gate.SetEnabled(context.Background(), "wache-nord", consts.ModuleChat, true))
	require.Len(t, got, 1)
	assert.Equal(t, "wache-nord", got[0].TenantId)
	assert.Equal(t, consts.ModuleChat, got[0].ModuleId)
}
