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
	"github.com/wachportal/wachportal/internal/portal/repo"
	"github.com/wachportal/wachportal/pkg/cache"
	"github.com/wachportal/wachportal/pkg/event"
	"github.com/wachportal/wachportal/pkg/ws"
)

// Services bundles every portal service behind one handle for the router.
type Services struct {
	Authorizer *RoleAuthorizer
	Registry   *ModuleRegistry
	Gate       *TenantModuleGate
	MenuTree   *MenuTreeService
	Composer   *MenuComposer
	Channel    *ChannelService
	Hub        ws.Hub
	Bus        *event.EventBus
}

// NewServices wires the service graph by hand. The dependency order
// mirrors the authorization pipeline: roles, catalog, tenant gate, menu
// document, composition, channel.
func NewServices(
	moduleRepo repo.IModuleRepository,
	tenantRepo repo.ITenantModuleRepository,
	menuRepo repo.IMenuRepository,
	userRepo repo.IUserRepository,
	c cache.ICache,
) *Services {
	bus := event.NewEventBus()
	hub := ws.NewHub()

	authorizer := NewRoleAuthorizer()
	registry := NewModuleRegistry(moduleRepo, authorizer, bus)
	gate := NewTenantModuleGate(tenantRepo, c, bus)
	menuTree := NewMenuTreeService(menuRepo, registry, authorizer, bus)
	composer := NewMenuComposer(registry, gate, menuRepo, authorizer)
	channel := NewChannelService(hub, composer, gate, userRepo, bus)

	return &Services{
		Authorizer: authorizer,
		Registry:   registry,
		Gate:       gate,
		MenuTree:   menuTree,
		Composer:   composer,
		Channel:    channel,
		Hub:        hub,
		Bus:        bus,
	}
}
