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
	"encoding/json"
	"sort"

	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/internal/portal/repo"
	"github.com/wachportal/wachportal/pkg/event"
	"github.com/wachportal/wachportal/pkg/log"
)

// ModuleRegistry merges the built-in module catalog with persisted
// overrides. The merged catalog never loses a role the defaults grant:
// override roles are unioned in, not substituted.
type ModuleRegistry struct {
	moduleRepo repo.IModuleRepository
	authorizer *RoleAuthorizer
	bus        *event.EventBus
}

func NewModuleRegistry(moduleRepo repo.IModuleRepository, authorizer *RoleAuthorizer, bus *event.EventBus) *ModuleRegistry {
	return &ModuleRegistry{
		moduleRepo: moduleRepo,
		authorizer: authorizer,
		bus:        bus,
	}
}

// LoadCatalog returns the effective module catalog sorted by order. A store
// read failure degrades to the built-in defaults so the portal keeps
// rendering its baseline navigation.
func (s *ModuleRegistry) LoadCatalog() []model.ModuleInfo {
	catalog := model.DefaultCatalog()

	records, err := s.moduleRepo.ListOverrides()
	if err != nil {
		log.Errorw("load module overrides failed, using default catalog", "err", err)
		return catalog
	}
	if len(records) == 0 {
		return catalog
	}

	index := make(map[string]int, len(catalog))
	for i, mod := range catalog {
		index[mod.Id] = i
	}

	for _, rec := range records {
		info := s.recordToInfo(rec)
		if i, ok := index[rec.ModuleId]; ok {
			base := catalog[i]
			base.Label = info.Label
			base.Location = info.Location
			base.Order = info.Order
			base.Active = info.Active
			base.Roles = unionRoles(base.Roles, info.Roles)
			catalog[i] = base
		} else {
			index[rec.ModuleId] = len(catalog)
			catalog = append(catalog, info)
		}
	}

	sort.SliceStable(catalog, func(i, j int) bool {
		return catalog[i].Order < catalog[j].Order
	})
	return catalog
}

// Get returns one module from the effective catalog.
func (s *ModuleRegistry) Get(moduleId string) (model.ModuleInfo, bool) {
	for _, mod := range s.LoadCatalog() {
		if mod.Id == moduleId {
			return mod, true
		}
	}
	return model.ModuleInfo{}, false
}

// Upsert writes a module override. Roles land in the override record as
// given (normalized); the effective catalog still unions them with the
// defaults.
func (s *ModuleRegistry) Upsert(actor model.AuthorizationContext, req *model.UpsertModuleRequest) error {
	if !s.authorizer.IsSuperadmin(actor.Role) {
		return ErrPermissionDenied
	}
	req.Roles = s.authorizer.NormalizeAll(req.Roles)
	if err := s.moduleRepo.UpsertOverride(req); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(ModulesUpdatedEvent{ModuleId: req.ModuleId})
	}
	return nil
}

// Remove drops a module override; the module falls back to its default
// descriptor, or disappears entirely when it has none.
func (s *ModuleRegistry) Remove(actor model.AuthorizationContext, moduleId string) error {
	if !s.authorizer.IsSuperadmin(actor.Role) {
		return ErrPermissionDenied
	}
	if err := s.moduleRepo.DeleteOverride(moduleId); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(ModulesUpdatedEvent{ModuleId: moduleId})
	}
	return nil
}

func (s *ModuleRegistry) recordToInfo(rec model.ModuleRecord) model.ModuleInfo {
	var roles []string
	if len(rec.Roles) > 0 {
		if err := json.Unmarshal(rec.Roles, &roles); err != nil {
			log.Warnw("module override has malformed roles", "moduleId", rec.ModuleId, "err", err)
			roles = nil
		}
	}
	return model.ModuleInfo{
		Id:       rec.ModuleId,
		Label:    rec.Label,
		Location: rec.Location,
		Roles:    s.authorizer.NormalizeAll(roles),
		Order:    rec.Order,
		Active:   rec.IsActive == model.ModuleActive,
	}
}

// unionRoles keeps every default role and appends override roles not
// already present. Both inputs are expected normalized.
func unionRoles(defaults, overrides []string) []string {
	out := append([]string(nil), defaults...)
	seen := make(map[string]struct{}, len(out))
	for _, role := range out {
		seen[role] = struct{}{}
	}
	for _, role := range overrides {
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}
