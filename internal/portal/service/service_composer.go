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
	"sort"
	"strings"
	"sync"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/internal/portal/repo"
	"github.com/wachportal/wachportal/pkg/log"
	"github.com/wachportal/wachportal/pkg/metrics"
	"github.com/wachportal/wachportal/pkg/taskslot"
)

// MenuComposer renders the navigation for one session. Composition is a
// pure function of the menu document, the module catalog and the session
// identity; the same inputs always produce the same output.
//
// A single-slot guard serializes passes: a trigger arriving while a pass is
// in flight is dropped, not queued. Droppers re-trigger from fresh state,
// so nothing stale is ever flushed later.
type MenuComposer struct {
	registry   *ModuleRegistry
	gate       *TenantModuleGate
	menuRepo   repo.IMenuRepository
	authorizer *RoleAuthorizer

	slot taskslot.Slot

	mu         sync.Mutex
	tree       []model.MenuEntry
	treeExists bool
	treeLoaded bool
}

func NewMenuComposer(registry *ModuleRegistry, gate *TenantModuleGate, menuRepo repo.IMenuRepository, authorizer *RoleAuthorizer) *MenuComposer {
	return &MenuComposer{
		registry:   registry,
		gate:       gate,
		menuRepo:   menuRepo,
		authorizer: authorizer,
	}
}

// Compose runs one composition pass. The second return value is false when
// the trigger was dropped because a pass was already running; the caller
// must re-trigger if it still wants a result.
func (s *MenuComposer) Compose(ctx context.Context, auth model.AuthorizationContext) (*model.ComposedResult, bool) {
	var result *model.ComposedResult
	ok := s.slot.Do(func() {
		result = s.compose(ctx, auth)
	})
	if !ok {
		metrics.CompositionDropped.Inc()
		return nil, false
	}
	metrics.CompositionRuns.Inc()
	return result, true
}

// Modules returns the modules that pass the full authorization pipeline for
// this session, in catalog order.
func (s *MenuComposer) Modules(ctx context.Context, auth model.AuthorizationContext) []model.ModuleInfo {
	visible, _ := s.visibleModules(ctx, auth)
	return visible
}

// InvalidateTree drops the cached menu document; the next pass re-reads it.
func (s *MenuComposer) InvalidateTree() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.treeLoaded = false
	s.tree = nil
	s.treeExists = false
}

func (s *MenuComposer) compose(ctx context.Context, auth model.AuthorizationContext) *model.ComposedResult {
	visible, visibleMap := s.visibleModules(ctx, auth)
	entries, exists := s.loadTree()
	return composeMenu(entries, exists, auth.Role, visible, visibleMap, s.authorizer)
}

func (s *MenuComposer) visibleModules(ctx context.Context, auth model.AuthorizationContext) ([]model.ModuleInfo, map[string]model.ModuleInfo) {
	catalog := s.registry.LoadCatalog()
	snapshot := s.gate.Enablement(ctx, auth.TenantId)

	visible := make([]model.ModuleInfo, 0, len(catalog))
	visibleMap := make(map[string]model.ModuleInfo, len(catalog))
	for _, mod := range catalog {
		if !mod.Active {
			continue
		}
		if !snapshot.IsEnabled(mod.Id) {
			continue
		}
		if !s.authorizer.ModuleAccess(auth.Role, mod.Id, mod.Roles) {
			continue
		}
		visible = append(visible, mod)
		visibleMap[mod.Id] = mod
	}
	return visible, visibleMap
}

func (s *MenuComposer) loadTree() ([]model.MenuEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.treeLoaded {
		items, exists, err := s.menuRepo.Load()
		if err != nil {
			log.Errorw("load menu document failed, falling back to flat catalog menu", "err", err)
			return nil, false
		}
		s.tree = items
		s.treeExists = exists
		s.treeLoaded = true
	}
	return s.tree, s.treeExists
}

// composeMenu is the pure composition core. It renders the persisted tree
// against the visible module set, or falls back to a flat catalog menu when
// no document was ever saved.
func composeMenu(entries []model.MenuEntry, exists bool, role string, visible []model.ModuleInfo, visibleMap map[string]model.ModuleInfo, authorizer *RoleAuthorizer) *model.ComposedResult {
	if !exists {
		return flatMenu(visible)
	}

	entries = withMenuAdmin(entries, visibleMap)

	sorted := append([]model.MenuEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	result := &model.ComposedResult{
		Items:     []model.ComposedItem{},
		Flattened: []model.FlattenedEntry{},
	}

	// Group first, filter second. Every top-level entry collects the nested
	// entries following it up to the next top-level one; a group whose head
	// is hidden disappears whole, children included. A nested entry can
	// never outlive or escape its group head.
	type menuGroup struct {
		head     model.MenuEntry
		children []model.MenuEntry
	}
	groups := make([]menuGroup, 0, len(sorted))
	for _, entry := range sorted {
		if entry.Level == 0 {
			groups = append(groups, menuGroup{head: entry})
			continue
		}
		if len(groups) == 0 {
			// a nested entry preceding every top-level entry has no owner
			continue
		}
		groups[len(groups)-1].children = append(groups[len(groups)-1].children, entry)
	}

	for _, g := range groups {
		item, ok := renderEntry(g.head, role, visibleMap, authorizer)
		if !ok {
			continue
		}
		for _, child := range g.children {
			rendered, ok := renderEntry(child, role, visibleMap, authorizer)
			if !ok {
				continue
			}
			item.Children = append(item.Children, rendered)
		}
		result.Items = append(result.Items, item)
	}

	for _, item := range result.Items {
		if navigable(item.Location) {
			result.Flattened = append(result.Flattened, model.FlattenedEntry{
				Id:       item.Id,
				Label:    item.Label,
				Location: item.Location,
				Kind:     item.Kind,
			})
		}
		for _, child := range item.Children {
			if navigable(child.Location) {
				result.Flattened = append(result.Flattened, model.FlattenedEntry{
					Id:       child.Id,
					Label:    child.Label,
					Location: child.Location,
					Kind:     child.Kind,
				})
			}
		}
	}
	return result
}

// renderEntry decides visibility for one entry and resolves its rendered
// label and location.
func renderEntry(entry model.MenuEntry, role string, visibleMap map[string]model.ModuleInfo, authorizer *RoleAuthorizer) (model.ComposedItem, bool) {
	// An entry bound to a module is hidden whenever that module is not,
	// regardless of the entry's own kind.
	if bound, ok := consts.ChildModuleBindings[entry.Id]; ok {
		if _, present := visibleMap[bound]; !present {
			return model.ComposedItem{}, false
		}
	}

	if entry.Kind == consts.MenuKindModule {
		mod, ok := visibleMap[entry.Id]
		if !ok {
			return model.ComposedItem{}, false
		}
		// The catalog, not the stored entry, owns a module's label and
		// location.
		return model.ComposedItem{
			Id:       entry.Id,
			Label:    mod.Label,
			Location: mod.Location,
			Kind:     entry.Kind,
			Children: []model.ComposedItem{},
		}, true
	}

	if entry.IsContainer() {
		if !authorizer.HasAccess(role, entry.Roles) {
			return model.ComposedItem{}, false
		}
		if bound, ok := consts.ContainerModuleBindings[normalizeLabel(entry.Label)]; ok {
			if _, present := visibleMap[bound]; !present {
				return model.ComposedItem{}, false
			}
		}
		return model.ComposedItem{
			Id:       entry.Id,
			Label:    entry.Label,
			Kind:     entry.Kind,
			Children: []model.ComposedItem{},
		}, true
	}

	// Plain custom link: an absent role list means visible to everyone, in
	// contrast to containers where roles are mandatory.
	if len(entry.Roles) > 0 && !authorizer.HasAccess(role, entry.Roles) {
		return model.ComposedItem{}, false
	}
	return model.ComposedItem{
		Id:       entry.Id,
		Label:    entry.Label,
		Location: entry.Location,
		Kind:     entry.Kind,
		Children: []model.ComposedItem{},
	}, true
}

// withMenuAdmin guarantees the menu administration module an entry whenever
// the session may use it. Preferred home is a container whose label or id is
// "admin" (case-insensitive), slotted in right after the container's last
// child; next best is nesting under a top-level entry with the literal id
// "admin"; failing both it becomes a top-level entry of its own. The
// half-step order keeps the insertion inside its block before any
// renumbering.
func withMenuAdmin(entries []model.MenuEntry, visibleMap map[string]model.ModuleInfo) []model.MenuEntry {
	mod, ok := visibleMap[consts.ModuleMenueverwaltung]
	if !ok {
		return entries
	}
	for _, entry := range entries {
		if entry.Id == consts.ModuleMenueverwaltung {
			return entries
		}
	}

	inserted := model.MenuEntry{
		Id:    consts.ModuleMenueverwaltung,
		Label: mod.Label,
		Kind:  consts.MenuKindModule,
	}
	out := append([]model.MenuEntry(nil), entries...)

	for i, entry := range out {
		if !isAdminContainer(entry) {
			continue
		}
		anchor := entry.Order
		for _, other := range out {
			if other.Level > 0 && other.Order > anchor && belongsTo(out, other, i) {
				anchor = other.Order
			}
		}
		inserted.Level = 1
		inserted.ParentId = entry.Id
		inserted.Order = anchor + 0.5
		return append(out, inserted)
	}

	for _, entry := range out {
		if entry.Level == 0 && entry.Id == consts.AdminContainerLabel {
			inserted.Level = 1
			inserted.ParentId = entry.Id
			inserted.Order = entry.Order + 0.5
			return append(out, inserted)
		}
	}

	maxOrder := 0.0
	for _, entry := range out {
		if entry.Order > maxOrder {
			maxOrder = entry.Order
		}
	}
	inserted.Level = 0
	inserted.Order = maxOrder + 1
	return append(out, inserted)
}

func isAdminContainer(entry model.MenuEntry) bool {
	if !entry.IsContainer() {
		return false
	}
	return normalizeLabel(entry.Label) == consts.AdminContainerLabel ||
		normalizeLabel(entry.Id) == consts.AdminContainerLabel
}

// belongsTo reports whether a nested entry groups under the container at
// containerIdx by order: no other top-level entry sits between them.
func belongsTo(entries []model.MenuEntry, child model.MenuEntry, containerIdx int) bool {
	container := entries[containerIdx]
	if child.Order <= container.Order {
		return false
	}
	for _, other := range entries {
		if other.Level == 0 && other.Order > container.Order && other.Order < child.Order {
			return false
		}
	}
	return true
}

func flatMenu(visible []model.ModuleInfo) *model.ComposedResult {
	result := &model.ComposedResult{
		Items:     make([]model.ComposedItem, 0, len(visible)),
		Flattened: make([]model.FlattenedEntry, 0, len(visible)),
	}
	for _, mod := range visible {
		result.Items = append(result.Items, model.ComposedItem{
			Id:       mod.Id,
			Label:    mod.Label,
			Location: mod.Location,
			Kind:     consts.MenuKindModule,
			Children: []model.ComposedItem{},
		})
		result.Flattened = append(result.Flattened, model.FlattenedEntry{
			Id:       mod.Id,
			Label:    mod.Label,
			Location: mod.Location,
			Kind:     consts.MenuKindModule,
		})
	}
	return result
}

func navigable(location string) bool {
	return location != "" && location != "#"
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
