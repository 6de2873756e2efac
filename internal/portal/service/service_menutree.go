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
	"github.com/pkg/errors"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/internal/portal/repo"
	"github.com/wachportal/wachportal/pkg/event"
	"github.com/wachportal/wachportal/pkg/id"
)

var (
	ErrPermissionDenied       = errors.New("menu authoring requires superadmin")
	ErrEntryNotFound          = errors.New("menu entry not found")
	ErrContainerRolesRequired = errors.New("container entries require at least one role")
)

// MenuTreeService owns the shared menu document. Every mutation loads the
// whole document, applies one structural change, renumbers and writes the
// document back; concurrent editors are resolved last-write-wins.
type MenuTreeService struct {
	menuRepo   repo.IMenuRepository
	registry   *ModuleRegistry
	authorizer *RoleAuthorizer
	bus        *event.EventBus
}

func NewMenuTreeService(menuRepo repo.IMenuRepository, registry *ModuleRegistry, authorizer *RoleAuthorizer, bus *event.EventBus) *MenuTreeService {
	return &MenuTreeService{
		menuRepo:   menuRepo,
		registry:   registry,
		authorizer: authorizer,
		bus:        bus,
	}
}

// Load returns the persisted entries and whether a document exists.
func (s *MenuTreeService) Load() ([]model.MenuEntry, bool, error) {
	return s.menuRepo.Load()
}

// EntriesForAuthoring returns the persisted entries, or catalog-derived
// defaults when nothing was saved yet so the editor never starts blank.
func (s *MenuTreeService) EntriesForAuthoring() ([]model.MenuEntry, error) {
	items, exists, err := s.menuRepo.Load()
	if err != nil {
		return nil, err
	}
	if !exists {
		return DefaultEntriesFromCatalog(s.registry.LoadCatalog()), nil
	}
	return items, nil
}

// Create appends a new custom entry at top level.
func (s *MenuTreeService) Create(actor model.AuthorizationContext, req *model.CreateMenuEntryRequest) error {
	if err := s.requireSuperadmin(actor); err != nil {
		return err
	}
	if req.Label == "" {
		return errors.New("menu entry label must not be empty")
	}

	entry := model.MenuEntry{
		Id:       id.ShortId(),
		Label:    req.Label,
		Location: req.Location,
		Kind:     consts.MenuKindCustom,
		Level:    0,
		Roles:    s.authorizer.NormalizeAll(req.Roles),
	}
	if entry.IsContainer() && len(entry.Roles) == 0 {
		return ErrContainerRolesRequired
	}

	return s.mutate(actor, func(items []model.MenuEntry) ([]model.MenuEntry, error) {
		return append(items, entry), nil
	})
}

// Edit rewrites label, location and roles of the entry at index. The kind
// and position are untouched.
func (s *MenuTreeService) Edit(actor model.AuthorizationContext, req *model.EditMenuEntryRequest) error {
	if err := s.requireSuperadmin(actor); err != nil {
		return err
	}

	return s.mutate(actor, func(items []model.MenuEntry) ([]model.MenuEntry, error) {
		if req.Index < 0 || req.Index >= len(items) {
			return nil, ErrEntryNotFound
		}
		entry := items[req.Index]
		entry.Label = req.Label
		entry.Location = req.Location
		entry.Roles = s.authorizer.NormalizeAll(req.Roles)
		if entry.IsContainer() && len(entry.Roles) == 0 {
			return nil, ErrContainerRolesRequired
		}
		items[req.Index] = entry
		return items, nil
	})
}

// Indent nests the entry at index under its immediate predecessor, but only
// when that predecessor is itself at top level; any other constellation is a
// no-op so an entry can never skip over a sibling block into a distant
// parent.
func (s *MenuTreeService) Indent(actor model.AuthorizationContext, index int) error {
	if err := s.requireSuperadmin(actor); err != nil {
		return err
	}

	return s.mutate(actor, func(items []model.MenuEntry) ([]model.MenuEntry, error) {
		if index < 0 || index >= len(items) {
			return nil, ErrEntryNotFound
		}
		if index == 0 {
			return nil, errors.New("the first entry cannot be indented")
		}
		if items[index].Level != 0 || items[index-1].Level != 0 {
			return items, nil
		}
		items[index].Level = 1
		items[index].ParentId = items[index-1].Id
		return items, nil
	})
}

// Outdent lifts a nested entry back to top level.
func (s *MenuTreeService) Outdent(actor model.AuthorizationContext, index int) error {
	if err := s.requireSuperadmin(actor); err != nil {
		return err
	}

	return s.mutate(actor, func(items []model.MenuEntry) ([]model.MenuEntry, error) {
		if index < 0 || index >= len(items) {
			return nil, ErrEntryNotFound
		}
		if items[index].Level == 0 {
			return nil, errors.New("entry is not nested")
		}
		items[index].Level = 0
		items[index].ParentId = ""
		return items, nil
	})
}

// Delete removes the entry at index. Children of a deleted container are
// not cascaded; the next composition regroups them under the preceding
// top-level entry.
func (s *MenuTreeService) Delete(actor model.AuthorizationContext, index int) error {
	if err := s.requireSuperadmin(actor); err != nil {
		return err
	}

	return s.mutate(actor, func(items []model.MenuEntry) ([]model.MenuEntry, error) {
		if index < 0 || index >= len(items) {
			return nil, ErrEntryNotFound
		}
		return append(items[:index], items[index+1:]...), nil
	})
}

// Move relocates the dragged entry relative to the entry at the drop
// position. Dropping into a container places the entry after the
// container's last child; otherwise it lands after the target at the
// target's own level.
func (s *MenuTreeService) Move(actor model.AuthorizationContext, req *model.MoveMenuEntryRequest) error {
	if err := s.requireSuperadmin(actor); err != nil {
		return err
	}

	return s.mutate(actor, func(items []model.MenuEntry) ([]model.MenuEntry, error) {
		if req.DraggedIndex < 0 || req.DraggedIndex >= len(items) {
			return nil, ErrEntryNotFound
		}
		if req.DropIndex < 0 || req.DropIndex >= len(items) {
			return nil, ErrEntryNotFound
		}
		if req.DraggedIndex == req.DropIndex {
			return items, nil
		}

		dragged := items[req.DraggedIndex]
		rest := append(items[:req.DraggedIndex:req.DraggedIndex], items[req.DraggedIndex+1:]...)

		dropIdx := req.DropIndex
		if req.DraggedIndex < dropIdx {
			dropIdx--
		}
		target := rest[dropIdx]

		insertAt := dropIdx + 1
		if req.DropIntoContainer && target.IsContainer() {
			dragged.Level = 1
			dragged.ParentId = target.Id
			for insertAt < len(rest) && rest[insertAt].Level > 0 {
				insertAt++
			}
		} else {
			dragged.Level = target.Level
			dragged.ParentId = target.ParentId
		}

		out := make([]model.MenuEntry, 0, len(rest)+1)
		out = append(out, rest[:insertAt]...)
		out = append(out, dragged)
		out = append(out, rest[insertAt:]...)
		return out, nil
	})
}

func (s *MenuTreeService) requireSuperadmin(actor model.AuthorizationContext) error {
	if !s.authorizer.IsSuperadmin(actor.Role) {
		return ErrPermissionDenied
	}
	return nil
}

// mutate runs one load-modify-renumber-save cycle and announces the change.
// The first mutation on a never-saved document operates on the catalog
// defaults so it never starts from an empty tree.
func (s *MenuTreeService) mutate(actor model.AuthorizationContext, fn func([]model.MenuEntry) ([]model.MenuEntry, error)) error {
	items, exists, err := s.menuRepo.Load()
	if err != nil {
		return err
	}
	if !exists {
		items = DefaultEntriesFromCatalog(s.registry.LoadCatalog())
	}

	items, err = fn(items)
	if err != nil {
		return err
	}
	Renumber(items)

	if err := s.menuRepo.Save(items, actor.Uid); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(MenuUpdatedEvent{UpdatedBy: actor.Uid})
	}
	return nil
}

// Renumber assigns dense order values following slice position. Applying it
// twice yields the same document.
func Renumber(items []model.MenuEntry) {
	for i := range items {
		items[i].Order = float64(i)
	}
}

// DefaultEntriesFromCatalog derives a flat menu from the module catalog,
// used whenever no document was ever saved.
func DefaultEntriesFromCatalog(catalog []model.ModuleInfo) []model.MenuEntry {
	entries := make([]model.MenuEntry, 0, len(catalog))
	for i, mod := range catalog {
		if !mod.Active {
			continue
		}
		entries = append(entries, model.MenuEntry{
			Id:       mod.Id,
			Label:    mod.Label,
			Location: mod.Location,
			Kind:     consts.MenuKindModule,
			Level:    0,
			Order:    float64(i),
			Roles:    mod.Roles,
		})
	}
	return entries
}
