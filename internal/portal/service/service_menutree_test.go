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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/pkg/event"
)

func newTestMenuTree(menuRepo *fakeMenuRepo) *MenuTreeService {
	registry := newTestRegistry(&fakeModuleRepo{})
	return NewMenuTreeService(menuRepo, registry, NewRoleAuthorizer(), event.NewEventBus())
}

// sampleTree: a container with two children followed by a top-level link.
func sampleTree() []model.MenuEntry {
	entries := []model.MenuEntry{
		{Id: "c-buero", Label: "Büro", Kind: consts.MenuKindCustom, Level: 0, Roles: consts.AllRoles},
		{Id: consts.ModulePostfach, Label: "Postfach", Kind: consts.MenuKindModule, Level: 1, ParentId: "c-buero"},
		{Id: consts.ModuleChat, Label: "Chat", Kind: consts.MenuKindModule, Level: 1, ParentId: "c-buero"},
		{Id: consts.ModuleSchichtplan, Label: "Schichtplan", Kind: consts.MenuKindModule, Level: 0},
	}
	Renumber(entries)
	return entries
}

func TestMenuMutationRequiresSuperadmin(t *testing.T) {
	svc := newTestMenuTree(&fakeMenuRepo{items: sampleTree(), exists: true})

	err := svc.Create(benutzerCtx, &model.CreateMenuEntryRequest{Label: "Intranet", Location: "/intranet"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.Delete(benutzerCtx, 0)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.Move(benutzerCtx, &model.MoveMenuEntryRequest{DraggedIndex: 0, DropIndex: 1})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCreateAppendsEntry(t *testing.T) {
	menuRepo := &fakeMenuRepo{items: sampleTree(), exists: true}
	svc := newTestMenuTree(menuRepo)

	err := svc.Create(superadminCtx, &model.CreateMenuEntryRequest{
		Label:    "Intranet",
		Location: "https://intranet.example.org",
	})
	require.NoError(t, err)

	require.Len(t, menuRepo.items, 5)
	created := menuRepo.items[4]
	assert.Equal(t, "Intranet", created.Label)
	assert.Equal(t, consts.MenuKindCustom, created.Kind)
	assert.Equal(t, 0, created.Level)
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, superadminCtx.Uid, menuRepo.updatedBy)
}

func TestCreateContainerRequiresRoles(t *testing.T) {
	svc := newTestMenuTree(&fakeMenuRepo{items: sampleTree(), exists: true})

	err := svc.Create(superadminCtx, &model.CreateMenuEntryRequest{Label: "Verwaltung"})
	assert.ErrorIs(t, err, ErrContainerRolesRequired)

	err = svc.Create(superadminCtx, &model.CreateMenuEntryRequest{Label: "Verwaltung", Location: "#"})
	assert.ErrorIs(t, err, ErrContainerRolesRequired)

	err = svc.Create(superadminCtx, &model.CreateMenuEntryRequest{
		Label: "Verwaltung",
		Roles: []string{consts.RoleAdmin},
	})
	assert.NoError(t, err)
}

func TestEditContainerRequiresRoles(t *testing.T) {
	menuRepo := &fakeMenuRepo{items: sampleTree(), exists: true}
	svc := newTestMenuTree(menuRepo)

	// stripping the last role off an existing container is rejected too
	err := svc.Edit(superadminCtx, &model.EditMenuEntryRequest{Index: 0, Label: "Büro"})
	assert.ErrorIs(t, err, ErrContainerRolesRequired)

	err = svc.Edit(superadminCtx, &model.EditMenuEntryRequest{
		Index: 0,
		Label: "Geschäftsstelle",
		Roles: []string{"Administrator"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Geschäftsstelle", menuRepo.items[0].Label)
	assert.Equal(t, []string{consts.RoleAdmin}, menuRepo.items[0].Roles)
}

func TestEditIndexOutOfRange(t *testing.T) {
	svc := newTestMenuTree(&fakeMenuRepo{items: sampleTree(), exists: true})

	err := svc.Edit(superadminCtx, &model.EditMenuEntryRequest{Index: 99, Label: "x", Location: "/x"})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestIndentOutdent(t *testing.T) {
	entries := []model.MenuEntry{
		{Id: "c-buero", Label: "Büro", Kind: consts.MenuKindCustom, Level: 0, Roles: consts.AllRoles},
		{Id: consts.ModuleSchichtplan, Label: "Schichtplan", Kind: consts.MenuKindModule, Level: 0},
	}
	Renumber(entries)
	menuRepo := &fakeMenuRepo{items: entries, exists: true}
	svc := newTestMenuTree(menuRepo)

	// the immediate predecessor is top-level, so the entry nests under it
	require.NoError(t, svc.Indent(superadminCtx, 1))
	assert.Equal(t, 1, menuRepo.items[1].Level)
	assert.Equal(t, "c-buero", menuRepo.items[1].ParentId)

	require.NoError(t, svc.Outdent(superadminCtx, 1))
	assert.Equal(t, 0, menuRepo.items[1].Level)
	assert.Empty(t, menuRepo.items[1].ParentId)

	// the first entry has nothing to nest under
	assert.Error(t, svc.Indent(superadminCtx, 0))
	// a top-level entry cannot be outdented further
	assert.Error(t, svc.Outdent(superadminCtx, 0))
}

func TestIndentRequiresTopLevelPredecessor(t *testing.T) {
	menuRepo := &fakeMenuRepo{items: sampleTree(), exists: true}
	svc := newTestMenuTree(menuRepo)

	// schichtplan follows a nested sibling; indenting it would skip over
	// the sibling block into a distant parent, so nothing happens
	require.NoError(t, svc.Indent(superadminCtx, 3))
	assert.Equal(t, 0, menuRepo.items[3].Level)
	assert.Empty(t, menuRepo.items[3].ParentId)
}

func TestDeleteLeavesChildrenInPlace(t *testing.T) {
	menuRepo := &fakeMenuRepo{items: sampleTree(), exists: true}
	svc := newTestMenuTree(menuRepo)

	// deleting the container does not cascade to its children
	require.NoError(t, svc.Delete(superadminCtx, 0))
	require.Len(t, menuRepo.items, 3)
	assert.Equal(t, consts.ModulePostfach, menuRepo.items[0].Id)
	assert.Equal(t, 1, menuRepo.items[0].Level)
}

func TestRenumberIsIdempotent(t *testing.T) {
	entries := sampleTree()
	entries[0].Order = 10
	entries[2].Order = 3.5

	Renumber(entries)
	first := append([]model.MenuEntry(nil), entries...)
	Renumber(entries)
	assert.Equal(t, first, entries)

	for i, entry := range entries {
		assert.Equal(t, float64(i), entry.Order)
	}
}

func TestMoveAfterTarget(t *testing.T) {
	menuRepo := &fakeMenuRepo{items: sampleTree(), exists: true}
	svc := newTestMenuTree(menuRepo)

	// drag schichtplan before the container's block ends: dropping on the
	// container without entering it puts it right after the container
	require.NoError(t, svc.Move(superadminCtx, &model.MoveMenuEntryRequest{
		DraggedIndex: 3,
		DropIndex:    0,
	}))

	assert.Equal(t, consts.ModuleSchichtplan, menuRepo.items[1].Id)
	assert.Equal(t, 0, menuRepo.items[1].Level)
	assert.Equal(t, float64(1), menuRepo.items[1].Order)
}

func TestMoveIntoContainer(t *testing.T) {
	menuRepo := &fakeMenuRepo{items: sampleTree(), exists: true}
	svc := newTestMenuTree(menuRepo)

	require.NoError(t, svc.Move(superadminCtx, &model.MoveMenuEntryRequest{
		DraggedIndex:      3,
		DropIndex:         0,
		DropIntoContainer: true,
	}))

	// lands after the container's last child, nested
	moved := menuRepo.items[3]
	assert.Equal(t, consts.ModuleSchichtplan, moved.Id)
	assert.Equal(t, 1, moved.Level)
	assert.Equal(t, "c-buero", moved.ParentId)
}

func TestMoveAdoptsTargetLevel(t *testing.T) {
	menuRepo := &fakeMenuRepo{items: sampleTree(), exists: true}
	svc := newTestMenuTree(menuRepo)

	// dropping onto a nested entry nests the dragged one alongside it
	require.NoError(t, svc.Move(superadminCtx, &model.MoveMenuEntryRequest{
		DraggedIndex: 3,
		DropIndex:    1,
	}))

	moved := menuRepo.items[2]
	assert.Equal(t, consts.ModuleSchichtplan, moved.Id)
	assert.Equal(t, 1, moved.Level)
	assert.Equal(t, "c-buero", moved.ParentId)
}

func TestFirstMutationSeedsDefaults(t *testing.T) {
	menuRepo := &fakeMenuRepo{}
	svc := newTestMenuTree(menuRepo)

	require.NoError(t, svc.Create(superadminCtx, &model.CreateMenuEntryRequest{
		Label:    "Intranet",
		Location: "/intranet",
	}))

	// the document starts from the catalog defaults, not from empty
	require.Len(t, menuRepo.items, len(model.DefaultCatalog())+1)
	assert.Equal(t, consts.ModuleHome, menuRepo.items[0].Id)
	assert.Equal(t, "Intranet", menuRepo.items[len(menuRepo.items)-1].Label)
}

func TestEntriesForAuthoring(t *testing.T) {
	menuRepo := &fakeMenuRepo{}
	svc := newTestMenuTree(menuRepo)

	entries, err := svc.EntriesForAuthoring()
	require.NoError(t, err)
	assert.Len(t, entries, len(model.DefaultCatalog()))

	menuRepo.items = sampleTree()
	menuRepo.exists = true
	entries, err = svc.EntriesForAuthoring()
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}
