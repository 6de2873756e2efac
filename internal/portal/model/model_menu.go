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

package model

import (
	"gorm.io/datatypes"

	"github.com/wachportal/wachportal/internal/portal/consts"
)

// MenuEntry is one node of the shared menu tree. The flattened array is the
// single source of structure: a level-1 entry belongs to the nearest
// preceding level-0 entry; ParentId is only recorded for drag operations.
type MenuEntry struct {
	Id       string   `json:"id"`
	Label    string   `json:"label"`
	Location string   `json:"location,omitempty"` // empty or "#" marks a container
	Kind     string   `json:"kind"`               // module | custom
	Level    int      `json:"level"`              // 0 or 1, never deeper
	Order    float64  `json:"order"`
	Roles    []string `json:"roles,omitempty"`
	ParentId string   `json:"parentId,omitempty"`
}

// IsContainer reports whether the entry is a non-navigable grouping entry.
func (e MenuEntry) IsContainer() bool {
	return e.Kind == consts.MenuKindCustom && (e.Location == "" || e.Location == "#")
}

// MenuDocument is the single persisted menu tree shared by all tenants.
// The whole entry array is written as one document; readers see either the
// last fully-saved version or the catalog-derived default.
type MenuDocument struct {
	BaseModel
	DocId     string         `gorm:"column:doc_id;not null;uniqueIndex" json:"docId"`
	Items     datatypes.JSON `gorm:"column:items;type:json" json:"items"`
	UpdatedBy string         `gorm:"column:updated_by" json:"updatedBy"`
}

func (m *MenuDocument) TableName() string {
	return "t_menu_document"
}

// ComposedItem is one rendered navigation node.
type ComposedItem struct {
	Id       string         `json:"id"`
	Label    string         `json:"label"`
	Location string         `json:"location,omitempty"`
	Kind     string         `json:"kind"`
	Children []ComposedItem `json:"children"`
}

// FlattenedEntry is a navigable leaf of the rendered menu. The flattened
// list, not the nested structure, is what the embedded content view
// receives.
type FlattenedEntry struct {
	Id       string `json:"id"`
	Label    string `json:"label"`
	Location string `json:"location"`
	Kind     string `json:"kind"`
}

// ComposedResult is the output of one composition pass.
type ComposedResult struct {
	Items     []ComposedItem   `json:"items"`
	Flattened []FlattenedEntry `json:"menuItems"`
}

// Authoring requests.

type CreateMenuEntryRequest struct {
	Label    string   `json:"label"`
	Location string   `json:"location"`
	Roles    []string `json:"roles"`
}

type EditMenuEntryRequest struct {
	Index    int      `json:"index"`
	Label    string   `json:"label"`
	Location string   `json:"location"`
	Roles    []string `json:"roles"`
}

type MoveMenuEntryRequest struct {
	DraggedIndex      int  `json:"draggedIndex"`
	DropIndex         int  `json:"dropIndex"`
	DropIntoContainer bool `json:"dropIntoContainer"`
}

type MenuIndexRequest struct {
	Index int `json:"index"`
}
