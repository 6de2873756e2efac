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

// ModuleRecord is a persisted module override. A record with a module id
// present in the default catalog overrides label, location, order and the
// active flag; its roles are unioned with the catalog roles, never replacing
// them. Records with unknown ids extend the catalog.
type ModuleRecord struct {
	BaseModel
	ModuleId string         `gorm:"column:module_id;not null;uniqueIndex" json:"moduleId"`
	Label    string         `gorm:"column:label;not null" json:"label"`
	Location string         `gorm:"column:location" json:"location"`
	Roles    datatypes.JSON `gorm:"column:roles;type:json" json:"roles"`
	Order    float64        `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsActive int            `gorm:"column:is_active;not null;default:1" json:"isActive"`
}

func (m *ModuleRecord) TableName() string {
	return "t_module"
}

// Module active status
const (
	ModuleInactive = 0
	ModuleActive   = 1
)

// ModuleInfo is the in-memory module descriptor flowing through the
// authorization pipeline. Roles are normalized to lowercase.
type ModuleInfo struct {
	Id       string   `json:"id"`
	Label    string   `json:"label"`
	Location string   `json:"location"`
	Roles    []string `json:"roles"`
	Order    float64  `json:"order"`
	Active   bool     `json:"active"`
}

// DefaultCatalog returns the built-in module catalog in insertion order.
// Order ties are broken by position in this slice.
func DefaultCatalog() []ModuleInfo {
	all := append([]string(nil), consts.AllRoles...)
	return []ModuleInfo{
		{Id: consts.ModuleHome, Label: "Startseite", Location: "/home", Roles: all, Order: 0, Active: true},
		{Id: consts.ModuleSchichtplan, Label: "Schichtplan", Location: "/schichtplan", Roles: all, Order: 1, Active: true},
		{Id: consts.ModuleWachbuch, Label: "Wachbuch", Location: "/wachbuch", Roles: all, Order: 2, Active: true},
		{Id: consts.ModuleFuhrpark, Label: "Fuhrpark", Location: "/fuhrpark", Roles: []string{consts.RoleSuperadmin, consts.RoleAdmin, consts.RoleVorgesetzter, consts.RoleWachleiter, consts.RoleOvd}, Order: 3, Active: true},
		{Id: consts.ModuleTelefonliste, Label: "Telefonliste", Location: "/telefonliste", Roles: all, Order: 4, Active: true},
		{Id: consts.ModulePostfach, Label: "Postfach", Location: "/postfach", Roles: all, Order: 5, Active: true},
		{Id: consts.ModuleChat, Label: "Chat", Location: "/chat", Roles: all, Order: 6, Active: true},
		{Id: consts.ModuleKundenverwaltung, Label: "Kundenverwaltung", Location: "/admin/kunden", Roles: []string{consts.RoleSuperadmin}, Order: 90, Active: true},
		{Id: consts.ModuleMitarbeiterverwaltung, Label: "Mitarbeiterverwaltung", Location: "/admin/mitarbeiter", Roles: []string{consts.RoleSuperadmin, consts.RoleAdmin}, Order: 91, Active: true},
		{Id: consts.ModuleEinstellungen, Label: "Einstellungen", Location: "/admin/einstellungen", Roles: []string{consts.RoleSuperadmin, consts.RoleAdmin}, Order: 92, Active: true},
		{Id: consts.ModuleMenueverwaltung, Label: "Menüverwaltung", Location: "/admin/menue", Roles: []string{consts.RoleSuperadmin}, Order: 93, Active: true},
	}
}

// UpsertModuleRequest is the admin request to create or update an override.
type UpsertModuleRequest struct {
	ModuleId string   `json:"moduleId"`
	Label    string   `json:"label"`
	Location string   `json:"location"`
	Roles    []string `json:"roles"`
	Order    float64  `json:"order"`
	IsActive *int     `json:"isActive"`
}
