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

package consts

import "time"

// Canonical role keys. Every role comparison goes through
// RoleAuthorizer.Normalize, so only these values appear downstream.
const (
	RoleSuperadmin   = "superadmin"
	RoleAdmin        = "admin"
	RoleVorgesetzter = "vorgesetzter"
	RoleWachleiter   = "wachleiter"
	RoleOvd          = "ovd"
	RoleBenutzer     = "benutzer"
)

// RoleAliases maps historical role spellings to their canonical key.
// New aliases are added here; call sites never carry alias knowledge.
var RoleAliases = map[string]string{
	"wachenleiter":        RoleWachleiter,
	"supervisor":          RoleVorgesetzter,
	"user":                RoleBenutzer,
	"administrator":       RoleAdmin,
	"offizier vom dienst": RoleOvd,
}

// AllRoles lists every canonical role. Catalog entries that should be
// visible to everyone carry this full set explicitly.
var AllRoles = []string{
	RoleSuperadmin,
	RoleAdmin,
	RoleVorgesetzter,
	RoleWachleiter,
	RoleOvd,
	RoleBenutzer,
}

// Module ids of the built-in catalog.
const (
	ModuleHome                  = "home"
	ModuleSchichtplan           = "schichtplan"
	ModuleWachbuch              = "wachbuch"
	ModuleFuhrpark              = "fuhrpark"
	ModuleTelefonliste          = "telefonliste"
	ModulePostfach              = "postfach"
	ModuleChat                  = "chat"
	ModuleKundenverwaltung      = "kundenverwaltung"
	ModuleMitarbeiterverwaltung = "mitarbeiterverwaltung"
	ModuleEinstellungen         = "einstellungen"
	ModuleMenueverwaltung       = "menueverwaltung"
)

// AdminTenant is the operator sandbox tenant. Every module is implicitly
// enabled for it; it bypasses the enablement table entirely.
const AdminTenant = "leitstelle"

// RestrictedModules narrows access to sensitive modules to a named role
// subset, on top of the module's own allowedRoles. These are deliberate
// policy exceptions and stay explicit per module id.
var RestrictedModules = map[string][]string{
	ModuleKundenverwaltung:      {RoleSuperadmin},
	ModuleMitarbeiterverwaltung: {RoleSuperadmin, RoleAdmin},
	ModuleEinstellungen:         {RoleSuperadmin, RoleAdmin},
	ModuleMenueverwaltung:       {RoleSuperadmin},
}

// ContainerModuleBindings ties a container (keyed by its normalized label)
// to an owning module: the container is only shown when that module passed
// the authorization pipeline. Containers without a binding are purely
// structural and skip the module check.
var ContainerModuleBindings = map[string]string{
	"buero": ModulePostfach,
	"büro":  ModulePostfach,
}

// ChildModuleBindings ties a child entry id to a module that must be present
// for the child to render, independent of the child's own kind.
var ChildModuleBindings = map[string]string{
	ModuleChat: ModulePostfach,
}

// AdminContainerLabel identifies the container that receives the
// menueverwaltung auto-insert.
const AdminContainerLabel = "admin"

// Menu entry kinds.
const (
	MenuKindModule = "module"
	MenuKindCustom = "custom"
)

// MenuDocId is the primary key of the single shared menu document.
const MenuDocId = "global"

// Cross-frame channel handshake retry budget: fixed attempts, fixed delay.
const (
	HandshakeRetryAttempts = 10
	HandshakeRetryInterval = 500 * time.Millisecond
)

// Redis key prefixes.
const (
	SessionKeyPrefix      = "portal:session:"
	TenantModuleKeyPrefix = "portal:tenantmodules:"
)

// TenantModuleCacheTTL bounds staleness of the per-tenant enablement
// snapshot between explicit invalidations.
const TenantModuleCacheTTL = time.Minute

// Event names published on the in-process bus.
const (
	EventMenuUpdated    = "menu.updated"
	EventModulesUpdated = "modules.updated"
)
