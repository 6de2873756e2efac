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
	"strings"

	"github.com/wachportal/wachportal/internal/portal/consts"
)

// RoleAuthorizer decides role-based visibility. It is stateless; all alias
// knowledge lives in the consts tables.
type RoleAuthorizer struct{}

func NewRoleAuthorizer() *RoleAuthorizer {
	return &RoleAuthorizer{}
}

// Normalize maps a raw role string to its canonical lowercase key. Unknown
// roles pass through lowercased so that comparisons stay case-insensitive
// without silently granting anything.
func (a *RoleAuthorizer) Normalize(role string) string {
	normalized := strings.ToLower(strings.TrimSpace(role))
	if canonical, ok := consts.RoleAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeAll normalizes a role list and drops duplicates and empties,
// preserving first-seen order.
func (a *RoleAuthorizer) NormalizeAll(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		normalized := a.Normalize(role)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// HasAccess reports whether the role is in the allowed set. An empty set
// means nobody: callers that want "everyone" must say so with an explicit
// full role list.
func (a *RoleAuthorizer) HasAccess(role string, allowedRoles []string) bool {
	if len(allowedRoles) == 0 {
		return false
	}
	normalized := a.Normalize(role)
	for _, allowed := range allowedRoles {
		if a.Normalize(allowed) == normalized {
			return true
		}
	}
	return false
}

// ModuleAccess applies both the module's own role set and the per-module
// restriction table. Both checks must pass.
func (a *RoleAuthorizer) ModuleAccess(role, moduleId string, moduleRoles []string) bool {
	if restricted, ok := consts.RestrictedModules[moduleId]; ok {
		if !a.HasAccess(role, restricted) {
			return false
		}
	}
	return a.HasAccess(role, moduleRoles)
}

// IsSuperadmin reports whether the role resolves to superadmin.
func (a *RoleAuthorizer) IsSuperadmin(role string) bool {
	return a.Normalize(role) == consts.RoleSuperadmin
}
