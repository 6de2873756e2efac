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

// TenantModule is a per-tenant module enablement record. A module with no
// record for a tenant is disabled for that tenant (default-deny).
type TenantModule struct {
	BaseModel
	TenantId string `gorm:"column:tenant_id;not null;index:idx_tenant_module,unique" json:"tenantId"`
	ModuleId string `gorm:"column:module_id;not null;index:idx_tenant_module,unique" json:"moduleId"`
	Enabled  int    `gorm:"column:enabled;not null;default:0" json:"enabled"`
}

func (t *TenantModule) TableName() string {
	return "t_tenant_module"
}

// Tenant module enablement status
const (
	TenantModuleDisabled = 0
	TenantModuleEnabled  = 1
)

// SetEnablementRequest is the admin request to toggle a tenant module.
type SetEnablementRequest struct {
	TenantId string `json:"tenantId"`
	ModuleId string `json:"moduleId"`
	Enabled  bool   `json:"enabled"`
}
