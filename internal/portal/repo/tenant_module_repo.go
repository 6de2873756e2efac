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

package repo

import (
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/pkg/database"
)

type ITenantModuleRepository interface {
	ListEnabled(tenantId string) (map[string]bool, error)
	SetEnabled(tenantId, moduleId string, enabled bool) error
}

type TenantModuleRepo struct {
	db database.IDatabase
}

func NewTenantModuleRepo(db database.IDatabase) ITenantModuleRepository {
	return &TenantModuleRepo{db: db}
}

// ListEnabled returns the explicit enablement flags for one tenant.
// Modules without a record are absent from the map.
func (r *TenantModuleRepo) ListEnabled(tenantId string) (map[string]bool, error) {
	var records []model.TenantModule
	err := r.db.Database().Where("tenant_id = ?", tenantId).Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "list tenant modules")
	}

	enabled := make(map[string]bool, len(records))
	for _, rec := range records {
		enabled[rec.ModuleId] = rec.Enabled == model.TenantModuleEnabled
	}
	return enabled, nil
}

// SetEnabled creates or updates the enablement flag for (tenant, module).
func (r *TenantModuleRepo) SetEnabled(tenantId, moduleId string, enabled bool) error {
	value := model.TenantModuleDisabled
	if enabled {
		value = model.TenantModuleEnabled
	}

	record := model.TenantModule{
		TenantId: tenantId,
		ModuleId: moduleId,
		Enabled:  value,
	}

	return r.db.Database().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled"}),
	}).Create(&record).Error
}
