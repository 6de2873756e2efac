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
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/pkg/database"
)

type IModuleRepository interface {
	ListOverrides() ([]model.ModuleRecord, error)
	GetOverride(moduleId string) (*model.ModuleRecord, error)
	UpsertOverride(req *model.UpsertModuleRequest) error
	DeleteOverride(moduleId string) error
}

type ModuleRepo struct {
	db database.IDatabase
}

func NewModuleRepo(db database.IDatabase) IModuleRepository {
	return &ModuleRepo{db: db}
}

// ListOverrides returns all persisted module overrides.
func (r *ModuleRepo) ListOverrides() ([]model.ModuleRecord, error) {
	var records []model.ModuleRecord
	err := r.db.Database().Order("sort_order ASC, id ASC").Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "list module overrides")
	}
	return records, nil
}

// GetOverride returns the override for one module id.
func (r *ModuleRepo) GetOverride(moduleId string) (*model.ModuleRecord, error) {
	var record model.ModuleRecord
	err := r.db.Database().Where("module_id = ?", moduleId).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpsertOverride creates or updates the override for a module id.
func (r *ModuleRepo) UpsertOverride(req *model.UpsertModuleRequest) error {
	rolesJson, err := json.Marshal(req.Roles)
	if err != nil {
		return errors.Wrap(err, "marshal module roles")
	}

	isActive := model.ModuleActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	record := model.ModuleRecord{
		ModuleId: req.ModuleId,
		Label:    req.Label,
		Location: req.Location,
		Roles:    datatypes.JSON(rolesJson),
		Order:    req.Order,
		IsActive: isActive,
	}

	return r.db.Database().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"label", "location", "roles", "sort_order", "is_active"}),
	}).Create(&record).Error
}

// DeleteOverride removes the override for a module id.
func (r *ModuleRepo) DeleteOverride(moduleId string) error {
	return r.db.Database().Where("module_id = ?", moduleId).
		Delete(&model.ModuleRecord{}).Error
}
