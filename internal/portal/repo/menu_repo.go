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
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/pkg/database"
)

type IMenuRepository interface {
	// Load returns the shared menu entries and whether a persisted
	// document exists at all.
	Load() ([]model.MenuEntry, bool, error)

	// Save overwrites the whole document. Last write wins.
	Save(items []model.MenuEntry, updatedBy string) error
}

type MenuRepo struct {
	db database.IDatabase
}

func NewMenuRepo(db database.IDatabase) IMenuRepository {
	return &MenuRepo{db: db}
}

func (r *MenuRepo) Load() ([]model.MenuEntry, bool, error) {
	var doc model.MenuDocument
	err := r.db.Database().Where("doc_id = ?", consts.MenuDocId).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "load menu document")
	}

	var items []model.MenuEntry
	if len(doc.Items) > 0 {
		if err := json.Unmarshal(doc.Items, &items); err != nil {
			return nil, false, errors.Wrap(err, "unmarshal menu items")
		}
	}
	return items, true, nil
}

func (r *MenuRepo) Save(items []model.MenuEntry, updatedBy string) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "marshal menu items")
	}

	doc := model.MenuDocument{
		DocId:     consts.MenuDocId,
		Items:     datatypes.JSON(data),
		UpdatedBy: updatedBy,
	}

	return r.db.Database().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_by"}),
	}).Create(&doc).Error
}
