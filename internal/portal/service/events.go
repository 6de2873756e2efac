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

import "github.com/wachportal/wachportal/internal/portal/consts"

// MenuUpdatedEvent fires after the shared menu document was saved.
type MenuUpdatedEvent struct {
	UpdatedBy string
}

func (MenuUpdatedEvent) EventName() string {
	return consts.EventMenuUpdated
}

// ModulesUpdatedEvent fires after a tenant enablement flag or a module
// override changed.
type ModulesUpdatedEvent struct {
	TenantId string
	ModuleId string
}

func (ModulesUpdatedEvent) EventName() string {
	return consts.EventModulesUpdated
}
