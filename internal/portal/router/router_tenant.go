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

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/internal/portal/model"
	httpx "github.com/wachportal/wachportal/pkg/http"
	"github.com/wachportal/wachportal/pkg/http/middleware"
)

func (r *Router) tenantRouter(api fiber.Router) {
	api.Get("/tenant/:tenantId/modules", r.listTenantModules)
	api.Put("/tenant/module", r.setTenantModule)
}

// canManageTenant allows the superadmin everywhere and an admin within the
// own tenant.
func (r *Router) canManageTenant(auth model.AuthorizationContext, tenantId string) bool {
	if r.svc.Authorizer.IsSuperadmin(auth.Role) {
		return true
	}
	return r.svc.Authorizer.Normalize(auth.Role) == consts.RoleAdmin && auth.TenantId == tenantId
}

// listTenantModules returns the explicit enablement flags for one tenant.
func (r *Router) listTenantModules(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	tenantId := c.Params("tenantId")
	if tenantId == "" {
		return httpx.WithRepErrMsg(c, httpx.TenantIdIsEmpty.Code, httpx.TenantIdIsEmpty.Msg, c.Path())
	}
	if !r.canManageTenant(auth, tenantId) {
		return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, httpx.PermissionDenied.Msg, c.Path())
	}

	snapshot := r.svc.Gate.Enablement(c.UserContext(), tenantId)
	c.Locals(middleware.DETAIL, snapshot.Enabled)
	return nil
}

// setTenantModule toggles one enablement flag.
func (r *Router) setTenantModule(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.SetEnablementRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if req.TenantId == "" {
		return httpx.WithRepErrMsg(c, httpx.TenantIdIsEmpty.Code, httpx.TenantIdIsEmpty.Msg, c.Path())
	}
	if req.ModuleId == "" {
		return httpx.WithRepErrMsg(c, httpx.ModuleIdIsEmpty.Code, httpx.ModuleIdIsEmpty.Msg, c.Path())
	}
	if !r.canManageTenant(auth, req.TenantId) {
		return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, httpx.PermissionDenied.Msg, c.Path())
	}

	if err := r.svc.Gate.SetEnabled(c.UserContext(), req.TenantId, req.ModuleId, req.Enabled); err != nil {
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}
	c.Locals(middleware.OPERATION, "setTenantModule")
	return nil
}
