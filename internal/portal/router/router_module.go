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
	"github.com/pkg/errors"

	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/internal/portal/service"
	httpx "github.com/wachportal/wachportal/pkg/http"
	"github.com/wachportal/wachportal/pkg/http/middleware"
)

func (r *Router) moduleRouter(api fiber.Router) {
	api.Get("/modules", r.listModules)
	api.Put("/module", r.upsertModule)
	api.Delete("/module/:moduleId", r.deleteModule)
}

// listModules returns the effective catalog for the module editor.
func (r *Router) listModules(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}
	if !r.svc.Authorizer.IsSuperadmin(auth.Role) {
		return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, httpx.PermissionDenied.Msg, c.Path())
	}

	c.Locals(middleware.DETAIL, r.svc.Registry.LoadCatalog())
	return nil
}

func (r *Router) upsertModule(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.UpsertModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if req.ModuleId == "" {
		return httpx.WithRepErrMsg(c, httpx.ModuleIdIsEmpty.Code, httpx.ModuleIdIsEmpty.Msg, c.Path())
	}

	if err := r.svc.Registry.Upsert(auth, &req); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, httpx.PermissionDenied.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}
	c.Locals(middleware.OPERATION, "upsertModule")
	return nil
}

func (r *Router) deleteModule(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	moduleId := c.Params("moduleId")
	if moduleId == "" {
		return httpx.WithRepErrMsg(c, httpx.ModuleIdIsEmpty.Code, httpx.ModuleIdIsEmpty.Msg, c.Path())
	}

	if err := r.svc.Registry.Remove(auth, moduleId); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, httpx.PermissionDenied.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}
	c.Locals(middleware.OPERATION, "deleteModule")
	return nil
}
