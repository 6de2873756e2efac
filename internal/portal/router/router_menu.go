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

func (r *Router) menuRouter(api fiber.Router) {
	menu := api.Group("/menu")
	menu.Get("/entries", r.listMenuEntries)
	menu.Post("/entry", r.createMenuEntry)
	menu.Put("/entry", r.editMenuEntry)
	menu.Post("/entry/indent", r.indentMenuEntry)
	menu.Post("/entry/outdent", r.outdentMenuEntry)
	menu.Post("/entry/move", r.moveMenuEntry)
	menu.Delete("/entry", r.deleteMenuEntry)
}

// listMenuEntries returns the raw document for the menu editor.
func (r *Router) listMenuEntries(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}
	if !r.svc.Authorizer.IsSuperadmin(auth.Role) {
		return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, httpx.PermissionDenied.Msg, c.Path())
	}

	entries, err := r.svc.MenuTree.EntriesForAuthoring()
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}
	c.Locals(middleware.DETAIL, entries)
	return nil
}

func (r *Router) createMenuEntry(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.CreateMenuEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := r.svc.MenuTree.Create(auth, &req); err != nil {
		return menuError(c, err)
	}
	c.Locals(middleware.OPERATION, "createMenuEntry")
	return nil
}

func (r *Router) editMenuEntry(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.EditMenuEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := r.svc.MenuTree.Edit(auth, &req); err != nil {
		return menuError(c, err)
	}
	c.Locals(middleware.OPERATION, "editMenuEntry")
	return nil
}

func (r *Router) indentMenuEntry(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.MenuIndexRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := r.svc.MenuTree.Indent(auth, req.Index); err != nil {
		return menuError(c, err)
	}
	c.Locals(middleware.OPERATION, "indentMenuEntry")
	return nil
}

func (r *Router) outdentMenuEntry(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.MenuIndexRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := r.svc.MenuTree.Outdent(auth, req.Index); err != nil {
		return menuError(c, err)
	}
	c.Locals(middleware.OPERATION, "outdentMenuEntry")
	return nil
}

func (r *Router) moveMenuEntry(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.MoveMenuEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := r.svc.MenuTree.Move(auth, &req); err != nil {
		return menuError(c, err)
	}
	c.Locals(middleware.OPERATION, "moveMenuEntry")
	return nil
}

func (r *Router) deleteMenuEntry(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.MenuIndexRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := r.svc.MenuTree.Delete(auth, req.Index); err != nil {
		return menuError(c, err)
	}
	c.Locals(middleware.OPERATION, "deleteMenuEntry")
	return nil
}

// menuError maps authoring failures onto the response code catalog.
func menuError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, httpx.PermissionDenied.Msg, c.Path())
	case errors.Is(err, service.ErrEntryNotFound):
		return httpx.WithRepErrMsg(c, httpx.MenuEntryNotFound.Code, httpx.MenuEntryNotFound.Msg, c.Path())
	case errors.Is(err, service.ErrContainerRolesRequired):
		return httpx.WithRepErrMsg(c, httpx.ContainerRolesRequired.Code, httpx.ContainerRolesRequired.Msg, c.Path())
	default:
		return httpx.WithRepErrMsg(c, httpx.MenuSaveFailed.Code, httpx.MenuSaveFailed.Msg, c.Path())
	}
}
