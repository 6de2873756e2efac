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
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/wachportal/wachportal/internal/portal/service"
	httpx "github.com/wachportal/wachportal/pkg/http"
	"github.com/wachportal/wachportal/pkg/ws"
)

func (r *Router) channelRouter(api fiber.Router) {
	api.Use("/channel", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, c.Path())
		}
		auth, ok := authContext(c)
		if !ok {
			return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
		}
		// Hand the session identity across the upgrade boundary.
		c.Locals(ws.ContextKey, service.WithAuthContext(context.Background(), auth))
		return c.Next()
	})
	api.Get("/channel", ws.Handle(r.svc.Hub, r.svc.Channel))
}
