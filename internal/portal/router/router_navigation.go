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
	"github.com/pkg/errors"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/internal/portal/model"
	httpx "github.com/wachportal/wachportal/pkg/http"
	"github.com/wachportal/wachportal/pkg/http/middleware"
	"github.com/wachportal/wachportal/pkg/retry"
)

func (r *Router) navigationRouter(api fiber.Router) {
	api.Get("/navigation", r.getNavigation)
	api.Get("/navigation/modules", r.getModules)
}

// getNavigation renders the session's menu. A pass already in flight drops
// the trigger, so the request retries on the handshake budget before giving
// up.
func (r *Router) getNavigation(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var result *model.ComposedResult
	err := retry.Do(c.UserContext(), func(ctx context.Context) error {
		composed, done := r.svc.Composer.Compose(ctx, auth)
		if !done {
			return errors.New("composition pass in flight")
		}
		result = composed
		return nil
	},
		retry.WithMaxAttempts(consts.HandshakeRetryAttempts),
		retry.WithBackoff(retry.Fixed(consts.HandshakeRetryInterval)),
	)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// getModules lists the modules the session may use, in catalog order.
func (r *Router) getModules(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	c.Locals(middleware.DETAIL, r.svc.Composer.Modules(c.UserContext(), auth))
	return nil
}
