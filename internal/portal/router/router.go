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
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wachportal/wachportal/internal/portal/conf"
	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/internal/portal/service"
	"github.com/wachportal/wachportal/pkg/cache"
	httpx "github.com/wachportal/wachportal/pkg/http"
	"github.com/wachportal/wachportal/pkg/http/jwt"
	"github.com/wachportal/wachportal/pkg/http/middleware"
	"github.com/wachportal/wachportal/pkg/version"
)

type Router struct {
	conf  conf.AppConfig
	svc   *service.Services
	cache cache.ICache
}

func NewRouter(cfg conf.AppConfig, svc *service.Services, c cache.ICache) *Router {
	return &Router{
		conf:  cfg,
		svc:   svc,
		cache: c,
	}
}

// Router assembles the fiber app: ambient middleware, public probes and the
// token-gated api group.
func (r *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    r.conf.Http.BodyLimit * 1024 * 1024,
		ReadTimeout:  time.Duration(r.conf.Http.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(r.conf.Http.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(r.conf.Http.IdleTimeout) * time.Second,
	})

	app.Use(middleware.CorsMiddleware())
	app.Use(middleware.ExceptionMiddleware)
	if r.conf.Http.AccessLog {
		app.Use(httpx.AccessLogFormat())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})
	if r.conf.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group(r.conf.Http.ContextPath)
	api.Use(middleware.AuthorizationMiddleware(
		r.conf.Http.Auth.SecretKey,
		r.conf.Http.Auth.RedisKeyPrefix,
		r.cache.GetClient(),
	))
	api.Use(middleware.UnifiedResponseMiddleware())

	r.navigationRouter(api)
	r.menuRouter(api)
	r.moduleRouter(api)
	r.tenantRouter(api)
	r.channelRouter(api)

	return app
}

// authContext resolves the session identity the authorization middleware
// stored on the request.
func authContext(c *fiber.Ctx) (model.AuthorizationContext, bool) {
	claims, ok := c.Locals(middleware.CLAIMS).(*jwt.AuthClaims)
	if !ok || claims == nil {
		return model.AuthorizationContext{}, false
	}
	return model.AuthorizationContext{
		Uid:      claims.Uid,
		TenantId: claims.TenantId,
		Role:     claims.Role,
	}, true
}
