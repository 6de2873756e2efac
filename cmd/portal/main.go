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

package main

import (
	"flag"

	"github.com/wachportal/wachportal/internal/portal/conf"
	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/internal/portal/repo"
	"github.com/wachportal/wachportal/internal/portal/router"
	"github.com/wachportal/wachportal/internal/portal/service"
	"github.com/wachportal/wachportal/pkg/cache"
	"github.com/wachportal/wachportal/pkg/database"
	httpx "github.com/wachportal/wachportal/pkg/http"
	"github.com/wachportal/wachportal/pkg/log"
	"github.com/wachportal/wachportal/pkg/version"
)

var confDir = flag.String("conf", "conf.d", "config directory")

func main() {
	flag.Parse()

	cfg := conf.NewConf(*confDir)
	log.MustInit(&cfg.Log)
	log.Infof("[Init] wachportal %s starting", version.GetVersion().Version)

	gormDB, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("connect database failed: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.ModuleRecord{},
		&model.TenantModule{},
		&model.MenuDocument{},
		&model.User{},
	); err != nil {
		log.Fatalf("migrate database failed: %v", err)
	}
	db := database.NewGormDB(gormDB)

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("connect redis failed: %v", err)
	}
	c := cache.NewRedisCache(redisClient)

	moduleRepo := repo.NewModuleRepo(db)
	tenantRepo := repo.NewTenantModuleRepo(db)
	menuRepo := repo.NewMenuRepo(db)
	userRepo := repo.NewUserRepo(db)

	svc := service.NewServices(moduleRepo, tenantRepo, menuRepo, userRepo, c)

	app := router.NewRouter(cfg, svc, c).Router()
	shutdown := httpx.Server(cfg.Http, app)
	shutdown()
}
