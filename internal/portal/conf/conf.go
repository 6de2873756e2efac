package conf

import (
	"fmt"
	"sync"

	"github.com/wachportal/wachportal/pkg/cache"
	pkgconf "github.com/wachportal/wachportal/pkg/conf"
	"github.com/wachportal/wachportal/pkg/database"
	httpx "github.com/wachportal/wachportal/pkg/http"
	"github.com/wachportal/wachportal/pkg/log"
)

type AppConfig struct {
	Log      log.Conf
	Http     httpx.Http
	Database database.Database
	Redis    cache.Redis
}

var (
	cfg  AppConfig
	once sync.Once
)

// NewConf loads the application configuration from confDir exactly once.
func NewConf(confDir string) AppConfig {
	once.Do(func() {
		if _, err := pkgconf.LoadConfigFile(confDir, &cfg); err != nil {
			panic(fmt.Sprintf("load conf error: %s", err))
		}
		fmt.Printf("[Init] config dir: %s\n", confDir)
	})
	return cfg
}
