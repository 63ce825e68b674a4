package app

import (
	"strings"

	"github.com/smenalab/smena-backend/internal/logger"
	"github.com/smenalab/smena-backend/internal/utils"
)

type Config struct {
	Port         string
	Environment  string
	Version      string
	AllowOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	env := utils.GetEnv("APP_ENV", "development", log)
	version := utils.GetEnv("APP_VERSION", "dev", log)

	var origins []string
	if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if t := strings.TrimSpace(o); t != "" {
				origins = append(origins, t)
			}
		}
	}

	return Config{
		Port:         port,
		Environment:  env,
		Version:      version,
		AllowOrigins: origins,
	}
}
