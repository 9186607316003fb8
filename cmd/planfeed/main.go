package main

import (
	_ "embed"
	"flag"
	"os"

	"github.com/navi-mes/planfeed/internal/app"
)

// embeddedConfig is the default configuration. Values of the form ${VAR} are expanded from the environment.
//
//go:embed resources/application.yaml
var embeddedConfig []byte

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	envFile := flag.String("env", envOrDefault("ENV_FILE_PATH", ".env"), "path to the .env file")
	migrate := flag.Bool("migrate", os.Getenv("PLANFEED_MIGRATE") == "true", "apply the planning schema on startup")
	flag.Parse()

	app.RunApplication(app.Options{
		EnvFilePath:    *envFile,
		EmbeddedConfig: embeddedConfig,
		Migrate:        *migrate,
		DBModules:      app.SelectModules("DB", envOrDefault("DB_ADAPTERS", "postgres,mysql,sqlite"), app.DBModules),
		StorageModules: app.SelectModules("Storage", envOrDefault("STORAGE_ADAPTERS", "local,gcs,minio"), app.StorageModules),
	})
}
