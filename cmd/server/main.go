package main

import (
	"fmt"

	log "github.com/charmbracelet/log"

	"github.com/sehyun-dev/gobank/infra/initializer"
	"github.com/sehyun-dev/gobank/pkg/config"
	"github.com/sehyun-dev/gobank/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	deps, err := initializer.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	app := webapi.SetupApp(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	deps.Logger.Info("starting server", "env", cfg.Env, "address", addr)
	return app.Listen(addr)
}
