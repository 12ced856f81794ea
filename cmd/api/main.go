package main

import (
	"log"

	"verifyzen/internal/bootstrap"
	"verifyzen/internal/shared/config"
	"verifyzen/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("starting API server on %s (env=%s store=%s)", addr, cfg.Env, cfg.ObjectStoreType)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
