package main

import (
	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/routes"
	"github.com/cppla/yatube/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(cfg)

	cache, err := utils.NewCache(cfg)
	if err != nil {
		utils.Sugar.Fatalf("failed to init cache: %v", err)
	}
	if closer, ok := cache.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	r := routes.SetupRouter(cfg, db, cache)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
