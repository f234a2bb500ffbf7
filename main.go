package main

import (
	"github.com/ssenpaii/playtally/config"
	"github.com/ssenpaii/playtally/models"
	"github.com/ssenpaii/playtally/routes"
	"github.com/ssenpaii/playtally/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Player{}, &models.Reward{}, &models.CheckIn{}, &models.PageView{})

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
