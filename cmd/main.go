package main

import (
	"github.com/gin-gonic/gin"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app"
	"github.com/sumeshhesums/ml-deployment-platform/internal/config"
)

func main() {
	gin.SetMode(gin.ReleaseMode)
	cfg := config.MustLoad()
	app.Run(cfg)
}
