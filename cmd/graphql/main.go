// Standalone GraphQL server, run with: go run ./cmd/graphql
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"giftshop.GO/api"
	_ "giftshop.GO/api/graphql"
	"giftshop.GO/app"
	"giftshop.GO/config"
	_ "giftshop.GO/custom"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	cfg := config.AppConfig

	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatal("logger:", err)
	}
	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatal("bootstrap:", err)
	}
	defer a.Close()
	if err := a.Start(ctx); err != nil {
		logger.Warn("initial catalog load failed", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	api.ApplyRoutes(e, a.Deps())

	// ASCII banner on start (random font each run)
	gqlFonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "univers", "doom", "larry3d", "puffy", "rectangles", "bigchief", "cosmic"}
	fig := figure.NewFigure("GiftShop GQL ->", gqlFonts[rand.Intn(len(gqlFonts))], true)
	fig.Print()
	fmt.Println("Standalone GraphQL server")

	port := cfg.Port
	logger.Info("graphql ready",
		zap.String("graphql", "http://localhost:"+port+"/graphql"),
		zap.String("playground", "http://localhost:"+port+"/playground"))
	e.Logger.Fatal(e.Start(":" + port))
}
