// Package main boardcamp API.
//
// @title           boardcamp API
// @version         1.0
// @description     board-game rental service (customers, games, rentals).
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"

	"boardcamp/app/echoServer"
	customerctrl "boardcamp/app/echoServer/controller/customer"
	gamectrl "boardcamp/app/echoServer/controller/game"
	rentalctrl "boardcamp/app/echoServer/controller/rental"
	"boardcamp/app/echoServer/validation"
	"boardcamp/config"
	customerrepo "boardcamp/repository/customer"
	gamerepo "boardcamp/repository/game"
	rentalrepo "boardcamp/repository/rental"
	customersvc "boardcamp/service/customer"
	gamesvc "boardcamp/service/game"
	rentalsvc "boardcamp/service/rental"
	"boardcamp/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	cr := customerrepo.New(db)
	gr := gamerepo.New(db)
	rr := rentalrepo.New(db)

	// services
	cs := customersvc.New(cr)
	gs := gamesvc.New(gr)
	rs := rentalsvc.New(cr, gr, rr)

	// controllers
	v := validator.New()
	customerC := &customerctrl.Controller{Svc: cs, V: v, Log: log}
	gameC := &gamectrl.Controller{Svc: gs, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Customer: customerC,
		Game:     gameC,
		Rental:   rentalC,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
