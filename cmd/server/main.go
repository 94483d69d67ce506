package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	login "github.com/goliatone/go-login"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg, err := login.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Secrets carry a json:"-" tag, so the dump stays safe to share.
	fmt.Println(print.MaybePrettyJSON(cfg))

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := login.CreateUsersTable(context.Background(), db); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	store := login.NewUsersRepository(db)
	tokens := login.NewTokenService([]byte(cfg.SigningKey), cfg.TokenTTL, nil)
	auther := login.NewAuthenticator(store, tokens).WithBcryptCost(cfg.BcryptCost)

	app := fiber.New(fiber.Config{
		AppName: "go-login",
	})
	app.Use(cors.New())

	login.RegisterAuthRoutes(app, login.WithAuthenticator(auther))

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
