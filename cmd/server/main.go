package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/controller"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	addr := flag.String("addr", getenv("CHESS_ADDR", ":3000"), "listen address")
	origins := flag.String("origins", getenv("CHESS_ORIGINS", "http://localhost:5173"), "comma-separated allowed origins")
	clock := flag.Duration("clock", model.DefaultClockTime, "time per side")
	matchInterval := flag.Duration("match-interval", time.Second, "matchmaking and clock sweep interval")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     *origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	gameManager := service.NewGameManager(*clock)
	gameService := service.NewGameService(gameManager)
	go gameManager.Run(ctx, *matchInterval)

	controller.SetupRoutes(app, gameService, splitOrigins(*origins))

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", *addr)
	if err := app.Listen(*addr); err != nil {
		log.Fatal(err)
	}
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
