package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/fazamuttaqien/meetsync/database"
	"github.com/fazamuttaqien/meetsync/internal/presenter"
	"github.com/fazamuttaqien/meetsync/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	dbUrl := os.Getenv("POSTGRES_URL")
	db, err := database.New(dbUrl)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		return
	}
	defer db.Close()

	presenter := presenter.New(db)
	router := router.New(presenter)

	addr := ":8000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	slog.Info("Starting server", "addr", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("Server stopped", "error", err)
	}
}
