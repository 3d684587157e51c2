package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/snapbill/snapbill/internal/auth"
	"github.com/snapbill/snapbill/internal/calculator"
	"github.com/snapbill/snapbill/internal/config"
	"github.com/snapbill/snapbill/internal/handler"
	"github.com/snapbill/snapbill/internal/ocr"
	"github.com/snapbill/snapbill/internal/parser"
	"github.com/snapbill/snapbill/internal/service"
	"github.com/snapbill/snapbill/internal/storage/sqlite"
	"github.com/snapbill/snapbill/pkg/logging"
)

func main() {
	configPath := flag.String("config", "snapbill.toml", "path to config file")
	flag.Parse()

	logging.Setup()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	p := parser.New(cfg.ParserSettings())
	receipts := service.NewReceiptService(store, p, ocr.NewTesseract(), calculator.Options{
		IncludeTax: cfg.Split.IncludeTax,
	})
	people := service.NewPeopleService(store)
	authSvc := service.NewAuthService(authenticator, jwtManager)

	router := handler.NewRouter(receipts, people, authSvc, jwtManager)

	slog.Info("Server starting", "address", cfg.Listen)
	if err := router.Run(cfg.Listen); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
