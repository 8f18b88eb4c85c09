package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/arnavshah/roster-api-go/pkg/auth"
	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/database"
	"github.com/arnavshah/roster-api-go/pkg/handlers"
	"github.com/arnavshah/roster-api-go/pkg/logger"
	"github.com/arnavshah/roster-api-go/pkg/scheduler"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	cfg, err := config.Load(os.Getenv("ROSTER_CONFIG"))
	if err == nil {
		err = cfg.ValidateServer()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	gin.SetMode(cfg.Server.GinMode)

	db, err := database.InitDB(cfg.Database, log)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	if err := auth.EnsureAdminExists(db, cfg.Auth, log); err != nil {
		log.Warn("could not ensure admin user", zap.Error(err))
	}

	cal := scheduler.NewCalendar(scheduler.Anchor{
		Month:     cfg.AnchorMonth(),
		EvenTeams: cfg.AnchorEvenTeams(),
	})
	h := handlers.NewHandler(db, auth.New(cfg.Auth), cal, log)
	r := handlers.NewRouter(h, log)

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr), zap.Stringer("anchor", cal.Anchor.Month))
	if err := r.Run(addr); err != nil {
		log.Fatal("could not run server", zap.Error(err))
	}
}
