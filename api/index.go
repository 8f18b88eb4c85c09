package handler

import (
	"net/http"

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

var r http.Handler

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Load("")
	if err == nil {
		err = cfg.ValidateServer()
	}
	if err != nil {
		r = failing(err)
		return
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		log = zap.NewNop()
	}

	db, err := database.InitDB(cfg.Database, log)
	if err != nil {
		log.Error("database", zap.Error(err))
		r = failing(err)
		return
	}
	if err := auth.EnsureAdminExists(db, cfg.Auth, log); err != nil {
		log.Warn("could not ensure admin user", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	cal := scheduler.NewCalendar(scheduler.Anchor{
		Month:     cfg.AnchorMonth(),
		EvenTeams: cfg.AnchorEvenTeams(),
	})
	r = handlers.NewRouter(handlers.NewHandler(db, auth.New(cfg.Auth), cal, log), log)
}

func failing(err error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "service misconfigured: "+err.Error(), http.StatusInternalServerError)
	})
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
