package main

import (
	auth "Ductcalc/internal/auth"
	duct "Ductcalc/internal/calc/duct"
	batch "Ductcalc/internal/calc/premium/batch"
	importer "Ductcalc/internal/calc/premium/importer"
	report "Ductcalc/internal/calc/report"
	config "Ductcalc/internal/config"
	logging "Ductcalc/internal/logging"
	preset "Ductcalc/internal/preset"
	repo "Ductcalc/internal/repo"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(origin string, mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// HandleList registers every route on mux.
func HandleList(mux *mux.Router, cfg *config.Config, presets repo.Repository, log *zap.Logger) {
	svc := &duct.Service{Presets: presets, Log: log.Named("duct")}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	mux.Use(logging.Middleware(log.Named("http")))

	ductH := &duct.Handler{Service: svc}
	mux.HandleFunc("/calculate", ductH.CalcForm).Methods("POST")

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	reportH := &report.Handler{Calc: svc}
	importH := &importer.Handler{Calc: svc}
	batchH := &batch.Handler{Calc: svc}
	presetH := &preset.Handler{Repo: presets, Log: log.Named("preset")}

	api.HandleFunc("/tools/duct/defaults", ductH.Defaults).Methods("GET")
	api.HandleFunc("/tools/duct/calc", ductH.Calc).Methods("POST")
	api.HandleFunc("/tools/duct/report/pdf", reportH.Generate).Methods("POST")
	api.HandleFunc("/tools/duct/report/xlsx", reportH.Spreadsheet).Methods("POST")
	api.HandleFunc("/tools/duct/import", importH.Ducts).Methods("POST")
	api.HandleFunc("/tools/duct/batch", batchH.Ducts).Methods("POST")

	api.HandleFunc("/presets", presetH.List).Methods("GET")
	api.HandleFunc("/presets/{name}", presetH.Get).Methods("GET")

	if cfg.AdminEnabled() {
		authEnv := &auth.Authenv{
			JWTkey:       []byte(cfg.TokenKey),
			Login:        cfg.AdminLogin,
			PasswordHash: cfg.AdminPasswordHash,
			SecureCookie: cfg.TLSEnabled(),
			Log:          log.Named("auth"),
		}
		api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")

		admin := api.PathPrefix("/admin").Subrouter()
		admin.Use(authEnv.AuthMiddleware)
		admin.HandleFunc("/presets/{name}", presetH.Save).Methods("PUT")
	} else {
		log.Warn("admin credentials not configured, preset editing disabled")
	}

	mux.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))
}

func openPresets(ctx context.Context, cfg *config.Config, log *zap.Logger) (repo.Repository, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set, presets kept in memory")
		return repo.NewMemoryPresetDB(), nil, nil
	}
	db, err := repo.OpenDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := repo.NewPostgresPresetDB(db)
	if err := pg.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return pg, db, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	presets, db, err := openPresets(ctx, cfg, log)
	if err != nil {
		log.Fatal("preset storage", zap.Error(err))
	}
	if db != nil {
		defer db.Close()
	}

	mux := mux.NewRouter()
	HandleList(mux, cfg, presets, log)
	handler := CORS(cfg.CORSOrigin, mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting server", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLSEnabled()))
	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		if cfg.TLSEnabled() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	wg.Wait()
	log.Info("server stopped")
}
