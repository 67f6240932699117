package main

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"tenpin-app/internal/config"
	"tenpin-app/internal/store"
	"tenpin-app/internal/web"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed templates/* templates/partials/* static/* static/css/*
var content embed.FS

func main() {
	if !runningOnLambda() {
		_ = godotenv.Load(".env", ".env.local")
	}
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogger(cfg)

	templates, err := web.NewTemplates(content)
	if err != nil {
		log.Fatal().Err(err).Msg("parse templates")
	}
	appStore := openStore(cfg)
	server := web.NewServer(appStore, templates)

	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("static fs")
	}

	r := chi.NewRouter()
	r.Use(web.WithLogging)
	r.Use(func(next http.Handler) http.Handler {
		return web.WithCurrentUser(appStore, next)
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Mount("/", server.Routes())

	if runningOnLambda() {
		log.Info().Msg("starting in lambda mode")
		adapter := httpadapter.New(r)
		lambda.Start(adapter.ProxyWithContext)
		return
	}
	log.Info().Str("addr", cfg.Addr).Msg("starting http server")
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal().Err(err).Msg("http server")
	}
}

func openStore(cfg *config.Config) store.Store {
	if dsn := strings.TrimSpace(cfg.PostgresDSN); dsn != "" {
		pgStore, err := store.NewPostgresStore(dsn, store.PostgresOptions{
			MigrationsDir: cfg.PostgresMigrationsDir,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("postgres store")
		}
		log.Info().Msg("using postgres store")
		return pgStore
	}
	if dbPath := strings.TrimSpace(cfg.DBPath); dbPath != "" {
		sqliteStore, err := store.NewSQLiteStore(dbPath, store.SQLiteOptions{
			MigrationsDir: cfg.MigrationsDir,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("sqlite store")
		}
		log.Info().Str("path", dbPath).Msg("using sqlite store")
		return sqliteStore
	}
	log.Info().Msg("using in-memory store")
	return store.NewMemoryStore()
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !cfg.IsProd() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func runningOnLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}
