package main

import (
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/adapters/postgres"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/config"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/errors"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/history"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/ingest"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/render"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/report"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	fileStorage := ingest.NewLocalFileStorage(appConfig.Storage.BasePath)
	repo := postgres.NewDatasetRepository(db)
	evictor := history.NewEvictor(repo, fileStorage, appConfig.Retention.MaxDatasetsPerOwner)
	ingestService := ingest.NewService(repo, fileStorage, evictor, appConfig.Storage.MaxUploadBytes)
	renderer := render.NewRenderer(render.DefaultConfig())
	composer := report.NewComposer(renderer)

	app := ui.NewApp(ingestService, repo, renderer, composer)

	addr := ":" + appConfig.Server.Port
	log.Printf("[Server] Listening on %s", addr)
	if err := http.ListenAndServe(addr, app.Router()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// initDatabase connects to PostgreSQL and applies the schema
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if err := postgres.EnsureSchema(db); err != nil {
		return nil, errors.Wrap(err, "failed to apply schema")
	}
	return db, nil
}
