package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/corpora-lab/papergraph/internal/queue"
	mid "github.com/corpora-lab/papergraph/internal/server/middleware"
	"github.com/corpora-lab/papergraph/internal/storage"
	"github.com/corpora-lab/papergraph/internal/util"
	"github.com/corpora-lab/papergraph/pkg/ai"
	"github.com/corpora-lab/papergraph/pkg/ai/ollama"
	"github.com/corpora-lab/papergraph/pkg/ai/openai"
	"github.com/corpora-lab/papergraph/pkg/chat"
	docpgx "github.com/corpora-lab/papergraph/pkg/docstore/pgx"
	"github.com/corpora-lab/papergraph/pkg/logger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// newAIClient builds the configured LLM adapter from the AI_* environment.
func newAIClient() (ai.Client, error) {
	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		return ollama.New(ollama.Params{
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			BaseURL:         util.GetEnv("AI_URL"),
			APIKey:          util.GetEnv("AI_KEY"),
		})
	default:
		return openai.New(openai.Params{
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			BaseURL:         util.GetEnv("AI_URL"),
			APIKey:          util.GetEnv("AI_KEY"),
		}), nil
	}
}

// RunMigrations applies any pending schema migrations before the server
// starts serving traffic.
func RunMigrations() {
	m, err := migrate.New(
		util.GetEnvString("MIGRATIONS_URL", "file://migrations"),
		util.GetEnv("DATABASE_URL"),
	)
	if err != nil {
		logger.Fatal("Failed to initialize migrations", "err", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Failed to run migrations", "err", err)
	}
}

func Init() {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	RunMigrations()

	conn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	s3Client, err := storage.NewS3Client(ctx)
	if err != nil {
		logger.Fatal("Failed to create S3 client", "err", err)
	}

	aiClient, err := newAIClient()
	if err != nil {
		logger.Fatal("Failed to create AI client", "err", err)
	}

	app := &mid.App{
		Store:    docpgx.NewStoreWithConnection(conn),
		Queue:    ch,
		S3:       s3Client,
		AiClient: aiClient,
		Chat:     chat.New(aiClient),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(echomw.CORS())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("256M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
