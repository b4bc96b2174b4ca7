package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cybermozhi/cybermozhi-server/internal/config"
	"github.com/cybermozhi/cybermozhi-server/internal/core"
	db "github.com/cybermozhi/cybermozhi-server/internal/core/database"
	"github.com/cybermozhi/cybermozhi-server/internal/core/llm"
	objectclient "github.com/cybermozhi/cybermozhi-server/internal/core/object-client"
	"github.com/cybermozhi/cybermozhi-server/internal/core/retriever"
	"github.com/cybermozhi/cybermozhi-server/internal/services"
)

type App struct {
	DBClient core.DbClient
	Server   *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	// Draft archival is optional; the server runs without object storage.
	var objClient core.ObjectClient
	if obj, err := objectclient.NewS3Client(appCtx, cfg); err != nil {
		log.Printf("object storage disabled: %v", err)
	} else {
		objClient = obj
		log.Println("Object client initialized and ready.")
	}

	cursor := llm.NewCursor()
	gateway, err := llm.NewGateway(appCtx, cfg.GeminiAPIKeys, cursor, cfg.GenModel, cfg.TitleModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the model gateway: %w", err)
	}

	embedder := llm.NewEmbedder(gateway, cfg.EmbedModel)

	lawRetriever := retriever.NewLawRetriever(dbClient, embedder)
	if err := lawRetriever.Bootstrap(appCtx); err != nil {
		// Retrieval stays dark until the next restart; chat still works.
		log.Printf("law retriever bootstrap failed: %v", err)
	}

	drafter := services.NewDraftService(dbClient, objClient, cfg.BucketName)
	chat := services.NewChatService(dbClient, gateway, drafter, lawRetriever, cfg.HistoryWindow)
	summarizer := services.NewSummaryService(gateway)

	server := NewServer(cfg, dbClient, chat, drafter, summarizer)

	return &App{DBClient: dbClient, Server: server}, nil
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
