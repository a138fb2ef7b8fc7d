package main

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type App struct {
	cfg    Config
	log    *zap.SugaredLogger
	mongo  *mongo.Client
	store  Store
	gemini *geminiClient
}

func newApp(ctx context.Context, cfg Config, log *zap.SugaredLogger) (*App, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	store := newMongoStore(client.Database(cfg.MongoDB))
	if err := store.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return &App{
		cfg:    cfg,
		log:    log,
		mongo:  client,
		store:  store,
		gemini: newGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel),
	}, nil
}

func (a *App) close(ctx context.Context) { _ = a.mongo.Disconnect(ctx) }
