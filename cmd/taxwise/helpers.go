package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	appconfig "github.com/taxwise-in/taxwise/internal/config"
	"github.com/taxwise-in/taxwise/internal/knowledge"
	"github.com/taxwise-in/taxwise/internal/llm"
	"github.com/taxwise-in/taxwise/internal/storage"
)

func currentUser() string {
	return viper.GetString("user")
}

func openStorage(cfg *appconfig.Config) (*storage.Storage, error) {
	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction database at %s: %w", cfg.Database.Path, err)
	}
	return store, nil
}

func openKnowledgeStore(cfg *appconfig.Config) (*knowledge.SQLiteStore, error) {
	store, err := knowledge.NewSQLiteStore(cfg.Knowledge.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge store at %s: %w", cfg.Knowledge.Path, err)
	}
	return store, nil
}

func newRetriever(cfg *appconfig.Config, store knowledge.Store) *knowledge.Retriever {
	return knowledge.NewRetriever(store, knowledge.RetrieverOptions{
		MaxDistance:   cfg.Knowledge.MaxDistance,
		MinConfidence: cfg.Knowledge.MinConfidence,
		TopK:          cfg.Knowledge.TopK,
	}, slog.Default())
}

func newLLMChain(cfg *appconfig.Config) *llm.Chain {
	return llm.NewChainFromConfig(llm.Config{
		GroqAPIKey:       cfg.LLM.GroqAPIKey,
		GroqModel:        cfg.LLM.GroqModel,
		GeminiAPIKey:     cfg.LLM.GeminiAPIKey,
		GeminiModel:      cfg.LLM.GeminiModel,
		Temperature:      cfg.LLM.Temperature,
		TopP:             cfg.LLM.TopP,
		MaxTokens:        cfg.LLM.MaxTokens,
		Timeout:          cfg.LLM.Timeout,
		RateLimit:        cfg.LLM.RateLimit,
		CacheTTL:         cfg.LLM.CacheTTL,
		GeminiDailyLimit: cfg.LLM.GeminiDailyLimit,
	}, slog.Default())
}
