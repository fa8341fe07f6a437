package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"agent-insights-go/internal/classifier"
	"agent-insights-go/internal/config"
	"agent-insights-go/internal/dataset"
	"agent-insights-go/internal/elevenlabs"
	"agent-insights-go/internal/insights"
	"agent-insights-go/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().WithError(err).Fatal("failed to load config")
	}

	log := logger.New()
	log.WithField("service", "agent-insights-go").Info("starting service")

	// Classification strategies: the LLM path is primary only when the
	// gateway is configured and reachable at startup.
	rules := classifier.NewRules(classifier.DefaultLexicon())
	var primary classifier.Strategy
	if cfg.LLMGatewayURL != "" {
		llm := classifier.NewLLM(cfg.LLMGatewayURL, cfg.LLMAPIKey, cfg.LLMModel,
			time.Duration(cfg.LLMTimeoutSec)*time.Second)
		if llm.Available(context.Background()) {
			primary = llm
			log.WithField("gateway", cfg.LLMGatewayURL).Info("llm classifier enabled")
		} else {
			log.Warn("llm gateway unreachable, rule-based classifier only")
		}
	} else {
		log.Info("no llm gateway configured, rule-based classifier only")
	}
	analyzer := classifier.NewAnalyzer(primary, rules)
	gen := insights.NewGenerator(analyzer, insights.DefaultTaxonomy(), cfg.MaxConcurrency)

	// Transcript source: real API, then spreadsheet dataset, then mocks.
	var source ConversationSource
	switch {
	case cfg.ElevenLabsAPIKey != "":
		source = elevenlabs.NewClient(cfg.ElevenLabsBaseURL, cfg.ElevenLabsAPIKey)
		log.Info("using elevenlabs conversation source")
	case cfg.DatasetPath != "":
		ds, err := dataset.Load(cfg.DatasetPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load dataset")
		}
		source = ds
		log.WithField("dataset_path", cfg.DatasetPath).Info("using dataset conversation source")
	default:
		source = elevenlabs.NewMockSource()
		log.Info("no source configured, serving mock conversations")
	}

	srv := newServer(source, analyzer, gen, cfg.FetchLimit)

	addr := fmt.Sprintf(":%s", cfg.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}
