package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"hunter_ai/awakening"
	"hunter_ai/config"
	"hunter_ai/handlers"
	"hunter_ai/live"
	"hunter_ai/narrator"
	"hunter_ai/saves"
	"hunter_ai/session"
)

func main() {
	logger := log.New(os.Stdout, "[hunter] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	store, err := saves.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	seed, err := awakening.NewSeed()
	if err != nil {
		log.Fatal(err)
	}

	hub := live.NewHub(logger)
	go hub.Run(ctx)

	manager := session.NewManager(session.Options{
		Generator: narrator.NewGemini(client, cfg.Model, logger),
		Rand:      awakening.NewLocked(awakening.NewSeeded(seed)),
		Logger:    logger,
		Notifier:  hub,
		Timing: session.Timing{
			RollDelay:          cfg.AwakeningRollDelay,
			RevealDelay:        cfg.AwakeningRevealDelay,
			ReawakenStatsDelay: cfg.ReawakeningStatsDelay,
			ReawakenRankDelay:  cfg.ReawakeningRankDelay,
			GenerationTimeout:  cfg.GenerationTimeout,
		},
	})

	h := &handlers.Handler{
		Manager: manager,
		Saves:   store,
		Live:    hub,
		Logger:  logger,
	}

	mux := http.NewServeMux()

	fs := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static/", fs))
	h.Routes(mux)

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Listening on http://%s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
