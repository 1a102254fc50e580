package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"upitrack/internal/config"
	"upitrack/internal/extraction"
	"upitrack/internal/jobs"
	"upitrack/internal/jobs/inmemory"
	"upitrack/internal/logger"
	"upitrack/internal/ocr"
	"upitrack/internal/pipeline"
	"upitrack/internal/server"
	"upitrack/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}

	ctx := context.Background()

	var generator extraction.Generator
	if os.Getenv("GEMINI_API_KEY") != "" {
		gen, err := extraction.NewGeminiGenerator(ctx, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		generator = gen
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set - extraction will use the fallback path only")
	}
	engine := extraction.NewEngine(generator, log, extraction.WithTimeout(cfg.AITimeout))

	payments := store.NewPaymentRepository(db)
	uploads := store.NewUploadRepository(db)
	reader := ocr.NewTesseractReader(cfg.OCRLanguage)
	proc := pipeline.New(reader, engine, payments, uploads, log)

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueSize, cfg.Workers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		parseJob, ok := job.(*jobs.ParseUploadJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", parseJob.JobID).
			Uint("upload_id", parseJob.UploadID).
			Msg("Processing parse job")

		return proc.ProcessUpload(ctx, parseJob)
	}

	go func() {
		log.Info().Msg("Starting job workers")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job workers stopped with error")
		}
	}()

	srv := server.New(server.Config{
		DB:        db,
		Payments:  payments,
		Uploads:   uploads,
		Engine:    engine,
		Publisher: jobQueue,
		JobStore:  jobStore,
		Log:       log,
		JWTSecret: []byte(cfg.JWTSecret),
		UploadDir: cfg.UploadDir,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
