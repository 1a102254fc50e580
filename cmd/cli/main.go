package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"upitrack/internal/config"
	"upitrack/internal/extraction"
	"upitrack/internal/jobs"
	"upitrack/internal/logger"
	"upitrack/internal/ocr"
	"upitrack/internal/pipeline"
	"upitrack/internal/store"
)

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "extract":
		runExtract(log)
	case "ingest":
		runIngest(log)
	case "inspect":
		runInspect(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("upitrack CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  extract   Extract transactions from text (file or stdin)")
	fmt.Println("  ingest    OCR a screenshot, extract, and store the payments")
	fmt.Println("  inspect   Dump a user's stored payments")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// newEngine builds the extraction engine, with the Gemini path enabled only
// when asked for and an API key is present.
func newEngine(ctx context.Context, log zerolog.Logger, useAI bool, model string, timeout time.Duration) *extraction.Engine {
	var generator extraction.Generator
	if useAI {
		if os.Getenv("GEMINI_API_KEY") == "" {
			log.Fatal().Msg("-ai requires GEMINI_API_KEY")
		}
		gen, err := extraction.NewGeminiGenerator(ctx, model)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		generator = gen
	}
	return extraction.NewEngine(generator, log, extraction.WithTimeout(timeout))
}

func runExtract(log zerolog.Logger) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	file := fs.String("file", "", "Text file to extract from (default stdin)")
	useAI := fs.Bool("ai", false, "Use the Gemini primary path (requires GEMINI_API_KEY)")
	model := fs.String("model", "", "Gemini model name")
	timeout := fs.Duration("timeout", 20*time.Second, "Model call timeout")
	fs.Parse(os.Args[2:])

	var data []byte
	var err error
	if *file != "" {
		data, err = os.ReadFile(*file)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}
	if len(data) == 0 {
		log.Fatal().Msg("No input text")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	engine := newEngine(ctx, log, *useAI, *model, *timeout)
	result := engine.Extract(ctx, string(data))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if result.Multiple {
		enc.Encode(result.Transactions)
	} else {
		enc.Encode(result.Single())
	}
}

func runIngest(log zerolog.Logger) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	image := fs.String("image", "", "Screenshot image to ingest")
	userID := fs.Uint("user", 0, "Owner user id")
	useAI := fs.Bool("ai", false, "Use the Gemini primary path (requires GEMINI_API_KEY)")
	fs.Parse(os.Args[2:])

	if *image == "" || *userID == 0 {
		log.Fatal().Msg("Usage: cli ingest -image PATH -user ID")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	engine := newEngine(ctx, log, *useAI, cfg.GeminiModel, cfg.AITimeout)
	payments := store.NewPaymentRepository(db)
	uploads := store.NewUploadRepository(db)
	reader := ocr.NewTesseractReader(cfg.OCRLanguage)

	upload := store.Upload{
		UserID:    *userID,
		FileName:  *image,
		StorePath: *image,
	}
	if err := uploads.Create(ctx, &upload); err != nil {
		log.Fatal().Err(err).Msg("Failed to record upload")
	}

	proc := pipeline.New(reader, engine, payments, uploads, log)
	job := &jobs.ParseUploadJob{UploadID: upload.ID, ImagePath: *image, UserID: *userID}
	if err := proc.ProcessUpload(ctx, job); err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	fmt.Println("Ingestion completed successfully.")
}

func runInspect(log zerolog.Logger) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	userID := fs.Uint("user", 0, "User id to inspect")
	limit := fs.Int("limit", 50, "Max payments to show")
	fs.Parse(os.Args[2:])

	if *userID == 0 {
		log.Fatal().Msg("Error: -user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}

	ctx := context.Background()
	payments, err := store.NewPaymentRepository(db).List(ctx, *userID, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list payments")
	}

	fmt.Printf("\n=== Payments (%d) ===\n", len(payments))
	for i, p := range payments {
		fmt.Printf("\n%d. %s ₹%.2f\n", i+1, p.Type, p.Amount)
		fmt.Printf("   Date:     %s\n", p.OccurredAt.Format("2006-01-02 15:04"))
		if p.Counterparty != "" {
			fmt.Printf("   Party:    %s\n", p.Counterparty)
		}
		if p.VPA != "" {
			fmt.Printf("   VPA:      %s\n", p.VPA)
		}
		if p.ReferenceNo != "" {
			fmt.Printf("   Ref:      %s\n", p.ReferenceNo)
		}
		if p.Source != "" {
			fmt.Printf("   Source:   %s\n", p.Source)
		}
		if p.Category != "" {
			fmt.Printf("   Category: %s\n", p.Category)
		}
	}
	fmt.Println()
}
