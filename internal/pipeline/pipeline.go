// Package pipeline runs an uploaded screenshot through OCR, extraction, and
// persistence. It is the job handler's body, kept separate from the queue so
// the cli ingest command can run the same steps synchronously.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"upitrack/internal/extraction"
	"upitrack/internal/jobs"
	"upitrack/internal/ocr"
)

// PaymentRecorder persists one extracted transaction, reporting the stored
// (or matching) payment id and whether it was a duplicate.
type PaymentRecorder interface {
	Record(ctx context.Context, userID uint, tx extraction.Transaction, note string) (uint, bool, error)
}

// UploadMarker updates the upload row when processing finishes.
type UploadMarker interface {
	MarkProcessed(ctx context.Context, id uint, paymentCount int) error
	MarkFailed(ctx context.Context, id uint, reason string) error
}

// Pipeline holds the processing dependencies.
type Pipeline struct {
	reader   ocr.Reader
	engine   *extraction.Engine
	payments PaymentRecorder
	uploads  UploadMarker
	log      zerolog.Logger
}

// New creates a pipeline.
func New(reader ocr.Reader, engine *extraction.Engine, payments PaymentRecorder, uploads UploadMarker, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		reader:   reader,
		engine:   engine,
		payments: payments,
		uploads:  uploads,
		log:      log,
	}
}

// ProcessUpload handles one parse job end to end. OCR failure marks the
// upload failed and returns an error so the queue can retry; extraction
// itself cannot fail, so a screenshot with no recognizable transaction just
// ends up processed with zero payments.
func (p *Pipeline) ProcessUpload(ctx context.Context, job *jobs.ParseUploadJob) error {
	// 1. OCR the screenshot.
	text, err := p.reader.Text(ctx, job.ImagePath)
	if err != nil {
		if markErr := p.uploads.MarkFailed(ctx, job.UploadID, err.Error()); markErr != nil {
			p.log.Error().Err(markErr).Uint("upload_id", job.UploadID).Msg("Failed to mark upload failed")
		}
		return fmt.Errorf("ProcessUpload: ocr: %w", err)
	}

	// 2. Extract transactions.
	result := p.engine.Extract(ctx, text)

	// 3. Persist everything except the nothing-found sentinel.
	saved := 0
	for _, tx := range result.Transactions {
		if tx.Amount == 0 {
			continue
		}
		id, dup, err := p.payments.Record(ctx, job.UserID, tx, fmt.Sprintf("upload %d", job.UploadID))
		if err != nil {
			if markErr := p.uploads.MarkFailed(ctx, job.UploadID, err.Error()); markErr != nil {
				p.log.Error().Err(markErr).Uint("upload_id", job.UploadID).Msg("Failed to mark upload failed")
			}
			return fmt.Errorf("ProcessUpload: record payment: %w", err)
		}
		if dup {
			p.log.Info().
				Uint("upload_id", job.UploadID).
				Uint("payment_id", id).
				Float64("amount", tx.Amount).
				Str("ref_no", tx.ReferenceNo).
				Msg("Skipped duplicate payment")
			continue
		}
		saved++
	}

	// 4. Mark the upload processed.
	if err := p.uploads.MarkProcessed(ctx, job.UploadID, saved); err != nil {
		return fmt.Errorf("ProcessUpload: mark processed: %w", err)
	}

	p.log.Info().
		Uint("upload_id", job.UploadID).
		Int("payments", saved).
		Msg("Upload processed")
	return nil
}
