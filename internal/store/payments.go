package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"upitrack/internal/extraction"
)

// PaymentRepository wraps payment persistence. Record consults the duplicate
// guard before writing; reads are plain gorm queries scoped to a user.
type PaymentRepository struct {
	db    *gorm.DB
	guard *DuplicateGuard
}

// NewPaymentRepository creates a repository with its own duplicate guard.
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	r := &PaymentRepository{db: db}
	r.guard = NewDuplicateGuard(r)
	return r
}

// FindByAmountAndRef implements PaymentFinder for the guard. The date-window
// check stays in the guard; this only narrows by the exact-match columns.
func (r *PaymentRepository) FindByAmountAndRef(ctx context.Context, userID uint, amount float64, referenceNo string) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND amount = ? AND reference_no = ?", userID, amount, referenceNo).
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("FindByAmountAndRef: %w", err)
	}
	return payments, nil
}

// Record persists an extracted transaction for a user, unless the guard
// flags it as a duplicate of an existing payment. It returns the stored (or
// matching) payment id and whether the candidate was a duplicate.
//
// Note that the read-then-write is not atomic: two concurrent saves of the
// same transaction can both pass the guard. Accepted; the guard is a
// screenshot re-ingestion filter, not a consistency mechanism.
func (r *PaymentRepository) Record(ctx context.Context, userID uint, tx extraction.Transaction, note string) (uint, bool, error) {
	if id, dup, err := r.guard.Check(ctx, userID, tx.Amount, tx.ReferenceNo, tx.Timestamp); err != nil {
		return 0, false, err
	} else if dup {
		return id, true, nil
	}

	payment := Payment{
		UserID:       userID,
		Type:         string(tx.Type),
		Amount:       tx.Amount,
		Counterparty: tx.Counterparty,
		VPA:          tx.VPA,
		ReferenceNo:  tx.ReferenceNo,
		Source:       tx.Source,
		Category:     extraction.Categorize(tx),
		OccurredAt:   tx.Timestamp,
		RawText:      tx.RawText,
		Note:         note,
	}
	if err := r.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return 0, false, fmt.Errorf("Record: create payment: %w", err)
	}
	return payment.ID, false, nil
}

// Get fetches one payment scoped to its owner.
func (r *PaymentRepository) Get(ctx context.Context, userID, id uint) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&payment).Error
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &payment, nil
}

// List returns the user's most recent payments, newest first.
func (r *PaymentRepository) List(ctx context.Context, userID uint, limit int) ([]Payment, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var payments []Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at desc").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return payments, nil
}

// Delete removes a payment scoped to its owner.
func (r *PaymentRepository) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&Payment{})
	if res.Error != nil {
		return fmt.Errorf("Delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MonthSummary is one row of the dashboard aggregation.
type MonthSummary struct {
	Month    string  `json:"month"`
	Type     string  `json:"type"`
	Total    float64 `json:"total"`
	Payments int64   `json:"payments"`
}

// MonthlySummary sums amounts per month and transaction type.
func (r *PaymentRepository) MonthlySummary(ctx context.Context, userID uint, since time.Time) ([]MonthSummary, error) {
	var results []MonthSummary
	err := r.db.WithContext(ctx).
		Model(&Payment{}).
		Select("to_char(occurred_at, 'YYYY-MM') as month, type, sum(amount) as total, count(*) as payments").
		Where("user_id = ? AND occurred_at >= ?", userID, since).
		Group("month, type").
		Order("month desc, type").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("MonthlySummary: %w", err)
	}
	return results, nil
}

// UploadRepository wraps upload bookkeeping for the async worker.
type UploadRepository struct {
	db *gorm.DB
}

// NewUploadRepository creates an upload repository.
func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Create stores a new upload row.
func (r *UploadRepository) Create(ctx context.Context, upload *Upload) error {
	if err := r.db.WithContext(ctx).Create(upload).Error; err != nil {
		return fmt.Errorf("uploads.Create: %w", err)
	}
	return nil
}

// Get fetches one upload scoped to its owner.
func (r *UploadRepository) Get(ctx context.Context, userID, id uint) (*Upload, error) {
	var upload Upload
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&upload).Error
	if err != nil {
		return nil, fmt.Errorf("uploads.Get: %w", err)
	}
	return &upload, nil
}

// MarkProcessed records a successful extraction run.
func (r *UploadRepository) MarkProcessed(ctx context.Context, id uint, paymentCount int) error {
	err := r.db.WithContext(ctx).
		Model(&Upload{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed":     true,
			"failed":        false,
			"failed_reason": "",
			"payment_count": paymentCount,
		}).Error
	if err != nil {
		return fmt.Errorf("uploads.MarkProcessed: %w", err)
	}
	return nil
}

// MarkFailed records a processing failure, keeping the row for review.
func (r *UploadRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	const maxLen = 255
	if len(reason) > maxLen {
		reason = reason[:maxLen]
	}
	err := r.db.WithContext(ctx).
		Model(&Upload{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed":     true,
			"failed":        true,
			"failed_reason": reason,
		}).Error
	if err != nil {
		return fmt.Errorf("uploads.MarkFailed: %w", err)
	}
	return nil
}
