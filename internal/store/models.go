package store

import (
	"time"
)

// User owns payments and uploads. Passwords are bcrypt hashes.
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"size:255;not null;unique"`
	HashedPassword []byte `gorm:"not null"`
	Payments       []Payment
	Uploads        []Upload
}

// Payment is one stored UPI transaction, mapped from an extracted
// transaction. OccurredAt carries the extracted timestamp, which the
// duplicate guard compares against with a one-day tolerance; the storage
// layer deliberately has no uniqueness constraint on (amount, reference_no)
// because OCR timestamps are too imprecise for a hard key.
type Payment struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       uint    `gorm:"index;not null"`
	Type         string  `gorm:"size:16;not null"`
	Amount       float64 `gorm:"not null"`
	Counterparty string  `gorm:"size:255"`
	VPA          string  `gorm:"column:vpa;size:255"`
	ReferenceNo  string  `gorm:"size:64;index"`
	Source       string  `gorm:"size:64"`
	Category     string  `gorm:"size:64"`
	OccurredAt   time.Time `gorm:"not null;index"`
	RawText      string    `gorm:"type:text"`
	// Note records provenance: which upload or request produced this row.
	Note string `gorm:"size:255"`
}

// Upload tracks one screenshot through OCR and extraction. Failed rows are
// kept so the owner can review what went wrong instead of silently losing the
// file.
type Upload struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       uint   `gorm:"index;not null"`
	FileName     string `gorm:"size:255;not null"`
	StorePath    string `gorm:"size:512"`
	ContentType  string `gorm:"size:128"`
	Processed    bool   `gorm:"default:false;index"`
	Failed       bool   `gorm:"default:false;index"`
	FailedReason string `gorm:"size:255"`
	// PaymentCount is how many payments this upload produced (0 for the
	// nothing-found sentinel or all-duplicate results).
	PaymentCount int `gorm:"default:0"`
}
