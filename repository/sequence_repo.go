package repository

import "context"

// SequenceRepository hands out per-day counters for document numbers.
type SequenceRepository interface {
	// Next atomically increments and returns the counter for (docType, datePrefix), starting at 1.
	Next(ctx context.Context, docType, datePrefix string) (int64, error)
}

// DocumentNumber names a per-day counter and how its value is printed. It
// lets a store draw the counter inside the write that uses the number.
type DocumentNumber struct {
	DocType    string
	DatePrefix string
	Format     func(seq int64) string
}
