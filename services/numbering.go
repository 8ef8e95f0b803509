package services

import (
	"context"
	"fmt"
	"time"

	"lorryledger/repository"
)

// DocumentType is the prefix of an auto-generated document number.
type DocumentType string

const (
	DocLR       DocumentType = "LR"
	DocInvoice  DocumentType = "INV"
	DocShipment DocumentType = "SHP"
	DocOrder    DocumentType = "ORD"
)

// Numberer formats per-day sequences as PREFIX + YYYYMMDD + 3-digit counter.
type Numberer struct {
	Seq repository.SequenceRepository
}

func NewNumberer(seq repository.SequenceRepository) *Numberer {
	return &Numberer{Seq: seq}
}

func (n *Numberer) Next(ctx context.Context, docType DocumentType, date time.Time) (string, error) {
	num := NewDocumentNumber(docType, date)
	v, err := n.Seq.Next(ctx, num.DocType, num.DatePrefix)
	if err != nil {
		return "", storeErr("next number", err)
	}
	return num.Format(v), nil
}

// NewDocumentNumber describes the docType counter for date without drawing it.
func NewDocumentNumber(docType DocumentType, date time.Time) repository.DocumentNumber {
	prefix := date.Format("20060102")
	return repository.DocumentNumber{
		DocType:    string(docType),
		DatePrefix: prefix,
		Format: func(seq int64) string {
			return fmt.Sprintf("%s%s%03d", docType, prefix, seq)
		},
	}
}
