// Package service contains the application services sitting between the
// HTTP handlers and the storage layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/snapbill/snapbill/internal/calculator"
	"github.com/snapbill/snapbill/internal/metrics"
	"github.com/snapbill/snapbill/internal/models"
	"github.com/snapbill/snapbill/internal/ocr"
	"github.com/snapbill/snapbill/internal/parser"
	"github.com/snapbill/snapbill/internal/sample"
	"github.com/snapbill/snapbill/internal/storage"
)

// ParseResult is what a parse operation hands back to the caller: the
// stored receipt plus an advisory flag when the text yielded nothing and
// a generated sample was substituted.
type ParseResult struct {
	Receipt  *models.Receipt
	Fallback bool
}

// SplitResult pairs per-person shares with the leftover unassigned amount.
type SplitResult struct {
	Shares     map[string]float64
	Unassigned float64
}

// ReceiptService parses receipt text or images, persists receipts, and
// computes splits across the current roster of people.
type ReceiptService struct {
	store     storage.Store
	parser    *parser.Parser
	engine    ocr.Engine
	generator *sample.Generator
	splitOpts calculator.Options
}

// NewReceiptService creates a ReceiptService. The OCR engine may be nil,
// in which case ParseImage reports an error.
func NewReceiptService(store storage.Store, p *parser.Parser, engine ocr.Engine, opts calculator.Options) *ReceiptService {
	return &ReceiptService{
		store:     store,
		parser:    p,
		engine:    engine,
		generator: sample.New(),
		splitOpts: opts,
	}
}

// ParseText parses raw receipt text, persists the resulting receipt and
// returns it. When the text contains no recognizable items, a generated
// sample receipt is stored instead and the result is flagged as a
// fallback so the client can tell the user.
func (s *ReceiptService) ParseText(ctx context.Context, text string) (*ParseResult, error) {
	start := time.Now()
	receipt, err := s.parser.Parse(text)
	metrics.ParseDuration.Observe(time.Since(start).Seconds())

	fallback := false
	if err != nil {
		if !errors.Is(err, parser.ErrNoItems) {
			return nil, fmt.Errorf("failed to parse receipt text: %w", err)
		}
		slog.Warn("no items recognized, falling back to sample receipt")
		metrics.ParseFallbacks.Inc()
		receipt = s.generator.Generate()
		fallback = true
	}

	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}
	metrics.ReceiptsParsed.Inc()
	slog.Info("receipt parsed", "receipt_id", receipt.ID, "items", len(receipt.Items), "fallback", fallback)
	return &ParseResult{Receipt: receipt, Fallback: fallback}, nil
}

// ParseImage runs OCR over the image bytes and parses the recognized text.
// OCR trouble (missing engine, undecodable image, recognition failure) is
// not surfaced as an error: the text parse proceeds with empty input, so
// the usual sample fallback kicks in and the user still gets a receipt.
func (s *ReceiptService) ParseImage(ctx context.Context, image []byte) (*ParseResult, error) {
	text := ""
	if s.engine == nil {
		slog.Warn("OCR engine not configured, using fallback")
		metrics.OCRFailures.Inc()
	} else if prepared, err := ocr.Preprocess(image); err != nil {
		slog.Warn("image preprocessing failed", "error", err)
		metrics.OCRFailures.Inc()
	} else if text, err = s.engine.Recognize(ctx, prepared); err != nil {
		slog.Warn("OCR failed", "error", err)
		metrics.OCRFailures.Inc()
		text = ""
	}
	return s.ParseText(ctx, text)
}

// GetReceipt fetches a single receipt with its items and assignments.
func (s *ReceiptService) GetReceipt(ctx context.Context, id string) (*models.Receipt, error) {
	return s.store.GetReceipt(ctx, id)
}

// ListReceipts returns summaries of all stored receipts, newest first.
func (s *ReceiptService) ListReceipts(ctx context.Context) ([]models.ReceiptSummary, error) {
	return s.store.ListReceipts(ctx)
}

// UpdateReceipt replaces a stored receipt wholesale with the given record.
func (s *ReceiptService) UpdateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		return fmt.Errorf("receipt ID is required")
	}
	return s.store.UpdateReceipt(ctx, receipt)
}

// DeleteReceipt removes a receipt and everything attached to it.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, id string) error {
	return s.store.DeleteReceipt(ctx, id)
}

// AssignItem marks a person as sharing an item. Repeating an existing
// assignment is a no-op.
func (s *ReceiptService) AssignItem(ctx context.Context, itemID, personID string) error {
	return s.store.AssignItem(ctx, itemID, personID)
}

// UnassignItem removes a person from an item's assignment set.
func (s *ReceiptService) UnassignItem(ctx context.Context, itemID, personID string) error {
	return s.store.UnassignItem(ctx, itemID, personID)
}

// ComputeSplit allocates a receipt's cost across the current roster.
func (s *ReceiptService) ComputeSplit(ctx context.Context, receiptID string) (*SplitResult, error) {
	receipt, err := s.store.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	roster := make([]string, 0, len(people))
	for _, p := range people {
		roster = append(roster, p.ID)
	}

	items := make([]calculator.Item, 0, len(receipt.Items))
	for _, item := range receipt.Items {
		items = append(items, calculator.Item{
			Description: item.Description,
			Price:       item.Price,
			Tax:         item.Tax,
			AssignedTo:  item.AssignedTo,
		})
	}

	alloc := calculator.Allocate(items, receipt.Total, roster, s.splitOpts)
	metrics.SplitsComputed.Inc()
	return &SplitResult{Shares: alloc.Shares, Unassigned: alloc.Unassigned}, nil
}
