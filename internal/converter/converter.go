// =============================================================================
// Order Slip Generator - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates the entire
// pipeline for a single marketplace export, from table ingest to the output
// sink.
//
// CONVERSION PIPELINE:
//   1. Read the export as a table (CSV or XLSX)
//   2. Check the header against the platform schema
//   3. Normalize every record into an order line
//   4. Group lines into orders by (customer, order date)
//   5. Paginate every order into batches of one slip each
//   6. Compute totals and render every batch
//   7. Hand the documents to the sink
//
// ATOMICITY:
//   Steps 1-6 run fully in memory. The sink is reset and written only after
//   every batch has rendered, so a failing run leaves the destination as it
//   was.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-slip-generator/internal/config"
	"github.com/ginjaninja78/order-slip-generator/internal/ingest"
	"github.com/ginjaninja78/order-slip-generator/internal/logger"
	"github.com/ginjaninja78/order-slip-generator/internal/normalizer"
	"github.com/ginjaninja78/order-slip-generator/internal/schema"
	"github.com/ginjaninja78/order-slip-generator/internal/totals"
	"github.com/ginjaninja78/order-slip-generator/internal/validation"
	"github.com/ginjaninja78/order-slip-generator/internal/xlsxwriter"
	"github.com/ginjaninja78/order-slip-generator/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single export.
type Result struct {
	// RunID identifies the run in logs and per-run output directories.
	RunID string

	// Source is the name of the input that was processed.
	Source string

	// Platform is the schema id the input was read with.
	Platform string

	// Outputs lists every document in render order.
	Outputs []Output

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// Output describes one rendered batch.
type Output struct {
	// Name is the file name the sink stored the document under. It is the
	// sanitized base name when no sink was used.
	Name string

	CustomerName string
	OrderDate    string
	Sequence     int
	Lines        int
	Gross        decimal.Decimal
	Size         int
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsProcessed is the number of data rows read from the input.
	RowsProcessed int

	// OrdersCreated is the number of (customer, order date) groups.
	OrdersCreated int

	// BatchesCreated is the number of documents rendered.
	BatchesCreated int

	// DefaultedFields lists schema fields filled with defaults because the
	// export lacked their column.
	DefaultedFields []schema.Field

	// ProcessingTime is the time taken to process the input.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter turns one platform's exports into slip documents.
type Converter struct {
	platform   *schema.PlatformSchema
	input      config.InputSettings
	grouping   GroupOptions
	calculator *totals.Calculator
	renderer   *xlsxwriter.Renderer
	runID      string
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - platform: The resolved schema of the export's marketplace.
//   - cfg: The main application configuration.
//   - renderer: The slip renderer.
//   - runID: The run identifier. Empty generates one.
//
// RETURNS:
//   - A new Converter instance.
func New(platform *schema.PlatformSchema, cfg *config.MainConfig, renderer *xlsxwriter.Renderer, runID string) *Converter {
	if runID == "" {
		runID = utils.NewRunID()
	}
	return &Converter{
		platform:   platform,
		input:      cfg.Input,
		grouping:   GroupOptions{NormalizeKeys: cfg.Grouping.NormalizeKeys},
		calculator: totals.New(cfg.Tax.VATRate, cfg.Tax.LegacyFormula),
		renderer:   renderer,
		runID:      runID,
	}
}

// RunID returns the run identifier.
func (c *Converter) RunID() string {
	return c.runID
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Run converts the export read from r and writes every document to sink.
// A nil sink renders without writing (dry run).
//
// PARAMETERS:
//   - ctx: Carries the logger; cancellation is checked between batches.
//   - r: The export contents.
//   - source: A display name for the export, usually its file name.
//   - sink: The destination, or nil.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (c *Converter) Run(ctx context.Context, r io.Reader, source string, sink utils.Sink) Result {
	startTime := time.Now()
	log := logger.WithFields(logger.FromContext(ctx), map[string]any{
		"run_id":   c.runID,
		"platform": c.platform.ID,
		"source":   source,
	})

	result := Result{RunID: c.runID, Source: source, Platform: c.platform.ID}

	docs, stats, err := c.convert(logger.WithContext(ctx, log), r, source)
	result.Stats = stats
	if err != nil {
		result.Error = err
		return result
	}

	for _, doc := range docs {
		result.Outputs = append(result.Outputs, doc.output)
	}

	// =========================================================================
	// WRITE PHASE
	// =========================================================================
	// Only reached when every batch rendered.

	if sink != nil {
		if err := c.write(docs, sink, result.Outputs); err != nil {
			result.Error = err
			return result
		}
		log.Info().Int("documents", len(docs)).Msg("documents written")
	} else {
		log.Info().Int("documents", len(docs)).Msg("dry run, nothing written")
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// rendered pairs a document with its summary.
type rendered struct {
	doc    *xlsxwriter.Document
	output Output
}

// convert runs the in-memory part of the pipeline and returns the rendered
// documents in order: orders by first appearance, batches by sequence.
func (c *Converter) convert(ctx context.Context, r io.Reader, source string) ([]rendered, ProcessingStats, error) {
	log := logger.FromContext(ctx)
	var stats ProcessingStats

	// =========================================================================
	// STEP 1: READ TABLE
	// =========================================================================

	tbl, format, err := ingest.ReadTable(r, source, c.input)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read %s: %w", source, err)
	}
	stats.RowsProcessed = len(tbl.Records)
	log.Debug().Str("format", string(format)).Int("rows", len(tbl.Records)).Msg("table read")

	// =========================================================================
	// STEP 2: VALIDATE HEADER
	// =========================================================================

	if err := validation.Validate(tbl, c.platform); err != nil {
		return nil, stats, err
	}
	stats.DefaultedFields = validation.ValidateHeaders(tbl, c.platform).DefaultedFields
	for _, f := range stats.DefaultedFields {
		log.Warn().Str("field", string(f)).Msg("column missing, using default")
	}

	// =========================================================================
	// STEP 3: NORMALIZE
	// =========================================================================

	lines, err := normalizer.NormalizeTable(tbl, c.platform)
	if err != nil {
		return nil, stats, err
	}

	// =========================================================================
	// STEP 4: GROUP
	// =========================================================================

	orders := Group(lines, c.grouping)
	stats.OrdersCreated = len(orders)
	log.Debug().Int("orders", len(orders)).Msg("lines grouped")

	// =========================================================================
	// STEP 5-6: PAGINATE, TOTAL AND RENDER
	// =========================================================================

	pageSize := c.renderer.Layout().Lines.Rows

	var docs []rendered
	for _, order := range orders {
		header := xlsxwriter.HeaderFor(order, c.platform.Label)

		for _, batch := range Paginate(order.Lines, pageSize) {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}

			t := c.calculator.Compute(batch)
			doc, err := c.renderer.Render(header, batch, t)
			if err != nil {
				return nil, stats, fmt.Errorf("failed to render %s batch %d: %w",
					order.CustomerName, batch.Sequence, err)
			}

			docs = append(docs, rendered{
				doc: doc,
				output: Output{
					Name:         utils.SanitizeFilename(order.CustomerName, order.Key.OrderDate, batch.Sequence),
					CustomerName: order.CustomerName,
					OrderDate:    order.Key.OrderDate,
					Sequence:     batch.Sequence,
					Lines:        len(batch.Lines),
					Gross:        t.Gross,
					Size:         doc.Size(),
				},
			})
		}
	}
	stats.BatchesCreated = len(docs)
	log.Info().
		Int("rows", stats.RowsProcessed).
		Int("orders", stats.OrdersCreated).
		Int("batches", stats.BatchesCreated).
		Msg("export rendered")

	return docs, stats, nil
}

// write resets the sink and stores every document. outputs receives the
// names the sink actually used.
func (c *Converter) write(docs []rendered, sink utils.Sink, outputs []Output) error {
	if err := sink.Reset(); err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}

	for i, d := range docs {
		name, err := sink.Put(d.output.Name, d.doc.Bytes())
		if err != nil {
			if a, ok := sink.(utils.Aborter); ok {
				a.Abort()
			} else {
				sink.Close()
			}
			return err
		}
		outputs[i].Name = name
	}

	if err := sink.Close(); err != nil {
		return fmt.Errorf("failed to finish output: %w", err)
	}
	return nil
}
