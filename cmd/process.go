// =============================================================================
// Order Slip Generator - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command for turning one
// marketplace export into slip documents.
//
// COMMAND USAGE:
//   slipgen process --platform <id> --file <export> [flags]
//
// FLAGS:
//   --platform : Marketplace schema to read the export with (required)
//   --file     : Path to the CSV or XLSX export (required)
//   --output   : Output directory (overrides output_dir)
//   --zip      : Write a single zip bundle instead of a directory
//   --dry-run  : Render everything but write nothing
//
// PROCESSING PIPELINE:
//   1. Load configuration, platform schemas and the slip layout
//   2. Open the export
//   3. Run the converter (ingest, group, paginate, total, render)
//   4. Write the documents to the directory or zip sink
//   5. Print a summary
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-slip-generator/internal/config"
	"github.com/ginjaninja78/order-slip-generator/internal/converter"
	"github.com/ginjaninja78/order-slip-generator/internal/logger"
	"github.com/ginjaninja78/order-slip-generator/internal/xlsxwriter"
	"github.com/ginjaninja78/order-slip-generator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// platformID selects the marketplace schema.
var platformID string

// filePath is the export to process.
var filePath string

// outputDir overrides the configured output directory.
var outputDir string

// zipFile overrides the configured zip bundle path.
var zipFile string

// dryRun renders without writing output files.
var dryRun bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Render slips for one marketplace export",
	Long: `Read a marketplace order export and render one XLSX slip per batch of up
to ten lines of each (customer, order date) order.

Nothing is written unless every slip renders successfully. The output
directory's previous slips are replaced on success.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

func init() {
	processCmd.Flags().StringVarP(&platformID, "platform", "p", "", "Marketplace platform (see 'slipgen platforms')")
	processCmd.Flags().StringVarP(&filePath, "file", "f", "", "Path to the CSV or XLSX order export")
	processCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides output_dir)")
	processCmd.Flags().StringVar(&zipFile, "zip", "", "Bundle all slips into this zip file")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render without writing output files")

	processCmd.MarkFlagRequired("platform")
	processCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(processCmd)
}

// =============================================================================
// PROCESSING FUNCTIONS
// =============================================================================

// runProcess executes the processing pipeline.
func runProcess(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if zipFile != "" {
		cfg.ZipFile = zipFile
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: SCHEMA AND LAYOUT
	// =========================================================================

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	platform, err := reg.Resolve(platformID)
	if err != nil {
		return err
	}

	renderer, err := buildRenderer(cfg)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: OPEN EXPORT
	// =========================================================================

	in, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open export: %w", err)
	}
	defer in.Close()

	// =========================================================================
	// STEP 3-4: CONVERT AND WRITE
	// =========================================================================

	conv := converter.New(platform, cfg, renderer, "")
	sink, destination := buildSink(cfg, conv.RunID())
	ctx := logger.WithContext(context.Background(), log)

	log.Debug().Str("run_id", conv.RunID()).Str("file", filePath).Str("destination", destination).Msg("processing export")
	result := conv.Run(ctx, in, filepath.Base(filePath), sink)
	if result.Error != nil {
		return result.Error
	}

	// =========================================================================
	// STEP 5: SUMMARY
	// =========================================================================

	printSummary(cmd, result, destination)
	return nil
}

// buildRenderer loads the optional layout override and template workbook.
func buildRenderer(cfg *config.MainConfig) (*xlsxwriter.Renderer, error) {
	layout := xlsxwriter.DefaultLayout()
	if cfg.LayoutFile != "" {
		loaded, err := xlsxwriter.LoadLayout(cfg.LayoutFile)
		if err != nil {
			return nil, err
		}
		layout = loaded
	}

	var template []byte
	if cfg.TemplateFile != "" {
		data, err := os.ReadFile(cfg.TemplateFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file: %w", err)
		}
		template = data
	}

	return xlsxwriter.NewRenderer(layout, template, xlsxwriter.Options{})
}

// buildSink picks the destination. A nil sink means dry run.
func buildSink(cfg *config.MainConfig, runID string) (utils.Sink, string) {
	switch {
	case dryRun:
		return nil, "(dry run)"
	case cfg.ZipFile != "":
		return utils.NewZipSink(cfg.ZipFile), cfg.ZipFile
	default:
		dir := utils.RunOutputDir(cfg.OutputDir, runID, cfg.PerRunSubdir)
		return utils.NewDirSink(dir), dir
	}
}

// printSummary writes the run report to the command's output.
func printSummary(cmd *cobra.Command, result converter.Result, destination string) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "=== Order Slip Generator ===")
	fmt.Fprintf(out, "Platform:        %s\n", result.Platform)
	fmt.Fprintf(out, "Source:          %s\n", result.Source)
	fmt.Fprintf(out, "Rows:            %d\n", result.Stats.RowsProcessed)
	fmt.Fprintf(out, "Orders:          %d\n", result.Stats.OrdersCreated)
	fmt.Fprintf(out, "Slips:           %d\n", result.Stats.BatchesCreated)
	for _, f := range result.Stats.DefaultedFields {
		fmt.Fprintf(out, "Defaulted:       %s\n", f)
	}
	fmt.Fprintf(out, "Destination:     %s\n", destination)
	fmt.Fprintf(out, "Time elapsed:    %s\n", result.Stats.ProcessingTime)

	fmt.Fprintln(out)
	for _, o := range result.Outputs {
		fmt.Fprintf(out, "  ✓ %s (%d lines, gross %s)\n", o.Name, o.Lines, o.Gross.StringFixed(2))
	}
}
