// =============================================================================
// Order Slip Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the slipgen CLI application. It delegates
// command execution to the cmd package.
//
// USAGE:
//   slipgen process    - Render slips for one marketplace export
//   slipgen platforms  - List supported marketplace platforms
//   slipgen version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Ingest, schemas, normalization, grouping, totals, rendering
//   - pkg/       : File naming, output sinks and file helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/order-slip-generator/cmd"
)

func main() {
	cmd.Execute()
}
