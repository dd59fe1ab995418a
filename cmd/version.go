package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-slip-generator/internal/converter"
	"github.com/ginjaninja78/order-slip-generator/internal/schema"
	"github.com/ginjaninja78/order-slip-generator/internal/totals"
)

// Version and BuildDate are overridden at link time:
//
//	go build -ldflags "-X 'github.com/ginjaninja78/order-slip-generator/cmd.Version=1.1.0'"
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

// versionCmd prints the build and the slip defaults compiled into it.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Order Slip Generator %s (%s, built %s)\n", Version, runtime.Version(), BuildDate)
		fmt.Fprintf(out, "Platforms:  %s\n", strings.Join(schema.Default().IDs(), ", "))
		fmt.Fprintf(out, "VAT rate:   %s\n", totals.DefaultVATRate.String())
		fmt.Fprintf(out, "Page size:  %d lines\n", converter.DefaultPageSize)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
