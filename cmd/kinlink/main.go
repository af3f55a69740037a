package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kinlink/cmd/kinlink/commands"
	"github.com/teranos/kinlink/logger"
)

var rootCmd = &cobra.Command{
	Use:   "kinlink",
	Short: "kinlink - genealogical reference ingestion",
	Long: `kinlink - genealogical reference ingestion.

kinlink reads annotated reference documents (RD<n>.htm), turns the record
statements embedded in them into personas, names, dates, places and event
assertions, and links those assertions to canonical events.

Available commands:
  am      - Manage kinlink configuration ("I am")
  ingest  - Ingest a corpus of annotated reference documents
  parse   - Show the statements of one document without storing anything
  db      - Manage the kinlink database
  version - Show version information

Examples:
  kinlink ingest ./refs           # Ingest every RD<n>.htm below ./refs
  kinlink ingest --dry-run -v     # Process and roll back, with a summary
  kinlink parse refs/RD12.htm     # List the statements of one document
  kinlink db stats                # Show table row counts`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commands.InitLogger(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.IngestCmd)
	rootCmd.AddCommand(commands.ParseCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		stop()
		os.Exit(1)
	}
}
