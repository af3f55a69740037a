package commands

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kinlink/am"
	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/ixgest"
	"github.com/teranos/kinlink/logger"
	"github.com/teranos/kinlink/markup"
	"github.com/teranos/kinlink/sym"
)

// IngestCmd represents the ingest command
var IngestCmd = &cobra.Command{
	Use:   "ingest [root]",
	Short: sym.IX + " Ingest annotated reference documents",
	Long: sym.IX + ` ingest - Ingest annotated reference documents

Every RD<n> document below root (ingest.root when omitted) is read, its
record statements are stored and its event assertions are linked to
canonical events. The whole run is one transaction; a document without
a body is rolled back on its own and reported.

Examples:
  kinlink ingest ./refs                    # Ingest a corpus
  kinlink ingest --dry-run -v              # Process, summarize, roll back
  kinlink ingest --json > progress.jsonl   # Structured progress events
  kinlink ingest --report run.yaml         # Keep a YAML run report
  kinlink ingest --watch                   # Re-ingest when documents change`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

var (
	ingestDryRun        bool
	ingestJSON          bool
	ingestReport        string
	ingestSkipUnchanged bool
	ingestWatch         bool
	ingestDBPath        string
)

func init() {
	IngestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Process every document, then roll back")
	IngestCmd.Flags().BoolVar(&ingestJSON, "json", false, "Emit progress as JSON lines on stdout")
	IngestCmd.Flags().StringVar(&ingestReport, "report", "", "Write a YAML run report (overrides ingest.report_path)")
	IngestCmd.Flags().BoolVar(&ingestSkipUnchanged, "skip-unchanged", false, "Skip documents whose content did not change since their last ingest")
	IngestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "Keep running and re-ingest when documents change")
	IngestCmd.Flags().StringVar(&ingestDBPath, "db", "", "Database path (overrides database.path)")
}

// ingestOptions maps configuration and flags onto processor options
func ingestOptions(cfg *am.Config) ixgest.Options {
	return ixgest.Options{
		Markup: markup.Options{
			Marker:           cfg.Markup.Marker,
			TopMenuID:        cfg.Markup.TopMenuID,
			ExplicitLinkOnly: cfg.Markup.ExplicitLinkOnly,
		},
		Extensions:    cfg.GetExtensions(),
		GCRoles:       cfg.Ingest.GCRoles,
		SkipUnchanged: cfg.Ingest.SkipUnchanged || ingestSkipUnchanged || ingestWatch,
		DryRun:        ingestDryRun,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	root := cfg.Ingest.Root
	if len(args) == 1 {
		root = args[0]
	}
	reportPath := cfg.Ingest.ReportPath
	if ingestReport != "" {
		reportPath = ingestReport
	}
	if ingestWatch && ingestDryRun {
		return errors.WithHint(errors.New("--watch and --dry-run cannot be combined"),
			"use --dry-run once to preview, then --watch")
	}

	if !exists(root) {
		return errors.WithHint(errors.Newf("corpus root %s does not exist", root),
			"pass a directory or set ingest.root in am.toml")
	}

	verbosity := verbosityOf(cmd, cfg)
	var emitter ixgest.ProgressEmitter
	if ingestJSON {
		emitter = ixgest.NewJSONEmitter(cmd.OutOrStdout())
	} else {
		emitter = ixgest.NewCLIEmitter(verbosity)
		if ingestDryRun {
			pterm.Warning.Println("DRY RUN MODE: nothing will be stored")
		}
		pterm.Info.Printf("Ingesting %s\n", root)
	}

	database, err := openDatabase(cfg, ingestDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	proc := ixgest.NewRefDocIxProcessor(database, ingestOptions(cfg), emitter, logger.ComponentLogger("ixgest"))
	ctx := cmd.Context()

	writeReport := func(result *ixgest.ProcessingResult) {
		if reportPath == "" || result == nil {
			return
		}
		if err := ixgest.WriteReportFile(reportPath, result); err != nil {
			logger.Warnw("Failed to write run report", logger.FieldFile, reportPath, logger.FieldError, err, logger.FieldSymbol, sym.IX)
		}
	}

	if !ingestWatch {
		result, err := proc.ProcessPath(ctx, root)
		writeReport(result)
		return err
	}

	w, err := ixgest.NewWatcher(root, proc, time.Duration(cfg.Ingest.WatchDebounceMS)*time.Millisecond, logger.ComponentLogger("watch"))
	if err != nil {
		return err
	}
	defer w.Close()
	if !ingestJSON {
		pterm.Info.Println("Watching for changes, press Ctrl+C to stop")
	}
	return w.Run(ctx, func(result *ixgest.ProcessingResult, err error) {
		writeReport(result)
		if err != nil && ctx.Err() == nil {
			logger.Errorw("Ingest run failed", logger.FieldError, err, logger.FieldSymbol, sym.IX)
		}
	})
}

// exists reports whether path names an existing file or directory
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
