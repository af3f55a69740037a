package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kinlink/am"
	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/logger"
	"github.com/teranos/kinlink/rec/storage"
	"github.com/teranos/kinlink/sym"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: sym.DB + " Manage the kinlink database",
	Long: sym.DB + ` db - Manage the kinlink database

Examples:
  kinlink db migrate              # Create or update the schema
  kinlink db stats                # Show row counts per table
  kinlink db history 12           # Show the ingest history of RD12`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and seeded vocabulary",
	RunE:  runDbMigrate,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE:  runDbStats,
}

var dbHistoryCmd = &cobra.Command{
	Use:   "history <ref-id>",
	Short: "Show the ingest history of one reference",
	Args:  cobra.ExactArgs(1),
	RunE:  runDbHistory,
}

var dbPathFlag string

func init() {
	DbCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Database path (overrides database.path)")
	DbCmd.AddCommand(dbMigrateCmd)
	DbCmd.AddCommand(dbStatsCmd)
	DbCmd.AddCommand(dbHistoryCmd)
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	database, err := openDatabase(cfg, dbPathFlag)
	if err != nil {
		return err
	}
	defer database.Close()

	pterm.Success.Println("Database schema is up to date")
	return nil
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	database, err := openDatabase(cfg, dbPathFlag)
	if err != nil {
		return err
	}
	defer database.Close()

	counts, err := storage.NewSQLStore(database, logger.Logger).Counts(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "failed to count rows")
	}

	path := dbPathFlag
	if path == "" {
		path = cfg.GetDatabasePath()
	}
	pterm.DefaultSection.Printf("%s Database Statistics", sym.DB)
	pterm.Printf("Database Path: %s (%s)\n\n", path, cfg.Database.Driver)

	data := pterm.TableData{{"Table", "Rows"}}
	for _, table := range storage.CountedTables {
		data = append(data, []string{table, strconv.FormatInt(counts[table], 10)})
	}
	return pterm.DefaultTable.WithHasHeader().WithRightAlignment().WithData(data).Render()
}

func runDbHistory(cmd *cobra.Command, args []string) error {
	refID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid reference id %q", args[0])
	}
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	database, err := openDatabase(cfg, dbPathFlag)
	if err != nil {
		return err
	}
	defer database.Close()

	history, err := storage.NewSQLStore(database, logger.Logger).IngestHistory(cmd.Context(), refID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		pterm.Info.Printf("RD%d has never been ingested\n", refID)
		return nil
	}

	data := pterm.TableData{{"#", "Run", "Outcome", "Digest", "Path", "At"}}
	for _, e := range history {
		data = append(data, []string{
			fmt.Sprint(e.ID), shortID(e.RunID), e.Outcome, shortID(e.Digest), e.Path,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func shortID(s string) string {
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
