// Package root contains the root command for the application
package root

import (
	"os"

	"warehouse/fiscal-recon/internal/categorizer"
	"warehouse/fiscal-recon/internal/config"
	"warehouse/fiscal-recon/internal/export"
	"warehouse/fiscal-recon/internal/logging"
	"warehouse/fiscal-recon/internal/nfeparser"
	"warehouse/fiscal-recon/internal/nfseparser"
	"warehouse/fiscal-recon/internal/poparser"
	"warehouse/fiscal-recon/internal/reconcile"
	"warehouse/fiscal-recon/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg holds the resolved application configuration after PersistentPreRun
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "fiscal-recon",
		Short: "A CLI tool to normalize Brazilian fiscal documents and reconcile them against purchase orders.",
		Long: `fiscal-recon parses NF-e XML invoices, NFS-e PDF invoices and purchase
order extracts into one normalized line-item dataset, persists the documents,
removes duplicates and joins the three families into a reconciled report.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to fiscal-recon!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize and configure logging
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log = config.ConfigureLogging()
				Log.WithError(err).Warn("Invalid configuration, falling back to defaults")
				cfg = nil
			} else {
				Log = config.ConfigureLoggingFromConfig(cfg)
			}
			Cfg = cfg

			// Set the configured logger for all parsers and the pipeline stages
			adapter := logging.NewLogrusAdapterFromLogger(Log)
			logging.SetDefaultLogger(adapter)
			nfeparser.SetLogger(adapter)
			nfseparser.SetLogger(adapter)
			poparser.SetLogger(adapter)
			categorizer.SetLogger(adapter)
			store.SetLogger(adapter)
			reconcile.SetLogger(adapter)
			export.SetLogger(adapter)

			// Ensure CSV delimiter is updated after env variables are loaded
			if delim := os.Getenv("CSV_DELIMITER"); delim != "" {
				Log.WithField("delimiter", delim).Debug("Setting CSV delimiter from environment")
				export.SetDelimiter([]rune(delim)[0])
			} else if cfg != nil && cfg.CSV.Delimiter != "" {
				export.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
			}
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Specific reconcile command flags
	CategoriesFile string
	RulesFile      string

	// Specific store-level command flags
	Collection string
)

// OpenStore opens the document store configured for this run.
func OpenStore() (store.DocumentStore, error) {
	path := "fiscal.db"
	batchSize := 0
	if Cfg != nil {
		path = Cfg.Store.Path
		batchSize = Cfg.Store.InsertBatchSize
	}
	st, err := store.OpenSQLite(path, batchSize)
	if err != nil {
		return nil, err
	}
	if Cfg != nil {
		st.SetExportChunkSize(Cfg.Store.ExportChunkSize)
	}
	return st, nil
}

// Init initializes the root command and all flags
func Init() {
	// Add persistent flags to root command for common options
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate file format before processing")
}
