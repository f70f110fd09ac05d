// Package po handles the purchase-order extract import command
package po

import (
	"warehouse/fiscal-recon/cmd/common"
	"warehouse/fiscal-recon/cmd/root"
	"warehouse/fiscal-recon/internal/export"
	"warehouse/fiscal-recon/internal/poparser"
	"warehouse/fiscal-recon/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the po command
var Cmd = &cobra.Command{
	Use:   "po",
	Short: "Import purchase-order extracts",
	Long: `Parse tabular purchase-order extracts (XLSX or CSV) into line records
with per-document rollups. Each import replaces the stored extract, since the
source system always exports the full current state.`,
	Run: poFunc,
}

func poFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("PO import command called")
	root.Log.Infof("Input: %s", root.SharedFlags.Input)

	var delimiter rune
	if root.Cfg != nil && root.Cfg.CSV.Delimiter != "" {
		delimiter = []rune(root.Cfg.CSV.Delimiter)[0]
	}
	parser := poparser.New(delimiter)

	st, err := root.OpenStore()
	if err != nil {
		root.Log.Fatalf("Error opening document store: %v", err)
	}
	defer func() { _ = st.Close() }()

	records, err := common.ImportFiles(st, store.CollectionPO,
		root.SharedFlags.Input, []string{".xlsx", ".xlsm", ".csv"}, parser.ParseFile, nil, true, root.Log)
	if err != nil {
		root.Log.Fatalf("Error importing purchase orders: %v", err)
	}

	if root.SharedFlags.Output != "" {
		rows := export.PORows(records)
		if err := common.WriteRows(rows, root.SharedFlags.Output); err != nil {
			root.Log.Fatalf("Error writing output file: %v", err)
		}
	}
	root.Log.WithField("records", len(records)).Info("PO import completed successfully!")
}
