// Package export handles the collection export command
package export

import (
	"warehouse/fiscal-recon/cmd/common"
	"warehouse/fiscal-recon/cmd/root"
	exporter "warehouse/fiscal-recon/internal/export"
	"warehouse/fiscal-recon/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored collection to CSV or XLSX",
	Long: `Write the records of one document collection to a CSV or XLSX file
using the column layout of that document family.`,
	Run: exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Collection, "collection", "c", store.CollectionNFe, "Collection to export (xml, nfspdf, po)")
}

func exportFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Export command called")
	root.Log.Infof("Collection: %s", root.Collection)

	st, err := root.OpenStore()
	if err != nil {
		root.Log.Fatalf("Error opening document store: %v", err)
	}
	defer func() { _ = st.Close() }()

	records, err := st.Records(root.Collection)
	if err != nil {
		root.Log.Fatalf("Error reading collection %s: %v", root.Collection, err)
	}
	if len(records) == 0 {
		root.Log.Fatalf("Collection %s is empty", root.Collection)
	}

	path := common.OutputPath(root.SharedFlags.Output, root.Collection, "csv")

	switch root.Collection {
	case store.CollectionNFSe:
		err = common.WriteRows(exporter.ServiceInvoiceRows(records), path)
	case store.CollectionPO:
		err = common.WriteRows(exporter.PORows(records), path)
	default:
		err = common.WriteRows(exporter.InvoiceRows(common.AsReconciled(records)), path)
	}
	if err != nil {
		root.Log.Fatalf("Error writing export file: %v", err)
	}

	root.Log.WithField("records", len(records)).WithField("output", path).
		Info("Export completed successfully!")
}
