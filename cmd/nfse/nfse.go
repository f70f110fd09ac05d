// Package nfse handles the NFS-e PDF invoice import command
package nfse

import (
	"warehouse/fiscal-recon/cmd/common"
	"warehouse/fiscal-recon/cmd/root"
	"warehouse/fiscal-recon/internal/export"
	"warehouse/fiscal-recon/internal/models"
	"warehouse/fiscal-recon/internal/nfseparser"
	"warehouse/fiscal-recon/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the nfse command
var Cmd = &cobra.Command{
	Use:   "nfse",
	Short: "Import NFS-e PDF invoices",
	Long: `Extract service invoice fields from NFS-e PDF files, one record per
document, and append them to the document store.`,
	Run: nfseFunc,
}

func nfseFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("NFS-e import command called")
	root.Log.Infof("Input: %s", root.SharedFlags.Input)

	parser := nfseparser.New(nil)
	parse := func(path string) ([]models.FiscalLineRecord, error) {
		record, err := parser.ParseFile(path)
		if err != nil {
			return nil, err
		}
		return []models.FiscalLineRecord{record}, nil
	}

	st, err := root.OpenStore()
	if err != nil {
		root.Log.Fatalf("Error opening document store: %v", err)
	}
	defer func() { _ = st.Close() }()

	var validate common.ValidateFunc
	if root.SharedFlags.Validate {
		validate = parser.ValidateFormat
	}

	records, err := common.ImportFiles(st, store.CollectionNFSe,
		root.SharedFlags.Input, []string{".pdf"}, parse, validate, false, root.Log)
	if err != nil {
		root.Log.Fatalf("Error importing NFS-e invoices: %v", err)
	}

	if root.SharedFlags.Output != "" {
		rows := export.ServiceInvoiceRows(records)
		if err := common.WriteRows(rows, root.SharedFlags.Output); err != nil {
			root.Log.Fatalf("Error writing output file: %v", err)
		}
	}
	root.Log.WithField("records", len(records)).Info("NFS-e import completed successfully!")
}
