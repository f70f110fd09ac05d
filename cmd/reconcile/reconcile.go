// Package reconcile handles the three-way reconciliation command
package reconcile

import (
	"warehouse/fiscal-recon/cmd/common"
	"warehouse/fiscal-recon/cmd/root"
	"warehouse/fiscal-recon/internal/export"
	reconciler "warehouse/fiscal-recon/internal/reconcile"
	"warehouse/fiscal-recon/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the reconcile command
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Join invoices, purchase orders and categories",
	Long: `Left-join the stored NF-e invoice lines against the purchase-order
extract and the category mapping, then write the enriched report. Every
invoice line appears exactly once in the output, enriched where the extracted
references match.`,
	Run: reconcileFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.CategoriesFile, "categories", "", "Category mapping YAML file (default: database/categories.yaml)")
}

func reconcileFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Reconcile command called")

	st, err := root.OpenStore()
	if err != nil {
		root.Log.Fatalf("Error opening document store: %v", err)
	}
	defer func() { _ = st.Close() }()

	invoices, err := st.Records(store.CollectionNFe)
	if err != nil {
		root.Log.Fatalf("Error reading invoice records: %v", err)
	}
	poRecords, err := st.Records(store.CollectionPO)
	if err != nil {
		root.Log.Fatalf("Error reading purchase-order records: %v", err)
	}
	categories, err := reconciler.LoadCategories(root.CategoriesFile)
	if err != nil {
		root.Log.Fatalf("Error loading category mapping: %v", err)
	}

	joined := reconciler.NewJoiner().Join(invoices, poRecords, categories)
	if len(joined) == 0 {
		root.Log.Fatal("No invoice records to reconcile; run the nfe import first")
	}

	path := common.OutputPath(root.SharedFlags.Output, "reconciled", "xlsx")
	if err := common.WriteRows(export.InvoiceRows(joined), path); err != nil {
		root.Log.Fatalf("Error writing reconciled report: %v", err)
	}

	root.Log.WithField("records", len(joined)).WithField("output", path).
		Info("Reconciliation completed successfully!")
}
