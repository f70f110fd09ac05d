// Package nfe handles the NF-e XML invoice import command
package nfe

import (
	"warehouse/fiscal-recon/cmd/common"
	"warehouse/fiscal-recon/cmd/root"
	"warehouse/fiscal-recon/internal/export"
	"warehouse/fiscal-recon/internal/nfeparser"
	"warehouse/fiscal-recon/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the nfe command
var Cmd = &cobra.Command{
	Use:   "nfe",
	Short: "Import NF-e XML invoices",
	Long: `Parse NF-e XML goods invoices into one record per line item, categorize
them by CFOP and append them to the document store.`,
	Run: nfeFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.RulesFile, "rules", "", "CFOP rules YAML file (default: built-in table)")
}

func nfeFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("NF-e import command called")
	root.Log.Infof("Input: %s", root.SharedFlags.Input)

	organization := ""
	rulesFile := root.RulesFile
	if root.Cfg != nil {
		organization = root.Cfg.Reconcile.Organization
		if rulesFile == "" {
			rulesFile = root.Cfg.Reconcile.RulesFile
		}
	}
	cat, err := common.LoadCategorizer(rulesFile, organization)
	if err != nil {
		root.Log.Fatalf("Error loading CFOP rules: %v", err)
	}
	parser := nfeparser.New(cat)

	st, err := root.OpenStore()
	if err != nil {
		root.Log.Fatalf("Error opening document store: %v", err)
	}
	defer func() { _ = st.Close() }()

	var validate common.ValidateFunc
	if root.SharedFlags.Validate {
		validate = parser.ValidateFormat
	}

	records, err := common.ImportFiles(st, store.CollectionNFe,
		root.SharedFlags.Input, []string{".xml"}, parser.ParseFile, validate, false, root.Log)
	if err != nil {
		root.Log.Fatalf("Error importing NF-e invoices: %v", err)
	}

	if root.SharedFlags.Output != "" {
		rows := export.InvoiceRows(common.AsReconciled(records))
		if err := common.WriteRows(rows, root.SharedFlags.Output); err != nil {
			root.Log.Fatalf("Error writing output file: %v", err)
		}
	}
	root.Log.WithField("records", len(records)).Info("NF-e import completed successfully!")
}
