// Package dedupe handles the duplicate removal command
package dedupe

import (
	"warehouse/fiscal-recon/cmd/root"
	"warehouse/fiscal-recon/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the dedupe command
var Cmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove duplicate documents from the store",
	Long: `Remove duplicate documents that share a unique key, keeping the record
with the oldest creation date. Without --collection, every document collection
is deduplicated.`,
	Run: dedupeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Collection, "collection", "c", "", "Collection to deduplicate (xml, nfspdf, po)")
}

func dedupeFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Dedupe command called")

	st, err := root.OpenStore()
	if err != nil {
		root.Log.Fatalf("Error opening document store: %v", err)
	}
	defer func() { _ = st.Close() }()

	collections := []string{store.CollectionNFe, store.CollectionNFSe, store.CollectionPO}
	if root.Collection != "" {
		collections = []string{root.Collection}
	}

	total := 0
	for _, collection := range collections {
		removed, err := st.RemoveDuplicates(collection)
		if err != nil {
			root.Log.Fatalf("Error deduplicating collection %s: %v", collection, err)
		}
		root.Log.WithField("collection", collection).WithField("removed", removed).Info("Removed duplicates")
		total += removed
	}
	root.Log.WithField("removed", total).Info("Deduplication completed successfully!")
}
