package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metaglot/termsync/internal/aspectio"
	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/store/sqlite"
)

var showStore string

var showCmd = &cobra.Command{
	Use:   "show [entity-urn]",
	Short: "Show stored schema aspects",
	Long: `Show lists the entities in the metadata store, or with an entity
URN argument, dumps that entity's stored schema aspect as YAML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showStore, "store", "",
		"path to the sqlite metadata store")
	_ = showCmd.MarkFlagRequired("store")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := sqlite.Open(showStore)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if len(args) == 0 {
		urns, err := store.Entities(ctx)
		if err != nil {
			return err
		}
		for _, urn := range urns {
			fmt.Println(urn)
		}
		return nil
	}

	urn := args[0]
	aspect, err := store.GetSchemaMetadata(ctx, urn)
	if err != nil {
		return err
	}
	if aspect == nil {
		return errors.NewNotFoundError("entity", urn)
	}

	doc := &aspectio.Document{
		Entities: []aspectio.Entity{{URN: urn, Schema: aspect}},
	}
	return aspectio.Write(os.Stdout, doc)
}
