package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/metaglot/termsync/internal/aspectio"
	"github.com/metaglot/termsync/pkg/config"
	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/logging"
	"github.com/metaglot/termsync/pkg/pipeline"
	"github.com/metaglot/termsync/pkg/reconcile"
	"github.com/metaglot/termsync/pkg/store/sqlite"
	"github.com/metaglot/termsync/pkg/transformer"
)

var (
	applyOutput      string
	applyStore       string
	applyConcurrency int
)

var applyCmd = &cobra.Command{
	Use:   "apply <aspects.yaml>",
	Short: "Apply glossary terms to entity schema aspects",
	Long: `Apply reads an aspect document, computes the glossary terms for
every schema field from the configured pattern table, merges them with
stored state according to the configured semantics, and writes the
merged document.

Under PATCH semantics a metadata store is required (--store or the
"store" config key): it supplies the server-side baseline and receives
the merged aspects.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", "",
		"write merged document to file instead of stdout")
	applyCmd.Flags().StringVar(&applyStore, "store", "",
		"path to the sqlite metadata store (overrides config)")
	applyCmd.Flags().IntVar(&applyConcurrency, "concurrency", pipeline.DefaultConcurrency,
		"entities to mutate in parallel")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.Default()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	tcfg, err := cfg.Transformer()
	if err != nil {
		return err
	}

	storePath := cfg.Store
	if applyStore != "" {
		storePath = applyStore
	}
	if tcfg.Semantics == reconcile.Patch && storePath == "" {
		return errors.NewConfigError("apply",
			"PATCH semantics requires a metadata store (--store)", nil)
	}

	doc, err := aspectio.ReadFile(args[0])
	if err != nil {
		return err
	}

	var opts []transformer.Option
	var runOpts []pipeline.Option
	if storePath != "" {
		store, err := sqlite.Open(storePath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, transformer.WithGraph(store))
		runOpts = append(runOpts, pipeline.WithSink(store))
	}

	transform, err := transformer.NewSchemaTerms(tcfg, opts...)
	if err != nil {
		return err
	}

	runOpts = append(runOpts, pipeline.WithConcurrency(applyConcurrency))
	runner, err := pipeline.NewRunner(transform, runOpts...)
	if err != nil {
		return err
	}

	entities := make([]pipeline.Entity, len(doc.Entities))
	for i, e := range doc.Entities {
		entities[i] = pipeline.Entity{URN: e.URN, Aspect: e.Schema}
	}

	report, err := runner.Run(ctx, entities)
	if err != nil {
		return err
	}

	out := &aspectio.Document{Entities: make([]aspectio.Entity, 0, len(doc.Entities))}
	for i, e := range doc.Entities {
		if report.Outcomes[i] == nil {
			continue // failed entity, reported below
		}
		out.Entities = append(out.Entities, aspectio.Entity{
			URN:    e.URN,
			Schema: report.Outcomes[i].Aspect,
		})
	}

	if applyOutput != "" {
		if err := aspectio.WriteFile(applyOutput, out); err != nil {
			return err
		}
	} else if err := aspectio.Write(os.Stdout, out); err != nil {
		return err
	}

	if !report.OK() {
		for _, failure := range report.Failures {
			log.Error().Err(failure.Err).Str("entity", failure.EntityURN).Msg("Entity failed")
		}
		return errors.Wrapf(errors.ErrInvalidInput, "%d of %d entities failed",
			report.EntitiesFailed, report.EntitiesScanned)
	}

	return nil
}
