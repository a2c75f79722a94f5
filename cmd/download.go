package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/grammarsync/internal/config"
	"github.com/conneroisu/grammarsync/internal/fetch"
	"github.com/conneroisu/grammarsync/internal/logging"
	"github.com/conneroisu/grammarsync/internal/registry"
	"github.com/conneroisu/grammarsync/internal/syncer"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [source]",
	Short: "Materialize licenses and grammars from the pinned commits",
	Long: `Fetch every registry source's license and grammar files at its pinned
commit, normalize the grammars into canonical JSON, regenerate the derived
JavaScript grammar variants, and rewrite the packaging metadata.

An unfiltered run also deletes any file in the output directories that the
registry no longer accounts for. With a source name, only that entry is
synced and nothing is deleted.

Examples:
  grammarsync download                               # Sync every source
  grammarsync download microsoft/TypeScript-TmLanguage`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	filter := ""
	if len(args) == 1 {
		filter = args[0]
	}

	sources, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})

	fmt.Println("⬇️  Syncing vendored grammars...")

	s := syncer.New(fetch.NewClient(cfg.Fetch.Host), syncer.Dirs{
		Licenses: cfg.Output.LicensesDir,
		Grammars: cfg.Output.GrammarsDir,
		Manifest: cfg.Output.ManifestPath,
	}, logger)

	if err := s.Run(cmd.Context(), sources, filter); err != nil {
		return err
	}

	if filter != "" {
		fmt.Printf("Synced %s\n", filter)
	} else {
		fmt.Printf("Synced %d sources\n", len(sources))
	}

	return nil
}
