package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/grammarsync/internal/config"
	"github.com/conneroisu/grammarsync/internal/gitcmd"
	"github.com/conneroisu/grammarsync/internal/logging"
	"github.com/conneroisu/grammarsync/internal/registry"
	"github.com/conneroisu/grammarsync/internal/resolver"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update [source]",
	Short: "Advance version pins via upstream history inspection",
	Long: `Inspect each registry source's upstream repository and advance its
pinned commit when a newer commit touches the tracked grammar paths.

A pin only ever moves forward: the accepted commit is always a strict
history-descendant of the current pin. Sources pinned to "latest" always
track the newest matching commit on the default branch. When any pin
changes, the registry file is rewritten in canonical form.

Examples:
  grammarsync update                                 # Check every source
  grammarsync update microsoft/TypeScript-TmLanguage`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
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

	fmt.Println("🔄 Checking upstream history...")

	r := resolver.New(
		resolver.NewGitCloner(gitcmd.NewClient(cfg.Git.Binary)),
		cfg.Git.CloneHost,
		logger,
	)

	updated, results, changed, err := r.Resolve(cmd.Context(), sources, filter)
	if err != nil {
		return err
	}

	for _, result := range results {
		switch result.Outcome {
		case resolver.OutcomeAdvanced:
			fmt.Printf("  %s: %s -> %s\n", result.Name, result.Previous, result.Candidate)
		default:
			fmt.Printf("  %s: %s (%s)\n", result.Name, result.Previous, result.Outcome)
		}
	}

	if !changed {
		fmt.Println("Registry is up to date")

		return nil
	}

	if err := registry.Write(cfg.Registry.Path, updated); err != nil {
		return err
	}

	fmt.Printf("Rewrote %s\n", cfg.Registry.Path)

	return nil
}
