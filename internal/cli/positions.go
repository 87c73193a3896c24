package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/issuegraph/pkg/errors"
	"github.com/matzehuels/issuegraph/pkg/positions"
)

func (c *CLI) positionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Inspect saved positions",
	}
	cmd.AddCommand(c.positionsShowCommand())
	return cmd
}

func (c *CLI) positionsShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [project]",
		Short: "Print the saved positions of a project",
		Long: `Print the saved positions of a project (default: --project).

A malformed record is shown as empty, the same way the diagram treats it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := c.project
			if len(args) == 1 {
				project = args[0]
			}
			return c.runPositionsShow(cmd.Context(), project, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored JSON record")
	return cmd
}

func (c *CLI) runPositionsShow(ctx context.Context, project string, asJSON bool) error {
	if err := errors.ValidateProject(project); err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Load(ctx, project)
	if err != nil {
		return err
	}
	if asJSON {
		data, err := positions.Encode(rec)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}

	printKeyValue("project", project)
	printKeyValue("backend", cfg.Store.Backend)
	printKeyValue("key", positions.StorageKey(project))
	if rec.Len() == 0 {
		printInfo("No saved positions")
		return nil
	}
	fmt.Println(positionsTable(rec))
	return nil
}
