package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/issuegraph/pkg/layout"
	"github.com/matzehuels/issuegraph/pkg/positions"
)

func (c *CLI) layoutCommand() *cobra.Command {
	var (
		edgeLength float64
		iterations int
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "layout [snapshot]",
		Short: "Compute seed positions for a snapshot",
		Long: `Compute seed positions for the components and interfaces of a snapshot.

The force-directed engine places each connected part of the graph on its own
and packs the parts left to right. By default the result is only printed;
--save writes it to the project's store for every node that has no saved
position yet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], layout.Config{EdgeLength: edgeLength, Iterations: iterations}, save)
		},
	}

	cmd.Flags().Float64Var(&edgeLength, "edge-length", 0, fmt.Sprintf("ideal edge length (default %v, or the config value)", layout.DefaultEdgeLength))
	cmd.Flags().IntVar(&iterations, "iterations", 0, fmt.Sprintf("cooling steps per connected part (default %d, or the config value)", layout.DefaultIterations))
	cmd.Flags().BoolVar(&save, "save", false, "save positions for nodes without one")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, cfg layout.Config, save bool) error {
	snap, err := c.readSnapshot(input)
	if err != nil {
		return err
	}
	conf, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.EdgeLength <= 0 {
		cfg.EdgeLength = conf.Layout.EdgeLength
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = conf.Layout.Iterations
	}

	prog := newProgress(c.Logger)
	g := layout.FromSnapshot(snap)
	seeded := layout.New(cfg, c.Logger).Seed(g)
	prog.done(fmt.Sprintf("Laid out %d nodes", g.Len()))

	rec := positions.New()
	for id, p := range seeded {
		rec.SetPosition(id, p)
	}

	if save {
		store, err := c.openStore(ctx, conf)
		if err != nil {
			return err
		}
		defer store.Close()
		saved, err := store.Load(ctx, c.project)
		if err != nil {
			return err
		}
		added := 0
		for id, p := range seeded {
			if _, ok := saved.Position(id); !ok {
				saved.SetPosition(id, p)
				added++
			}
		}
		if err := store.Save(ctx, c.project, saved); err != nil {
			return err
		}
		printSuccess("Saved %d new positions for %s", added, c.project)
	}

	fmt.Println(positionsTable(rec))
	return nil
}
