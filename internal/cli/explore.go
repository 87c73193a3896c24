package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [snapshot]",
		Short: "Browse a diagram in the terminal and try out gestures",
		Long: `Browse a diagram in the terminal and try out gestures.

Select a node and press enter to click it, n to click with shift (navigate),
w/a/s/d to drag it. Clicking a folder with a single issue opens that issue;
dragging a folder moves its group to another side of the owner. Intents are
listed below the table instead of being executed. Drags are saved to the
project's store like in the real diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runExplore(ctx context.Context, input string) error {
	snap, err := c.readSnapshot(input)
	if err != nil {
		return err
	}
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if _, err := sess.view.Update(ctx, snap); err != nil {
		return err
	}

	// Log lines would tear the alternate screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.ErrorLevel)
	defer c.Logger.SetLevel(level)

	p := tea.NewProgram(NewExploreModel(ctx, sess.view), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	return nil
}
