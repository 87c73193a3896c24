package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/issuegraph/pkg/cache"
	"github.com/matzehuels/issuegraph/pkg/errors"
	"github.com/matzehuels/issuegraph/pkg/graphview"
	"github.com/matzehuels/issuegraph/pkg/render/nodelink"
)

// Output formats of the render command.
const (
	formatSVG       = "svg"
	formatDOT       = "dot"
	formatJSON      = "json"
	formatCytoscape = "cytoscape"
)

var renderFormats = []string{formatSVG, formatDOT, formatJSON, formatCytoscape}

// formatExt maps formats to file extensions.
var formatExt = map[string]string{
	formatSVG:       ".svg",
	formatDOT:       ".dot",
	formatJSON:      ".frame.json",
	formatCytoscape: ".cy.json",
}

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output   string   // output file, base path for several formats, or "-" for stdout
	formats  []string // svg, dot, json, cytoscape
	detailed bool     // add kind and ID to node labels
	noCache  bool     // re-run Graphviz even for an unchanged diagram
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [snapshot]",
		Short: "Build the diagram of a snapshot and export it",
		Long: `Build the diagram of a snapshot file (.json, .toml or .yaml) and export it.

Saved positions of the project are applied; owners without one are seeded by
the layout engine on first use and saved, so the next render keeps them.

Formats: svg (default), dot, json (the full frame), cytoscape (Cytoscape.js
elements). Several formats can be given comma-separated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output == "-" && len(opts.formats) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "stdout output takes a single format")
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, base path for several formats, or "-" for stdout`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, cytoscape (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node kind and ID in labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the SVG cache")

	return cmd
}

func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(renderFormats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", f, strings.Join(renderFormats, ", "))
		}
	}
	return nil
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	snap, err := c.readSnapshot(input)
	if err != nil {
		return err
	}
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	prog := newProgress(c.Logger)
	frame, err := sess.view.Update(ctx, snap)
	if err != nil {
		return err
	}
	prog.done("Built diagram")

	var svgCache cache.Cache = cache.Null{}
	if !opts.noCache {
		svgCache = c.svgCache()
	}

	var written []string
	for _, format := range opts.formats {
		spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", format))
		spinner.Start()
		data, err := encodeFrame(ctx, svgCache, frame, format, opts.detailed)
		spinner.Stop()
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if opts.output == "-" {
			_, err := os.Stdout.Write(data)
			return err
		}
		path := outputPath(input, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Rendered %s", sess.view.Project())
	for _, p := range written {
		printFile(p)
	}
	printStats(frame.Build.Nodes, frame.Build.Edges, frame.Build.Placed, frame.Build.Skipped)
	for _, w := range frame.Warnings {
		printWarning("%s", w)
	}
	printNewline()
	printNextStep("Keep it current", appName+" watch "+input)
	return nil
}

// encodeFrame serializes frame in one output format.
// SVGs go through svgCache.
func encodeFrame(ctx context.Context, svgCache cache.Cache, frame graphview.Frame, format string, detailed bool) ([]byte, error) {
	switch format {
	case formatSVG:
		return nodelink.CachedSVG(ctx, svgCache, nodelink.ToDOT(frame.Nodes, frame.Edges, nodelink.Options{Detailed: detailed}))
	case formatDOT:
		return []byte(nodelink.ToDOT(frame.Nodes, frame.Edges, nodelink.Options{Detailed: detailed})), nil
	case formatJSON:
		return json.MarshalIndent(frame, "", "  ")
	case formatCytoscape:
		return nodelink.ToJSON(frame.Nodes, frame.Edges)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
}

// outputPath picks the file for one format. With several formats the
// output flag is a base path.
func outputPath(input, output, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	return base + formatExt[format]
}

// svgCache opens the on-disk SVG cache. Failing to open it only disables
// caching.
func (c *CLI) svgCache() cache.Cache {
	fc, err := cache.NewFile("")
	if err != nil {
		c.Logger.Debug("svg cache disabled", "err", err)
		return cache.Null{}
	}
	return fc
}
