package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/issuegraph/pkg/cache"
	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/grouping"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
	"github.com/matzehuels/issuegraph/pkg/viewport"
)

// pointsPerInch converts diagram units, taken as points, to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link rendering.
type Options struct {
	// Detailed adds kind and ID to component and interface labels.
	Detailed bool
}

var categoryColors = map[snapshot.IssueCategory]string{
	snapshot.CategoryBug:            "#e5534b",
	snapshot.CategoryFeatureRequest: "#57ab5a",
	snapshot.CategoryUnclassified:   "#768390",
}

// ToDOT converts diagram nodes and edges to a neato DOT graph with every
// node pinned to its position. Edges touching a node that is not drawn are
// left out.
func ToDOT(nodes []diagram.Node, edges []diagram.Edge, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fixedsize=true, fontsize=10, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	drawn := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		attrs, ok := nodeAttrs(n, opts.Detailed)
		if !ok {
			continue
		}
		drawn[n.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if !drawn[e.Source] || !drawn[e.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n diagram.Node, detailed bool) ([]string, bool) {
	var attrs []string
	switch n.Kind {
	case diagram.KindComponent:
		attrs = append(attrs, "shape=box", `style="rounded,filled"`, "fillcolor=white",
			sizeAttrs(viewport.ComponentSize.Width, viewport.ComponentSize.Height))
	case diagram.KindInterface:
		attrs = append(attrs, "shape=circle", `style=filled`, "fillcolor=white", `xlabel=`+strconv.Quote(fmtLabel(n, detailed)),
			sizeAttrs(viewport.InterfaceSize.Width, viewport.InterfaceSize.Height))
	case diagram.KindIssueFolder:
		color := categoryColors[n.Category]
		attrs = append(attrs, "shape=box", `style="rounded,filled"`, "fontcolor=white", "fontsize=8",
			fmt.Sprintf("fillcolor=%q", color), fmt.Sprintf("color=%q", color),
			sizeAttrs(grouping.FolderWidth, grouping.FolderHeight))
	case diagram.KindIssueGroupContainer:
		return nil, false
	default:
		return nil, false
	}
	if n.Kind != diagram.KindInterface {
		attrs = append(attrs, "label="+strconv.Quote(fmtLabel(n, detailed)))
	} else {
		attrs = append(attrs, `label=""`)
	}
	// Graphviz y grows upwards.
	attrs = append(attrs, fmt.Sprintf(`pos="%s,%s!"`, fmtFloat(n.Position.X), fmtFloat(-n.Position.Y)))
	return attrs, true
}

func fmtLabel(n diagram.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed || n.Kind == diagram.KindIssueFolder {
		return label
	}
	return label + "\n" + n.Kind.String() + ": " + n.ID
}

func edgeAttrs(e diagram.Edge) []string {
	switch e.Kind {
	case diagram.EdgeProvision:
		return []string{"arrowhead=none"}
	case diagram.EdgeConsumption:
		return []string{"arrowhead=odot"}
	case diagram.EdgeDraggedConsumer:
		return []string{"arrowhead=odot", "style=dotted"}
	case diagram.EdgeRelation:
		return []string{"style=dashed", "color=\"#768390\"", "arrowhead=vee"}
	}
	return nil
}

func sizeAttrs(w, h float64) string {
	return fmt.Sprintf("width=%s, height=%s", fmtFloat(w/pointsPerInch), fmtFloat(h/pointsPerInch))
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// SVGCacheTTL is how long a rendered SVG stays in a cache.
const SVGCacheTTL = 24 * time.Hour

// CachedSVG renders dot through c, keyed by the DOT source. A nil c renders
// every time.
func CachedSVG(ctx context.Context, c cache.Cache, dot string) ([]byte, error) {
	return cache.Memo(ctx, c, cache.Key("svg", dot), SVGCacheTTL, func() ([]byte, error) {
		return RenderSVG(dot)
	})
}

// RenderSVG renders a DOT graph to SVG using Graphviz with the neato
// engine, which honours pinned positions.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the generated root tag with one that carries
// only the viewBox and matching pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
