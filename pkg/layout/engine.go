package layout

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/issuegraph/pkg/diagram"
)

// Defaults for [Config].
const (
	DefaultEdgeLength = 120.0
	DefaultIterations = 200
)

// Config tunes the force-directed pass.
type Config struct {
	// EdgeLength is the ideal distance between connected nodes.
	EdgeLength float64
	// Iterations is the number of cooling steps per component.
	Iterations int
}

func (c Config) withDefaults() Config {
	if c.EdgeLength <= 0 {
		c.EdgeLength = DefaultEdgeLength
	}
	if c.Iterations <= 0 {
		c.Iterations = DefaultIterations
	}
	return c
}

// Engine computes seed positions.
type Engine struct {
	Config Config
	Logger *log.Logger
}

// New creates an engine. Zero config fields take their defaults; a nil
// logger uses log.Default().
func New(cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{Config: cfg.withDefaults(), Logger: logger}
}

// Seed returns a finite position for every node of g.
func (e *Engine) Seed(g *Graph) map[string]diagram.Point {
	cfg := e.Config.withDefaults()
	k := cfg.EdgeLength
	out := make(map[string]diagram.Point, g.Len())

	comps := g.components()
	locals := make([]map[string]diagram.Point, len(comps))
	longest := 0.0
	for i, comp := range comps {
		locals[i] = forceDirected(g, comp, k, cfg.Iterations)
		longest = max(longest, longestEdge(g, locals[i]))
	}

	// Nodes of different components must end up further apart than any
	// connected pair.
	gap := max(2*k, longest+k)
	cursor := 0.0
	for _, local := range locals {
		minX, maxX := math.Inf(1), math.Inf(-1)
		minY, maxY := math.Inf(1), math.Inf(-1)
		for _, p := range local {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
		dx := cursor - minX
		dy := -(minY + maxY) / 2
		for id, p := range local {
			out[id] = diagram.Point{X: p.X + dx, Y: p.Y + dy}
		}
		cursor += (maxX - minX) + gap
	}
	e.Logger.Debug("seeded layout", "nodes", len(out), "components", len(comps))
	return out
}

// longestEdge returns the longest distance between connected nodes of local.
func longestEdge(g *Graph, local map[string]diagram.Point) float64 {
	longest := 0.0
	for id, p := range local {
		for _, nb := range g.Neighbors(id) {
			if q, ok := local[nb]; ok {
				longest = max(longest, p.Dist(q))
			}
		}
	}
	return longest
}

// forceDirected runs Fruchterman-Reingold on one connected component.
func forceDirected(g *Graph, nodes []string, k float64, iterations int) map[string]diagram.Point {
	n := len(nodes)
	pos := make([]diagram.Point, n)
	if n == 1 {
		return map[string]diagram.Point{nodes[0]: {}}
	}

	index := make(map[string]int, n)
	radius := max(k, k*float64(n)/(2*math.Pi))
	for i, id := range nodes {
		index[id] = i
		angle := 2 * math.Pi * float64(i) / float64(n)
		pos[i] = diagram.Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
	}

	var edges [][2]int
	for i, id := range nodes {
		for _, nb := range g.Neighbors(id) {
			if j := index[nb]; j > i {
				edges = append(edges, [2]int{i, j})
			}
		}
	}

	disp := make([]diagram.Point, n)
	temp := radius / 2
	cool := temp / float64(iterations+1)
	for it := 0; it < iterations; it++ {
		clear(disp)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				d := pos[i].Sub(pos[j])
				dist := math.Hypot(d.X, d.Y)
				if dist < 0.01 {
					// Coincident nodes: push apart along a fixed axis.
					d, dist = diagram.Point{X: 0.01 * float64(j-i), Y: 0.01}, 0.01
				}
				f := k * k / dist
				fx, fy := d.X/dist*f, d.Y/dist*f
				disp[i].X += fx
				disp[i].Y += fy
				disp[j].X -= fx
				disp[j].Y -= fy
			}
		}
		for _, e := range edges {
			i, j := e[0], e[1]
			d := pos[i].Sub(pos[j])
			dist := math.Hypot(d.X, d.Y)
			if dist < 0.01 {
				continue
			}
			f := dist * dist / k
			fx, fy := d.X/dist*f, d.Y/dist*f
			disp[i].X -= fx
			disp[i].Y -= fy
			disp[j].X += fx
			disp[j].Y += fy
		}
		for i := range pos {
			length := math.Hypot(disp[i].X, disp[i].Y)
			if length == 0 {
				continue
			}
			step := min(length, temp)
			pos[i].X += disp[i].X / length * step
			pos[i].Y += disp[i].Y / length * step
		}
		temp -= cool
	}

	out := make(map[string]diagram.Point, n)
	for i, id := range nodes {
		out[id] = pos[i]
	}
	return out
}
