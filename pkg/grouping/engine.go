package grouping

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/positions"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
)

// Engine builds the folder groups of owners.
type Engine struct {
	Logger *log.Logger
}

// New creates an engine. A nil logger uses log.Default().
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{Logger: logger}
}

// Attach makes owner a grouping tree root and gives it a container with one
// folder per category whose count is positive. The container side comes
// from rec, or [DefaultSide]. Attach expects owner to be in d and its
// container and folders not to be.
func (e *Engine) Attach(d *diagram.Diagram, owner *diagram.Node, counts snapshot.IssueCounts, rec *positions.Record) error {
	if !owner.Kind.IsOwner() {
		return fmt.Errorf("attach %s: %s nodes cannot own folders", owner.ID, owner.Kind)
	}
	containerID := diagram.ContainerID(owner.ID)
	side, ok := rec.Side(containerID)
	if !ok || !side.Valid() {
		side = DefaultSide
	}

	if err := d.MarkTreeRoot(owner.ID); err != nil {
		return fmt.Errorf("attach %s: %w", owner.ID, err)
	}
	if err := d.SetGroupBehavior(owner.ID, diagram.BehaviorOwnerPlacement, side); err != nil {
		return fmt.Errorf("attach %s: %w", owner.ID, err)
	}
	container, err := d.AddNode(diagram.Node{
		ID:   containerID,
		Kind: diagram.KindIssueGroupContainer,
		Side: side,
	})
	if err != nil {
		return fmt.Errorf("attach %s: container: %w", owner.ID, err)
	}
	if err := d.AddToGroup(owner.ID, containerID); err != nil {
		return fmt.Errorf("attach %s: %w", owner.ID, err)
	}
	if err := d.SetGroupBehavior(containerID, diagram.BehaviorFolderArrangement, side); err != nil {
		return fmt.Errorf("attach %s: %w", owner.ID, err)
	}

	var folders []*diagram.Node
	for _, cat := range snapshot.Categories() {
		count := counts[cat]
		if count <= 0 {
			continue
		}
		folder, err := d.AddNode(diagram.Node{
			ID:         diagram.FolderID(owner.ID, cat),
			Kind:       diagram.KindIssueFolder,
			Category:   cat,
			IssueCount: count,
			CountLabel: strconv.Itoa(count),
		})
		if err != nil {
			return fmt.Errorf("attach %s: folder %s: %w", owner.ID, cat, err)
		}
		if err := d.AddToGroup(containerID, folder.ID); err != nil {
			return fmt.Errorf("attach %s: %w", owner.ID, err)
		}
		folders = append(folders, folder)
	}

	container.Position = PlaceContainer(owner, side, len(folders))
	ArrangeFolders(container.Position, side, folders)
	e.Logger.Debug("attached issue folders", "owner", owner.ID, "side", side, "folders", len(folders))
	return nil
}

// Reflow re-places the container and folders of ownerID after the owner
// moved or the container changed side. It reports whether ownerID has a
// container in d.
func Reflow(d *diagram.Diagram, ownerID string) bool {
	owner, ok := d.Node(ownerID)
	if !ok {
		return false
	}
	container, ok := d.Node(diagram.ContainerID(ownerID))
	if !ok {
		return false
	}
	var folders []*diagram.Node
	for _, id := range d.Children(container.ID) {
		if f, ok := d.Node(id); ok {
			folders = append(folders, f)
		}
	}
	container.Position = PlaceContainer(owner, container.Side, len(folders))
	ArrangeFolders(container.Position, container.Side, folders)
	return true
}

// Relate draws a relation edge from each folder of owner to every target
// registered for it. Targets that are not in d are skipped. It returns the
// number of edges added and the number skipped.
func (e *Engine) Relate(d *diagram.Diagram, ownerID string, related snapshot.RelatedFolders) (added, skipped int) {
	for _, folderID := range d.Children(diagram.ContainerID(ownerID)) {
		folder, ok := d.Node(folderID)
		if !ok || folder.Kind != diagram.KindIssueFolder {
			continue
		}
		key := snapshot.FolderKey{LocationID: ownerID, Category: folder.Category}
		for _, target := range related.Targets(key) {
			edge := diagram.RelationEdge(folderID, diagram.FolderID(target.LocationID, target.Category))
			if err := d.AddEdge(edge); err != nil {
				e.Logger.Debug("skipping relation", "from", edge.Source, "to", edge.Target, "err", err)
				skipped++
				continue
			}
			added++
		}
	}
	return added, skipped
}
