package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/issuegraph/pkg/errors"
)

// Format identifies a snapshot file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported snapshot extension %q (want .json, .toml, .yaml)", filepath.Ext(path))
	}
}

// File is the list-based on-disk form of a Snapshot.
type File struct {
	Components []Component    `json:"components" toml:"components" yaml:"components"`
	Interfaces []InterfaceDoc `json:"interfaces" toml:"interfaces" yaml:"interfaces"`
	Locations  []LocationDoc  `json:"locations" toml:"locations" yaml:"locations"`
	Relations  []RelationDoc  `json:"relations" toml:"relations" yaml:"relations"`
	Issues     []Issue        `json:"issues" toml:"issues" yaml:"issues"`
}

// InterfaceDoc is the file form of an Interface.
type InterfaceDoc struct {
	ID         string   `json:"id" toml:"id" yaml:"id"`
	Name       string   `json:"name" toml:"name" yaml:"name"`
	OfferedBy  string   `json:"offered_by" toml:"offered_by" yaml:"offered_by"`
	ConsumedBy []string `json:"consumed_by" toml:"consumed_by" yaml:"consumed_by"`
}

// LocationDoc carries the issue counts of one location.
type LocationDoc struct {
	ID     string         `json:"id" toml:"id" yaml:"id"`
	Issues map[string]int `json:"issues" toml:"issues" yaml:"issues"`
}

// RelationDoc registers the folders related to one folder.
type RelationDoc struct {
	From FolderKey   `json:"from" toml:"from" yaml:"from"`
	To   []FolderKey `json:"to" toml:"to" yaml:"to"`
}

// ReadFile reads a snapshot file, choosing the decoder by extension.
func ReadFile(path string) (*Snapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Read decodes a snapshot of the given format from r.
func Read(r io.Reader, format Format) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var doc File
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported snapshot format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode %s snapshot", format)
	}
	return doc.Snapshot()
}

// Snapshot converts the file form into a Snapshot.
// Duplicate IDs and unknown categories are rejected.
func (f *File) Snapshot() (*Snapshot, error) {
	s := New()

	for _, c := range f.Components {
		if c.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "component with empty id")
		}
		if _, dup := s.Components[c.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "duplicate component id %q", c.ID)
		}
		s.Components[c.ID] = c
	}

	for _, d := range f.Interfaces {
		if d.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "interface with empty id")
		}
		if _, dup := s.Interfaces[d.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "duplicate interface id %q", d.ID)
		}
		if _, clash := s.Components[d.ID]; clash {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "interface id %q collides with a component", d.ID)
		}
		consumers := make(map[string]struct{}, len(d.ConsumedBy))
		for _, c := range d.ConsumedBy {
			consumers[c] = struct{}{}
		}
		s.Interfaces[d.ID] = Interface{ID: d.ID, Name: d.Name, OfferedByID: d.OfferedBy, ConsumedBy: consumers}
	}

	for _, l := range f.Locations {
		if _, dup := s.Locations[l.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "duplicate location id %q", l.ID)
		}
		counts := make(IssueCounts, len(l.Issues))
		for k, v := range l.Issues {
			cat, err := ParseCategory(k)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "location %s", l.ID)
			}
			if v < 0 {
				return nil, errors.New(errors.ErrCodeInvalidSnapshot, "location %s: negative %s count", l.ID, k)
			}
			counts[cat] = v
		}
		s.Locations[l.ID] = counts
	}

	for _, rel := range f.Relations {
		if !rel.From.Category.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "relation from %s: unknown category %q", rel.From.LocationID, rel.From.Category)
		}
		for _, to := range rel.To {
			if !to.Category.Valid() {
				return nil, errors.New(errors.ErrCodeInvalidSnapshot, "relation to %s: unknown category %q", to.LocationID, to.Category)
			}
		}
		s.Related[rel.From] = append(s.Related[rel.From], rel.To...)
	}

	for _, is := range f.Issues {
		if !is.Category.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "issue %s: unknown category %q", is.ID, is.Category)
		}
		s.Issues[is.LocationID] = append(s.Issues[is.LocationID], is)
	}

	return s, nil
}
