// Package level implements the streamed level pipeline: versioned YAML
// level documents, the segment store that places them along the depth
// axis, content sources that feed it, and the per-frame tiler that keeps
// the streamed window ahead of the camera.
//
// Coordinates: forward is negative Z. A spawned segment with entry offset
// zOffset covers the world span [zOffset - depth, zOffset]. Node positions
// are local: a node at local z sits at world zOffset - z.
package level

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Known node types. The store never interprets these; they are the
// vocabulary shared by the game renderer/collider and the level tooling.
const (
	NodeWall   = "wall"   // Solid block: props w, h; y is the top row
	NodeGate   = "gate"   // Full-height wall with a gap: props w, gap; y is the gap top
	NodeSpire  = "spire"  // Floor spike: props w, h; rot 180 hangs it from the ceiling
	NodeBeacon = "beacon" // Decorative glow, no collision
)

// Node is one placed object inside a level document. Position is local to
// the document: z grows into the segment (toward its forward edge), y is
// the tunnel row.
type Node struct {
	ID    string             `yaml:"id" json:"id" jsonschema:"title=Node ID,description=Unique within the document"`
	Type  string             `yaml:"type" json:"type" jsonschema:"title=Node type,description=One of wall gate spire beacon"`
	Z     float64            `yaml:"z" json:"z" jsonschema:"description=Local depth offset from the segment entry edge"`
	Y     float64            `yaml:"y" json:"y" jsonschema:"description=Tunnel row"`
	Rot   float64            `yaml:"rot,omitempty" json:"rot,omitempty" jsonschema:"description=Rotation in degrees"`
	Props map[string]float64 `yaml:"props,omitempty" json:"props,omitempty" jsonschema:"description=Type-specific parameters"`
}

// Prop returns a type-specific parameter, or def when absent.
func (n *Node) Prop(key string, def float64) float64 {
	if v, ok := n.Props[key]; ok {
		return v
	}
	return def
}

// Width returns the node's extent along the depth axis. Defaults to 1 so
// every node occupies at least one depth unit when measuring the document.
func (n *Node) Width() float64 {
	return n.Prop("w", 1)
}

// DocumentVersion is the only level format version this build reads.
const DocumentVersion = 1

// Document is one level file: a versioned, ordered node list. The segment
// store treats it as an opaque payload that it only measures and offsets.
type Document struct {
	Version int    `yaml:"version" json:"version" jsonschema:"title=Format version,description=Must be 1"`
	ID      string `yaml:"id" json:"id" jsonschema:"title=Level ID"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty" jsonschema:"title=Display name"`
	Nodes   []Node `yaml:"nodes" json:"nodes" jsonschema:"description=Ordered level content"`
}

// Parse decodes and validates a YAML level document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("level: decode document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks structural rules: supported version, a document id, and
// well-formed uniquely identified nodes.
func (d *Document) Validate() error {
	if d.Version != DocumentVersion {
		return fmt.Errorf("level: unsupported document version %d", d.Version)
	}
	if d.ID == "" {
		return fmt.Errorf("level: document has no id")
	}
	seen := make(map[string]struct{}, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.ID == "" {
			return fmt.Errorf("level %s: node %d has no id", d.ID, i)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("level %s: duplicate node id %q", d.ID, n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.Type == "" {
			return fmt.Errorf("level %s: node %q has no type", d.ID, n.ID)
		}
		if n.Z < 0 {
			return fmt.Errorf("level %s: node %q has negative z", d.ID, n.ID)
		}
	}
	return nil
}

// Depth measures the document's extent along the depth axis: the furthest
// local z plus that node's width. Empty documents have depth 0.
func (d *Document) Depth() float64 {
	var depth float64
	for i := range d.Nodes {
		if end := d.Nodes[i].Z + d.Nodes[i].Width(); end > depth {
			depth = end
		}
	}
	return depth
}
