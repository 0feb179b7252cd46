package level

import (
	"strings"
	"testing"
)

const sampleDoc = `
version: 1
id: sample
name: Sample Level
nodes:
  - id: w1
    type: wall
    z: 6
    y: 2
    props:
      w: 2
      h: 5
  - id: s1
    type: spire
    z: 12
    rot: 180
    props:
      w: 3
      h: 4
  - id: b1
    type: beacon
    z: 15
    y: 9
`

func TestParseDocument(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if doc.Version != 1 || doc.ID != "sample" || doc.Name != "Sample Level" {
		t.Errorf("header = %d/%q/%q, unexpected", doc.Version, doc.ID, doc.Name)
	}
	if len(doc.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, expected 3", len(doc.Nodes))
	}

	w := &doc.Nodes[0]
	if w.Type != NodeWall || w.Z != 6 || w.Y != 2 {
		t.Errorf("wall node = %+v, unexpected", w)
	}
	if w.Prop("h", 0) != 5 || w.Width() != 2 {
		t.Errorf("wall props = h %f w %f, expected 5 and 2", w.Prop("h", 0), w.Width())
	}

	s := &doc.Nodes[1]
	if s.Rot != 180 {
		t.Errorf("spire rot = %f, expected 180", s.Rot)
	}

	// Beacon has no props: Width falls back to 1.
	b := &doc.Nodes[2]
	if b.Width() != 1 {
		t.Errorf("beacon Width() = %f, expected default 1", b.Width())
	}
	if b.Prop("glow", 7) != 7 {
		t.Error("Prop should return the default for missing keys")
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "wrong version",
			yaml: "version: 2\nid: x\nnodes: []",
			want: "unsupported document version",
		},
		{
			name: "missing version",
			yaml: "id: x\nnodes: []",
			want: "unsupported document version",
		},
		{
			name: "missing document id",
			yaml: "version: 1\nnodes: []",
			want: "no id",
		},
		{
			name: "node without id",
			yaml: "version: 1\nid: x\nnodes:\n  - type: wall\n    z: 1",
			want: "has no id",
		},
		{
			name: "duplicate node id",
			yaml: "version: 1\nid: x\nnodes:\n  - id: a\n    type: wall\n    z: 1\n  - id: a\n    type: wall\n    z: 2",
			want: "duplicate node id",
		},
		{
			name: "node without type",
			yaml: "version: 1\nid: x\nnodes:\n  - id: a\n    z: 1",
			want: "has no type",
		},
		{
			name: "negative z",
			yaml: "version: 1\nid: x\nnodes:\n  - id: a\n    type: wall\n    z: -3",
			want: "negative z",
		},
		{
			name: "not yaml",
			yaml: "{{{{",
			want: "decode document",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("Parse should have failed")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %q, expected to contain %q", err, tc.want)
			}
		})
	}
}

func TestDocumentDepth(t *testing.T) {
	tests := []struct {
		name     string
		doc      Document
		expected float64
	}{
		{
			name:     "empty document",
			doc:      Document{Version: 1, ID: "e"},
			expected: 0,
		},
		{
			name: "furthest node plus width",
			doc: Document{Version: 1, ID: "d", Nodes: []Node{
				{ID: "a", Type: NodeWall, Z: 6, Props: map[string]float64{"w": 2}},
				{ID: "b", Type: NodeWall, Z: 20, Props: map[string]float64{"w": 3}},
				{ID: "c", Type: NodeBeacon, Z: 10},
			}},
			expected: 23,
		},
		{
			name: "default width counts",
			doc: Document{Version: 1, ID: "d", Nodes: []Node{
				{ID: "a", Type: NodeBeacon, Z: 24},
			}},
			expected: 25,
		},
		{
			name: "wide near node beats far narrow one",
			doc: Document{Version: 1, ID: "d", Nodes: []Node{
				{ID: "a", Type: NodeWall, Z: 5, Props: map[string]float64{"w": 10}},
				{ID: "b", Type: NodeBeacon, Z: 12},
			}},
			expected: 15,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.doc.Depth(); got != tc.expected {
				t.Errorf("Depth() = %f, expected %f", got, tc.expected)
			}
		})
	}
}

func TestBuiltinLevels(t *testing.T) {
	docs, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	if len(docs) != 4 {
		t.Fatalf("len(Builtin()) = %d, expected 4", len(docs))
	}

	// Filename order fixes the streaming order.
	wantIDs := []string{"canyon", "spires", "weave", "gauntlet"}
	for i, doc := range docs {
		if doc.ID != wantIDs[i] {
			t.Errorf("Builtin()[%d].ID = %q, expected %q", i, doc.ID, wantIDs[i])
		}
		if doc.Depth() <= 0 {
			t.Errorf("builtin %q has non-positive depth %f", doc.ID, doc.Depth())
		}
		if len(doc.Nodes) == 0 {
			t.Errorf("builtin %q has no nodes", doc.ID)
		}
	}
}
