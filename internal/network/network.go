// Package network folds path records into the deduplicated transmitter
// graph: unique nodes, classified edges, and per-path summaries.
package network

import (
	"fmt"
	"sort"
	"time"

	"github.com/zurstadt/isnad2network/internal/isnad"
	"github.com/zurstadt/isnad2network/internal/terms"
)

// NodeType is the only node kind the graph carries.
const NodeType = "transmitter"

// Metadata columns conventionally present in the path-metadata table and
// copied onto first-seen edges.
const (
	MetaReader      = "Reader"
	MetaTransmitter = "Transmitter"
	MetaPath        = "Path"
	MetaMode        = "_mode"
)

// Node is a unique transmitter identity. Deduplication is by exact name
// string; ids are assigned in first-seen order.
type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Edge is a classified transmission relation, unique per
// (source, target, type). Label, terms, and the metadata fields come from
// the first path that produced the edge and are never overwritten.
type Edge struct {
	ID          string   `json:"id"`
	Source      string   `json:"source"`
	Target      string   `json:"target"`
	Type        string   `json:"type"`
	Label       string   `json:"label,omitempty"`
	Terms       []string `json:"terms,omitempty"`
	Reader      string   `json:"reader"`
	Transmitter string   `json:"transmitter"`
	PathLabel   string   `json:"path"`
	Mode        string   `json:"mode"`
	PathID      string   `json:"path_id"`
	IsnadID     string   `json:"isnad_id"`
}

// PathSummary lists the node and edge ids one path contributed.
type PathSummary struct {
	PathID   string            `json:"path_id"`
	IsnadID  string            `json:"isnad_id"`
	Nodes    []string          `json:"nodes"`
	Edges    []string          `json:"edges"`
	Metadata map[string]string `json:"metadata"`
}

// Metadata summarizes an assembled network.
type Metadata struct {
	Generated         string `json:"generated"`
	RunID             string `json:"run_id,omitempty"`
	PathCount         int    `json:"path_count"`
	NodeCount         int    `json:"node_count"`
	EdgeCount         int    `json:"edge_count"`
	PathsWithMetadata int    `json:"paths_with_metadata,omitempty"`
}

// Network is the assembled graph. Nodes, edges, and paths keep insertion
// order; the struct is not mutated once serialization begins.
type Network struct {
	Metadata Metadata       `json:"metadata"`
	Nodes    []*Node        `json:"nodes"`
	Edges    []*Edge        `json:"edges"`
	Paths    []*PathSummary `json:"paths"`
}

type edgeKey struct {
	source, target, kind string
}

// Registry holds the deduplication state of one assembly run: name to node
// id and (source, target, type) to edge id. It is owned by a single
// Assembler and passed around explicitly, never shared.
type Registry struct {
	nodeIDs map[string]string
	edgeIDs map[edgeKey]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodeIDs: make(map[string]string),
		edgeIDs: make(map[edgeKey]string),
	}
}

// Assembler folds an ordered path sequence into a Network. One instance per
// run; ids are stable and reproducible for a fixed input ordering.
type Assembler struct {
	reg *Registry
	net *Network
}

// NewAssembler creates an assembler with a fresh registry and empty network.
func NewAssembler(runID string) *Assembler {
	return &Assembler{
		reg: NewRegistry(),
		net: &Network{
			Metadata: Metadata{
				Generated: time.Now().Format("2006-01-02 15:04:05"),
				RunID:     runID,
			},
			Nodes: []*Node{},
			Edges: []*Edge{},
			Paths: []*PathSummary{},
		},
	}
}

// Assemble folds all paths and returns the finished network. A nil or empty
// path collection yields an empty network with zero counts; that is the
// degraded-result mode, not an error.
func Assemble(paths []*isnad.Path, runID string) *Network {
	asm := NewAssembler(runID)
	for _, p := range paths {
		asm.Add(p)
	}
	return asm.Finish(len(paths), countWithMetadata(paths))
}

// Add folds one path into the network, in slot order.
func (a *Assembler) Add(p *isnad.Path) {
	if p == nil || p.Empty() {
		return
	}
	cols := make([]string, 0, len(p.Names))
	for col := range p.Names {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	summary := &PathSummary{
		PathID:   p.PathID,
		IsnadID:  p.IsnadID,
		Nodes:    []string{},
		Edges:    []string{},
		Metadata: p.Metadata,
	}
	if summary.Metadata == nil {
		summary.Metadata = map[string]string{}
	}

	for _, col := range cols {
		summary.Nodes = append(summary.Nodes, a.resolveNode(p.Names[col]))
	}
	for i := 0; i+1 < len(cols); i++ {
		summary.Edges = append(summary.Edges, a.resolveEdge(p, cols[i], cols[i+1]))
	}
	a.net.Paths = append(a.net.Paths, summary)
}

// resolveNode returns the node id for a name, creating the node on first
// sight.
func (a *Assembler) resolveNode(name string) string {
	if id, ok := a.reg.nodeIDs[name]; ok {
		return id
	}
	id := fmt.Sprintf("n%d", len(a.reg.nodeIDs)+1)
	a.reg.nodeIDs[name] = id
	a.net.Nodes = append(a.net.Nodes, &Node{ID: id, Name: name, Type: NodeType})
	return id
}

// resolveEdge returns the edge id for one hop, creating the edge on first
// occurrence. The hop's classification comes from the source slot's term;
// a duplicate (source, target, type) triple reuses the existing id and
// leaves the first edge's metadata untouched.
func (a *Assembler) resolveEdge(p *isnad.Path, sourceCol, targetCol string) string {
	sourceID := a.reg.nodeIDs[p.Names[sourceCol]]
	targetID := a.reg.nodeIDs[p.Names[targetCol]]

	kind := terms.Unknown.String()
	term := p.TermAnalysis[sourceCol]
	if term != nil {
		kind = term.Classification.String()
	}

	key := edgeKey{source: sourceID, target: targetID, kind: kind}
	if id, ok := a.reg.edgeIDs[key]; ok {
		return id
	}

	edge := &Edge{
		ID:          fmt.Sprintf("e%d", len(a.reg.edgeIDs)+1),
		Source:      sourceID,
		Target:      targetID,
		Type:        kind,
		Reader:      p.Metadata[MetaReader],
		Transmitter: p.Metadata[MetaTransmitter],
		PathLabel:   p.Metadata[MetaPath],
		Mode:        p.Metadata[MetaMode],
		PathID:      p.PathID,
		IsnadID:     p.IsnadID,
	}
	if term != nil {
		edge.Label = term.OriginalText
		edge.Terms = term.Terms
	}
	a.reg.edgeIDs[key] = edge.ID
	a.net.Edges = append(a.net.Edges, edge)
	return edge.ID
}

// Finish computes the aggregate metadata and returns the network.
func (a *Assembler) Finish(pathCount, pathsWithMetadata int) *Network {
	a.net.Metadata.PathCount = pathCount
	a.net.Metadata.NodeCount = len(a.net.Nodes)
	a.net.Metadata.EdgeCount = len(a.net.Edges)
	a.net.Metadata.PathsWithMetadata = pathsWithMetadata
	return a.net
}

func countWithMetadata(paths []*isnad.Path) int {
	n := 0
	for _, p := range paths {
		if p != nil && len(p.Metadata) > 0 {
			n++
		}
	}
	return n
}
