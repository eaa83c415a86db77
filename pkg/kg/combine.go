package kg

import (
	"fmt"
	"math"
	"strings"

	"github.com/corpora-lab/papergraph/pkg/logger"
)

// Layout constants for the deterministic circular placement of nodes that
// arrive without an explicit position. Presentation only, but fixed so the
// same input always yields the same coordinates.
const (
	layoutCenterX = 700
	layoutCenterY = 300
	layoutRadius  = 180
)

// Combined is the ephemeral consolidated view over a selected set of
// documents. It is recomputed whenever the selection or an underlying graph
// changes and is never persisted.
//
// Relationship endpoints still reference the original per-document node IDs;
// they are NOT rewritten to the surviving node of a cross-document duplicate
// group. Two documents asserting the "same" edge between duplicate-labeled
// entities therefore appear as two disjoint edges. This asymmetry is kept
// deliberately: evidence about separate assertions is preserved, not merged.
type Combined struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

/// NormalizeLabel is the identity rule for duplicate detection and merging:
// lowercase plus whitespace trim. An empty result means the node cannot be
// deduplicated and is excluded from label-keyed operations.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Combine consolidates the graphs of the selected documents into one view.
//
// Documents are visited in the order of selectedIDs, so the caller's order
// decides which node survives as primary when the same normalized label
// appears in several documents: first occurrence wins. Documents missing
// from docs, or without a completed graph, contribute nothing.
//
// Duplicate labels fold into the first-seen node: its source passages grow
// by concatenation and the contributing document title joins its Papers
// provenance (order-preserving set union). Unlabeled nodes are dropped and
// counted in the returned IntegrityStats. Relationships are never
// deduplicated, only tagged with provenance.
//
// Combine is a pure function of its inputs; it copies and never mutates the
// given documents. It fails only on malformed input: a relationship without
// both endpoint IDs.
func Combine(docs []Document, selectedIDs []string) (*Combined, *IntegrityStats, error) {
	byID := make(map[string]*Document, len(docs))
	for i := range docs {
		byID[docs[i].ID] = &docs[i]
	}

	out := &Combined{
		Nodes:         make([]Node, 0),
		Relationships: make([]Relationship, 0),
	}
	stats := &IntegrityStats{}
	nodeIdx := make(map[string]int)

	for _, docID := range selectedIDs {
		doc, ok := byID[docID]
		if !ok || !doc.HasGraph() {
			continue
		}

		for i := range doc.Graph.Nodes {
			node := doc.Graph.Nodes[i]
			key := NormalizeLabel(node.Label)
			if key == "" {
				stats.UnlabeledNodes++
				continue
			}

			if idx, seen := nodeIdx[key]; seen {
				primary := &out.Nodes[idx]
				primary.SourcePassages = append(primary.SourcePassages, node.SourcePassages...)
				primary.Papers = appendUnique(primary.Papers, doc.Title)
				continue
			}

			if node.ID == "" {
				node.ID = fmt.Sprintf("node-%s-%d", doc.ID, i)
			}
			node.PaperID = doc.ID
			node.PaperTitle = doc.Title
			node.Papers = []string{doc.Title}
			nodeIdx[key] = len(out.Nodes)
			out.Nodes = append(out.Nodes, node)
		}

		for i := range doc.Graph.Relationships {
			rel := doc.Graph.Relationships[i]
			if rel.SourceID == "" || rel.TargetID == "" {
				return nil, nil, fmt.Errorf(
					"combine: document %s relationship %d is missing an endpoint id", doc.ID, i)
			}
			if rel.ID == "" {
				rel.ID = fmt.Sprintf("rel-%s-%d", doc.ID, i)
			}
			rel.PaperID = doc.ID
			rel.PaperTitle = doc.Title
			out.Relationships = append(out.Relationships, rel)
		}
	}

	layoutNodes(out.Nodes)

	if stats.UnlabeledNodes > 0 {
		logger.Warn("[Combine] Dropped unlabeled nodes", "count", stats.UnlabeledNodes)
	}

	return out, stats, nil
}

// layoutNodes places every node without an explicit position on a circle of
// fixed radius around a fixed center, node i of n at angle 2*pi*i/n.
func layoutNodes(nodes []Node) {
	n := len(nodes)
	if n == 0 {
		return
	}
	for i := range nodes {
		if nodes[i].X != 0 || nodes[i].Y != 0 {
			continue
		}
		angle := 2 * math.Pi * float64(i) / float64(n)
		nodes[i].X = layoutCenterX + layoutRadius*math.Cos(angle)
		nodes[i].Y = layoutCenterY + layoutRadius*math.Sin(angle)
	}
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
