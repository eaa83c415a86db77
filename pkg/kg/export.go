package kg

import "time"

// SnapshotVersion tags the export file format.
const SnapshotVersion = "1.0"

// PaperMeta is the minimal document metadata carried in an export.
type PaperMeta struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
}

// SnapshotMetadata summarizes the exported graph.
type SnapshotMetadata struct {
	TotalNodes         int      `json:"total_nodes"`
	TotalRelationships int      `json:"total_relationships"`
	NodeTypes          []string `json:"node_types"`
	RelationshipTypes  []string `json:"relationship_types"`
}

// Snapshot is a portable serialization of a combined graph plus the
// metadata of the documents it was built from.
type Snapshot struct {
	Version   string           `json:"version"`
	Timestamp string           `json:"timestamp"`
	Papers    []PaperMeta      `json:"papers"`
	Graph     Combined         `json:"graph"`
	Metadata  SnapshotMetadata `json:"metadata"`
}

// Export builds a snapshot of the combined graph. It is read-only: source
// data is never mutated by exporting. Apart from the timestamp, the output
// is fully determined by the input; the distinct type lists keep the order
// of each type's first appearance.
func Export(docs []Document, selectedIDs []string, combined *Combined, now time.Time) *Snapshot {
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	papers := make([]PaperMeta, 0)
	for i := range docs {
		if !selected[docs[i].ID] {
			continue
		}
		papers = append(papers, PaperMeta{
			ID:      docs[i].ID,
			Title:   docs[i].Title,
			Authors: docs[i].Authors,
		})
	}

	nodeTypes := make([]string, 0)
	seenNodeTypes := make(map[string]bool)
	for _, node := range combined.Nodes {
		if !seenNodeTypes[node.Type] {
			seenNodeTypes[node.Type] = true
			nodeTypes = append(nodeTypes, node.Type)
		}
	}

	relTypes := make([]string, 0)
	seenRelTypes := make(map[string]bool)
	for _, rel := range combined.Relationships {
		if !seenRelTypes[rel.Type] {
			seenRelTypes[rel.Type] = true
			relTypes = append(relTypes, rel.Type)
		}
	}

	return &Snapshot{
		Version:   SnapshotVersion,
		Timestamp: now.UTC().Format(time.RFC3339),
		Papers:    papers,
		Graph:     *combined,
		Metadata: SnapshotMetadata{
			TotalNodes:         len(combined.Nodes),
			TotalRelationships: len(combined.Relationships),
			NodeTypes:          nodeTypes,
			RelationshipTypes:  relTypes,
		},
	}
}
