package kg

// DuplicateGroup is a set of nodes across the selected documents sharing a
// normalized label. Count is always len(Nodes).
type DuplicateGroup struct {
	Label string `json:"label"`
	Nodes []Node `json:"nodes"`
	Count int    `json:"count"`
}

// DuplicateGroups groups the given nodes by normalized label and returns the
// groups with more than one member. Each input node is expected to carry its
// owning PaperID and PaperTitle, as produced by TagNodes or Combine.
//
// Groups come back in insertion order of each label's first appearance, not
// sorted by size. Nodes with an empty label cannot be grouped and are
// skipped. The input is not mutated.
func DuplicateGroups(nodes []Node) []DuplicateGroup {
	order := make([]string, 0)
	groups := make(map[string][]Node)

	for _, node := range nodes {
		key := NormalizeLabel(node.Label)
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], node)
	}

	out := make([]DuplicateGroup, 0)
	for _, key := range order {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		out = append(out, DuplicateGroup{
			Label: key,
			Nodes: members,
			Count: len(members),
		})
	}
	return out
}

// TagNodes flattens the graphs of the selected documents into one node list,
// tagging every node with its owning document's ID and title. Unlike
// Combine, nothing is deduplicated; this is the raw input for duplicate and
// orphan inspection.
func TagNodes(docs []Document, selectedIDs []string) []Node {
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	out := make([]Node, 0)
	for i := range docs {
		doc := &docs[i]
		if !selected[doc.ID] || !doc.HasGraph() {
			continue
		}
		for _, node := range doc.Graph.Nodes {
			node.PaperID = doc.ID
			node.PaperTitle = doc.Title
			out = append(out, node)
		}
	}
	return out
}

// TagRelationships is the edge counterpart of TagNodes.
func TagRelationships(docs []Document, selectedIDs []string) []Relationship {
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	out := make([]Relationship, 0)
	for i := range docs {
		doc := &docs[i]
		if !selected[doc.ID] || !doc.HasGraph() {
			continue
		}
		for _, rel := range doc.Graph.Relationships {
			rel.PaperID = doc.ID
			rel.PaperTitle = doc.Title
			out = append(out, rel)
		}
	}
	return out
}
