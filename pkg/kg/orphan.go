package kg

// Disconnected returns the nodes with no incident relationship in the given
// edge set, each still carrying its owning document tag.
//
// The check runs over the combined, possibly multi-document edge set: a node
// can count as connected purely because an edge from another document
// happens to share its id space. Combined-graph orphan status is therefore
// not the same thing as per-document orphan status.
func Disconnected(nodes []Node, rels []Relationship) []Node {
	connected := make(map[string]bool, len(rels)*2)
	for _, rel := range rels {
		connected[rel.SourceID] = true
		connected[rel.TargetID] = true
	}

	out := make([]Node, 0)
	for _, node := range nodes {
		if !connected[node.ID] {
			out = append(out, node)
		}
	}
	return out
}

// DeletePlan is the pure result of a bulk node deletion.
type DeletePlan struct {
	NodeIDs []string
	Updates []DocumentUpdate
}

// PlanDelete removes the given node ids from every selected document that
// contains them. Any relationship touching a deleted id is removed as well;
// true orphans have none, but deletion stays safe when the caller passes a
// still-connected node. An empty id set yields an empty plan, not an error.
func PlanDelete(nodeIDs []string, docs []Document, selectedIDs []string) *DeletePlan {
	plan := &DeletePlan{NodeIDs: nodeIDs}
	if len(nodeIDs) == 0 {
		return plan
	}

	doomed := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		doomed[id] = true
	}
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	for i := range docs {
		doc := &docs[i]
		if !selected[doc.ID] || doc.Graph == nil {
			continue
		}
		touched := false
		for _, node := range doc.Graph.Nodes {
			if doomed[node.ID] {
				touched = true
				break
			}
		}
		if !touched {
			continue
		}

		next := Graph{
			Nodes:         make([]Node, 0, len(doc.Graph.Nodes)),
			Relationships: make([]Relationship, 0, len(doc.Graph.Relationships)),
		}
		for _, node := range doc.Graph.Nodes {
			if !doomed[node.ID] {
				next.Nodes = append(next.Nodes, node)
			}
		}
		for _, rel := range doc.Graph.Relationships {
			if !doomed[rel.SourceID] && !doomed[rel.TargetID] {
				next.Relationships = append(next.Relationships, rel)
			}
		}

		plan.Updates = append(plan.Updates, DocumentUpdate{DocumentID: doc.ID, Graph: next})
	}

	return plan
}
