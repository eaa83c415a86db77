package kg

// DocumentUpdate is one document's rewritten graph, ready to be persisted
// through the document store. One update is issued per affected document;
// there is no cross-document transaction.
type DocumentUpdate struct {
	DocumentID string
	Graph      Graph
}

// MergePlan is the pure result of collapsing a duplicate group. Nothing has
// been persisted yet when a plan is returned; Apply carries it out.
type MergePlan struct {
	Primary    Node
	RemovedIDs []string
	Updates    []DocumentUpdate
}

// PlanMerge collapses a duplicate group into one surviving node.
//
// The policy designates the primary; every other group member is removed
// from its owning document's graph. The primary's source passages become the
// concatenation of all members' passages, in group order and without
// deduplication. Every relationship endpoint in an affected document that
// references a removed node id is rewritten to the primary's id, so no
// affected graph in the plan can contain a dangling edge.
//
// A group can span documents; the plan then holds one update per affected
// document. Returns a ValidationError when the group has fewer than two
// nodes. The input documents are never mutated.
func PlanMerge(group DuplicateGroup, docs []Document, edges []Relationship, policy MergePolicy) (*MergePlan, error) {
	if len(group.Nodes) < 2 {
		return nil, &ValidationError{Op: "merge", Reason: "group needs at least 2 nodes"}
	}

	primaryIdx := policy.primaryIndex(group, edges)
	primary := group.Nodes[primaryIdx]

	merged := make([]Passage, 0)
	for _, node := range group.Nodes {
		merged = append(merged, node.SourcePassages...)
	}
	primary.SourcePassages = merged

	// Node removal is scoped to the owning document because ids are only
	// unique per document. Endpoint rewriting uses the full removed set,
	// matching the combined id space the caller grouped over.
	removedByDoc := make(map[string]map[string]bool)
	removedIDs := make([]string, 0, len(group.Nodes)-1)
	removedSet := make(map[string]bool)
	affected := []string{primary.PaperID}
	for i, node := range group.Nodes {
		if i == primaryIdx {
			continue
		}
		if removedByDoc[node.PaperID] == nil {
			removedByDoc[node.PaperID] = make(map[string]bool)
			if node.PaperID != primary.PaperID {
				affected = appendUnique(affected, node.PaperID)
			}
		}
		removedByDoc[node.PaperID][node.ID] = true
		if !removedSet[node.ID] {
			removedSet[node.ID] = true
			removedIDs = append(removedIDs, node.ID)
		}
	}

	byID := make(map[string]*Document, len(docs))
	for i := range docs {
		byID[docs[i].ID] = &docs[i]
	}

	plan := &MergePlan{Primary: primary, RemovedIDs: removedIDs}
	for _, docID := range affected {
		doc, ok := byID[docID]
		if !ok || doc.Graph == nil {
			continue
		}

		removedHere := removedByDoc[docID]
		next := Graph{
			Nodes:         make([]Node, 0, len(doc.Graph.Nodes)),
			Relationships: make([]Relationship, 0, len(doc.Graph.Relationships)),
		}
		for _, node := range doc.Graph.Nodes {
			if removedHere[node.ID] {
				continue
			}
			if docID == primary.PaperID && node.ID == primary.ID {
				node.SourcePassages = merged
			}
			next.Nodes = append(next.Nodes, node)
		}
		for _, rel := range doc.Graph.Relationships {
			if removedSet[rel.SourceID] {
				rel.SourceID = primary.ID
			}
			if removedSet[rel.TargetID] {
				rel.TargetID = primary.ID
			}
			next.Relationships = append(next.Relationships, rel)
		}

		plan.Updates = append(plan.Updates, DocumentUpdate{DocumentID: docID, Graph: next})
	}

	return plan, nil
}
