package kg

import "fmt"

// MergePolicy picks which node of a duplicate group survives a merge.
// The historical behavior treats position 0 of the group as primary, which
// is arbitrary; the policy makes that tie-break an explicit, swappable
// choice.
type MergePolicy string

const (
	// PolicyFirstOccurrence keeps the first node in the group's stable
	// order. This is the default and matches the original behavior.
	PolicyFirstOccurrence MergePolicy = "first_occurrence"
	// PolicyMostConnected keeps the node with the most incident
	// relationships in the supplied edge set.
	PolicyMostConnected MergePolicy = "most_connected"
	// PolicyHighestConfidence keeps the node with the highest extraction
	// confidence, falling back to passage confidence when unset.
	PolicyHighestConfidence MergePolicy = "highest_confidence"
)

// ParseMergePolicy maps a wire value to a policy, defaulting to
// first-occurrence for the empty string.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(s) {
	case "", PolicyFirstOccurrence:
		return PolicyFirstOccurrence, nil
	case PolicyMostConnected:
		return PolicyMostConnected, nil
	case PolicyHighestConfidence:
		return PolicyHighestConfidence, nil
	}
	return "", fmt.Errorf("unknown merge policy %q", s)
}

// primaryIndex returns the index within group.Nodes of the node the policy
// keeps. Ties always resolve to the earliest node so the result stays
// deterministic for a given input order.
func (p MergePolicy) primaryIndex(group DuplicateGroup, rels []Relationship) int {
	switch p {
	case PolicyMostConnected:
		best, bestDegree := 0, -1
		for i, node := range group.Nodes {
			degree := 0
			for _, rel := range rels {
				if rel.SourceID == node.ID || rel.TargetID == node.ID {
					degree++
				}
			}
			if degree > bestDegree {
				best, bestDegree = i, degree
			}
		}
		return best
	case PolicyHighestConfidence:
		best, bestScore := 0, -1.0
		for i, node := range group.Nodes {
			score := nodeConfidence(node)
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		return best
	default:
		return 0
	}
}

func nodeConfidence(node Node) float64 {
	if node.Confidence > 0 {
		return node.Confidence
	}
	max := 0.0
	for _, p := range node.SourcePassages {
		if p.Confidence > max {
			max = p.Confidence
		}
	}
	return max
}
