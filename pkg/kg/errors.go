package kg

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError reports a caller precondition violation, such as merging
// a group with fewer than two nodes. No partial effect has taken place when
// one is returned.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// DocumentError is a failure scoped to a single document during a
// multi-document mutation.
type DocumentError struct {
	DocumentID string
	Err        error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.DocumentID, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// MarshalJSON renders the wrapped error as a plain string so the type can
// appear in API responses.
func (e DocumentError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(struct {
		DocumentID string `json:"document_id"`
		Error      string `json:"error"`
	}{e.DocumentID, msg})
}

// ApplyReport is the per-document outcome of a merge or delete. Updates to
// separate documents are independent calls, not a transaction, so a failure
// on one document leaves the others applied. Callers surface this as
// "merged in N of M documents".
type ApplyReport struct {
	Applied []string
	Failed  []DocumentError
}

// Ok reports whether every affected document was updated.
func (r *ApplyReport) Ok() bool { return len(r.Failed) == 0 }

// Err returns nil when all updates succeeded, otherwise an error summarizing
// the per-document failures.
func (r *ApplyReport) Err() error {
	if r.Ok() {
		return nil
	}
	parts := make([]string, 0, len(r.Failed))
	for i := range r.Failed {
		parts = append(parts, r.Failed[i].Error())
	}
	return fmt.Errorf("updated %d of %d documents: %s",
		len(r.Applied), len(r.Applied)+len(r.Failed), strings.Join(parts, "; "))
}

// IntegrityStats counts non-fatal data issues encountered while building a
// combined view. Unlabeled nodes cannot be deduplicated safely, so they are
// dropped rather than passed through; the count lets callers log or assert
// on what was skipped.
type IntegrityStats struct {
	UnlabeledNodes int `json:"unlabeled_nodes"`
}
