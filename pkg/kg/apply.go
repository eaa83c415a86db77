package kg

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/corpora-lab/papergraph/pkg/logger"
)

// GraphUpdater persists one document's knowledge graph. The document store
// satisfies this; the update must be a partial merge that leaves the rest of
// the document untouched.
type GraphUpdater interface {
	UpdateGraph(ctx context.Context, documentID string, graph Graph) error
}

const applyParallelism = 4

// Apply carries out a merge or delete plan, issuing one store update per
// affected document. The updates run concurrently but independently: a
// failure on one document never cancels or rolls back the others, so a
// partially applied state is possible and reported per document.
func Apply(ctx context.Context, store GraphUpdater, updates []DocumentUpdate) *ApplyReport {
	report := &ApplyReport{}
	if len(updates) == 0 {
		return report
	}

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(applyParallelism)

	for _, update := range updates {
		u := update
		eg.Go(func() error {
			err := store.UpdateGraph(ctx, u.DocumentID, u.Graph)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("[Apply] Graph update failed", "document_id", u.DocumentID, "err", err)
				report.Failed = append(report.Failed, DocumentError{DocumentID: u.DocumentID, Err: err})
			} else {
				report.Applied = append(report.Applied, u.DocumentID)
			}
			// Errors are collected, never returned: sibling updates
			// must keep running.
			return nil
		})
	}
	_ = eg.Wait()

	sort.Strings(report.Applied)
	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].DocumentID < report.Failed[j].DocumentID
	})
	return report
}
