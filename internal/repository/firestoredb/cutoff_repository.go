package firestoredb

import (
	"context"
	"fmt"
	"sort"

	"admissions-chatbot-be/internal/pkg/logger"
	"admissions-chatbot-be/pkg/cutoff"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const cutoffsCollection = "cutoffs"

// CutoffRepository reads structured cutoff rows from Firestore. It applies
// equality filters server-side and leaves ordering and rank reconciliation
// to the cutoff engine.
type CutoffRepository struct {
	client *firestore.Client
	log    logger.ILogger
}

func NewCutoffRepository(client *firestore.Client, log logger.ILogger) cutoff.Store {
	return &CutoffRepository{
		client: client,
		log:    log,
	}
}

func (r *CutoffRepository) Query(ctx context.Context, f cutoff.Filter) ([]cutoff.Record, error) {
	q := r.client.Collection(cutoffsCollection).Query
	if f.Branch != "" {
		q = q.Where("branch", "==", f.Branch)
	}
	if f.Category != "" {
		q = q.Where("category", "==", f.Category)
	}
	if f.LegacyCategory != "" {
		q = q.Where("caste", "==", f.LegacyCategory)
	}
	if f.Gender != "" {
		q = q.Where("gender", "==", f.Gender)
	}
	if f.Quota != "" {
		q = q.Where("quota", "==", f.Quota)
	}
	if f.Year != 0 {
		q = q.Where("year", "==", f.Year)
	}
	if f.Round != 0 {
		q = q.Where("round", "==", f.Round)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var records []cutoff.Record
	iter := q.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			r.log.Error("CutoffRepository", "failed to query cutoffs", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", cutoff.ErrStoreUnavailable, err)
		}
		records = append(records, cutoff.RecordFromDoc(doc.Data()))
	}
	return records, nil
}

func (r *CutoffRepository) Branches(ctx context.Context) ([]string, error) {
	iter := r.client.Collection(cutoffsCollection).Select("branch").Documents(ctx)
	defer iter.Stop()

	seen := make(map[string]struct{})
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			r.log.Error("CutoffRepository", "failed to list branches", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", cutoff.ErrStoreUnavailable, err)
		}
		if b, ok := doc.Data()["branch"].(string); ok && b != "" {
			seen[b] = struct{}{}
		}
	}

	branches := make([]string, 0, len(seen))
	for b := range seen {
		branches = append(branches, b)
	}
	sort.Strings(branches)
	return branches, nil
}
