package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/fadhlanhapp/courtsplit-backend/models"
	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

// KVStore is a minimal byte-oriented key-value store
type KVStore interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the underlying connection.
	Close() error
}

// Ensure KVMatchRepository implements MatchRepository
var _ MatchRepository = (*KVMatchRepository)(nil)

// KVMatchRepository keeps the whole match collection, participants nested,
// JSON-encoded under one fixed key of a KVStore.
type KVMatchRepository struct {
	store   KVStore
	key     string
	product newrelic.DatastoreProduct
	now     func() time.Time

	// mu serialises read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewKVMatchRepository creates a repository on top of store
func NewKVMatchRepository(store KVStore, product newrelic.DatastoreProduct) *KVMatchRepository {
	return &KVMatchRepository{
		store:   store,
		key:     utils.MatchesKey,
		product: product,
		now:     time.Now,
	}
}

// Close closes the underlying store.
func (r *KVMatchRepository) Close() error {
	return r.store.Close()
}

// List returns every stored match.
func (r *KVMatchRepository) List(ctx context.Context) ([]models.Match, error) {
	matches, err := r.load(ctx, "list")
	if err != nil {
		return nil, err
	}
	models.SortMatches(matches)
	return matches, nil
}

// GetByID returns the match with the given ID, or nil when absent.
func (r *KVMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	matches, err := r.load(ctx, "get")
	if err != nil {
		return nil, err
	}
	idx := findMatch(matches, id)
	if idx < 0 {
		return nil, nil
	}
	return &matches[idx], nil
}

// Create appends a new match to the collection.
func (r *KVMatchRepository) Create(ctx context.Context, match models.Match) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches, err := r.load(ctx, "create")
	if err != nil {
		return nil, err
	}

	created := prepareCreate(match, r.now())
	if findMatch(matches, created.ID) >= 0 {
		return nil, utils.NewRepositoryError("create", utils.ErrConflict, created.ID, "", nil)
	}
	if dup := duplicateParticipant(created); dup != "" {
		return nil, utils.NewRepositoryError("create", utils.ErrConflict, created.ID, dup, nil)
	}

	matches = append(matches, created)
	if err := r.save(ctx, "create", created.ID, matches); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces an existing match.
func (r *KVMatchRepository) Update(ctx context.Context, match models.Match) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches, err := r.load(ctx, "update")
	if err != nil {
		return nil, err
	}

	idx := findMatch(matches, match.ID)
	if idx < 0 {
		return nil, utils.NewRepositoryError("update", utils.ErrNotFound, match.ID, "", nil)
	}

	updated := prepareUpdate(matches[idx], match, r.now())
	if dup := duplicateParticipant(updated); dup != "" {
		return nil, utils.NewRepositoryError("update", utils.ErrConflict, updated.ID, dup, nil)
	}

	matches[idx] = updated
	if err := r.save(ctx, "update", updated.ID, matches); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a match; unknown IDs are ignored.
func (r *KVMatchRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches, err := r.load(ctx, "delete")
	if err != nil {
		return err
	}

	idx := findMatch(matches, id)
	if idx < 0 {
		return nil
	}
	matches = append(matches[:idx], matches[idx+1:]...)
	return r.save(ctx, "delete", id, matches)
}

// SetParticipantPayment updates one participant's payment state.
func (r *KVMatchRepository) SetParticipantPayment(ctx context.Context, matchID, participantID string, paid bool, receiptRef string) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches, err := r.load(ctx, "set payment")
	if err != nil {
		return nil, err
	}

	idx := findMatch(matches, matchID)
	if idx < 0 {
		return nil, utils.NewRepositoryError("set payment", utils.ErrNotFound, matchID, "", nil)
	}

	updated, ok := applyPayment(matches[idx], participantID, paid, receiptRef, r.now())
	if !ok {
		return nil, utils.NewRepositoryError("set payment", utils.ErrNotFound, matchID, participantID, nil)
	}

	matches[idx] = updated
	if err := r.save(ctx, "set payment", matchID, matches); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Query returns the matches selected by filter.
func (r *KVMatchRepository) Query(ctx context.Context, filter models.MatchFilter, participantID string) ([]models.Match, error) {
	matches, err := r.load(ctx, "query")
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.MatchesFilter(filter, participantID) {
			filtered = append(filtered, m)
		}
	}
	models.SortMatches(filtered)
	return filtered, nil
}

// load decodes the stored collection. A missing key is an empty collection;
// an undecodable blob is a storage failure, never silently empty.
func (r *KVMatchRepository) load(ctx context.Context, op string) ([]models.Match, error) {
	segment := datastoreSegment(ctx, r.product, r.key, "GET")
	raw, found, err := r.store.Get(ctx, r.key)
	segment.End()
	if err != nil {
		return nil, utils.NewRepositoryError(op, utils.ErrStorageUnavailable, "", "", err)
	}
	if !found || len(raw) == 0 {
		return []models.Match{}, nil
	}

	var matches []models.Match
	if err := json.Unmarshal(raw, &matches); err != nil {
		return nil, utils.NewRepositoryError(op, utils.ErrStorageUnavailable, "", "", err)
	}
	for i := range matches {
		if matches[i].Participants == nil {
			matches[i].Participants = []models.Participant{}
		}
	}
	return matches, nil
}

func (r *KVMatchRepository) save(ctx context.Context, op, matchID string, matches []models.Match) error {
	raw, err := json.Marshal(matches)
	if err != nil {
		return utils.NewRepositoryError(op, utils.ErrStorageUnavailable, matchID, "", err)
	}

	segment := datastoreSegment(ctx, r.product, r.key, "SET")
	err = r.store.Put(ctx, r.key, raw)
	segment.End()
	if err != nil {
		return utils.NewRepositoryError(op, utils.ErrStorageUnavailable, matchID, "", err)
	}
	return nil
}

func findMatch(matches []models.Match, id string) int {
	for i := range matches {
		if matches[i].ID == id {
			return i
		}
	}
	return -1
}
