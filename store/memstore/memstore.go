// Package memstore is an in-memory reference implementation of the three
// boundary interfaces the engine consumes: judgment.Store, posterior.Store,
// and an ItemSet. It exists to make the engine runnable and testable
// without a real database; production deployments are expected to swap in
// their own store over the same interfaces.
package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/prefrank/engineerr"
	"github.com/katalvlaran/prefrank/judgment"
	"github.com/katalvlaran/prefrank/posterior"
)

// Store is a single in-memory backend satisfying judgment.Store,
// posterior.Store, and ItemSet all at once. Every method takes its own
// lock; callers needing cross-call atomicity (e.g. the engine's
// per-(project,dimension) mutex) provide it themselves.
type Store struct {
	mu sync.Mutex

	judgments map[string][]judgment.Judgment // key: project|dimension
	posts     map[string]posterior.Posterior // key: project|item|dimension
	items     map[string]map[string]struct{} // key: project -> set of item IDs
	lastStamp map[string]time.Time           // key: project|dimension, for strictly increasing CreatedAt
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		judgments: make(map[string][]judgment.Judgment),
		posts:     make(map[string]posterior.Posterior),
		items:     make(map[string]map[string]struct{}),
		lastStamp: make(map[string]time.Time),
	}
}

func dimKey(projectID string, dim judgment.Dimension) string {
	return projectID + "|" + string(dim)
}

func postKey(projectID, item string, dim string) string {
	return projectID + "|" + item + "|" + dim
}

// Append implements judgment.Store.
func (s *Store) Append(projectID string, j judgment.Judgment) (judgment.Judgment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dimKey(projectID, j.Dimension)
	now := stampAfter(s.lastStamp[key])
	s.lastStamp[key] = now

	j.ID = uuid.NewString()
	j.CreatedAt = now
	j.Deleted = false

	s.judgments[key] = append(s.judgments[key], j)
	return j, nil
}

// stampAfter returns a timestamp strictly after prior. time.Now() already
// moves forward between calls in practice, but a zero-valued prior (no
// prior judgment yet) or a clock that hasn't ticked between two rapid
// Appends would otherwise produce a tie, so the floor is enforced
// explicitly.
func stampAfter(prior time.Time) time.Time {
	now := time.Now()
	if !now.After(prior) {
		now = prior.Add(time.Nanosecond)
	}
	return now
}

// Iterate implements judgment.Store: non-deleted judgments, ascending
// CreatedAt.
func (s *Store) Iterate(projectID string, dim judgment.Dimension) ([]judgment.Judgment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.judgments[dimKey(projectID, dim)]
	out := make([]judgment.Judgment, 0, len(all))
	for _, j := range all {
		if !j.Deleted {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out, nil
}

// IterateAll implements judgment.Store: every judgment, including
// soft-deleted ones, ascending CreatedAt.
func (s *Store) IterateAll(projectID string, dim judgment.Dimension) ([]judgment.Judgment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := append([]judgment.Judgment(nil), s.judgments[dimKey(projectID, dim)]...)
	sort.Slice(all, func(i, k int) bool { return all[i].CreatedAt.Before(all[k].CreatedAt) })
	return all, nil
}

// SoftDelete implements judgment.Store.
func (s *Store) SoftDelete(projectID, judgmentID string) (judgment.Judgment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, list := range s.judgments {
		for i := range list {
			if list[i].ID == judgmentID && !list[i].Deleted {
				list[i].Deleted = true
				return list[i], nil
			}
		}
	}
	return judgment.Judgment{}, engineerr.Wrap("memstore.SoftDelete", engineerr.ErrEmptyHistory, judgmentID)
}

// DeleteAll implements judgment.Store.
func (s *Store) DeleteAll(projectID string, dim judgment.Dimension) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dimKey(projectID, dim)
	list := s.judgments[key]
	count := 0
	for i := range list {
		if !list[i].Deleted {
			list[i].Deleted = true
			count++
		}
	}
	return count, nil
}

// FindDimension implements judgment.Store.
func (s *Store) FindDimension(projectID, judgmentID string) (judgment.Dimension, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, list := range s.judgments {
		for i := range list {
			if list[i].ID == judgmentID && !list[i].Deleted {
				return list[i].Dimension, nil
			}
		}
	}
	return "", engineerr.Wrap("memstore.FindDimension", engineerr.ErrEmptyHistory, judgmentID)
}

// Get implements posterior.Store.
func (s *Store) Get(projectID, item string, dim string) (posterior.Posterior, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.posts[postKey(projectID, item, dim)]; ok {
		return p, nil
	}
	return posterior.Default, nil
}

// Set implements posterior.Store.
func (s *Store) Set(projectID, item string, dim string, p posterior.Posterior) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts[postKey(projectID, item, dim)] = p
	return nil
}

// Reset implements posterior.Store.
func (s *Store) Reset(projectID string, dim string, items []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range items {
		s.posts[postKey(projectID, it, dim)] = posterior.Default
	}
	return nil
}

// AvgSigma implements posterior.Store.
func (s *Store) AvgSigma(projectID string, dim string, items []string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		return 0, nil
	}
	total := 0.0
	for _, it := range items {
		p, ok := s.posts[postKey(projectID, it, dim)]
		if !ok {
			p = posterior.Default
		}
		total += p.Sigma
	}
	return total / float64(len(items)), nil
}

// Items returns every item registered for projectID, sorted for
// deterministic iteration.
func (s *Store) Items(projectID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.items[projectID]
	out := make([]string, 0, len(set))
	for it := range set {
		out = append(out, it)
	}
	sort.Strings(out)
	return out, nil
}

// AddItem registers item under projectID. Idempotent.
func (s *Store) AddItem(projectID, item string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.items[projectID] == nil {
		s.items[projectID] = make(map[string]struct{})
	}
	s.items[projectID][item] = struct{}{}
	return nil
}

// RemoveItem unregisters item from projectID and drops its posteriors in
// both dimensions, so an item registered again later starts from
// posterior.Default.
func (s *Store) RemoveItem(projectID, item string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items[projectID], item)
	delete(s.posts, postKey(projectID, item, string(judgment.Complexity)))
	delete(s.posts, postKey(projectID, item, string(judgment.Value)))
	return nil
}

// Snapshot is a serializable copy of a Store's full state. It exists for
// callers that need the store to survive a process restart (a CLI backed
// by a JSON file instead of a long-lived server) without taking on a real
// database dependency.
type Snapshot struct {
	Judgments map[string][]judgment.Judgment `json:"judgments"`
	Posts     map[string]posterior.Posterior `json:"posts"`
	Items     map[string][]string            `json:"items"`
}

// Export copies the Store's current state into a Snapshot.
func (s *Store) Export() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make(map[string][]string, len(s.items))
	for proj, set := range s.items {
		list := make([]string, 0, len(set))
		for it := range set {
			list = append(list, it)
		}
		sort.Strings(list)
		items[proj] = list
	}

	judgments := make(map[string][]judgment.Judgment, len(s.judgments))
	for key, list := range s.judgments {
		judgments[key] = append([]judgment.Judgment(nil), list...)
	}

	posts := make(map[string]posterior.Posterior, len(s.posts))
	for key, p := range s.posts {
		posts[key] = p
	}

	return Snapshot{Judgments: judgments, Posts: posts, Items: items}
}

// Import builds a Store from a previously exported Snapshot.
func Import(snap Snapshot) *Store {
	s := New()

	for proj, list := range snap.Items {
		set := make(map[string]struct{}, len(list))
		for _, it := range list {
			set[it] = struct{}{}
		}
		s.items[proj] = set
	}

	for key, list := range snap.Judgments {
		s.judgments[key] = append([]judgment.Judgment(nil), list...)
		for _, j := range list {
			if j.CreatedAt.After(s.lastStamp[key]) {
				s.lastStamp[key] = j.CreatedAt
			}
		}
	}

	for key, p := range snap.Posts {
		s.posts[key] = p
	}

	return s
}
