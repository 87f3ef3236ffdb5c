package replay

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/prefrank/btupdate"
	"github.com/katalvlaran/prefrank/judgment"
	"github.com/katalvlaran/prefrank/posterior"
)

type fakeStore struct {
	data map[string]posterior.Posterior // key: item|dim
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]posterior.Posterior)}
}

func (f *fakeStore) key(item, dim string) string { return item + "|" + dim }

func (f *fakeStore) Get(_ string, item string, dim string) (posterior.Posterior, error) {
	if p, ok := f.data[f.key(item, dim)]; ok {
		return p, nil
	}
	return posterior.Default, nil
}

func (f *fakeStore) Set(_ string, item string, dim string, p posterior.Posterior) error {
	f.data[f.key(item, dim)] = p
	return nil
}

func (f *fakeStore) Reset(_ string, dim string, items []string) error {
	for _, it := range items {
		f.data[f.key(it, dim)] = posterior.Default
	}
	return nil
}

func (f *fakeStore) AvgSigma(_ string, dim string, items []string) (float64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	total := 0.0
	for _, it := range items {
		p, _ := f.Get("", it, dim)
		total += p.Sigma
	}
	return total / float64(len(items)), nil
}

func jAt(a, b string, outcome judgment.Outcome, t time.Time) judgment.Judgment {
	return judgment.Judgment{ID: a + b, Dimension: judgment.Complexity, ItemA: a, ItemB: b, Outcome: outcome, CreatedAt: t}
}

func TestRun_MatchesDirectBTStepOrder(t *testing.T) {
	store := newFakeStore()
	now := time.Unix(0, 0)
	js := []judgment.Judgment{
		jAt("a", "b", judgment.AWins, now),
		jAt("b", "c", judgment.AWins, now.Add(time.Second)),
	}

	avgSigma, err := Run(store, "proj", judgment.Complexity, []string{"a", "b", "c"}, js, btupdate.Lambda, btupdate.VarianceFloor)
	require.NoError(t, err)

	pa, _ := store.Get("proj", "a", string(judgment.Complexity))
	pb, _ := store.Get("proj", "b", string(judgment.Complexity))
	pc, _ := store.Get("proj", "c", string(judgment.Complexity))

	assert.Greater(t, pa.Mu, pb.Mu)
	assert.Greater(t, pb.Mu, pc.Mu)
	assert.Greater(t, avgSigma, 0.0)
}

func TestRun_IsIdempotent(t *testing.T) {
	store := newFakeStore()
	now := time.Unix(0, 0)
	js := []judgment.Judgment{
		jAt("a", "b", judgment.AWins, now),
		jAt("b", "a", judgment.BWins, now.Add(time.Second)),
	}

	_, err := Run(store, "proj", judgment.Complexity, []string{"a", "b"}, js, btupdate.Lambda, btupdate.VarianceFloor)
	require.NoError(t, err)
	first := map[string]posterior.Posterior{"a": mustGet(t, store, "a"), "b": mustGet(t, store, "b")}

	_, err = Run(store, "proj", judgment.Complexity, []string{"a", "b"}, js, btupdate.Lambda, btupdate.VarianceFloor)
	require.NoError(t, err)
	second := map[string]posterior.Posterior{"a": mustGet(t, store, "a"), "b": mustGet(t, store, "b")}

	assert.Equal(t, first, second)
}

func TestRun_DeletedJudgmentExcluded(t *testing.T) {
	store := newFakeStore()
	now := time.Unix(0, 0)
	js := []judgment.Judgment{
		jAt("a", "b", judgment.AWins, now),
	}
	js[0].Deleted = true

	_, err := Run(store, "proj", judgment.Complexity, []string{"a", "b"}, js, btupdate.Lambda, btupdate.VarianceFloor)
	require.NoError(t, err)

	pa, _ := store.Get("proj", "a", string(judgment.Complexity))
	assert.Equal(t, posterior.Default, pa)
}

func TestRun_TieMovesBothTowardMidpointSymmetrically(t *testing.T) {
	store := newFakeStore()
	now := time.Unix(0, 0)
	js := []judgment.Judgment{jAt("a", "b", judgment.Tie, now)}

	_, err := Run(store, "proj", judgment.Complexity, []string{"a", "b"}, js, btupdate.Lambda, btupdate.VarianceFloor)
	require.NoError(t, err)

	pa, _ := store.Get("proj", "a", string(judgment.Complexity))
	pb, _ := store.Get("proj", "b", string(judgment.Complexity))
	assert.InDelta(t, pa.Mu, pb.Mu, 1e-12)
}

func mustGet(t *testing.T, store *fakeStore, item string) posterior.Posterior {
	t.Helper()
	p, err := store.Get("proj", item, string(judgment.Complexity))
	require.NoError(t, err)
	return p
}

func snapshotAll(t *testing.T, store *fakeStore, items []string) map[string]posterior.Posterior {
	t.Helper()
	out := make(map[string]posterior.Posterior, len(items))
	for _, it := range items {
		out[it] = mustGet(t, store, it)
	}
	return out
}

// randomJudgments builds a random, strictly-increasing-timestamp judgment
// sequence over items, including ties and contradictory reruns of the same
// pair, the way a real history accumulates.
func randomJudgments(r *rand.Rand, items []string, count int) []judgment.Judgment {
	outcomes := []judgment.Outcome{judgment.AWins, judgment.BWins, judgment.Tie}
	now := time.Unix(0, 0)
	js := make([]judgment.Judgment, 0, count)
	for i := 0; i < count; i++ {
		a := items[r.Intn(len(items))]
		b := items[r.Intn(len(items))]
		if a == b {
			continue
		}
		now = now.Add(time.Second)
		js = append(js, jAt(a, b, outcomes[r.Intn(len(outcomes))], now))
	}
	return js
}

// TestRun_IsIdempotentProperty checks replay(replay(S)) == replay(S) across
// many random judgment histories, generated with a seeded PRNG
// (rand.New(rand.NewSource(42))) rather than a single hand-picked sequence.
func TestRun_IsIdempotentProperty(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	items := []string{"V0", "V1", "V2", "V3", "V4", "V5"}

	for round := 0; round < 20; round++ {
		t.Run(fmt.Sprintf("round_%d", round), func(t *testing.T) {
			js := randomJudgments(r, items, 15)
			store := newFakeStore()

			_, err := Run(store, "proj", judgment.Complexity, items, js, btupdate.Lambda, btupdate.VarianceFloor)
			require.NoError(t, err)
			first := snapshotAll(t, store, items)

			_, err = Run(store, "proj", judgment.Complexity, items, js, btupdate.Lambda, btupdate.VarianceFloor)
			require.NoError(t, err)
			second := snapshotAll(t, store, items)

			assert.Equal(t, first, second)
		})
	}
}
