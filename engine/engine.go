// Package engine is the façade that wires the posterior store, judgment
// log, graph view, cycle detector, selector, replayer, and progress
// reporter into the operations an external caller (an HTTP handler, a CLI
// command, a batch job) actually invokes. It is the only package in this
// module that logs, and the only one that locks across calls: everything
// below it is either pure computation or a boundary store that at most
// guards each of its own method calls.
package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/katalvlaran/prefrank/btupdate"
	"github.com/katalvlaran/prefrank/config"
	"github.com/katalvlaran/prefrank/cycledetect"
	"github.com/katalvlaran/prefrank/engineerr"
	"github.com/katalvlaran/prefrank/judgment"
	"github.com/katalvlaran/prefrank/posterior"
	"github.com/katalvlaran/prefrank/prefgraph"
	"github.com/katalvlaran/prefrank/progress"
	"github.com/katalvlaran/prefrank/replay"
	"github.com/katalvlaran/prefrank/selector"
)

// ItemSet enumerates which items are currently in scope for a project.
// Implementations are expected to keep this consistent with whatever
// external source of truth owns item lifecycle.
type ItemSet interface {
	Items(projectID string) ([]string, error)
}

// Engine wires the boundary stores to the pure computation packages and
// owns the one piece of mutable shared state this module has: a lock and
// a committed mode per (project, dimension).
type Engine struct {
	judgments judgment.Store
	posts     posterior.Store
	items     ItemSet
	cfg       config.Config
	log       *zap.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	modesMu sync.Mutex
	modes   map[string]judgment.Mode
}

// New builds an Engine. logger may be nil, in which case a no-op logger is
// used (tests commonly do this).
func New(judgments judgment.Store, posts posterior.Store, items ItemSet, cfg config.Config, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		judgments: judgments,
		posts:     posts,
		items:     items,
		cfg:       cfg,
		log:       logger,
		locks:     make(map[string]*sync.Mutex),
		modes:     make(map[string]judgment.Mode),
	}, nil
}

func contextKey(projectID string, dim judgment.Dimension) string {
	return projectID + "|" + string(dim)
}

func (e *Engine) lockFor(projectID string, dim judgment.Dimension) *sync.Mutex {
	key := contextKey(projectID, dim)

	e.locksMu.Lock()
	defer e.locksMu.Unlock()

	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	return l
}

// SubmitResult is what submit_judgment reports back.
type SubmitResult struct {
	JudgmentID string
	// WinnerPost and LoserPost are the updated posteriors of itemA and
	// itemB respectively, in call order, whichever of the two won.
	WinnerPost posterior.Posterior
	LoserPost  posterior.Posterior
	AvgSigma   float64
	Stats      cycledetect.Stats
}

// SubmitJudgment records one pairwise decision, applies the Bradley-Terry
// update, and returns the refreshed posteriors and inconsistency stats.
func (e *Engine) SubmitJudgment(projectID string, dim judgment.Dimension, itemA, itemB string, outcome judgment.Outcome, strength *judgment.GradeLevel) (SubmitResult, error) {
	if itemA == itemB {
		return SubmitResult{}, engineerr.Wrap("submit_judgment", engineerr.ErrInvalidPair, itemA, itemB)
	}

	lock := e.lockFor(projectID, dim)
	lock.Lock()
	defer lock.Unlock()

	items, err := e.items.Items(projectID)
	if err != nil {
		return SubmitResult{}, err
	}
	if !contains(items, itemA) || !contains(items, itemB) {
		return SubmitResult{}, engineerr.Wrap("submit_judgment", engineerr.ErrUnknownItem, itemA, itemB)
	}

	if err := e.checkMode(projectID, dim, strength); err != nil {
		return SubmitResult{}, err
	}

	j := judgment.Judgment{Dimension: dim, ItemA: itemA, ItemB: itemB, Outcome: outcome, Strength: strength}
	recorded, err := e.judgments.Append(projectID, j)
	if err != nil {
		return SubmitResult{}, err
	}

	winnerPost, loserPost, avgSigma, err := e.applyUpdate(projectID, dim, items, recorded)
	if err != nil {
		return SubmitResult{}, err
	}

	stats, err := e.inconsistencyStatsLocked(projectID, dim, items)
	if err != nil {
		return SubmitResult{}, err
	}

	e.log.Info("judgment submitted",
		zap.String("project_id", projectID),
		zap.String("dimension", string(dim)),
		zap.String("judgment_id", recorded.ID),
		zap.Int("cycle_count", stats.CycleCount),
	)

	return SubmitResult{
		JudgmentID: recorded.ID,
		WinnerPost: winnerPost,
		LoserPost:  loserPost,
		AvgSigma:   avgSigma,
		Stats:      stats,
	}, nil
}

// applyUpdate runs one Bradley-Terry step for the judgment just recorded
// and persists the updated posteriors and project aggregate. Ties update
// both items symmetrically (ItemA plays the "A" slot; the result is
// identical regardless of orientation).
func (e *Engine) applyUpdate(projectID string, dim judgment.Dimension, items []string, j judgment.Judgment) (posterior.Posterior, posterior.Posterior, float64, error) {
	pa, err := e.posts.Get(projectID, j.ItemA, string(dim))
	if err != nil {
		return posterior.Posterior{}, posterior.Posterior{}, 0, err
	}
	pb, err := e.posts.Get(projectID, j.ItemB, string(dim))
	if err != nil {
		return posterior.Posterior{}, posterior.Posterior{}, 0, err
	}

	newA, newB := btupdate.StepWithParams(pa, pb, j.Outcome, j.Strength, e.cfg.LogisticScale, e.cfg.VarianceFloor)

	if err := e.posts.Set(projectID, j.ItemA, string(dim), newA); err != nil {
		return posterior.Posterior{}, posterior.Posterior{}, 0, err
	}
	if err := e.posts.Set(projectID, j.ItemB, string(dim), newB); err != nil {
		return posterior.Posterior{}, posterior.Posterior{}, 0, err
	}

	avgSigma, err := e.posts.AvgSigma(projectID, string(dim), items)
	if err != nil {
		return posterior.Posterior{}, posterior.Posterior{}, 0, err
	}

	return newA, newB, avgSigma, nil
}

func (e *Engine) checkMode(projectID string, dim judgment.Dimension, strength *judgment.GradeLevel) error {
	key := contextKey(projectID, dim)
	want := judgment.ModeBinary
	if strength != nil {
		want = judgment.ModeGraded
	}

	e.modesMu.Lock()
	defer e.modesMu.Unlock()

	existing, ok := e.modes[key]
	if !ok {
		// No mode committed by this Engine yet: take it from the live
		// judgment history, so a new Engine over an existing store keeps
		// the mode the first judgment committed.
		js, err := e.judgments.Iterate(projectID, dim)
		if err != nil {
			return err
		}
		if len(js) > 0 {
			existing, ok = judgment.ModeBinary, true
			if js[0].Strength != nil {
				existing = judgment.ModeGraded
			}
		}
	}
	if !ok || existing == judgment.ModeUnset {
		e.modes[key] = want
		return nil
	}
	if existing != want {
		return engineerr.Wrap("submit_judgment", engineerr.ErrModeMismatch, projectID, string(dim))
	}
	return nil
}

func (e *Engine) buildView(projectID string, dim judgment.Dimension, items []string) (*prefgraph.View, []judgment.Judgment, error) {
	js, err := e.judgments.Iterate(projectID, dim)
	if err != nil {
		return nil, nil, err
	}
	return prefgraph.Build(items, js), js, nil
}

func (e *Engine) inconsistencyStatsLocked(projectID string, dim judgment.Dimension, items []string) (cycledetect.Stats, error) {
	view, js, err := e.buildView(projectID, dim, items)
	if err != nil {
		return cycledetect.Stats{}, err
	}
	cycles := cycledetect.DetectAll(view)
	return cycledetect.ComputeStats(js, cycles), nil
}

// NextPair implements next_pair: either a pair to judge, or "complete".
func (e *Engine) NextPair(projectID string, dim judgment.Dimension, targetCertainty *float64) (selector.Result, error) {
	lock := e.lockFor(projectID, dim)
	lock.Lock()
	defer lock.Unlock()

	items, err := e.items.Items(projectID)
	if err != nil {
		return selector.Result{}, err
	}
	if len(items) < 2 {
		return selector.Result{}, engineerr.Wrap("next_pair", engineerr.ErrNotEnoughItems, projectID)
	}

	view, _, err := e.buildView(projectID, dim, items)
	if err != nil {
		return selector.Result{}, err
	}
	closure := prefgraph.BuildClosure(view)
	cycles := cycledetect.DetectAll(view)

	lookup := func(item string) posterior.Posterior {
		p, _ := e.posts.Get(projectID, item, string(dim))
		return p
	}

	return selector.Select(view, closure, cycles, lookup, targetCertainty), nil
}

// UndoLast implements undo_last: soft-deletes the most recently created
// judgment for the dimension and replays posteriors from what remains.
func (e *Engine) UndoLast(projectID string, dim judgment.Dimension) (judgment.Judgment, error) {
	lock := e.lockFor(projectID, dim)
	lock.Lock()
	defer lock.Unlock()

	js, err := e.judgments.Iterate(projectID, dim)
	if err != nil {
		return judgment.Judgment{}, err
	}
	if len(js) == 0 {
		return judgment.Judgment{}, engineerr.Wrap("undo_last", engineerr.ErrEmptyHistory, projectID, string(dim))
	}

	last := js[len(js)-1]
	removed, err := e.judgments.SoftDelete(projectID, last.ID)
	if err != nil {
		return judgment.Judgment{}, err
	}

	if err := e.replayLocked(projectID, dim); err != nil {
		return judgment.Judgment{}, err
	}

	e.log.Info("judgment undone",
		zap.String("project_id", projectID),
		zap.String("dimension", string(dim)),
		zap.String("judgment_id", removed.ID),
	)

	return removed, nil
}

// SoftDelete implements soft_delete: removes one judgment by id and
// replays posteriors for its dimension. The dimension is looked up before
// any mutation so the (project, dimension) lock is held for the entire
// delete-then-replay sequence, the same way UndoLast already locks before
// mutating because it knows its dimension from the call's own parameter.
func (e *Engine) SoftDelete(projectID, judgmentID, actorID string) (judgment.Judgment, error) {
	dim, err := e.judgments.FindDimension(projectID, judgmentID)
	if err != nil {
		return judgment.Judgment{}, err
	}

	lock := e.lockFor(projectID, dim)
	lock.Lock()
	defer lock.Unlock()

	removed, err := e.judgments.SoftDelete(projectID, judgmentID)
	if err != nil {
		return judgment.Judgment{}, err
	}

	if err := e.replayLocked(projectID, dim); err != nil {
		return judgment.Judgment{}, err
	}

	e.log.Info("judgment soft-deleted",
		zap.String("project_id", projectID),
		zap.String("dimension", string(dim)),
		zap.String("judgment_id", removed.ID),
		zap.String("actor_id", actorID),
	)

	return removed, nil
}

// ResetDimension implements reset_dimension: removes every judgment for
// the dimension and resets posteriors to prior.
func (e *Engine) ResetDimension(projectID string, dim judgment.Dimension) (int, error) {
	lock := e.lockFor(projectID, dim)
	lock.Lock()
	defer lock.Unlock()

	n, err := e.judgments.DeleteAll(projectID, dim)
	if err != nil {
		return 0, err
	}

	items, err := e.items.Items(projectID)
	if err != nil {
		return 0, err
	}
	if err := e.posts.Reset(projectID, string(dim), items); err != nil {
		return 0, err
	}

	e.modesMu.Lock()
	delete(e.modes, contextKey(projectID, dim))
	e.modesMu.Unlock()

	e.log.Info("dimension reset",
		zap.String("project_id", projectID),
		zap.String("dimension", string(dim)),
		zap.Int("judgments_removed", n),
	)

	return n, nil
}

// replayLocked re-derives posteriors for dim from the surviving judgment
// history. Caller must already hold lockFor(projectID, dim).
func (e *Engine) replayLocked(projectID string, dim judgment.Dimension) error {
	items, err := e.items.Items(projectID)
	if err != nil {
		return err
	}
	js, err := e.judgments.Iterate(projectID, dim)
	if err != nil {
		return err
	}
	_, err = replay.Run(e.posts, projectID, dim, items, js, e.cfg.LogisticScale, e.cfg.VarianceFloor)
	return err
}

// Progress implements progress.
func (e *Engine) Progress(projectID string, dim judgment.Dimension, targetCertainty float64) (progress.Report, error) {
	lock := e.lockFor(projectID, dim)
	lock.Lock()
	defer lock.Unlock()

	items, err := e.items.Items(projectID)
	if err != nil {
		return progress.Report{}, err
	}
	view, js, err := e.buildView(projectID, dim, items)
	if err != nil {
		return progress.Report{}, err
	}
	closure := prefgraph.BuildClosure(view)
	cycles := cycledetect.DetectAll(view)

	avgSigma, err := e.posts.AvgSigma(projectID, string(dim), items)
	if err != nil {
		return progress.Report{}, err
	}

	uniquePairsCompared := countUniquePairs(js)

	return progress.Compute(
		len(items),
		uniquePairsCompared,
		closure.KnownPairCount(),
		len(cycles),
		closure.UncertainCount(),
		avgSigma,
		targetCertainty,
	), nil
}

// Inconsistencies implements inconsistencies.
func (e *Engine) Inconsistencies(projectID string, dim judgment.Dimension) ([]cycledetect.Cycle, error) {
	lock := e.lockFor(projectID, dim)
	lock.Lock()
	defer lock.Unlock()

	items, err := e.items.Items(projectID)
	if err != nil {
		return nil, err
	}
	view, _, err := e.buildView(projectID, dim, items)
	if err != nil {
		return nil, err
	}
	return cycledetect.DetectAll(view), nil
}

// InconsistencyStats implements inconsistency_stats.
func (e *Engine) InconsistencyStats(projectID string, dim judgment.Dimension) (cycledetect.Stats, error) {
	lock := e.lockFor(projectID, dim)
	lock.Lock()
	defer lock.Unlock()

	items, err := e.items.Items(projectID)
	if err != nil {
		return cycledetect.Stats{}, err
	}
	return e.inconsistencyStatsLocked(projectID, dim, items)
}

// ResolveInconsistency implements resolve_inconsistency: the weakest-link
// pair plus its containing cycle, or ErrNoCycles if the dimension is
// currently consistent.
func (e *Engine) ResolveInconsistency(projectID string, dim judgment.Dimension) (cycledetect.Resolution, error) {
	lock := e.lockFor(projectID, dim)
	lock.Lock()
	defer lock.Unlock()

	items, err := e.items.Items(projectID)
	if err != nil {
		return cycledetect.Resolution{}, err
	}
	view, _, err := e.buildView(projectID, dim, items)
	if err != nil {
		return cycledetect.Resolution{}, err
	}
	cycles := cycledetect.DetectAll(view)

	sigma := func(item string) float64 {
		p, _ := e.posts.Get(projectID, item, string(dim))
		return p.Sigma
	}
	return cycledetect.Resolve(cycles, sigma)
}

// SkipResult is the (deliberately minimal) outcome of SkipPair.
type SkipResult struct {
	Status string
}

// SkipPair records that a caller declined to judge a suggested pair. It
// does not write a judgment, touch posteriors, or influence future
// selection: skip tracking is not implemented, only its acknowledgment.
func (e *Engine) SkipPair(projectID string, dim judgment.Dimension, itemA, itemB string) (SkipResult, error) {
	if itemA == itemB {
		return SkipResult{}, engineerr.Wrap("skip_pair", engineerr.ErrInvalidPair, itemA, itemB)
	}
	return SkipResult{Status: "skipped"}, nil
}

func contains(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}

func countUniquePairs(js []judgment.Judgment) int {
	seen := make(map[[2]string]struct{})
	for _, j := range js {
		if j.Deleted {
			continue
		}
		a, b := j.ItemA, j.ItemB
		if a > b {
			a, b = b, a
		}
		seen[[2]string{a, b}] = struct{}{}
	}
	return len(seen)
}
