// Package judgment defines the Judgment record, the two-dimension axis the
// engine ranks along, and the append-only Judgment Log boundary interface
// the core consumes.
//
// Judgments are immutable after creation except for the soft-delete flag;
// the core never hard-deletes one. Store implementations are expected to
// guarantee that CreatedAt forms a total order, strictly increasing with
// every Append within a (project, dimension) context — see package engine
// for how that ordering is relied upon during replay.
package judgment

import "time"

// Dimension is one of the two independent axes items are ranked along.
// The set is closed: no third dimension exists, and dimensions share no
// state with one another.
type Dimension string

const (
	Complexity Dimension = "complexity"
	Value      Dimension = "value"
)

// Valid reports whether d is one of the two defined dimensions.
func (d Dimension) Valid() bool {
	return d == Complexity || d == Value
}

// Outcome is the coarse result of a pairwise judgment.
type Outcome string

const (
	AWins Outcome = "A_WINS"
	BWins Outcome = "B_WINS"
	Tie   Outcome = "TIE"
)

// Target returns the Bradley-Terry regression target y for this outcome:
// 1 for an A win, 0 for a B win, 0.5 for a tie.
func (o Outcome) Target() float64 {
	switch o {
	case AWins:
		return 1.0
	case BWins:
		return 0.0
	default:
		return 0.5
	}
}

// GradeLevel refines a binary Outcome into a five-point graded scale. It
// projects surjectively onto Outcome: AMuch/A -> AWins, BMuch/B -> BWins,
// Equal -> Tie.
type GradeLevel string

const (
	AMuch GradeLevel = "A_MUCH"
	A     GradeLevel = "A"
	Equal GradeLevel = "EQUAL"
	B     GradeLevel = "B"
	BMuch GradeLevel = "B_MUCH"
)

// Valid reports whether g is one of the five defined grade levels.
func (g GradeLevel) Valid() bool {
	switch g {
	case AMuch, A, Equal, B, BMuch:
		return true
	}
	return false
}

// Outcome projects the graded level onto its binary Outcome.
func (g GradeLevel) Outcome() Outcome {
	switch g {
	case AMuch, A:
		return AWins
	case BMuch, B:
		return BWins
	default:
		return Tie
	}
}

// Mode fixes whether a project accepts graded (five-point) or binary
// (three-point) judgments for a dimension. A project commits to a mode on
// its first judgment for that dimension; every later judgment must match
// it, or the caller gets ErrModeMismatch.
type Mode int

const (
	// ModeUnset means no judgment has been recorded yet: either mode is
	// still acceptable.
	ModeUnset Mode = iota
	ModeBinary
	ModeGraded
)

// Judgment is one recorded human decision between two items along one
// dimension. It is immutable after creation except for Deleted, which a
// Store flips via SoftDelete.
type Judgment struct {
	ID        string
	Dimension Dimension
	ItemA     string
	ItemB     string
	Outcome   Outcome
	Strength  *GradeLevel // nil in binary mode
	CreatedAt time.Time
	Deleted   bool
}

// WinnerLoser resolves the judgment's outcome to item IDs. ok is false
// for a TIE, which nominates no winner.
func (j Judgment) WinnerLoser() (winner, loser string, ok bool) {
	switch j.Outcome {
	case AWins:
		return j.ItemA, j.ItemB, true
	case BWins:
		return j.ItemB, j.ItemA, true
	default:
		return "", "", false
	}
}

// Store is the append-only Judgment Log boundary the core consumes. The
// core never hard-deletes; SoftDelete is the only removal path.
type Store interface {
	// Append records a new judgment and returns it with ID and CreatedAt
	// populated. CreatedAt must strictly exceed every existing non-deleted
	// judgment's CreatedAt in the same (project, dimension) context.
	Append(projectID string, j Judgment) (Judgment, error)

	// Iterate returns all non-deleted judgments for a dimension in
	// ascending CreatedAt order — the canonical replay order.
	Iterate(projectID string, dim Dimension) ([]Judgment, error)

	// IterateAll returns every judgment for a dimension, including
	// soft-deleted ones, in ascending CreatedAt order. Used for audit.
	IterateAll(projectID string, dim Dimension) ([]Judgment, error)

	// SoftDelete marks a judgment deleted without erasing it. Returns
	// engineerr.ErrEmptyHistory-compatible behavior is the caller's
	// concern (e.g. undo_last); SoftDelete itself just flags the record.
	SoftDelete(projectID, judgmentID string) (Judgment, error)

	// DeleteAll removes (soft-deletes) every non-deleted judgment for a
	// dimension and reports how many were removed.
	DeleteAll(projectID string, dim Dimension) (int, error)

	// FindDimension returns the dimension judgmentID belongs to, without
	// mutating anything. A caller that only has a judgment id (soft_delete)
	// uses this to acquire the right (project, dimension) lock before
	// mutating, the same way undo_last already knows its dimension from the
	// call's own parameter.
	FindDimension(projectID, judgmentID string) (Dimension, error)
}
