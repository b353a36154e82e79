// Package momentumstore describes the per-match momentum series of the HDF5
// momentum store and decodes its raw datasets. The cgo reader lives in h5.
//
// Every match is a group named after its decimal match id holding the minute
// series, the stored difference series, goal and shot events and the two raw
// team-name attributes.
package momentumstore

import "github.com/pkg/errors"

// Dataset and attribute names of a match group.
const (
	DatasetMinutes       = "minutes"
	DatasetDiff          = "diff"
	DatasetGoalsMinutes  = "goals_minutes"
	DatasetGoalsTeam     = "goals_team"
	DatasetShotsMinutes  = "shots_minutes"
	DatasetShotsTeam     = "shots_team"
	DatasetShotsOnTarget = "shots_on_target"

	AttrTeamA = "teamA"
	AttrTeamB = "teamB"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrUnsupportedEncoding = errors.New("unsupported dataset encoding")
	ErrLengthMismatch      = errors.New("dataset length mismatch")
	ErrNoReader            = errors.New("no momentum store reader configured")
)

// RawMatch is a match group as stored, before smoothing and relabelling.
type RawMatch struct {
	MatchID       string
	Minutes       []float64
	Diff          []float64
	GoalsMinutes  []float64
	GoalsTeam     []string
	ShotsMinutes  []float64
	ShotsTeam     []string
	ShotsOnTarget []int
	TeamA         string
	TeamB         string
}

// Validate checks that paired arrays line up.
func (m *RawMatch) Validate() error {
	if len(m.Minutes) != len(m.Diff) {
		return errors.Wrapf(ErrLengthMismatch, "match %s: %d minutes vs %d diff values", m.MatchID, len(m.Minutes), len(m.Diff))
	}
	if len(m.GoalsMinutes) != len(m.GoalsTeam) {
		return errors.Wrapf(ErrLengthMismatch, "match %s: %d goal minutes vs %d goal teams", m.MatchID, len(m.GoalsMinutes), len(m.GoalsTeam))
	}
	if len(m.ShotsMinutes) != len(m.ShotsTeam) || len(m.ShotsMinutes) != len(m.ShotsOnTarget) {
		return errors.Wrapf(ErrLengthMismatch, "match %s: shots arrays of lengths %d/%d/%d",
			m.MatchID, len(m.ShotsMinutes), len(m.ShotsTeam), len(m.ShotsOnTarget))
	}
	return nil
}

// Reader is the read side of a momentum store.
type Reader interface {
	Has(matchID string) bool
	MatchIDs() []string
	Read(matchID string) (*RawMatch, error)
	Close() error
}
