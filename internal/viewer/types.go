package viewer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tensorplex-labs/momentum/internal/matchtable"
	"github.com/tensorplex-labs/momentum/internal/momentumstore"
)

var (
	ErrNotLoaded    = errors.New("datasets not loaded")
	ErrInvalidSigma = errors.New("invalid smoothing sigma")
	ErrNoMatches    = errors.New("no matches found for this team")
	ErrUnknownMatch = errors.New("unknown match")
)

const (
	// NoLeagueNotice is shown when the match table has no league column.
	NoLeagueNotice   = "League column not found in the match table: using all matches."
	NoMatchesMessage = "No matches found for this team."
)

// Datasets is one memoized generation of the two static files.
type Datasets struct {
	Table    *matchtable.Table
	Store    momentumstore.Reader
	Version  uint64
	LoadedAt time.Time
}

// Event is a goal at a minute, credited to a team label.
type Event struct {
	Minute float64 `json:"minute"`
	Team   string  `json:"team"`
}

// Shot is a shot at a minute; OnTarget distinguishes the marker.
type Shot struct {
	Minute   float64 `json:"minute"`
	Team     string  `json:"team"`
	OnTarget bool    `json:"on_target"`
}

// MatchData is a match ready to be drawn: smoothed series, events and the
// home/away labels.
type MatchData struct {
	MatchID    int64     `json:"match_id"`
	Minutes    []float64 `json:"minutes"`
	DiffSmooth []float64 `json:"diff_smooth"`
	Goals      []Event   `json:"goals"`
	Shots      []Shot    `json:"shots"`
	Home       string    `json:"home"`
	Away       string    `json:"away"`
	Sigma      int       `json:"sigma"`
	Version    uint64    `json:"version"`
}

// Title is the heading shown above the chart.
func (m *MatchData) Title() string {
	return m.Home + " vs " + m.Away + " — Match Momentum (RCI)"
}

// Selection is what the user picked, as submitted. Empty fields take defaults.
type Selection struct {
	League string
	Team   string
	Match  string
	Sigma  int
}

// Resolved is a selection completed the way cascading select widgets behave:
// each level falls back to its first option when the submitted value is not
// among the options of the level above.
type Resolved struct {
	HasLeague  bool                     `json:"has_league"`
	Leagues    []string                 `json:"leagues"`
	League     string                   `json:"league"`
	Teams      []string                 `json:"teams"`
	Team       string                   `json:"team"`
	Options    []matchtable.MatchOption `json:"options"`
	MatchLabel string                   `json:"match_label"`
	MatchID    int64                    `json:"match_id"`
	Sigma      int                      `json:"sigma"`
	SigmaMin   int                      `json:"sigma_min"`
	SigmaMax   int                      `json:"sigma_max"`
	Notice     string                   `json:"notice,omitempty"`
}
