// Package matchtable reads the parquet match table and answers the selection
// queries of the dashboard: leagues, teams, matches of a team and home/away roles.
package matchtable

import (
	"fmt"
	"os"
	"slices"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var requiredColumns = []string{"matchId", "teamName", "home_away"}

// Table is an immutable, in-memory view of the match table.
type Table struct {
	rows      []Row
	hasLeague bool
}

// New builds a table from rows, mostly useful for tests.
func New(rows []Row, hasLeague bool) *Table {
	return &Table{rows: slices.Clone(rows), hasLeague: hasLeague}
}

// Load reads the parquet file at path. The league column is optional.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open match table %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat match table %s", path)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "read parquet footer of %s", path)
	}

	schema := pf.Schema()
	for _, column := range requiredColumns {
		if _, ok := schema.Lookup(column); !ok {
			return nil, fmt.Errorf("match table %s: missing column %q", path, column)
		}
	}
	_, hasLeague := schema.Lookup("league")

	var rows []Row
	if hasLeague {
		rows, err = parquet.Read[Row](f, info.Size())
		if err != nil {
			return nil, errors.Wrapf(err, "read rows of %s", path)
		}
	} else {
		bare, err := parquet.Read[rowNoLeague](f, info.Size())
		if err != nil {
			return nil, errors.Wrapf(err, "read rows of %s", path)
		}
		rows = make([]Row, len(bare))
		for i, r := range bare {
			rows[i] = Row{MatchID: r.MatchID, TeamName: r.TeamName, HomeAway: r.HomeAway}
		}
	}

	log.Info().
		Str("path", path).
		Int("rows", len(rows)).
		Bool("has_league", hasLeague).
		Msg("match table loaded")

	return &Table{rows: rows, hasLeague: hasLeague}, nil
}

func (t *Table) HasLeague() bool { return t.hasLeague }

func (t *Table) Len() int { return len(t.rows) }

// Rows returns a copy of the table rows.
func (t *Table) Rows() []Row { return slices.Clone(t.rows) }

// Leagues returns the sorted unique leagues, empty when the table has no league column.
func (t *Table) Leagues() []string {
	if !t.hasLeague {
		return nil
	}
	return sortedUnique(t.rows, func(r Row) string { return r.League })
}

// Filter keeps the rows of one league. Without a league column the whole table
// is returned.
func (t *Table) Filter(league string) *Table {
	if !t.hasLeague {
		return t
	}
	out := &Table{hasLeague: true}
	for _, r := range t.rows {
		if r.League == league {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// Teams returns the sorted unique team names.
func (t *Table) Teams() []string {
	return sortedUnique(t.rows, func(r Row) string { return r.TeamName })
}

// MatchIDsForTeam returns the sorted unique match ids the team plays in.
func (t *Table) MatchIDsForTeam(team string) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, r := range t.rows {
		if r.TeamName != team {
			continue
		}
		if _, ok := seen[r.MatchID]; ok {
			continue
		}
		seen[r.MatchID] = struct{}{}
		ids = append(ids, r.MatchID)
	}
	slices.Sort(ids)
	return ids
}

// HomeAwayRoles resolves the home and away team of a match from the h/a
// rows only.
func (t *Table) HomeAwayRoles(matchID int64) (home, away string, ok bool) {
	home, away, ok, _ = t.roles(matchID)
	return home, away, ok
}

// HomeAway resolves the home and away team of a match. When a role is missing
// and the match has exactly two teams they are taken in order of appearance.
func (t *Table) HomeAway(matchID int64) (home, away string, ok bool) {
	home, away, ok, teams := t.roles(matchID)
	if ok {
		return home, away, true
	}
	if len(teams) == 2 {
		return teams[0], teams[1], true
	}
	return "", "", false
}

// roles returns the first home and away rows of a match along with its
// distinct teams in order of appearance.
func (t *Table) roles(matchID int64) (home, away string, both bool, teams []string) {
	var haveHome, haveAway bool
	for _, r := range t.rows {
		if r.MatchID != matchID {
			continue
		}
		switch r.HomeAway {
		case Home:
			if !haveHome {
				home, haveHome = r.TeamName, true
			}
		case Away:
			if !haveAway {
				away, haveAway = r.TeamName, true
			}
		}
		if !slices.Contains(teams, r.TeamName) {
			teams = append(teams, r.TeamName)
		}
	}
	return home, away, haveHome && haveAway, teams
}

// MatchOptions lists the matches of a team as "<home> vs <away>" labels.
// Matches whose teams cannot be resolved are skipped.
func (t *Table) MatchOptions(team string) []MatchOption {
	var options []MatchOption
	for _, id := range t.MatchIDsForTeam(team) {
		home, away, ok := t.HomeAway(id)
		if !ok {
			log.Debug().Int64("match_id", id).Msg("skipping match without home/away pair")
			continue
		}
		options = append(options, MatchOption{Label: home + " vs " + away, MatchID: id})
	}
	return options
}

// ResolveLabel maps a label back to its match id. When labels repeat the last
// option wins.
func ResolveLabel(options []MatchOption, label string) (int64, bool) {
	var (
		id    int64
		found bool
	)
	for _, o := range options {
		if o.Label == label {
			id, found = o.MatchID, true
		}
	}
	return id, found
}

func sortedUnique(rows []Row, key func(Row) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
