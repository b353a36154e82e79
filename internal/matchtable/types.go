package matchtable

const (
	Home = "h"
	Away = "a"
)

// Row is one (match, team) line of the match table.
type Row struct {
	MatchID  int64  `parquet:"matchId" json:"match_id"`
	TeamName string `parquet:"teamName,optional" json:"team_name"`
	HomeAway string `parquet:"home_away,optional" json:"home_away"`
	League   string `parquet:"league,optional" json:"league,omitempty"`
}

// rowNoLeague is the on-disk shape of tables written without a league column.
type rowNoLeague struct {
	MatchID  int64  `parquet:"matchId"`
	TeamName string `parquet:"teamName,optional"`
	HomeAway string `parquet:"home_away,optional"`
}

// MatchOption is a selectable match, labelled "<home> vs <away>".
type MatchOption struct {
	Label   string `json:"label"`
	MatchID int64  `json:"match_id"`
}
