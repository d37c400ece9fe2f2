package models

import "time"

// MatchStatus matches the status ENUM in the database.
type MatchStatus string

const (
	MatchInProgress MatchStatus = "inProgress"
	MatchFinished   MatchStatus = "finished"
)

func (s MatchStatus) Valid() bool {
	return s == MatchInProgress || s == MatchFinished
}

// Match references its teams by name, not by id. Both named teams must
// exist under the tournament and share the same branch at creation.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TeamLocal    string      `json:"teamLocal" db:"team_local"`
	TeamVisitor  string      `json:"teamVisitor" db:"team_visitor"`
	ScoreLocal   int         `json:"scoreLocal" db:"score_local"`
	ScoreVisitor int         `json:"scoreVisitor" db:"score_visitor"`
	TeamWinner   string      `json:"teamWinner" db:"team_winner"`
	Date         time.Time   `json:"date" db:"date"`
	Place        string      `json:"place" db:"place"`
	Status       MatchStatus `json:"status" db:"status"`
	TournamentID int         `json:"tournament" db:"tournament_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}
