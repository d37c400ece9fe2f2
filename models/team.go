package models

import "time"

// Team belongs to exactly one tournament. (Name, TournamentID, Branch)
// is unique; the composite index in the database is the source of
// truth, service pre-checks only produce friendlier errors.
type Team struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"nameTeam" db:"name"`
	Coach        string    `json:"nameCoach" db:"coach"`
	Branch       string    `json:"branchTeam" db:"branch"`
	TournamentID int       `json:"tournament" db:"tournament_id"`
	PlayerIDs    []int64   `json:"players" db:"player_ids"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Players []Player `json:"playerDetails,omitempty" db:"-"`
}
