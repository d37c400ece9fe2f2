package models

import "time"

// Tournament is the root of the hierarchy. TeamIDs and MatchIDs are the
// authoritative membership lists; the lifecycle services keep them
// consistent with the children's tournament references.
type Tournament struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"tournamentName" db:"name"`
	DateStart time.Time `json:"dateStart" db:"date_start"`
	DateEnd   time.Time `json:"dateEnd" db:"date_end"`
	AdminID   int       `json:"admin" db:"admin_id"`
	TeamIDs   []int64   `json:"teams" db:"team_ids"`
	MatchIDs  []int64   `json:"matches" db:"match_ids"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Populated on demand, never scanned directly.
	Teams []Team `json:"teamDetails,omitempty" db:"-"`
}
