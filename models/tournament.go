package models

import (
	"regexp"
	"strconv"
	"time"
)

// TournamentStatus represents the lifecycle of a tournament.
type TournamentStatus string

const (
	StatusOpen       TournamentStatus = "open"
	StatusClosed     TournamentStatus = "closed"
	StatusInProgress TournamentStatus = "in_progress"
	StatusCompleted  TournamentStatus = "completed"
	StatusCanceled   TournamentStatus = "canceled"
)

type BracketType string

const (
	BracketSingleElim BracketType = "single_elim"
	BracketDoubleElim BracketType = "double_elim"
)

func (t BracketType) Valid() bool {
	return t == BracketSingleElim || t == BracketDoubleElim
}

// Tournament holds the fixed description of a tournament. Format is "NvN"
// ("1v1", "2v2", "custom: 4v4"); N fixes team capacity.
type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Format      string           `json:"format" db:"format"`
	BracketType BracketType      `json:"bracket_type" db:"bracket_type"`
	Status      TournamentStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

var formatPattern = regexp.MustCompile(`(?i)(\d+)v\d+`)

// ParseFormatCapacity returns the number of players per side for a format
// string, or 0 when the format is not recognised.
func ParseFormatCapacity(format string) int {
	m := formatPattern.FindStringSubmatch(format)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func (t Tournament) Capacity() int {
	return ParseFormatCapacity(t.Format)
}

// IsTeamFormat reports whether the bracket runs over teams rather than entrants.
func (t Tournament) IsTeamFormat() bool {
	return t.Capacity() > 1
}
