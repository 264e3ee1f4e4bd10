// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnknownUser is used when a reaction carries no user (e.g. a deleted account).
const UnknownUser = "unknown-user"

// DefaultTargetAuthor is the automation account whose comments are audited by default.
const DefaultTargetAuthor = "github-actions[bot]"

// RecordHeader is the first line of every canonical record set.
const RecordHeader = "date,repository,user,points"

// PointTable maps a GraphQL reaction content enum (e.g. THUMBS_UP) to a signed score.
type PointTable map[string]int

// DefaultPointTable returns a fresh copy of the built-in scores.
func DefaultPointTable() PointTable {
	return PointTable{
		"THUMBS_UP":   3,
		"HOORAY":      2,
		"HEART":       2,
		"ROCKET":      1,
		"LAUGH":       1,
		"CONFUSED":    -1,
		"THUMBS_DOWN": -2,
	}
}

// Points returns the score for a reaction kind. Unknown kinds score 0.
func (t PointTable) Points(kind string) int {
	return t[kind]
}

// LoadPointTable reads a YAML mapping of reaction kind to points, e.g.
//
//	THUMBS_UP: 3
//	EYES: 1
//
// Kinds are upper-cased so that `thumbs_up` and `THUMBS_UP` are equivalent.
func LoadPointTable(path string) (PointTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read point table: %w", err)
	}
	var raw map[string]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse point table %s: %w", path, err)
	}
	table := make(PointTable, len(raw))
	for kind, points := range raw {
		table[strings.ToUpper(strings.TrimSpace(kind))] = points
	}
	return table, nil
}

// Filter selects which commentable units contribute reactions.
type Filter struct {
	TargetAuthor string
	AllUsers     bool
}

// ReactionEvent is one user's reaction to one commentable unit, reduced to points.
type ReactionEvent struct {
	Date       string // YYYY-MM-DD
	Repository Repository
	User       string
	Points     int
}

// Record renders the event as a canonical comma-delimited line.
func (e ReactionEvent) Record() string {
	return strings.Join([]string{e.Date, e.Repository.String(), e.User, strconv.Itoa(e.Points)}, ",")
}
