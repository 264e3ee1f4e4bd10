package domain

import (
	"github.com/montanaflynn/stats"
)

// LowQualityThreshold is the negative-reaction percentage above which a summary is flagged.
const LowQualityThreshold = 20.0

// NoParticipationPreview is how many pull requests without target activity are listed.
const NoParticipationPreview = 10

// FallbackSymbol is shown for point values with no representative symbol.
const FallbackSymbol = "❓"

// pointSymbols maps a point value back to one representative reaction.
// Several kinds share a value (HEART and HOORAY are both 2), so the mapping is lossy.
var pointSymbols = map[int]string{
	3:  "👍",
	2:  "❤️",
	1:  "🚀",
	0:  "👀",
	-1: "🤔",
	-2: "👎",
}

// SymbolForPoints returns the display symbol for a point value.
func SymbolForPoints(points int) string {
	if s, ok := pointSymbols[points]; ok {
		return s
	}
	return FallbackSymbol
}

// Bucket aggregates reactions under one key (a date, an ISO week or a user).
type Bucket struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Sum     int     `json:"sum"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`

	values stats.Float64Data
}

// NewBucket creates an empty bucket.
func NewBucket(key string) *Bucket {
	return &Bucket{Key: key}
}

// Add folds one reaction's points into the bucket.
func (b *Bucket) Add(points int) {
	b.Count++
	b.Sum += points
	b.values = append(b.values, float64(points))
}

// Finalize computes the derived average and median. A bucket with no values keeps zeros.
func (b *Bucket) Finalize() {
	if b.Count == 0 {
		return
	}
	// stats only fails on empty input, which is excluded above.
	b.Average, _ = stats.Mean(b.values)
	b.Median, _ = stats.Median(b.values)
}

// UserBucket is a per-user bucket that also counts reactions by symbol.
type UserBucket struct {
	Bucket
	Emoji map[string]int `json:"emoji"`
}

// EmojiBucket counts reactions reduced to one display symbol.
type EmojiBucket struct {
	Symbol string `json:"symbol"`
	Count  int    `json:"count"`
}

// NoParticipationReport lists pull requests where the target author never commented.
type NoParticipationReport struct {
	Total     int      `json:"total"`
	First     []string `json:"first"`
	Remaining int      `json:"remaining"`
}

// Summary is the result of aggregating a record set.
type Summary struct {
	Daily             []*Bucket              `json:"daily"`
	Weekly            []*Bucket              `json:"weekly"`
	Users             []*UserBucket          `json:"users"`
	Emoji             []*EmojiBucket         `json:"emoji"`
	TotalReactions    int                    `json:"total_reactions"`
	NegativeReactions int                    `json:"negative_reactions"`
	NegativeRatio     float64                `json:"negative_ratio_percent"`
	LowQuality        bool                   `json:"low_quality"`
	NoParticipation   *NoParticipationReport `json:"no_participation,omitempty"`
}
