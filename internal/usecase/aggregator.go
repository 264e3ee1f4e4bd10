// Package usecase contains the business logic of the application.
package usecase

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/pr-reactions/internal/domain"
)

// ErrNoData is returned when a record set has a header but no data rows.
var ErrNoData = errors.New("no data to summarize")

// Aggregator folds canonical records into daily, weekly, per-user and per-emoji buckets.
type Aggregator struct {
	logger *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(logger *log.Logger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// orderedBuckets keeps buckets in first-encounter order.
type orderedBuckets struct {
	index map[string]*domain.Bucket
	order []*domain.Bucket
}

func newOrderedBuckets() *orderedBuckets {
	return &orderedBuckets{index: make(map[string]*domain.Bucket)}
}

func (o *orderedBuckets) add(key string, points int) {
	b, ok := o.index[key]
	if !ok {
		b = domain.NewBucket(key)
		o.index[key] = b
		o.order = append(o.order, b)
	}
	b.Add(points)
}

func (o *orderedBuckets) sortedByKey() []*domain.Bucket {
	out := append([]*domain.Bucket(nil), o.order...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	for _, b := range out {
		b.Finalize()
	}
	return out
}

// Summarize parses canonical record text (header line first) and aggregates every
// well-formed row. Rows with the wrong field count, a non-integer points field or
// an unparseable date are skipped. noParticipation lists pull requests where the
// target author wrote nothing; it may be nil.
func (a *Aggregator) Summarize(records string, noParticipation []domain.PullRequestScope) (*domain.Summary, error) {
	lines := strings.Split(strings.TrimSpace(records), "\n")
	if len(lines) <= 1 {
		return nil, ErrNoData
	}

	daily := newOrderedBuckets()
	weekly := newOrderedBuckets()
	userIndex := make(map[string]*domain.UserBucket)
	var users []*domain.UserBucket
	emojiIndex := make(map[string]*domain.EmojiBucket)
	var emoji []*domain.EmojiBucket
	summary := &domain.Summary{}
	skipped := 0

	for _, line := range lines[1:] {
		fields := strings.Split(strings.TrimSuffix(line, "\r"), ",")
		if len(fields) != 4 {
			skipped++
			continue
		}
		dateStr, user := fields[0], fields[2]
		points, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			skipped++
			continue
		}
		date, err := time.Parse(lenientDateLayout, dateStr)
		if err != nil {
			skipped++
			continue
		}

		daily.add(dateStr, points)
		weekly.add(weekKey(date), points)

		ub, ok := userIndex[user]
		if !ok {
			ub = &domain.UserBucket{Bucket: domain.Bucket{Key: user}, Emoji: make(map[string]int)}
			userIndex[user] = ub
			users = append(users, ub)
		}
		ub.Add(points)

		symbol := domain.SymbolForPoints(points)
		eb, ok := emojiIndex[symbol]
		if !ok {
			eb = &domain.EmojiBucket{Symbol: symbol}
			emojiIndex[symbol] = eb
			emoji = append(emoji, eb)
		}
		eb.Count++
		ub.Emoji[symbol]++

		summary.TotalReactions++
		if points < 0 {
			summary.NegativeReactions++
		}
	}
	if skipped > 0 {
		a.logger.Printf("Skipped %d malformed record(s).\n", skipped)
	}

	summary.Daily = daily.sortedByKey()
	summary.Weekly = weekly.sortedByKey()

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Sum > users[j].Sum
	})
	for _, ub := range users {
		ub.Finalize()
	}
	summary.Users = users

	sort.SliceStable(emoji, func(i, j int) bool {
		return emoji[i].Count > emoji[j].Count
	})
	summary.Emoji = emoji

	if summary.TotalReactions > 0 {
		ratio := float64(summary.NegativeReactions) * 100 / float64(summary.TotalReactions)
		summary.LowQuality = ratio > domain.LowQualityThreshold
		summary.NegativeRatio, _ = stats.Round(ratio, 2)
	}
	summary.NoParticipation = noParticipationReport(noParticipation)
	return summary, nil
}

// lenientDateLayout accepts hand-edited dates without zero padding, e.g. 2025-5-1.
const lenientDateLayout = "2006-1-2"

// weekKey renders the ISO 8601 week of date as YYYY-WW, using the ISO year.
func weekKey(date time.Time) string {
	year, week := date.ISOWeek()
	return fmt.Sprintf("%04d-%02d", year, week)
}

func noParticipationReport(scopes []domain.PullRequestScope) *domain.NoParticipationReport {
	if len(scopes) == 0 {
		return nil
	}
	report := &domain.NoParticipationReport{Total: len(scopes)}
	for i, s := range scopes {
		if i == domain.NoParticipationPreview {
			report.Remaining = len(scopes) - i
			break
		}
		report.First = append(report.First, s.String())
	}
	return report
}
