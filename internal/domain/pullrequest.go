package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRepository is returned when a repository is not in owner/name form.
var ErrInvalidRepository = errors.New("repository must be in owner/name form")

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses "owner/name".
func ParseRepository(s string) (Repository, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repository{}, fmt.Errorf("%q: %w", s, ErrInvalidRepository)
	}
	return Repository{Owner: parts[0], Name: parts[1]}, nil
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// DateLayout is the calendar date format used in records and search queries.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses two YYYY-MM-DD dates.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return DateRange{Start: s, End: e}, nil
}

// SearchQualifier renders the range as a GitHub search qualifier.
func (d DateRange) SearchQualifier() string {
	return fmt.Sprintf("created:%s..%s", d.Start.Format(DateLayout), d.End.Format(DateLayout))
}

// PullRequestScope identifies one pull request; it is the unit of fetch granularity.
type PullRequestScope struct {
	Repository Repository
	Number     int
}

func (s PullRequestScope) String() string {
	return fmt.Sprintf("%s#%d", s.Repository, s.Number)
}

// Reaction is a reaction as returned by the data source.
type Reaction struct {
	Content   string
	CreatedAt time.Time
	User      string // empty when the source had no user
}

// UnitKind distinguishes the commentable units of a pull request.
type UnitKind int

const (
	IssueComment UnitKind = iota
	Review
	ReviewComment
)

// CommentableUnit is an issue comment, a review, or a review comment.
type CommentableUnit struct {
	Kind      UnitKind
	Author    string // empty when the author is unknown
	Body      string
	Reactions []Reaction
	// Comments holds the review comments of a Review.
	Comments []CommentableUnit
}

// PullRequestDetail is the nested comment/review/reaction graph of one pull request.
type PullRequestDetail struct {
	Comments []CommentableUnit
	Reviews  []CommentableUnit
}
