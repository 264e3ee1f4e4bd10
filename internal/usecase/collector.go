package usecase

import (
	"context"
	"log"

	"github.com/naka-gawa/pr-reactions/internal/domain"
	"github.com/naka-gawa/pr-reactions/internal/gateway"
)

// CollectRequest describes one collection run.
type CollectRequest struct {
	Repositories []string
	DateRange    domain.DateRange
	Filter       domain.Filter
	Points       domain.PointTable
	// PullRequest, when non-zero, is fetched in every repository instead of searching.
	PullRequest int
}

// Collection is the outcome of a collection run.
type Collection struct {
	Records RecordSet
	// NoParticipation lists pull requests in which the target author authored nothing.
	NoParticipation []domain.PullRequestScope
}

// Collector is the use case for gathering reaction records.
// It walks repositories and pull requests strictly one request at a time.
type Collector struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, logger *log.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Collect fetches every matching pull request and returns the normalized record set.
// Per-request failures surface as empty results from the fetcher and never abort the run.
func (c *Collector) Collect(ctx context.Context, req CollectRequest) Collection {
	c.logger.Println("Usecase: Starting reaction collection...")

	var events []domain.ReactionEvent
	var noParticipation []domain.PullRequestScope

	for _, name := range req.Repositories {
		repo, err := domain.ParseRepository(name)
		if err != nil {
			c.logger.Printf("Skipping repository: %v\n", err)
			continue
		}

		var numbers []int
		if req.PullRequest != 0 {
			numbers = []int{req.PullRequest}
		} else {
			numbers = c.fetcher.ListMatchingPullRequests(ctx, repo, req.DateRange)
		}

		for _, number := range numbers {
			if ctx.Err() != nil {
				c.logger.Printf("Collection interrupted: %v\n", ctx.Err())
				return Collection{Records: Normalize(events), NoParticipation: noParticipation}
			}
			scope := domain.PullRequestScope{Repository: repo, Number: number}
			detail := c.fetcher.FetchPullRequestDetail(ctx, repo, number)
			found, participated := Extract(scope, detail, req.Filter, req.Points)
			c.logger.Printf("  %s: %d reaction(s)\n", scope, len(found))
			events = append(events, found...)
			if !participated {
				noParticipation = append(noParticipation, scope)
			}
		}
	}

	records := Normalize(events)
	c.logger.Printf("Usecase: Collection complete, %d unique record(s).\n", records.Len())
	return Collection{Records: records, NoParticipation: noParticipation}
}
