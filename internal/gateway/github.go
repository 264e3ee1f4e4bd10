// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/pr-reactions/internal/domain"
	"github.com/naka-gawa/pr-reactions/internal/optional"
)

// DefaultPageLimit is how many comments, reviews, review comments and reactions
// are requested per container. Pull requests beyond it are silently undercounted.
const DefaultPageLimit = 30

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
// Failures are logged and reported as "no data" rather than returned.
type Fetcher interface {
	ListMatchingPullRequests(ctx context.Context, repo domain.Repository, dateRange domain.DateRange) []int
	FetchPullRequestDetail(ctx context.Context, repo domain.Repository, number int) optional.Option[*domain.PullRequestDetail]
}

// Options configures a GitHubGateway.
type Options struct {
	Token string
	// PageLimit bounds every nested GraphQL collection. Zero means DefaultPageLimit.
	PageLimit int
	// WaitRateLimit sleeps through GitHub secondary rate limits instead of failing.
	WaitRateLimit bool
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	pageLimit     int
	logger        *log.Logger
}

type actor struct {
	Login string
}

type reactionConnection struct {
	Nodes []struct {
		Content   githubv4.ReactionContent
		CreatedAt githubv4.DateTime
		User      *actor
	}
}

// pullRequestDetailQuery fetches comments, reviews, review comments and their reactions in one round trip.
type pullRequestDetailQuery struct {
	Repository struct {
		PullRequest *struct {
			Comments struct {
				Nodes []struct {
					Author    *actor
					Reactions reactionConnection `graphql:"reactions(first: $limit)"`
				}
			} `graphql:"comments(first: $limit)"`
			Reviews struct {
				Nodes []struct {
					Author    *actor
					Body      string
					Reactions reactionConnection `graphql:"reactions(first: $limit)"`
					Comments  struct {
						Nodes []struct {
							Author    *actor
							Reactions reactionConnection `graphql:"reactions(first: $limit)"`
						}
					} `graphql:"comments(first: $limit)"`
				}
			} `graphql:"reviews(first: $limit)"`
		} `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *log.Logger) (*GitHubGateway, error) {
	var base http.RoundTripper = http.DefaultTransport
	if opts.WaitRateLimit {
		rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		base = rateLimitWaiter
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   base,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		pageLimit:     normalizePageLimit(opts.PageLimit),
		logger:        logger,
	}, nil
}

func normalizePageLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	// GitHub rejects first: values above 100.
	if limit > 100 {
		return 100
	}
	return limit
}

// ListMatchingPullRequests returns the numbers of pull requests created within dateRange.
// On failure of any page it logs and returns no pull requests.
func (g *GitHubGateway) ListMatchingPullRequests(ctx context.Context, repo domain.Repository, dateRange domain.DateRange) []int {
	query := fmt.Sprintf("repo:%s is:pr %s", repo, dateRange.SearchQualifier())
	g.logger.Printf("Searching pull requests: %s\n", query)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var numbers []int
	for {
		result, resp, err := g.restClient.Search.Issues(ctx, query, opts)
		if err != nil {
			g.logger.Printf("failed to search pull requests in %s: %v\n", repo, err)
			return nil
		}
		for _, issue := range result.Issues {
			numbers = append(numbers, issue.GetNumber())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of pull requests...")
	}
	g.logger.Printf("Found %d pull requests in %s\n", len(numbers), repo)
	return numbers
}

// FetchPullRequestDetail fetches the comment/review/reaction graph of one pull request.
// It returns None when the request fails or the pull request does not exist.
func (g *GitHubGateway) FetchPullRequestDetail(ctx context.Context, repo domain.Repository, number int) optional.Option[*domain.PullRequestDetail] {
	variables := map[string]interface{}{
		"owner":  githubv4.String(repo.Owner),
		"name":   githubv4.String(repo.Name),
		"number": githubv4.Int(number),
		"limit":  githubv4.Int(g.pageLimit),
	}
	var q pullRequestDetailQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		g.logger.Printf("failed to fetch %s#%d: %v\n", repo, number, err)
		return optional.None[*domain.PullRequestDetail]()
	}
	pr := q.Repository.PullRequest
	if pr == nil {
		g.logger.Printf("pull request %s#%d not found\n", repo, number)
		return optional.None[*domain.PullRequestDetail]()
	}

	detail := &domain.PullRequestDetail{}
	for _, c := range pr.Comments.Nodes {
		detail.Comments = append(detail.Comments, domain.CommentableUnit{
			Kind:      domain.IssueComment,
			Author:    c.Author.login(),
			Reactions: c.Reactions.toDomain(),
		})
	}
	for _, r := range pr.Reviews.Nodes {
		review := domain.CommentableUnit{
			Kind:      domain.Review,
			Author:    r.Author.login(),
			Body:      r.Body,
			Reactions: r.Reactions.toDomain(),
		}
		for _, rc := range r.Comments.Nodes {
			review.Comments = append(review.Comments, domain.CommentableUnit{
				Kind:      domain.ReviewComment,
				Author:    rc.Author.login(),
				Reactions: rc.Reactions.toDomain(),
			})
		}
		detail.Reviews = append(detail.Reviews, review)
	}
	return optional.Some(detail)
}

func (a *actor) login() string {
	if a == nil {
		return ""
	}
	return a.Login
}

func (rc reactionConnection) toDomain() []domain.Reaction {
	reactions := make([]domain.Reaction, 0, len(rc.Nodes))
	for _, n := range rc.Nodes {
		reactions = append(reactions, domain.Reaction{
			Content:   string(n.Content),
			CreatedAt: n.CreatedAt.Time,
			User:      n.User.login(),
		})
	}
	return reactions
}
