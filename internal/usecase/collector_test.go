package usecase

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/pr-reactions/internal/domain"
	"github.com/naka-gawa/pr-reactions/internal/optional"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ListMatchingPullRequests(ctx context.Context, repo domain.Repository, dateRange domain.DateRange) []int {
	args := m.Called(ctx, repo, dateRange)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]int)
}

func (m *mockFetcher) FetchPullRequestDetail(ctx context.Context, repo domain.Repository, number int) optional.Option[*domain.PullRequestDetail] {
	args := m.Called(ctx, repo, number)
	return args.Get(0).(optional.Option[*domain.PullRequestDetail])
}

func botComment(reactions ...domain.Reaction) domain.CommentableUnit {
	return domain.CommentableUnit{Kind: domain.IssueComment, Author: bot, Reactions: reactions}
}

func TestCollector_Collect(t *testing.T) {
	repoCD := domain.Repository{Owner: "c", Name: "d"}
	dateRange := domain.DateRange{
		Start: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 26, 0, 0, 0, 0, time.UTC),
	}
	shared := reaction("THUMBS_UP", "alice", 1)

	fetcher := new(mockFetcher)
	fetcher.On("ListMatchingPullRequests", mock.Anything, repoAB, dateRange).Return([]int{1, 2, 3})
	fetcher.On("ListMatchingPullRequests", mock.Anything, repoCD, dateRange).Return(nil)
	// The same reaction reached twice through different units is deduplicated.
	fetcher.On("FetchPullRequestDetail", mock.Anything, repoAB, 1).Return(optional.Some(&domain.PullRequestDetail{
		Comments: []domain.CommentableUnit{botComment(shared), botComment(shared)},
	}))
	fetcher.On("FetchPullRequestDetail", mock.Anything, repoAB, 2).Return(optional.None[*domain.PullRequestDetail]())
	fetcher.On("FetchPullRequestDetail", mock.Anything, repoAB, 3).Return(optional.Some(&domain.PullRequestDetail{
		Comments: []domain.CommentableUnit{
			{Kind: domain.IssueComment, Author: "human", Reactions: []domain.Reaction{reaction("CONFUSED", "bob", 2)}},
		},
	}))

	collector := NewCollector(fetcher, log.New(io.Discard, "", 0))
	collection := collector.Collect(context.Background(), CollectRequest{
		Repositories: []string{"a/b", "not-a-repo", "c/d"},
		DateRange:    dateRange,
		Filter:       domain.Filter{TargetAuthor: bot, AllUsers: true},
		Points:       domain.DefaultPointTable(),
	})

	assert.Equal(t, []string{
		"2025-05-01,a/b,alice,3",
		"2025-05-02,a/b,bob,-1",
	}, collection.Records.Lines())
	assert.Equal(t, []domain.PullRequestScope{
		{Repository: repoAB, Number: 2},
		{Repository: repoAB, Number: 3},
	}, collection.NoParticipation)
	fetcher.AssertExpectations(t)
}

func TestCollector_Collect_PullRequestOverride(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchPullRequestDetail", mock.Anything, repoAB, 252255).Return(optional.Some(&domain.PullRequestDetail{
		Comments: []domain.CommentableUnit{botComment(reaction("HOORAY", "alice", 5))},
	}))

	collector := NewCollector(fetcher, log.New(io.Discard, "", 0))
	collection := collector.Collect(context.Background(), CollectRequest{
		Repositories: []string{"a/b"},
		Filter:       domain.Filter{TargetAuthor: bot},
		Points:       domain.DefaultPointTable(),
		PullRequest:  252255,
	})

	assert.Equal(t, []string{"2025-05-05,a/b,alice,2"}, collection.Records.Lines())
	assert.Empty(t, collection.NoParticipation)
	fetcher.AssertNotCalled(t, "ListMatchingPullRequests", mock.Anything, mock.Anything, mock.Anything)
	fetcher.AssertExpectations(t)
}

func TestCollector_Collect_Cancelled(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("ListMatchingPullRequests", mock.Anything, repoAB, mock.Anything).Return([]int{1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collector := NewCollector(fetcher, log.New(io.Discard, "", 0))
	collection := collector.Collect(ctx, CollectRequest{
		Repositories: []string{"a/b"},
		Filter:       domain.Filter{TargetAuthor: bot},
		Points:       domain.DefaultPointTable(),
	})

	assert.Zero(t, collection.Records.Len())
	fetcher.AssertNotCalled(t, "FetchPullRequestDetail", mock.Anything, mock.Anything, mock.Anything)
}
