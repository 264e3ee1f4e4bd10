package usecase

import (
	"github.com/naka-gawa/pr-reactions/internal/domain"
	"github.com/naka-gawa/pr-reactions/internal/optional"
)

// Extract walks one pull request's comment graph and converts the reactions on
// selected units into events. A unit is selected when filter.AllUsers is set or
// its author is the target author; reviews additionally need a non-empty body.
// The returned flag reports whether the target author authored any unit at all.
func Extract(scope domain.PullRequestScope, detail optional.Option[*domain.PullRequestDetail], filter domain.Filter, points domain.PointTable) ([]domain.ReactionEvent, bool) {
	if !detail.Has() {
		return nil, false
	}
	pr := detail.Value()
	if pr == nil {
		return nil, false
	}

	var events []domain.ReactionEvent
	participated := false
	visit := func(unit domain.CommentableUnit) {
		participates := unit.Author != "" && unit.Author == filter.TargetAuthor
		participated = participated || participates
		if !filter.AllUsers && !participates {
			return
		}
		if unit.Kind == domain.Review && unit.Body == "" {
			return
		}
		for _, r := range unit.Reactions {
			events = append(events, toEvent(scope.Repository, r, points))
		}
	}

	for _, c := range pr.Comments {
		visit(c)
	}
	for _, review := range pr.Reviews {
		visit(review)
		for _, rc := range review.Comments {
			visit(rc)
		}
	}
	return events, participated
}

func toEvent(repo domain.Repository, r domain.Reaction, points domain.PointTable) domain.ReactionEvent {
	user := r.User
	if user == "" {
		user = domain.UnknownUser
	}
	return domain.ReactionEvent{
		Date:       r.CreatedAt.UTC().Format(domain.DateLayout),
		Repository: repo,
		User:       user,
		Points:     points.Points(r.Content),
	}
}
