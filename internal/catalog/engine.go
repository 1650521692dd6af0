package catalog

import (
	"time"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/logging"
	"github.com/mrlokans/bookreviews/internal/metrics"
	"github.com/mrlokans/bookreviews/internal/recommend"
	"github.com/mrlokans/bookreviews/internal/store"
)

const (
	TriggerUserWrite  = "user_write"
	TriggerUserDelete = "user_delete"
	TriggerBookWrite  = "book_write"
	TriggerBookDelete = "book_delete"
)

// CascadeResult summarizes what a cascade changed.
type CascadeResult struct {
	Trigger string
	// Propagated counts reviews whose snapshot was overwritten.
	Propagated int
	// ReviewsRemoved counts reviews dropped by a delete.
	ReviewsRemoved int
	// Pruned counts recommendations dropped before regeneration.
	Pruned int
	// Generated counts recommendations appended by the generator.
	Generated int
	// Total is the size of the recommendation collection afterwards.
	Total int
}

// Engine keeps reviews and recommendations consistent with users and books.
//
// Every cascade rebuilds the recommendation collection: surviving entries
// keep their relative key order, new entries follow in generator scan order,
// and the whole set is renumbered from "001". Recommendation ids are
// therefore only valid until the next user or book mutation.
//
// Engine does no locking; callers must hold exclusive access to Collections.
type Engine struct {
	c *Collections
}

func NewEngine(c *Collections) *Engine {
	return &Engine{c: c}
}

// OnBookWrite runs after book has been inserted or replaced in the book store.
func (e *Engine) OnBookWrite(book entities.Book) CascadeResult {
	start := time.Now()
	res := CascadeResult{Trigger: TriggerBookWrite}

	e.c.Reviews.Update(func(r entities.Review) entities.Review {
		if r.Book.ID == book.ID {
			r.Book = book
			res.Propagated++
		}
		return r
	})

	kept := e.c.Recommendations.FilterByForeignKey(store.ByBook[entities.Recommendation], store.Equals(book.ID))
	res.Pruned = e.c.Recommendations.Len() - kept.Len()

	fresh := recommend.ForBook(book, e.c.Users.All())
	res.Generated = len(fresh)

	e.rebuild(kept, fresh)
	return e.finish(res, book.ID, start)
}

// OnBookDelete removes the book together with every review and
// recommendation embedding it. Nothing is generated.
func (e *Engine) OnBookDelete(id string) (CascadeResult, error) {
	start := time.Now()
	res := CascadeResult{Trigger: TriggerBookDelete}

	if err := e.c.Books.Delete(id); err != nil {
		return res, notFound(KindBook, id)
	}

	reviews := e.c.Reviews.FilterByForeignKey(store.ByBook[entities.Review], store.Equals(id))
	res.ReviewsRemoved = e.c.Reviews.Len() - reviews.Len()
	e.c.Reviews = reviews

	kept := e.c.Recommendations.FilterByForeignKey(store.ByBook[entities.Recommendation], store.Equals(id))
	res.Pruned = e.c.Recommendations.Len() - kept.Len()

	e.rebuild(kept, nil)
	return e.finish(res, id, start), nil
}

// OnUserWrite runs after user has been inserted or replaced in the user store.
func (e *Engine) OnUserWrite(user entities.User) CascadeResult {
	start := time.Now()
	res := CascadeResult{Trigger: TriggerUserWrite}

	e.c.Reviews.Update(func(r entities.Review) entities.Review {
		if r.User.ID == user.ID {
			r.User = user.Clone()
			res.Propagated++
		}
		return r
	})

	kept := e.c.Recommendations.FilterByForeignKey(store.ByUser[entities.Recommendation], store.Equals(user.ID))
	res.Pruned = e.c.Recommendations.Len() - kept.Len()

	fresh := recommend.ForUser(user, e.c.Books.All())
	res.Generated = len(fresh)

	e.rebuild(kept, fresh)
	return e.finish(res, user.ID, start)
}

// OnUserDelete removes the user together with every review and
// recommendation embedding it. Nothing is generated.
func (e *Engine) OnUserDelete(id string) (CascadeResult, error) {
	start := time.Now()
	res := CascadeResult{Trigger: TriggerUserDelete}

	if err := e.c.Users.Delete(id); err != nil {
		return res, notFound(KindUser, id)
	}

	reviews := e.c.Reviews.FilterByForeignKey(store.ByUser[entities.Review], store.Equals(id))
	res.ReviewsRemoved = e.c.Reviews.Len() - reviews.Len()
	e.c.Reviews = reviews

	kept := e.c.Recommendations.FilterByForeignKey(store.ByUser[entities.Recommendation], store.Equals(id))
	res.Pruned = e.c.Recommendations.Len() - kept.Len()

	e.rebuild(kept, nil)
	return e.finish(res, id, start), nil
}

// rebuild renumbers kept ++ fresh and installs the result.
func (e *Engine) rebuild(kept *store.Store[entities.Recommendation], fresh []entities.Recommendation) {
	ordered := append(kept.Values(), fresh...)
	e.c.Recommendations = recommend.Reindex(ordered)
}

func (e *Engine) finish(res CascadeResult, id string, start time.Time) CascadeResult {
	res.Total = e.c.Recommendations.Len()
	elapsed := time.Since(start)

	metrics.RecordCascade(res.Trigger, res.Pruned, res.Generated, elapsed)
	metrics.RecordPropagation(res.Propagated)

	logging.Debug().
		Str("trigger", res.Trigger).
		Str("id", id).
		Int("propagated", res.Propagated).
		Int("reviews_removed", res.ReviewsRemoved).
		Int("pruned", res.Pruned).
		Int("generated", res.Generated).
		Int("recommendations", res.Total).
		Dur("elapsed", elapsed).
		Msg("cascade complete")

	return res
}
