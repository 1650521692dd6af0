// Package catalog owns the users, books, reviews and recommendations held in
// memory and keeps them referentially consistent.
//
// # Concurrency
//
// Service holds a single RWMutex. Every mutation, together with the cascade
// it triggers, runs under the write lock, so cascades never interleave.
// Reads take the read lock for their whole duration and never observe a
// collection mid-cascade.
//
// # Usage
//
//	svc := catalog.NewService(catalog.CollectionsFromSnapshot(data))
//	user, err := svc.CreateUser(entities.User{ID: "u1", Preferences: []string{"Fantasy"}})
//	recs := svc.ListRecommendations(catalog.Query{})
package catalog

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/metrics"
	"github.com/mrlokans/bookreviews/internal/snapshot"
)

type Service struct {
	mu       sync.RWMutex
	c        *Collections
	engine   *Engine
	validate *validator.Validate
}

func NewService(c *Collections) *Service {
	if c == nil {
		c = NewCollections()
	}
	s := &Service{
		c:        c,
		engine:   NewEngine(c),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.observeSizes()
	return s
}

// ReviewInput creates a review from existing user and book ids.
type ReviewInput struct {
	ID      string `validate:"required"`
	UserID  string `validate:"required"`
	BookID  string `validate:"required"`
	Rating  int
	Comment string
}

// ReviewPatch updates only the fields that are set. Unknown user or book ids
// are ignored rather than rejected.
type ReviewPatch struct {
	UserID  *string
	BookID  *string
	Rating  *int
	Comment *string
}

// RecommendationInput inserts a recommendation directly.
type RecommendationInput struct {
	ID     string `validate:"required"`
	UserID string `validate:"required"`
	BookID string `validate:"required"`
}

// RecommendationPatch updates only the snapshots whose ids are set and known.
type RecommendationPatch struct {
	UserID *string
	BookID *string
}

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return nil
}

func (s *Service) observeSizes() {
	n := s.c.Counts()
	metrics.SetCollectionSizes(n.Users, n.Books, n.Reviews, n.Recommendations)
}

// --- Users ---

// CreateUser inserts or replaces the user and cascades.
func (s *Service) CreateUser(user entities.User) (entities.User, CascadeResult, error) {
	if err := s.check(user); err != nil {
		return entities.User{}, CascadeResult{}, err
	}
	user = user.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.c.Users.Put(user.ID, user)
	res := s.engine.OnUserWrite(user)
	s.observeSizes()
	return user.Clone(), res, nil
}

// UpdateUser replaces every mutable field of an existing user and cascades.
func (s *Service) UpdateUser(id string, user entities.User) (entities.User, CascadeResult, error) {
	user.ID = id
	if err := s.check(user); err != nil {
		return entities.User{}, CascadeResult{}, err
	}
	user = user.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.c.Users.Has(id) {
		return entities.User{}, CascadeResult{}, notFound(KindUser, id)
	}
	s.c.Users.Put(id, user)
	res := s.engine.OnUserWrite(user)
	s.observeSizes()
	return user.Clone(), res, nil
}

// DeleteUser removes the user and everything embedding it.
func (s *Service) DeleteUser(id string) (CascadeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.OnUserDelete(id)
	if err != nil {
		return res, err
	}
	s.observeSizes()
	return res, nil
}

func (s *Service) GetUser(id string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, err := s.c.Users.Get(id)
	if err != nil {
		return entities.User{}, notFound(KindUser, id)
	}
	return u.Clone(), nil
}

func (s *Service) ListUsers(q Query) []entities.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return applyQuery(cloneAll(s.c.Users.Values(), entities.User.Clone), q, userRules)
}

// --- Books ---

// CreateBook inserts or replaces the book and cascades.
func (s *Service) CreateBook(book entities.Book) (entities.Book, CascadeResult, error) {
	if err := s.check(book); err != nil {
		return entities.Book{}, CascadeResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.c.Books.Put(book.ID, book)
	res := s.engine.OnBookWrite(book)
	s.observeSizes()
	return book, res, nil
}

// UpdateBook replaces every mutable field of an existing book and cascades.
func (s *Service) UpdateBook(id string, book entities.Book) (entities.Book, CascadeResult, error) {
	book.ID = id
	if err := s.check(book); err != nil {
		return entities.Book{}, CascadeResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.c.Books.Has(id) {
		return entities.Book{}, CascadeResult{}, notFound(KindBook, id)
	}
	s.c.Books.Put(id, book)
	res := s.engine.OnBookWrite(book)
	s.observeSizes()
	return book, res, nil
}

// DeleteBook removes the book and everything embedding it.
func (s *Service) DeleteBook(id string) (CascadeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.OnBookDelete(id)
	if err != nil {
		return res, err
	}
	s.observeSizes()
	return res, nil
}

func (s *Service) GetBook(id string) (entities.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.c.Books.Get(id)
	if err != nil {
		return entities.Book{}, notFound(KindBook, id)
	}
	return b, nil
}

func (s *Service) ListBooks(q Query) []entities.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return applyQuery(s.c.Books.Values(), q, bookRules)
}

// --- Reviews ---

// CreateReview stores a review embedding the current user and book.
func (s *Service) CreateReview(in ReviewInput) (entities.Review, error) {
	if err := s.check(in); err != nil {
		return entities.Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.c.Users.Get(in.UserID)
	if err != nil {
		return entities.Review{}, notFound(KindUser, in.UserID)
	}
	book, err := s.c.Books.Get(in.BookID)
	if err != nil {
		return entities.Review{}, notFound(KindBook, in.BookID)
	}

	review := entities.NewReview(in.ID, user, book, in.Rating, in.Comment)
	s.c.Reviews.Put(review.ID, review)
	s.observeSizes()
	return review.Clone(), nil
}

// UpdateReview merges the set fields of patch into an existing review.
func (s *Service) UpdateReview(id string, patch ReviewPatch) (entities.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	review, err := s.c.Reviews.Get(id)
	if err != nil {
		return entities.Review{}, notFound(KindReview, id)
	}

	review.Interaction = s.relink(review.Interaction, patch.UserID, patch.BookID)
	if patch.Rating != nil {
		review.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		review.Comment = *patch.Comment
	}

	s.c.Reviews.Put(id, review)
	return review.Clone(), nil
}

func (s *Service) DeleteReview(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.c.Reviews.Delete(id); err != nil {
		return notFound(KindReview, id)
	}
	s.observeSizes()
	return nil
}

func (s *Service) GetReview(id string) (entities.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.c.Reviews.Get(id)
	if err != nil {
		return entities.Review{}, notFound(KindReview, id)
	}
	return r.Clone(), nil
}

func (s *Service) ListReviews(q Query) []entities.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return applyQuery(cloneAll(s.c.Reviews.Values(), entities.Review.Clone), q, reviewRules)
}

// --- Recommendations ---

// InsertRecommendation stores a recommendation for existing user and book ids
// without consulting the generator. The record survives only until the next
// cascade renumbers or prunes it.
func (s *Service) InsertRecommendation(in RecommendationInput) (entities.Recommendation, error) {
	if err := s.check(in); err != nil {
		return entities.Recommendation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.c.Users.Get(in.UserID)
	if err != nil {
		return entities.Recommendation{}, notFound(KindUser, in.UserID)
	}
	book, err := s.c.Books.Get(in.BookID)
	if err != nil {
		return entities.Recommendation{}, notFound(KindBook, in.BookID)
	}

	rec := entities.NewRecommendation(in.ID, user, book)
	s.c.Recommendations.Put(rec.ID, rec)
	s.observeSizes()
	return rec.Clone(), nil
}

// UpdateRecommendation re-points an existing recommendation's snapshots.
func (s *Service) UpdateRecommendation(id string, patch RecommendationPatch) (entities.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.c.Recommendations.Get(id)
	if err != nil {
		return entities.Recommendation{}, notFound(KindRecommendation, id)
	}
	rec.Interaction = s.relink(rec.Interaction, patch.UserID, patch.BookID)
	s.c.Recommendations.Put(id, rec)
	return rec.Clone(), nil
}

func (s *Service) DeleteRecommendation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.c.Recommendations.Delete(id); err != nil {
		return notFound(KindRecommendation, id)
	}
	s.observeSizes()
	return nil
}

func (s *Service) GetRecommendation(id string) (entities.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.c.Recommendations.Get(id)
	if err != nil {
		return entities.Recommendation{}, notFound(KindRecommendation, id)
	}
	return r.Clone(), nil
}

func (s *Service) ListRecommendations(q Query) []entities.Recommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return applyQuery(cloneAll(s.c.Recommendations.Values(), entities.Recommendation.Clone), q, recommendationRules)
}

// relink replaces snapshots for ids that exist; must hold the write lock.
func (s *Service) relink(in entities.Interaction, userID, bookID *string) entities.Interaction {
	if userID != nil {
		if u, err := s.c.Users.Get(*userID); err == nil {
			in.User = u.Clone()
		}
	}
	if bookID != nil {
		if b, err := s.c.Books.Get(*bookID); err == nil {
			in.Book = b
		}
	}
	return in
}

// --- Snapshots ---

// Snapshot copies the current state for persistence.
func (s *Service) Snapshot() snapshot.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.Snapshot()
}

func (s *Service) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.Counts()
}
