package http

import (
	"github.com/mrlokans/bookreviews/internal/catalog"
	"github.com/mrlokans/bookreviews/internal/entities"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends on the narrowest one it needs; catalog.Service
// implements them all.

// UserStore manages users.
type UserStore interface {
	CreateUser(user entities.User) (entities.User, catalog.CascadeResult, error)
	UpdateUser(id string, user entities.User) (entities.User, catalog.CascadeResult, error)
	DeleteUser(id string) (catalog.CascadeResult, error)
	GetUser(id string) (entities.User, error)
	ListUsers(q catalog.Query) []entities.User
}

// BookStore manages books.
type BookStore interface {
	CreateBook(book entities.Book) (entities.Book, catalog.CascadeResult, error)
	UpdateBook(id string, book entities.Book) (entities.Book, catalog.CascadeResult, error)
	DeleteBook(id string) (catalog.CascadeResult, error)
	GetBook(id string) (entities.Book, error)
	ListBooks(q catalog.Query) []entities.Book
}

// ReviewStore manages reviews.
type ReviewStore interface {
	CreateReview(in catalog.ReviewInput) (entities.Review, error)
	UpdateReview(id string, patch catalog.ReviewPatch) (entities.Review, error)
	DeleteReview(id string) error
	GetReview(id string) (entities.Review, error)
	ListReviews(q catalog.Query) []entities.Review
}

// RecommendationReader exposes recommendations read-only.
type RecommendationReader interface {
	GetRecommendation(id string) (entities.Recommendation, error)
	ListRecommendations(q catalog.Query) []entities.Recommendation
}

// RecommendationWriter is the unchecked administrative insert.
type RecommendationWriter interface {
	InsertRecommendation(in catalog.RecommendationInput) (entities.Recommendation, error)
}

// CountsProvider reports collection sizes.
type CountsProvider interface {
	Counts() catalog.Counts
}

// Store combines all store interfaces.
type Store interface {
	UserStore
	BookStore
	ReviewStore
	RecommendationReader
	RecommendationWriter
	CountsProvider
}
