package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookreviews/internal/entities"
)

func seedBooks(t *testing.T, srv *testServer) {
	t.Helper()
	for _, b := range []jsonObject{
		{"id": "b1", "title": "The Hobbit", "author": "J.R.R. Tolkien", "genre": "Fantasy", "isbn": "9780547928227"},
		{"id": "b2", "title": "It", "author": "Stephen King", "genre": "Horror", "isbn": "9781501142970"},
		{"id": "b3", "title": "Carrie", "author": "Stephen King", "genre": "Horror", "isbn": "9780307743664"},
	} {
		srv.mustDo(t, http.MethodPost, "/api/books", b, http.StatusCreated)
	}
}

func bookIDs(books []entities.Book) []string {
	ids := make([]string, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestBooksController(t *testing.T) {
	srv := newTestServer(t)

	t.Run("empty list is an empty array", func(t *testing.T) {
		w := srv.mustDo(t, http.MethodGet, "/api/books", nil, http.StatusOK)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	seedBooks(t, srv)

	t.Run("create echoes the book", func(t *testing.T) {
		w := srv.mustDo(t, http.MethodPost, "/api/books", jsonObject{"id": "b4", "title": "Dune", "genre": "SF"}, http.StatusCreated)
		assert.JSONEq(t, `{"id":"b4","title":"Dune","author":"","genre":"SF","isbn":""}`, w.Body.String())
		srv.mustDo(t, http.MethodDelete, "/api/books/b4", nil, http.StatusNoContent)
	})

	t.Run("list in key order", func(t *testing.T) {
		books := decode[[]entities.Book](t, srv.mustDo(t, http.MethodGet, "/api/books", nil, http.StatusOK))
		assert.Equal(t, []string{"b1", "b2", "b3"}, bookIDs(books))
	})

	t.Run("sort", func(t *testing.T) {
		books := decode[[]entities.Book](t, srv.mustDo(t, http.MethodGet, "/api/books?sort=title", nil, http.StatusOK))
		assert.Equal(t, []string{"b3", "b2", "b1"}, bookIDs(books))
	})

	t.Run("filter", func(t *testing.T) {
		books := decode[[]entities.Book](t, srv.mustDo(t, http.MethodGet, "/api/books?filterKey=author&filterValue=stephen+king", nil, http.StatusOK))
		assert.Equal(t, []string{"b2", "b3"}, bookIDs(books))

		books = decode[[]entities.Book](t, srv.mustDo(t, http.MethodGet, "/api/books?filterKey=pages&filterValue=1", nil, http.StatusOK))
		assert.Empty(t, books)
	})

	t.Run("search takes precedence", func(t *testing.T) {
		books := decode[[]entities.Book](t, srv.mustDo(t, http.MethodGet, "/api/books?search=hobbit&filterKey=genre&filterValue=horror", nil, http.StatusOK))
		assert.Equal(t, []string{"b1"}, bookIDs(books))
	})

	t.Run("update and not found", func(t *testing.T) {
		w := srv.mustDo(t, http.MethodPut, "/api/books/b2", jsonObject{"title": "It (2nd ed.)", "genre": "Horror"}, http.StatusOK)
		book := decode[entities.Book](t, w)
		assert.Equal(t, "b2", book.ID)
		assert.Equal(t, "It (2nd ed.)", book.Title)
		assert.Empty(t, book.Author)

		w = srv.mustDo(t, http.MethodPut, "/api/books/zzz", jsonObject{"title": "x"}, http.StatusNotFound)
		assert.Equal(t, "book not found", errorOf(t, w))

		w = srv.mustDo(t, http.MethodPut, "/api/books/zzz", "{broken", http.StatusNotFound)
		assert.Equal(t, "book not found", errorOf(t, w))
		srv.mustDo(t, http.MethodPut, "/api/books/b2", "{broken", http.StatusBadRequest)

		srv.mustDo(t, http.MethodGet, "/api/books/zzz", nil, http.StatusNotFound)
		srv.mustDo(t, http.MethodDelete, "/api/books/zzz", nil, http.StatusNotFound)
	})

	t.Run("book write propagates to reviews", func(t *testing.T) {
		srv.mustDo(t, http.MethodPost, "/api/users", jsonObject{"id": "u1"}, http.StatusCreated)
		srv.mustDo(t, http.MethodPost, "/api/reviews", jsonObject{
			"id": "r1", "user": jsonObject{"id": "u1"}, "book": jsonObject{"id": "b1"}, "rating": 5,
		}, http.StatusCreated)

		srv.mustDo(t, http.MethodPut, "/api/books/b1", jsonObject{"title": "The Hobbit, Annotated", "genre": "Fantasy"}, http.StatusOK)

		review := decode[entities.Review](t, srv.mustDo(t, http.MethodGet, "/api/reviews/r1", nil, http.StatusOK))
		book := decode[entities.Book](t, srv.mustDo(t, http.MethodGet, "/api/books/b1", nil, http.StatusOK))
		assert.Equal(t, book, review.Book)

		srv.mustDo(t, http.MethodDelete, "/api/books/b1", nil, http.StatusNoContent)
		srv.mustDo(t, http.MethodGet, "/api/reviews/r1", nil, http.StatusNotFound)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := srv.mustDo(t, http.MethodPost, "/api/books", jsonObject{"title": "no id"}, http.StatusBadRequest)
		require.NotEmpty(t, errorOf(t, w))
	})
}
