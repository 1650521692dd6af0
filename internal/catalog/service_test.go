package catalog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookreviews/internal/entities"
)

func ptr[T any](v T) *T { return &v }

func seeded(t *testing.T) *Service {
	t.Helper()
	s := NewService(nil)

	users := []entities.User{
		{ID: "u1", Name: "Ann Lee", Email: "ann@example.com", Preferences: []string{"Fantasy"}},
		{ID: "u2", Name: "Bob Stone", Email: "bob@example.com", Preferences: []string{"Horror"}},
	}
	books := []entities.Book{
		{ID: "b1", Title: "The Hobbit", Author: "Tolkien", Genre: "Fantasy", ISBN: "111"},
		{ID: "b2", Title: "It", Author: "King", Genre: "Horror", ISBN: "222"},
		{ID: "b3", Title: "Carrie", Author: "King", Genre: "Horror", ISBN: "333"},
	}
	for _, u := range users {
		_, _, err := s.CreateUser(u)
		require.NoError(t, err)
	}
	for _, b := range books {
		_, _, err := s.CreateBook(b)
		require.NoError(t, err)
	}
	return s
}

func TestService_Scenario(t *testing.T) {
	s := NewService(nil)

	_, _, err := s.CreateUser(entities.User{ID: "u1", Preferences: []string{"Fantasy"}})
	require.NoError(t, err)
	_, _, err = s.CreateBook(entities.Book{ID: "b1", Genre: "Fantasy"})
	require.NoError(t, err)
	_, _, err = s.CreateBook(entities.Book{ID: "b2", Genre: "Horror"})
	require.NoError(t, err)

	recs := s.ListRecommendations(Query{})
	require.Len(t, recs, 1)
	assert.Equal(t, "001", recs[0].ID)
	assert.Equal(t, "b1", recs[0].Book.ID)

	_, _, err = s.UpdateUser("u1", entities.User{Preferences: []string{"Fantasy", "Horror"}})
	require.NoError(t, err)

	recs = s.ListRecommendations(Query{})
	require.Len(t, recs, 2)
	assert.Equal(t, "001", recs[0].ID)
	assert.Equal(t, "b1", recs[0].Book.ID)
	assert.Equal(t, "002", recs[1].ID)
	assert.Equal(t, "b2", recs[1].Book.ID)

	_, err = s.DeleteBook("b1")
	require.NoError(t, err)

	recs = s.ListRecommendations(Query{})
	require.Len(t, recs, 1)
	assert.Equal(t, "001", recs[0].ID)
	assert.Equal(t, "u1", recs[0].User.ID)
	assert.Equal(t, "b2", recs[0].Book.ID)
}

func TestService_Errors(t *testing.T) {
	s := seeded(t)
	before := s.Counts()

	t.Run("update missing user", func(t *testing.T) {
		_, _, err := s.UpdateUser("nope", entities.User{Name: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update missing book", func(t *testing.T) {
		_, _, err := s.UpdateBook("nope", entities.Book{Genre: "Fantasy"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete missing records", func(t *testing.T) {
		_, err := s.DeleteUser("nope")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.DeleteBook("nope")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteReview("nope"), ErrNotFound)
		assert.ErrorIs(t, s.DeleteRecommendation("nope"), ErrNotFound)
	})

	t.Run("missing id is malformed", func(t *testing.T) {
		_, _, err := s.CreateUser(entities.User{Name: "no id"})
		assert.ErrorIs(t, err, ErrMalformedInput)
		_, _, err = s.CreateBook(entities.Book{Title: "no id"})
		assert.ErrorIs(t, err, ErrMalformedInput)
		_, err = s.CreateReview(ReviewInput{UserID: "u1", BookID: "b1"})
		assert.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := s.GetUser("nope")
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, KindUser, nf.Kind)
		assert.Equal(t, `user "nope" not found`, err.Error())

		_, err = s.GetRecommendation("999")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	assert.Equal(t, before, s.Counts(), "failed operations must not change state")
}

func TestService_CreateIsUpsert(t *testing.T) {
	s := seeded(t)

	u, _, err := s.CreateUser(entities.User{ID: "u1", Name: "Ann Replaced"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, u.Preferences)

	got, err := s.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann Replaced", got.Name)
	assert.Empty(t, got.Email, "upsert replaces every field")

	for _, r := range s.ListRecommendations(Query{}) {
		assert.NotEqual(t, "u1", r.User.ID)
	}
}

func TestService_UpdateIgnoresBodyID(t *testing.T) {
	s := seeded(t)

	b, _, err := s.UpdateBook("b1", entities.Book{ID: "other", Title: "Renamed", Genre: "Fantasy"})
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)

	_, err = s.GetBook("other")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Reviews(t *testing.T) {
	s := seeded(t)

	t.Run("create requires user and book", func(t *testing.T) {
		_, err := s.CreateReview(ReviewInput{ID: "r1", UserID: "ghost", BookID: "b1"})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, KindUser, nf.Kind)

		_, err = s.CreateReview(ReviewInput{ID: "r1", UserID: "u1", BookID: "ghost"})
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, KindBook, nf.Kind)

		assert.Empty(t, s.ListReviews(Query{}))
	})

	t.Run("create snapshots current records", func(t *testing.T) {
		r, err := s.CreateReview(ReviewInput{ID: "r1", UserID: "u1", BookID: "b1", Rating: 5, Comment: "classic"})
		require.NoError(t, err)
		assert.Equal(t, "Ann Lee", r.User.Name)
		assert.Equal(t, "The Hobbit", r.Book.Title)
	})

	t.Run("update merges supplied fields", func(t *testing.T) {
		r, err := s.UpdateReview("r1", ReviewPatch{Rating: ptr(2)})
		require.NoError(t, err)
		assert.Equal(t, 2, r.Rating)
		assert.Equal(t, "classic", r.Comment)
		assert.Equal(t, "b1", r.Book.ID)

		r, err = s.UpdateReview("r1", ReviewPatch{BookID: ptr("b2"), Comment: ptr("scary")})
		require.NoError(t, err)
		assert.Equal(t, "It", r.Book.Title)
		assert.Equal(t, "scary", r.Comment)
	})

	t.Run("update ignores unknown references", func(t *testing.T) {
		r, err := s.UpdateReview("r1", ReviewPatch{UserID: ptr("ghost"), BookID: ptr("ghost")})
		require.NoError(t, err)
		assert.Equal(t, "u1", r.User.ID)
		assert.Equal(t, "b2", r.Book.ID)
	})

	t.Run("user write propagates", func(t *testing.T) {
		_, _, err := s.UpdateUser("u1", entities.User{Name: "Ann Renamed", Preferences: []string{"Fantasy"}})
		require.NoError(t, err)

		r, err := s.GetReview("r1")
		require.NoError(t, err)
		u, _ := s.GetUser("u1")
		assert.Equal(t, u, r.User)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteReview("r1"))
		_, err := s.GetReview("r1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_InsertRecommendation(t *testing.T) {
	s := seeded(t)

	// u1 does not prefer Horror, so the generator would never produce this.
	rec, err := s.InsertRecommendation(RecommendationInput{ID: "manual", UserID: "u1", BookID: "b2"})
	require.NoError(t, err)
	assert.Equal(t, "manual", rec.ID)

	got, err := s.GetRecommendation("manual")
	require.NoError(t, err)
	assert.Equal(t, "b2", got.Book.ID)

	_, err = s.InsertRecommendation(RecommendationInput{ID: "x", UserID: "ghost", BookID: "b1"})
	assert.ErrorIs(t, err, ErrNotFound)

	t.Run("next unrelated cascade renumbers it", func(t *testing.T) {
		_, _, err := s.CreateUser(entities.User{ID: "u3"})
		require.NoError(t, err)

		_, err = s.GetRecommendation("manual")
		assert.ErrorIs(t, err, ErrNotFound)

		var found bool
		for _, r := range s.ListRecommendations(Query{}) {
			if r.User.ID == "u1" && r.Book.ID == "b2" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("a cascade on its user prunes it", func(t *testing.T) {
		_, _, err := s.UpdateUser("u1", entities.User{Preferences: []string{"Fantasy"}})
		require.NoError(t, err)

		for _, r := range s.ListRecommendations(Query{}) {
			assert.False(t, r.User.ID == "u1" && r.Book.ID == "b2")
		}
	})
}

func TestService_UpdateRecommendation(t *testing.T) {
	s := seeded(t)

	recs := s.ListRecommendations(Query{})
	require.NotEmpty(t, recs)
	id := recs[0].ID

	rec, err := s.UpdateRecommendation(id, RecommendationPatch{BookID: ptr("b3"), UserID: ptr("ghost")})
	require.NoError(t, err)
	assert.Equal(t, "b3", rec.Book.ID)
	assert.Equal(t, recs[0].User.ID, rec.User.ID)

	_, err = s.UpdateRecommendation("missing", RecommendationPatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteRecommendation(id))
	assert.Len(t, s.ListRecommendations(Query{}), len(recs)-1)
}

func TestService_Queries(t *testing.T) {
	s := seeded(t)
	_, err := s.CreateReview(ReviewInput{ID: "r1", UserID: "u1", BookID: "b1", Rating: 3})
	require.NoError(t, err)
	_, err = s.CreateReview(ReviewInput{ID: "r2", UserID: "u2", BookID: "b2", Rating: 5})
	require.NoError(t, err)
	_, err = s.CreateReview(ReviewInput{ID: "r3", UserID: "u2", BookID: "b3", Rating: 1, Comment: "meh"})
	require.NoError(t, err)

	ids := func(items []entities.Book) []string {
		out := make([]string, 0, len(items))
		for _, b := range items {
			out = append(out, b.ID)
		}
		return out
	}

	t.Run("no query lists in key order", func(t *testing.T) {
		assert.Equal(t, []string{"b1", "b2", "b3"}, ids(s.ListBooks(Query{})))
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		assert.Equal(t, []string{"b2", "b3"}, ids(s.ListBooks(Query{Search: "kIn"})))
		users := s.ListUsers(Query{Search: "BOB@"})
		require.Len(t, users, 1)
		assert.Equal(t, "u2", users[0].ID)
	})

	t.Run("sort by field", func(t *testing.T) {
		assert.Equal(t, []string{"b3", "b2", "b1"}, ids(s.ListBooks(Query{Sort: "title"})))
	})

	t.Run("unknown sort key keeps key order", func(t *testing.T) {
		assert.Equal(t, []string{"b1", "b2", "b3"}, ids(s.ListBooks(Query{Sort: "pages"})))
	})

	t.Run("reviews sort by rating descending", func(t *testing.T) {
		got := s.ListReviews(Query{Sort: "rating"})
		require.Len(t, got, 3)
		assert.Equal(t, []int{5, 3, 1}, []int{got[0].Rating, got[1].Rating, got[2].Rating})
	})

	t.Run("filter is case-insensitive equality", func(t *testing.T) {
		assert.Equal(t, []string{"b2", "b3"}, ids(s.ListBooks(Query{FilterKey: "genre", FilterValue: "horror"})))
		assert.Empty(t, s.ListBooks(Query{FilterKey: "genre", FilterValue: "horr"}))
		got := s.ListReviews(Query{FilterKey: "user", FilterValue: "bob stone"})
		assert.Len(t, got, 2)
	})

	t.Run("unknown filter key yields nothing", func(t *testing.T) {
		assert.Empty(t, s.ListBooks(Query{FilterKey: "pages", FilterValue: "100"}))
	})

	t.Run("search wins over sort and filter", func(t *testing.T) {
		got := ids(s.ListBooks(Query{Search: "hobbit", Sort: "title", FilterKey: "genre", FilterValue: "horror"}))
		assert.Equal(t, []string{"b1"}, got)
	})

	t.Run("sort wins over filter", func(t *testing.T) {
		got := ids(s.ListBooks(Query{Sort: "title", FilterKey: "genre", FilterValue: "horror"}))
		assert.Equal(t, []string{"b3", "b2", "b1"}, got)
	})

	t.Run("recommendations filter by user", func(t *testing.T) {
		got := s.ListRecommendations(Query{FilterKey: "user", FilterValue: "BOB STONE"})
		require.Len(t, got, 2)
		for _, r := range got {
			assert.Equal(t, "u2", r.User.ID)
		}
	})
}

func TestService_SnapshotReload(t *testing.T) {
	s := seeded(t)
	_, err := s.CreateReview(ReviewInput{ID: "r1", UserID: "u1", BookID: "b1", Rating: 4})
	require.NoError(t, err)

	data := s.Snapshot()
	want := s.Counts()

	restored := NewService(CollectionsFromSnapshot(data))

	assert.Equal(t, want, restored.Counts())
	assert.Equal(t, s.ListRecommendations(Query{}), restored.ListRecommendations(Query{}))
	assert.Equal(t, s.ListReviews(Query{}), restored.ListReviews(Query{}))

	_, _, err = restored.CreateUser(entities.User{ID: "u9", Preferences: []string{"Horror"}})
	require.NoError(t, err)
	assert.Equal(t, want.Recommendations+2, restored.Counts().Recommendations)
	assert.Equal(t, want, s.Counts(), "restored service is independent")
}

func TestService_ReturnedRecordsAreCopies(t *testing.T) {
	s := NewService(nil)
	_, _, err := s.CreateUser(entities.User{ID: "u1", Name: "Ann", Preferences: []string{"Fantasy", "Fantasy"}})
	require.NoError(t, err)
	_, _, err = s.CreateBook(entities.Book{ID: "b1", Genre: "Fantasy"})
	require.NoError(t, err)
	created, err := s.CreateReview(ReviewInput{ID: "r1", UserID: "u1", BookID: "b1"})
	require.NoError(t, err)
	created.User.Preferences[0] = "Created"

	want := []string{"Fantasy", "Fantasy"}

	t.Run("reviews", func(t *testing.T) {
		got, err := s.GetReview("r1")
		require.NoError(t, err)
		got.User.Preferences[0] = "Get"
		s.ListReviews(Query{})[0].User.Preferences[0] = "List"

		updated, err := s.UpdateReview("r1", ReviewPatch{Rating: ptr(3)})
		require.NoError(t, err)
		updated.User.Preferences[0] = "Updated"

		stored, err := s.GetReview("r1")
		require.NoError(t, err)
		assert.Equal(t, want, stored.User.Preferences)
	})

	t.Run("recommendations", func(t *testing.T) {
		got, err := s.GetRecommendation("001")
		require.NoError(t, err)
		got.User.Preferences[0] = "Get"
		s.ListRecommendations(Query{})[0].User.Preferences[0] = "List"

		inserted, err := s.InsertRecommendation(RecommendationInput{ID: "900", UserID: "u1", BookID: "b1"})
		require.NoError(t, err)
		inserted.User.Preferences[0] = "Inserted"

		for _, id := range []string{"001", "900"} {
			stored, err := s.GetRecommendation(id)
			require.NoError(t, err)
			assert.Equal(t, want, stored.User.Preferences, id)
		}
	})

	t.Run("users and snapshot", func(t *testing.T) {
		s.ListUsers(Query{})[0].Preferences[0] = "List"
		data := s.Snapshot()
		data.Users[0].Preferences[0] = "Snapshot"
		data.Reviews[0].User.Preferences[0] = "Snapshot"
		data.Recommendations[0].User.Preferences[0] = "Snapshot"

		user, err := s.GetUser("u1")
		require.NoError(t, err)
		assert.Equal(t, want, user.Preferences)

		review, err := s.GetReview("r1")
		require.NoError(t, err)
		assert.Equal(t, user, review.User, "review snapshot still equals the user")
	})
}

func TestService_ConcurrentAccess(t *testing.T) {
	s := NewService(nil)
	for i := range 5 {
		_, _, err := s.CreateBook(entities.Book{ID: fmt.Sprintf("b%d", i), Genre: "Fantasy"})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, _ = s.CreateUser(entities.User{ID: fmt.Sprintf("u%02d", i), Preferences: []string{"Fantasy"}})
		}()
		go func() {
			defer wg.Done()
			_ = s.ListRecommendations(Query{Sort: "user"})
			_ = s.Counts()
		}()
	}
	wg.Wait()

	recs := s.ListRecommendations(Query{})
	require.Len(t, recs, 100)
	for i, r := range recs {
		assert.Equal(t, fmt.Sprintf("%03d", i+1), r.ID)
	}
}
