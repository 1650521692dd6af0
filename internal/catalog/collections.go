package catalog

import (
	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/snapshot"
	"github.com/mrlokans/bookreviews/internal/store"
)

// Collections is the aggregate of the four record stores. It has no locking
// of its own; Service serializes access to it.
type Collections struct {
	Users           *store.Store[entities.User]
	Books           *store.Store[entities.Book]
	Reviews         *store.Store[entities.Review]
	Recommendations *store.Store[entities.Recommendation]
}

// NewCollections returns empty collections.
func NewCollections() *Collections {
	return &Collections{
		Users:           store.New[entities.User](),
		Books:           store.New[entities.Book](),
		Reviews:         store.New[entities.Review](),
		Recommendations: store.New[entities.Recommendation](),
	}
}

// CollectionsFromSnapshot builds collections from persisted data as-is.
// Loaded recommendations keep their ids; no cascade runs.
func CollectionsFromSnapshot(data snapshot.Data) *Collections {
	c := &Collections{
		Users:           store.FromSlice(data.Users, func(u entities.User) string { return u.ID }),
		Books:           store.FromSlice(data.Books, func(b entities.Book) string { return b.ID }),
		Reviews:         store.FromSlice(data.Reviews, func(r entities.Review) string { return r.ID }),
		Recommendations: store.FromSlice(data.Recommendations, func(r entities.Recommendation) string { return r.ID }),
	}
	c.Users.Update(entities.User.Clone)
	c.Reviews.Update(entities.Review.Clone)
	c.Recommendations.Update(entities.Recommendation.Clone)
	return c
}

// Snapshot copies the collections into persistable form, in key order.
// The result shares no memory with the stores.
func (c *Collections) Snapshot() snapshot.Data {
	return snapshot.Data{
		Users:           cloneAll(c.Users.Values(), entities.User.Clone),
		Books:           c.Books.Values(),
		Reviews:         cloneAll(c.Reviews.Values(), entities.Review.Clone),
		Recommendations: cloneAll(c.Recommendations.Values(), entities.Recommendation.Clone),
	}
}

// cloneAll applies clone to every element of items in place.
func cloneAll[V any](items []V, clone func(V) V) []V {
	for i, v := range items {
		items[i] = clone(v)
	}
	return items
}

// Counts is the size of each collection.
type Counts struct {
	Users           int `json:"users"`
	Books           int `json:"books"`
	Reviews         int `json:"reviews"`
	Recommendations int `json:"recommendations"`
}

func (c *Collections) Counts() Counts {
	return Counts{
		Users:           c.Users.Len(),
		Books:           c.Books.Len(),
		Reviews:         c.Reviews.Len(),
		Recommendations: c.Recommendations.Len(),
	}
}
