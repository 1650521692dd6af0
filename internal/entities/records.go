package entities

import "slices"

type User struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Preferences []string `json:"preferences"`
}

// Clone returns a copy that shares no memory with u.
func (u User) Clone() User {
	u.Preferences = slices.Clone(u.Preferences)
	if u.Preferences == nil {
		u.Preferences = []string{}
	}
	return u
}

type Book struct {
	ID     string `json:"id" validate:"required"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	ISBN   string `json:"isbn"`
}

// Interaction is the shape shared by reviews and recommendations: an id plus
// copies of the user and book as they were when the record was last
// propagated. The copies are never references to the live records.
type Interaction struct {
	ID   string `json:"id" validate:"required"`
	User User   `json:"user"`
	Book Book   `json:"book"`
}

// UserRef returns the id of the embedded user snapshot.
func (i Interaction) UserRef() string { return i.User.ID }

// BookRef returns the id of the embedded book snapshot.
func (i Interaction) BookRef() string { return i.Book.ID }

// Clone returns a copy whose user snapshot shares no memory with i.
func (i Interaction) Clone() Interaction {
	i.User = i.User.Clone()
	return i
}

type Review struct {
	Interaction
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (r Review) Clone() Review {
	r.Interaction = r.Interaction.Clone()
	return r
}

// Recommendation is derived data. It is written by the cascade engine and,
// outside of it, only through the unchecked direct insert.
type Recommendation struct {
	Interaction
}

func (r Recommendation) Clone() Recommendation {
	r.Interaction = r.Interaction.Clone()
	return r
}

// Linked is implemented by records that embed user and book snapshots.
type Linked interface {
	UserRef() string
	BookRef() string
}

func NewReview(id string, user User, book Book, rating int, comment string) Review {
	return Review{
		Interaction: Interaction{ID: id, User: user.Clone(), Book: book},
		Rating:      rating,
		Comment:     comment,
	}
}

func NewRecommendation(id string, user User, book Book) Recommendation {
	return Recommendation{
		Interaction: Interaction{ID: id, User: user.Clone(), Book: book},
	}
}
