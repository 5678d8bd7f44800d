package domain

import (
	"time"
)

// Reaction enumerates review reactions.
type Reaction string

const (
	ReactionLike    Reaction = "LIKE"
	ReactionDislike Reaction = "DISLIKE"
)

// Review is a locally stored product review. ProductID and UserID reference
// entities owned by the catalog and users services; they are plain ids here,
// with no foreign-key integrity across service boundaries.
type Review struct {
	ID         int64            `json:"id"`
	ProductID  string           `json:"productId"`
	UserID     string           `json:"userId"`
	Rating     int              `json:"rating"`
	Text       string           `json:"text"`
	Images     string           `json:"images,omitempty"`
	ShowOnMain bool             `json:"showOnMain"`
	Comments   []Comment        `json:"comments"`
	Reactions  []ReactionReview `json:"reactions"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Comment belongs to a review.
type Comment struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"reviewId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReactionReview is a single user's reaction on a review.
type ReactionReview struct {
	ID       int64    `json:"id"`
	ReviewID int64    `json:"reviewId"`
	UserID   string   `json:"userId"`
	Reaction Reaction `json:"reaction"`
}

// MergedComment is a comment enriched with its author's profile. User holds a
// UserProfile when the lookup succeeded and the raw user id string otherwise.
type MergedComment struct {
	Comment
	User interface{} `json:"user"`
}

// MergedReview is a review enriched with remote user and product data. Product
// and User degrade to the raw id string when the sibling lookup cannot resolve
// them; the list as a whole never fails on unresolved lookups.
type MergedReview struct {
	ID         int64            `json:"id"`
	Rating     int              `json:"rating"`
	Text       string           `json:"text"`
	Images     string           `json:"images,omitempty"`
	ShowOnMain bool             `json:"showOnMain"`
	Product    interface{}      `json:"product"`
	User       interface{}      `json:"user"`
	Comments   []MergedComment  `json:"comments"`
	Reactions  []ReactionReview `json:"reactions"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// RemoteProduct is the product summary the catalog service returns to the
// reviews service.
type RemoteProduct struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Desc      string    `json:"desc,omitempty"`
	Available bool      `json:"available"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
