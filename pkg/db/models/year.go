package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Award slot roles. A category holds at most one slot per role.
const (
	RoleWinner         = "winner"
	RoleFirstRunnerUp  = "firstRunnerUp"
	RoleSecondRunnerUp = "secondRunnerUp"
)

// ValidRole reports whether the role names one of the three fixed slots.
func ValidRole(role string) bool {
	switch role {
	case RoleWinner, RoleFirstRunnerUp, RoleSecondRunnerUp:
		return true
	}
	return false
}

// MediaRef points at one stored image or logo. PublicID is the remote store's
// deletion key; it is empty for entries submitted as a direct URL.
type MediaRef struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId,omitempty" json:"public_id,omitempty"`
	Caption  string `bson:"caption,omitempty" json:"caption,omitempty"`
}

// AwardSlot is one ranked position within an award category.
type AwardSlot struct {
	Name     string    `bson:"name" json:"name"`
	Position string    `bson:"position" json:"position"`
	Photo    *MediaRef `bson:"photo,omitempty" json:"photo,omitempty"`
}

// AwardCategory groups the three ranked slots under a category label, unique
// within a YearRecord.
type AwardCategory struct {
	Category       string     `bson:"category" json:"category"`
	Winner         *AwardSlot `bson:"winner,omitempty" json:"winner,omitempty"`
	FirstRunnerUp  *AwardSlot `bson:"firstRunnerUp,omitempty" json:"first_runner_up,omitempty"`
	SecondRunnerUp *AwardSlot `bson:"secondRunnerUp,omitempty" json:"second_runner_up,omitempty"`
}

// Slot returns the slot pointer for the given role, or nil for unknown roles.
func (c *AwardCategory) Slot(role string) *AwardSlot {
	switch role {
	case RoleWinner:
		return c.Winner
	case RoleFirstRunnerUp:
		return c.FirstRunnerUp
	case RoleSecondRunnerUp:
		return c.SecondRunnerUp
	}
	return nil
}

// SetSlot overwrites the slot for the given role wholesale.
func (c *AwardCategory) SetSlot(role string, slot *AwardSlot) {
	switch role {
	case RoleWinner:
		c.Winner = slot
	case RoleFirstRunnerUp:
		c.FirstRunnerUp = slot
	case RoleSecondRunnerUp:
		c.SecondRunnerUp = slot
	}
}

// Slots returns the populated slots of the category in rank order.
func (c *AwardCategory) Slots() []*AwardSlot {
	out := make([]*AwardSlot, 0, 3)
	for _, s := range []*AwardSlot{c.Winner, c.FirstRunnerUp, c.SecondRunnerUp} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// YearRecord is the per-festival-year document. One per year, enforced by a
// unique index.
type YearRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Year      int                `bson:"year" json:"year"`
	VideoLink string             `bson:"videoLink,omitempty" json:"video_link,omitempty"`
	Photos    []MediaRef         `bson:"photos" json:"photos"`
	Awards    []AwardCategory    `bson:"awards" json:"awards"`
	Partners  []MediaRef         `bson:"partners" json:"partners"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
}

// FindCategory returns the index of the named category, or -1.
func (y *YearRecord) FindCategory(category string) int {
	for i := range y.Awards {
		if y.Awards[i].Category == category {
			return i
		}
	}
	return -1
}
