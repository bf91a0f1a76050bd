package entity

import (
	"time"
)

const (
	DefaultCreatedBy       = "admin"
	DefaultMaxParticipants = 100
)

type Event struct {
	ID          string `bson:"_id,omitempty" json:"_id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Date        string `bson:"date" json:"date"`
	Time        string `bson:"time" json:"time"`
	Venue       string `bson:"venue,omitempty" json:"venue,omitempty"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`

	MaxParticipants int  `bson:"maxParticipants" json:"maxParticipants"`
	IsActive        bool `bson:"isActive" json:"isActive"`

	CreatedBy string    `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// IsFull reports whether count registrations already use up every seat.
func (e *Event) IsFull(count int64) bool {
	return count >= int64(e.MaxParticipants)
}

// Summary is the subset of event fields joined into registration listings.
func (e *Event) Summary() *EventSummary {
	return &EventSummary{
		ID:    e.ID,
		Title: e.Title,
		Date:  e.Date,
		Time:  e.Time,
		Venue: e.Venue,
	}
}

type EventSummary struct {
	ID    string `bson:"_id" json:"_id"`
	Title string `bson:"title" json:"title"`
	Date  string `bson:"date" json:"date"`
	Time  string `bson:"time" json:"time"`
	Venue string `bson:"venue,omitempty" json:"venue,omitempty"`
}

// EventPatch holds the fields of an update request. Nil fields are left untouched.
type EventPatch struct {
	Title           *string `bson:"title,omitempty" json:"title,omitempty"`
	Description     *string `bson:"description,omitempty" json:"description,omitempty"`
	Date            *string `bson:"date,omitempty" json:"date,omitempty"`
	Time            *string `bson:"time,omitempty" json:"time,omitempty"`
	Venue           *string `bson:"venue,omitempty" json:"venue,omitempty"`
	Image           *string `bson:"image,omitempty" json:"image,omitempty"`
	MaxParticipants *int    `bson:"maxParticipants,omitempty" json:"maxParticipants,omitempty"`
	IsActive        *bool   `bson:"isActive,omitempty" json:"isActive,omitempty"`
	CreatedBy       *string `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
}

func (p EventPatch) IsEmpty() bool {
	return p == EventPatch{}
}

// Apply copies every non-nil field of the patch onto e.
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Venue != nil {
		e.Venue = *p.Venue
	}
	if p.Image != nil {
		e.Image = *p.Image
	}
	if p.MaxParticipants != nil {
		e.MaxParticipants = *p.MaxParticipants
	}
	if p.IsActive != nil {
		e.IsActive = *p.IsActive
	}
	if p.CreatedBy != nil {
		e.CreatedBy = *p.CreatedBy
	}
}

type EventFilter struct {
	ActiveOnly  bool
	NewestFirst bool
}
