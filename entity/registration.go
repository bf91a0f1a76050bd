package entity

import "time"

type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "pending"
	StatusApproved RegistrationStatus = "approved"
	StatusRejected RegistrationStatus = "rejected"
)

func (s RegistrationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

const UnknownEventTitle = "Unknown Event"

type Registration struct {
	ID         string        `bson:"_id,omitempty" json:"_id"`
	EventID    string        `bson:"eventId" json:"eventId"`
	EventTitle string        `bson:"eventTitle" json:"eventTitle"`
	Event      *EventSummary `bson:"event,omitempty" json:"event,omitempty"`

	RegistrantName   string `bson:"registrantName" json:"registrantName"`
	RegistrantEmail  string `bson:"registrantEmail" json:"registrantEmail"`
	RegistrantPhone  string `bson:"registrantPhone" json:"registrantPhone"`
	RegistrantClass  string `bson:"registrantClass" json:"registrantClass"`
	RegistrantRollNo string `bson:"registrantRollNo" json:"registrantRollNo"`
	RegistrantPRN    string `bson:"registrantPRN" json:"registrantPRN"`

	RegistrationDate time.Time          `bson:"registrationDate" json:"registrationDate"`
	Status           RegistrationStatus `bson:"status" json:"status"`
}

type RegistrationFilter struct {
	EventID     string             `schema:"-"`
	Status      RegistrationStatus `schema:"status"`
	WithEvent   bool               `schema:"-"`
	NewestFirst bool               `schema:"-"`
}
