package domain

import "time"

// Contribution is a crowd-submitted correction naming the true landlord of
// a property. Advisory only: it never mutates the landlord record. One per
// (ContributorID, LandlordID).
type Contribution struct {
	ID            int64     `json:"id"`
	LandlordID    int64     `json:"landlordId"`
	SuggestedName string    `json:"suggestedName"`
	ContactInfo   *string   `json:"contactInfo"`
	HowYouKnow    string    `json:"howYouKnow"`
	ContributorID string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

type NewContribution struct {
	LandlordID    int64
	SuggestedName string
	ContactInfo   *string
	HowYouKnow    string
	ContributorID string
}
