package domain

import "time"

// Review is one tenant's evaluation of one landlord: six 1-5 integer
// ratings plus free text. Immutable after insert except for the vote
// counters.
type Review struct {
	ID                   int64     `json:"id"`
	LandlordID           int64     `json:"landlordId"`
	AuthorName           *string   `json:"authorName"`
	IsAnonymous          bool      `json:"isAnonymous"`
	OverallRating        int       `json:"overallRating"`
	DepositReturnRating  int       `json:"depositReturnRating"`
	ResponsivenessRating int       `json:"responsivenessRating"`
	EthicsRating         int       `json:"ethicsRating"`
	MaintenanceRating    int       `json:"maintenanceRating"`
	CommunicationRating  int       `json:"communicationRating"`
	Content              string    `json:"content"`
	HelpfulVotes         int       `json:"helpfulVotes"`
	NotHelpfulVotes      int       `json:"notHelpfulVotes"`
	CreatedAt            time.Time `json:"createdAt"`
}

// NewReview is the insert payload. The store assigns id, creation timestamp
// and zeroed vote counters.
type NewReview struct {
	LandlordID           int64
	AuthorName           *string
	IsAnonymous          bool
	OverallRating        int
	DepositReturnRating  int
	ResponsivenessRating int
	EthicsRating         int
	MaintenanceRating    int
	CommunicationRating  int
	Content              string
}

// Vote records one voter identity's helpful/not-helpful judgment on one
// review. The uniqueness key is (ReviewID, VoterID), not the generated id.
type Vote struct {
	ID        int64  `json:"id"`
	ReviewID  int64  `json:"reviewId"`
	VoterID   string `json:"-"`
	IsHelpful bool   `json:"isHelpful"`
}

type NewVote struct {
	ReviewID  int64
	VoterID   string
	IsHelpful bool
}
