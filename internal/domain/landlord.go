package domain

// Landlord is the aggregate identity being reviewed. All rating fields and
// TotalReviews are derived from the landlord's review set and must only be
// written through UpdateLandlordRatings.
type Landlord struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	Location             string  `json:"location"`
	Address              *string `json:"address"`
	AverageRating        float64 `json:"averageRating"`
	TotalReviews         int     `json:"totalReviews"`
	DepositReturnRating  float64 `json:"depositReturnRating"`
	ResponsivenessRating float64 `json:"responsivenessRating"`
	EthicsRating         float64 `json:"ethicsRating"`
	MaintenanceRating    float64 `json:"maintenanceRating"`
	CommunicationRating  float64 `json:"communicationRating"`
}

// NewLandlord is the insert payload; the store assigns the id and zeroes
// every derived rating field.
type NewLandlord struct {
	Name     string
	Location string
	Address  *string
}

// RatingSummary carries the six recomputed averages plus the review count,
// written back to the landlord record in one update.
type RatingSummary struct {
	Average        float64
	DepositReturn  float64
	Responsiveness float64
	Ethics         float64
	Maintenance    float64
	Communication  float64
	TotalReviews   int
}

const (
	SortMostRecent   = "most-recent"
	SortHighestRated = "highest-rated"
	SortLowestRated  = "lowest-rated"
	SortMostReviews  = "most-reviews"
)

// ListQuery filters and orders a landlord listing. MinRating of zero means
// no rating filter.
type ListQuery struct {
	SortBy    string
	MinRating int
}
