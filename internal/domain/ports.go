package domain

import "context"

type Repository interface {
	// Landlords
	GetLandlord(ctx context.Context, id int64) (Landlord, error)
	GetLandlordByName(ctx context.Context, name string) (Landlord, error)
	CreateLandlord(ctx context.Context, nl NewLandlord) (Landlord, error)
	UpdateLandlordRatings(ctx context.Context, id int64, rs RatingSummary) error
	// SearchLandlords returns landlords whose name or address contains
	// query, case-insensitively. Location filtering happens above the store.
	SearchLandlords(ctx context.Context, query string) ([]Landlord, error)
	ListLandlords(ctx context.Context, q ListQuery) ([]Landlord, error)

	// Reviews
	GetReview(ctx context.Context, id int64) (Review, error)
	ListReviewsByLandlord(ctx context.Context, landlordID int64) ([]Review, error)
	ListReviews(ctx context.Context) ([]Review, error)
	CreateReview(ctx context.Context, nr NewReview) (Review, error)

	// Votes. CreateVote returns ErrConflict when the (review, voter) pair
	// already voted; IncrementVote is a relative update on one counter.
	CreateVote(ctx context.Context, nv NewVote) (Vote, error)
	IncrementVote(ctx context.Context, reviewID int64, helpful bool) error

	// Contributions
	CreateContribution(ctx context.Context, nc NewContribution) (Contribution, error)
}

// PropertyListing is one property as reported by the external
// property-search provider.
type PropertyListing struct {
	ID               string  `json:"id"`
	FormattedAddress string  `json:"formattedAddress"`
	AddressLine1     string  `json:"addressLine1"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	ZipCode          string  `json:"zipCode"`
	County           string  `json:"county"`
	PropertyType     string  `json:"propertyType"`
	OwnerName        *string `json:"ownerName"`
	PropertyManager  *string `json:"propertyManager"`
}

type PropertyProvider interface {
	SearchProperties(ctx context.Context, query, location string) ([]PropertyListing, error)
}

// OwnerRecord is a best-effort scraped ownership result, tagged with the
// public-record source it came from.
type OwnerRecord struct {
	OwnerName string
	Address   string
	City      string
	State     string
	Source    string
}

// OwnerLookup resolves a property's owner from public records. A nil record
// with nil error means no owner could be determined.
type OwnerLookup interface {
	PropertyOwner(ctx context.Context, address, city, state string) (*OwnerRecord, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
