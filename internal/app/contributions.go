package app

import (
	"context"
	"strings"

	"landlordwatch/internal/domain"
)

// ContributionService gates crowd-sourced landlord-name corrections: one
// contribution per contributor identity per landlord, enforced by the
// store's composite unique key. Contributions never mutate the landlord
// record.
type ContributionService struct {
	repo domain.Repository
}

func NewContributionService(r domain.Repository) *ContributionService {
	return &ContributionService{repo: r}
}

type SubmitContributionInput struct {
	LandlordID    int64
	SuggestedName string
	HowYouKnow    string
	ContactInfo   string
	ContributorID string
}

func (s *ContributionService) Submit(ctx context.Context, in SubmitContributionInput) (domain.Contribution, error) {
	ve := &domain.ValidationError{}
	if in.LandlordID <= 0 {
		ve.Add("landlordId", "is required")
	}
	if strings.TrimSpace(in.SuggestedName) == "" {
		ve.Add("suggestedName", "is required")
	}
	if strings.TrimSpace(in.HowYouKnow) == "" {
		ve.Add("howYouKnow", "is required")
	}
	if !ve.Empty() {
		return domain.Contribution{}, ve
	}

	if _, err := s.repo.GetLandlord(ctx, in.LandlordID); err != nil {
		return domain.Contribution{}, err
	}

	nc := domain.NewContribution{
		LandlordID:    in.LandlordID,
		SuggestedName: strings.TrimSpace(in.SuggestedName),
		HowYouKnow:    strings.TrimSpace(in.HowYouKnow),
		ContributorID: in.ContributorID,
	}
	if contact := strings.TrimSpace(in.ContactInfo); contact != "" {
		nc.ContactInfo = &contact
	}
	return s.repo.CreateContribution(ctx, nc)
}
