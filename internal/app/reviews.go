package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"landlordwatch/internal/domain"
)

// placeholderLocation is used when a review creates a landlord without
// supplying a location.
const placeholderLocation = "Location not specified"

const minContentLength = 10

// ReviewService owns the review and vote write paths: validation, landlord
// resolution, persistence, and the synchronous rating recompute.
type ReviewService struct {
	repo     domain.Repository
	ratings  *RatingService
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewReviewService(r domain.Repository, ratings *RatingService, cache domain.Cache, ttl time.Duration) *ReviewService {
	return &ReviewService{repo: r, ratings: ratings, cache: cache, cacheTTL: ttl}
}

type SubmitReviewInput struct {
	LandlordID      int64
	LandlordName    string
	PropertyAddress string
	AuthorName      string
	IsAnonymous     bool

	OverallRating        int
	DepositReturnRating  int
	ResponsivenessRating int
	EthicsRating         int
	MaintenanceRating    int
	CommunicationRating  int
	Content              string
}

func validateReview(in SubmitReviewInput) error {
	ve := &domain.ValidationError{}
	ratings := []struct {
		field string
		value int
	}{
		{"overallRating", in.OverallRating},
		{"depositReturnRating", in.DepositReturnRating},
		{"responsivenessRating", in.ResponsivenessRating},
		{"ethicsRating", in.EthicsRating},
		{"maintenanceRating", in.MaintenanceRating},
		{"communicationRating", in.CommunicationRating},
	}
	for _, r := range ratings {
		if r.value < 1 || r.value > 5 {
			ve.Add(r.field, "must be an integer between 1 and 5")
		}
	}
	if len(in.Content) < minContentLength {
		ve.Add("content", fmt.Sprintf("must be at least %d characters long", minContentLength))
	}
	if in.LandlordID == 0 && strings.TrimSpace(in.LandlordName) == "" {
		ve.Add("landlordId", "landlordId or landlordName is required")
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

// resolveLandlord finds the review's target. An explicit id must exist; a
// name is looked up case-insensitively and created on miss. A creation that
// loses a race to a concurrent identical create falls back to the lookup.
func (s *ReviewService) resolveLandlord(ctx context.Context, in SubmitReviewInput) (domain.Landlord, error) {
	if in.LandlordID != 0 {
		return s.repo.GetLandlord(ctx, in.LandlordID)
	}

	name := strings.TrimSpace(in.LandlordName)
	landlord, err := s.repo.GetLandlordByName(ctx, name)
	if err == nil {
		return landlord, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Landlord{}, err
	}

	nl := domain.NewLandlord{Name: name, Location: placeholderLocation}
	if addr := strings.TrimSpace(in.PropertyAddress); addr != "" {
		nl.Address = &addr
	}
	landlord, err = s.repo.CreateLandlord(ctx, nl)
	if errors.Is(err, domain.ErrConflict) {
		return s.repo.GetLandlordByName(ctx, name)
	}
	return landlord, err
}

func (s *ReviewService) SubmitReview(ctx context.Context, in SubmitReviewInput) (domain.Review, error) {
	if err := validateReview(in); err != nil {
		return domain.Review{}, err
	}

	landlord, err := s.resolveLandlord(ctx, in)
	if err != nil {
		return domain.Review{}, err
	}

	nr := domain.NewReview{
		LandlordID:           landlord.ID,
		IsAnonymous:          in.IsAnonymous,
		OverallRating:        in.OverallRating,
		DepositReturnRating:  in.DepositReturnRating,
		ResponsivenessRating: in.ResponsivenessRating,
		EthicsRating:         in.EthicsRating,
		MaintenanceRating:    in.MaintenanceRating,
		CommunicationRating:  in.CommunicationRating,
		Content:              in.Content,
	}
	// anonymity suppresses the author name at write time
	if !in.IsAnonymous {
		if author := strings.TrimSpace(in.AuthorName); author != "" {
			nr.AuthorName = &author
		}
	}

	review, err := s.repo.CreateReview(ctx, nr)
	if err != nil {
		return domain.Review{}, err
	}
	if err := s.ratings.Recompute(ctx, landlord.ID); err != nil {
		return domain.Review{}, err
	}
	s.invalidateLandlord(ctx, landlord.ID)
	return review, nil
}

// CastVote records one voter identity's judgment on a review. The store's
// composite unique key makes the check-then-insert effectively atomic; the
// counter update is a relative increment so concurrent votes never lose an
// update.
func (s *ReviewService) CastVote(ctx context.Context, reviewID int64, voterID string, isHelpful bool) error {
	review, err := s.repo.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if _, err := s.repo.CreateVote(ctx, domain.NewVote{ReviewID: reviewID, VoterID: voterID, IsHelpful: isHelpful}); err != nil {
		return err
	}
	if err := s.repo.IncrementVote(ctx, reviewID, isHelpful); err != nil {
		return err
	}
	s.invalidateReviews(ctx, review.LandlordID)
	return nil
}

// ListByLandlord returns the landlord's reviews newest first, served from
// cache when possible.
func (s *ReviewService) ListByLandlord(ctx context.Context, landlordID int64) ([]domain.Review, error) {
	key := fmt.Sprintf("reviews:%d", landlordID)
	if s.cache != nil {
		var cached []domain.Review
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}
	reviews, err := s.repo.ListReviewsByLandlord(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, reviews, int(s.cacheTTL.Seconds()))
	}
	return reviews, nil
}

func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	return s.repo.ListReviews(ctx)
}

func (s *ReviewService) invalidateLandlord(ctx context.Context, landlordID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("landlord:%d", landlordID))
	s.invalidateReviews(ctx, landlordID)
}

func (s *ReviewService) invalidateReviews(ctx context.Context, landlordID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("reviews:%d", landlordID))
}
