package app

import (
	"context"
	"math"
	"sync"

	"landlordwatch/internal/domain"
)

// RatingService derives a landlord's six averages and review count from the
// full review set. Recompute always re-reads every review and overwrites,
// never applies a delta, so any interleaving of recomputes converges.
type RatingService struct {
	repo domain.Repository

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewRatingService(r domain.Repository) *RatingService {
	return &RatingService{repo: r, locks: make(map[int64]*sync.Mutex)}
}

// landlordLock serializes recomputes per landlord so two runs never
// interleave the read with the write-back. Different landlords proceed
// concurrently.
func (s *RatingService) landlordLock(id int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *RatingService) Recompute(ctx context.Context, landlordID int64) error {
	l := s.landlordLock(landlordID)
	l.Lock()
	defer l.Unlock()

	reviews, err := s.repo.ListReviewsByLandlord(ctx, landlordID)
	if err != nil {
		return err
	}
	// Empty set: keep prior values rather than resetting to zero.
	if len(reviews) == 0 {
		return nil
	}

	var overall, deposit, responsiveness, ethics, maintenance, communication int
	for _, rv := range reviews {
		overall += rv.OverallRating
		deposit += rv.DepositReturnRating
		responsiveness += rv.ResponsivenessRating
		ethics += rv.EthicsRating
		maintenance += rv.MaintenanceRating
		communication += rv.CommunicationRating
	}
	n := float64(len(reviews))
	summary := domain.RatingSummary{
		Average:        roundTenth(float64(overall) / n),
		DepositReturn:  roundTenth(float64(deposit) / n),
		Responsiveness: roundTenth(float64(responsiveness) / n),
		Ethics:         roundTenth(float64(ethics) / n),
		Maintenance:    roundTenth(float64(maintenance) / n),
		Communication:  roundTenth(float64(communication) / n),
		TotalReviews:   len(reviews),
	}
	return s.repo.UpdateLandlordRatings(ctx, landlordID, summary)
}

// roundTenth rounds half-up at the tenths digit.
func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
