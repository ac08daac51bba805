package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"landlordwatch/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu             sync.Mutex
	landlords      map[int64]domain.Landlord
	reviews        map[int64]domain.Review
	votes          map[string]domain.Vote
	contribs       map[string]domain.Contribution
	nextLandlordID int64
	nextReviewID   int64
	nextVoteID     int64
	nextContribID  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		landlords: map[int64]domain.Landlord{},
		reviews:   map[int64]domain.Review{},
		votes:     map[string]domain.Vote{},
		contribs:  map[string]domain.Contribution{},
	}
}

func (f *fakeRepo) addLandlord(name, location string, address *string) domain.Landlord {
	l, err := f.CreateLandlord(context.Background(), domain.NewLandlord{Name: name, Location: location, Address: address})
	if err != nil {
		panic(err)
	}
	return l
}

func (f *fakeRepo) addReview(landlordID int64, ratings [6]int) domain.Review {
	rv, err := f.CreateReview(context.Background(), domain.NewReview{
		LandlordID:           landlordID,
		OverallRating:        ratings[0],
		DepositReturnRating:  ratings[1],
		ResponsivenessRating: ratings[2],
		EthicsRating:         ratings[3],
		MaintenanceRating:    ratings[4],
		CommunicationRating:  ratings[5],
		Content:              "seeded review content",
	})
	if err != nil {
		panic(err)
	}
	return rv
}

func (f *fakeRepo) GetLandlord(ctx context.Context, id int64) (domain.Landlord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.landlords[id]
	if !ok {
		return domain.Landlord{}, domain.ErrNotFound
	}
	return l, nil
}

func (f *fakeRepo) GetLandlordByName(ctx context.Context, name string) (domain.Landlord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.landlords {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	return domain.Landlord{}, domain.ErrNotFound
}

func (f *fakeRepo) CreateLandlord(ctx context.Context, nl domain.NewLandlord) (domain.Landlord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.landlords {
		if strings.EqualFold(l.Name, nl.Name) {
			return domain.Landlord{}, fmt.Errorf("landlord %q: %w", nl.Name, domain.ErrConflict)
		}
	}
	f.nextLandlordID++
	l := domain.Landlord{ID: f.nextLandlordID, Name: nl.Name, Location: nl.Location, Address: nl.Address}
	f.landlords[l.ID] = l
	return l, nil
}

func (f *fakeRepo) UpdateLandlordRatings(ctx context.Context, id int64, rs domain.RatingSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.landlords[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.AverageRating = rs.Average
	l.TotalReviews = rs.TotalReviews
	l.DepositReturnRating = rs.DepositReturn
	l.ResponsivenessRating = rs.Responsiveness
	l.EthicsRating = rs.Ethics
	l.MaintenanceRating = rs.Maintenance
	l.CommunicationRating = rs.Communication
	f.landlords[id] = l
	return nil
}

func (f *fakeRepo) SearchLandlords(ctx context.Context, query string) ([]domain.Landlord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	var out []domain.Landlord
	for _, l := range f.landlords {
		addr := ""
		if l.Address != nil {
			addr = strings.ToLower(*l.Address)
		}
		if strings.Contains(strings.ToLower(l.Name), q) || strings.Contains(addr, q) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeRepo) ListLandlords(ctx context.Context, q domain.ListQuery) ([]domain.Landlord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Landlord
	for _, l := range f.landlords {
		if q.MinRating > 0 && l.AverageRating < float64(q.MinRating) {
			continue
		}
		out = append(out, l)
	}
	switch q.SortBy {
	case domain.SortHighestRated:
		sort.Slice(out, func(i, j int) bool { return out[i].AverageRating > out[j].AverageRating })
	case domain.SortLowestRated:
		sort.Slice(out, func(i, j int) bool { return out[i].AverageRating < out[j].AverageRating })
	case domain.SortMostReviews:
		sort.Slice(out, func(i, j int) bool { return out[i].TotalReviews > out[j].TotalReviews })
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	}
	return out, nil
}

func (f *fakeRepo) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rv, ok := f.reviews[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, nil
}

func (f *fakeRepo) ListReviewsByLandlord(ctx context.Context, landlordID int64) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Review
	for _, rv := range f.reviews {
		if rv.LandlordID == landlordID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeRepo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Review
	for _, rv := range f.reviews {
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeRepo) CreateReview(ctx context.Context, nr domain.NewReview) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.landlords[nr.LandlordID]; !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	f.nextReviewID++
	rv := domain.Review{
		ID:                   f.nextReviewID,
		LandlordID:           nr.LandlordID,
		AuthorName:           nr.AuthorName,
		IsAnonymous:          nr.IsAnonymous,
		OverallRating:        nr.OverallRating,
		DepositReturnRating:  nr.DepositReturnRating,
		ResponsivenessRating: nr.ResponsivenessRating,
		EthicsRating:         nr.EthicsRating,
		MaintenanceRating:    nr.MaintenanceRating,
		CommunicationRating:  nr.CommunicationRating,
		Content:              nr.Content,
		CreatedAt:            time.Now(),
	}
	f.reviews[rv.ID] = rv
	return rv, nil
}

func voteKey(reviewID int64, voterID string) string {
	return fmt.Sprintf("%d|%s", reviewID, voterID)
}

func (f *fakeRepo) CreateVote(ctx context.Context, nv domain.NewVote) (domain.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := voteKey(nv.ReviewID, nv.VoterID)
	if _, ok := f.votes[key]; ok {
		return domain.Vote{}, fmt.Errorf("vote on review %d: %w", nv.ReviewID, domain.ErrConflict)
	}
	f.nextVoteID++
	v := domain.Vote{ID: f.nextVoteID, ReviewID: nv.ReviewID, VoterID: nv.VoterID, IsHelpful: nv.IsHelpful}
	f.votes[key] = v
	return v, nil
}

func (f *fakeRepo) IncrementVote(ctx context.Context, reviewID int64, helpful bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rv, ok := f.reviews[reviewID]
	if !ok {
		return domain.ErrNotFound
	}
	if helpful {
		rv.HelpfulVotes++
	} else {
		rv.NotHelpfulVotes++
	}
	f.reviews[reviewID] = rv
	return nil
}

func (f *fakeRepo) CreateContribution(ctx context.Context, nc domain.NewContribution) (domain.Contribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s|%d", nc.ContributorID, nc.LandlordID)
	if _, ok := f.contribs[key]; ok {
		return domain.Contribution{}, fmt.Errorf("contribution for landlord %d: %w", nc.LandlordID, domain.ErrConflict)
	}
	f.nextContribID++
	c := domain.Contribution{
		ID:            f.nextContribID,
		LandlordID:    nc.LandlordID,
		SuggestedName: nc.SuggestedName,
		ContactInfo:   nc.ContactInfo,
		HowYouKnow:    nc.HowYouKnow,
		ContributorID: nc.ContributorID,
		CreatedAt:     time.Now(),
	}
	f.contribs[key] = c
	return c, nil
}

type fakeProvider struct {
	listings []domain.PropertyListing
	err      error
	calls    int
}

func (p *fakeProvider) SearchProperties(ctx context.Context, query, location string) ([]domain.PropertyListing, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.listings, nil
}

type fakeOwners struct {
	owner *domain.OwnerRecord
	err   error
}

func (o *fakeOwners) PropertyOwner(ctx context.Context, address, city, state string) (*domain.OwnerRecord, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.owner, nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func ptr[T any](v T) *T { return &v }
