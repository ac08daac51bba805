package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"landlordwatch/internal/domain"
)

// enhanceWorkers bounds concurrent owner lookups in enhanced search; each
// lookup may drive a headless browser.
const enhanceWorkers = 4

// LandlordService is the directory surface: point lookups, explicit
// creation, and the multi-source search that reconciles local records with
// the external property provider and, on the enhanced path, scraped
// ownership data.
type LandlordService struct {
	repo            domain.Repository
	provider        domain.PropertyProvider
	owners          domain.OwnerLookup
	cache           domain.Cache
	cacheTTL        time.Duration
	providerTimeout time.Duration
}

func NewLandlordService(r domain.Repository, p domain.PropertyProvider, o domain.OwnerLookup, c domain.Cache, cacheTTL, providerTimeout time.Duration) *LandlordService {
	return &LandlordService{
		repo:            r,
		provider:        p,
		owners:          o,
		cache:           c,
		cacheTTL:        cacheTTL,
		providerTimeout: providerTimeout,
	}
}

func (s *LandlordService) Get(ctx context.Context, id int64) (domain.Landlord, error) {
	key := fmt.Sprintf("landlord:%d", id)
	if s.cache != nil {
		var cached domain.Landlord
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}
	landlord, err := s.repo.GetLandlord(ctx, id)
	if err != nil {
		return domain.Landlord{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, landlord, int(s.cacheTTL.Seconds()))
	}
	return landlord, nil
}

type CreateLandlordInput struct {
	Name     string
	Location string
	Address  string
}

func (s *LandlordService) Create(ctx context.Context, in CreateLandlordInput) (domain.Landlord, error) {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		ve.Add("name", "is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		ve.Add("location", "is required")
	}
	if !ve.Empty() {
		return domain.Landlord{}, ve
	}

	nl := domain.NewLandlord{Name: strings.TrimSpace(in.Name), Location: strings.TrimSpace(in.Location)}
	if addr := strings.TrimSpace(in.Address); addr != "" {
		nl.Address = &addr
	}
	return s.repo.CreateLandlord(ctx, nl)
}

type SearchQuery struct {
	Query     string
	Location  string
	SortBy    string
	MinRating int
}

// Search merges landlord candidates from the persistent store and the
// external property provider. Provider failure degrades to local-only
// results; it never fails the search.
func (s *LandlordService) Search(ctx context.Context, q SearchQuery) ([]domain.Landlord, error) {
	if q.Query == "" && q.Location == "" {
		return s.repo.ListLandlords(ctx, domain.ListQuery{SortBy: q.SortBy, MinRating: q.MinRating})
	}

	seen := make(map[string]struct{})
	var merged []domain.Landlord

	for _, cand := range s.providerCandidates(ctx, q.Query, q.Location) {
		key := normKey(cand.Name, cand.Location)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, s.adopt(ctx, cand))
	}

	local, err := s.repo.SearchLandlords(ctx, q.Query)
	if err != nil {
		return nil, err
	}
	for _, l := range local {
		if !matchesLocation(l, q.Location) {
			continue
		}
		key := normKey(l.Name, l.Location)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, l)
	}

	merged = filterByRating(merged, q.MinRating)
	sortLandlords(merged, q.SortBy)
	return merged, nil
}

// EnhancedSearch enriches provider results with best-effort scraped
// ownership data. A failed lookup leaves the candidate unenhanced; a failed
// provider call degrades to the regular search.
func (s *LandlordService) EnhancedSearch(ctx context.Context, query, location string) ([]domain.Landlord, error) {
	candidates := s.providerCandidates(ctx, query, location)
	if len(candidates) == 0 {
		return s.Search(ctx, SearchQuery{Query: query, Location: location})
	}

	results := make([]domain.Landlord, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enhanceWorkers)
	for i, cand := range candidates {
		g.Go(func() error {
			results[i] = s.enhance(gctx, cand)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

// providerCandidates queries the external provider within its timeout and
// groups listings into landlord candidates. Any failure yields nil.
func (s *LandlordService) providerCandidates(ctx context.Context, query, location string) []domain.Landlord {
	if s.provider == nil {
		return nil
	}
	pctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	listings, err := s.provider.SearchProperties(pctx, query, location)
	if err != nil {
		log.Warn().Err(err).Msg("property provider unavailable, serving local results only")
		return nil
	}
	return groupListings(listings)
}

// adopt persists a newly discovered provider candidate so later lookups by
// id succeed. Best-effort: any failure (including a create race) falls back
// to whatever record is available.
func (s *LandlordService) adopt(ctx context.Context, cand domain.Landlord) domain.Landlord {
	existing, err := s.repo.GetLandlordByName(ctx, cand.Name)
	if err == nil {
		return existing
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return cand
	}

	created, err := s.repo.CreateLandlord(ctx, domain.NewLandlord{
		Name:     cand.Name,
		Location: cand.Location,
		Address:  cand.Address,
	})
	if err == nil {
		return created
	}
	if errors.Is(err, domain.ErrConflict) {
		if existing, rerr := s.repo.GetLandlordByName(ctx, cand.Name); rerr == nil {
			return existing
		}
	}
	log.Warn().Err(err).Str("name", cand.Name).Msg("could not persist provider candidate")
	return cand
}

func (s *LandlordService) enhance(ctx context.Context, cand domain.Landlord) domain.Landlord {
	if s.owners == nil {
		return s.adopt(ctx, cand)
	}
	address := cand.Name
	if cand.Address != nil {
		address = *cand.Address
	}
	city, state := splitCityState(cand.Location)

	owner, err := s.owners.PropertyOwner(ctx, address, city, state)
	if err != nil || owner == nil {
		if err != nil {
			log.Warn().Err(err).Str("address", address).Msg("owner lookup failed")
		}
		return s.adopt(ctx, cand)
	}
	return s.adopt(ctx, domain.Landlord{
		Name:     owner.OwnerName,
		Location: cand.Location,
		Address:  cand.Address,
	})
}

func filterByRating(ls []domain.Landlord, minRating int) []domain.Landlord {
	if minRating <= 0 {
		return ls
	}
	out := ls[:0]
	for _, l := range ls {
		if l.AverageRating >= float64(minRating) {
			out = append(out, l)
		}
	}
	return out
}

func sortLandlords(ls []domain.Landlord, sortBy string) {
	switch sortBy {
	case domain.SortHighestRated:
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].AverageRating > ls[j].AverageRating })
	case domain.SortLowestRated:
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].AverageRating < ls[j].AverageRating })
	case domain.SortMostReviews:
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].TotalReviews > ls[j].TotalReviews })
	default:
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].ID > ls[j].ID })
	}
}
