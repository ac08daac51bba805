package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"landlordwatch/internal/app"
	"landlordwatch/internal/domain"
)

func newLandlordService(repo *fakeRepo, p domain.PropertyProvider, o domain.OwnerLookup) *app.LandlordService {
	return app.NewLandlordService(repo, p, o, nil, time.Minute, time.Second)
}

func TestSearch_LocationTokensMatchAddressToo(t *testing.T) {
	repo := newFakeRepo()
	match := repo.addLandlord("City Center Props", "Baltimore, Maryland", ptr("123 Main St, Frederick, MD"))
	repo.addLandlord("Harbor Homes", "Annapolis, Virginia", ptr("9 Dock Rd, Norfolk, VA"))
	svc := newLandlordService(repo, nil, nil)

	// "frederick" and "md" are matched as literal substrings against both
	// the stored location and address; neither token appears anywhere on
	// the second landlord, so only the first comes back
	got, err := svc.Search(context.Background(), app.SearchQuery{Location: "Frederick, MD"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != match.ID {
		t.Fatalf("got %+v, want only %q", got, match.Name)
	}
}

func TestSearch_AllLocationsDisablesFilter(t *testing.T) {
	repo := newFakeRepo()
	repo.addLandlord("One LLC", "Frederick, MD", nil)
	repo.addLandlord("Two LLC", "Portland, OR", nil)
	svc := newLandlordService(repo, nil, nil)

	got, err := svc.Search(context.Background(), app.SearchQuery{Query: "LLC", Location: "All Locations"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestSearch_ProviderFailureDegradesToLocal(t *testing.T) {
	repo := newFakeRepo()
	l := repo.addLandlord("Local Only LLC", "Frederick, MD", nil)
	provider := &fakeProvider{err: errors.New("rentcast: 503")}
	svc := newLandlordService(repo, provider, nil)

	got, err := svc.Search(context.Background(), app.SearchQuery{Query: "Local"})
	if err != nil {
		t.Fatalf("provider failure surfaced: %v", err)
	}
	if len(got) != 1 || got[0].ID != l.ID {
		t.Fatalf("got %+v, want local record", got)
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d", provider.calls)
	}
}

func TestSearch_MergeDedupesByNameAndLocation(t *testing.T) {
	repo := newFakeRepo()
	local := repo.addLandlord("ABC Property Management", "San Francisco, CA", nil)
	provider := &fakeProvider{listings: []domain.PropertyListing{
		{
			FormattedAddress: "500 Market St, San Francisco, CA",
			City:             "San Francisco",
			State:            "CA",
			PropertyManager:  ptr("ABC Property Management"),
		},
	}}
	svc := newLandlordService(repo, provider, nil)

	got, err := svc.Search(context.Background(), app.SearchQuery{Query: "ABC"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want deduped 1", len(got))
	}
	// the provider candidate resolves to the already-stored record
	if got[0].ID != local.ID {
		t.Fatalf("id = %d, want stored %d", got[0].ID, local.ID)
	}
}

func TestSearch_AdoptsNewProviderCandidates(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{listings: []domain.PropertyListing{
		{
			FormattedAddress: "77 Pine Ave, Frederick, MD",
			City:             "Frederick",
			State:            "MD",
			OwnerName:        ptr("Pine Avenue Holdings"),
		},
	}}
	svc := newLandlordService(repo, provider, nil)

	got, err := svc.Search(context.Background(), app.SearchQuery{Query: "Pine"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID == 0 {
		t.Fatalf("candidate not persisted: %+v", got)
	}
	stored, err := repo.GetLandlordByName(context.Background(), "Pine Avenue Holdings")
	if err != nil {
		t.Fatalf("adopted landlord missing: %v", err)
	}
	if stored.Location != "Frederick, MD" {
		t.Fatalf("location = %q", stored.Location)
	}
	if stored.Address == nil || *stored.Address != "77 Pine Ave, Frederick, MD" {
		t.Fatalf("address = %v", stored.Address)
	}
}

func TestSearch_GroupsMultiPropertyOwners(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{listings: []domain.PropertyListing{
		{FormattedAddress: "1 Elm St, Frederick, MD", City: "Frederick", State: "MD", OwnerName: ptr("Elm Estates")},
		{FormattedAddress: "2 Elm St, Frederick, MD", City: "Frederick", State: "MD", OwnerName: ptr("Elm Estates")},
	}}
	svc := newLandlordService(repo, provider, nil)

	got, err := svc.Search(context.Background(), app.SearchQuery{Query: "Elm"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want grouped 1", len(got))
	}
	if got[0].Address == nil || *got[0].Address != "2 properties" {
		t.Fatalf("address = %v, want '2 properties'", got[0].Address)
	}
}

func TestSearch_RatingFilterAndSort(t *testing.T) {
	repo := newFakeRepo()
	low := repo.addLandlord("Low LLC", "Frederick, MD", nil)
	high := repo.addLandlord("High LLC", "Frederick, MD", nil)
	mid := repo.addLandlord("Mid LLC", "Frederick, MD", nil)
	setRating := func(id int64, avg float64, total int) {
		if err := repo.UpdateLandlordRatings(context.Background(), id, domain.RatingSummary{Average: avg, TotalReviews: total}); err != nil {
			t.Fatalf("seed rating: %v", err)
		}
	}
	setRating(low.ID, 1.5, 2)
	setRating(high.ID, 4.8, 5)
	setRating(mid.ID, 3.2, 9)

	svc := newLandlordService(repo, nil, nil)

	got, err := svc.Search(context.Background(), app.SearchQuery{Query: "LLC", SortBy: domain.SortHighestRated, MinRating: 3})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 after minRating=3", len(got))
	}
	if got[0].ID != high.ID || got[1].ID != mid.ID {
		t.Fatalf("order = [%s %s], want highest first", got[0].Name, got[1].Name)
	}

	got, err = svc.Search(context.Background(), app.SearchQuery{Query: "LLC", SortBy: domain.SortMostReviews})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got[0].ID != mid.ID {
		t.Fatalf("most-reviews first = %s, want Mid LLC", got[0].Name)
	}
}

func TestSearch_NoParamsListsStore(t *testing.T) {
	repo := newFakeRepo()
	repo.addLandlord("First LLC", "Frederick, MD", nil)
	second := repo.addLandlord("Second LLC", "Frederick, MD", nil)
	provider := &fakeProvider{}
	svc := newLandlordService(repo, provider, nil)

	got, err := svc.Search(context.Background(), app.SearchQuery{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID {
		t.Fatalf("got %+v, want newest-first listing", got)
	}
	if provider.calls != 0 {
		t.Fatal("provider consulted for a bare listing")
	}
}

func TestEnhancedSearch_ResolvesOwnerAndPersists(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{listings: []domain.PropertyListing{
		{FormattedAddress: "300 W Patrick St, Frederick, MD", City: "Frederick", State: "MD"},
	}}
	owners := &fakeOwners{owner: &domain.OwnerRecord{
		OwnerName: "Patrick Street Partners",
		Source:    "county assessor",
	}}
	svc := newLandlordService(repo, provider, owners)

	got, err := svc.EnhancedSearch(context.Background(), "300 W Patrick St", "Frederick, MD")
	if err != nil {
		t.Fatalf("enhanced search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Name != "Patrick Street Partners" {
		t.Fatalf("name = %q, want scraped owner", got[0].Name)
	}
	if _, err := repo.GetLandlordByName(context.Background(), "Patrick Street Partners"); err != nil {
		t.Fatalf("enhanced candidate not persisted: %v", err)
	}
}

func TestEnhancedSearch_OwnerLookupFailureKeepsCandidate(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{listings: []domain.PropertyListing{
		{FormattedAddress: "1 Fail St, Frederick, MD", City: "Frederick", State: "MD", OwnerName: ptr("Fallback Owner")},
	}}
	owners := &fakeOwners{err: errors.New("browser crashed")}
	svc := newLandlordService(repo, provider, owners)

	got, err := svc.EnhancedSearch(context.Background(), "1 Fail St", "Frederick, MD")
	if err != nil {
		t.Fatalf("enhanced search: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Fallback Owner" {
		t.Fatalf("got %+v, want unenhanced provider candidate", got)
	}
}

func TestEnhancedSearch_ProviderDownFallsBackToRegularSearch(t *testing.T) {
	repo := newFakeRepo()
	l := repo.addLandlord("Resilient Rentals", "Frederick, MD", nil)
	provider := &fakeProvider{err: errors.New("rentcast: timeout")}
	svc := newLandlordService(repo, provider, &fakeOwners{})

	got, err := svc.EnhancedSearch(context.Background(), "Resilient", "Frederick, MD")
	if err != nil {
		t.Fatalf("enhanced search: %v", err)
	}
	if len(got) != 1 || got[0].ID != l.ID {
		t.Fatalf("got %+v, want local fallback", got)
	}
}

func TestGet_CachesLandlord(t *testing.T) {
	repo := newFakeRepo()
	l := repo.addLandlord("Cached Estates", "Frederick, MD", nil)
	cache := &fakeCache{}
	svc := app.NewLandlordService(repo, nil, nil, cache, time.Minute, time.Second)

	if _, err := svc.Get(context.Background(), l.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	repo.mu.Lock()
	delete(repo.landlords, l.ID)
	repo.mu.Unlock()

	got, err := svc.Get(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if got.Name != "Cached Estates" {
		t.Fatalf("name = %q", got.Name)
	}
}

func TestCreate_ValidatesAndConflicts(t *testing.T) {
	repo := newFakeRepo()
	svc := newLandlordService(repo, nil, nil)

	_, err := svc.Create(context.Background(), app.CreateLandlordInput{Name: " ", Location: ""})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 2 {
		t.Fatalf("err = %v, want validation error naming name and location", err)
	}

	if _, err := svc.Create(context.Background(), app.CreateLandlordInput{Name: "Unique Name LLC", Location: "Frederick, MD"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.Create(context.Background(), app.CreateLandlordInput{Name: "unique name llc", Location: "Elsewhere"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate name err = %v, want ErrConflict", err)
	}
}
