package main

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"landlordwatch/internal/adapters/observability"
	"landlordwatch/internal/app"
	"landlordwatch/internal/domain"
	"landlordwatch/internal/shared"
	mysqlrepo "landlordwatch/internal/storage/mysql"
)

type seedReview struct {
	author      string
	isAnonymous bool
	ratings     [6]int // overall, deposit, responsiveness, ethics, maintenance, communication
	content     string
}

type seedLandlord struct {
	name     string
	location string
	address  string
	reviews  []seedReview
}

var seeds = []seedLandlord{
	{
		name: "ABC Property Management", location: "San Francisco, CA", address: "123 Main St, San Francisco, CA",
		reviews: []seedReview{{
			author: "Anonymous Tenant", isAnonymous: true, ratings: [6]int{4, 4, 5, 3, 4, 4},
			content: "Great responsiveness to maintenance requests, but they held onto my security deposit for minor wear and tear that should have been normal. Overall decent experience but be careful about deposit terms.",
		}},
	},
	{
		name: "John Smith Properties", location: "Brooklyn, NY", address: "456 Oak Ave, Brooklyn, NY",
		reviews: []seedReview{{
			author: "Verified Tenant", ratings: [6]int{1, 1, 2, 1, 2, 3},
			content: "Refused to accept my ESA letter despite legal requirements. Kept my entire deposit for 'cleaning fees' even though I left the place spotless. Avoid at all costs.",
		}},
	},
	{
		name: "Golden Gate Apartments", location: "San Francisco, CA", address: "789 Pine St, San Francisco, CA",
		reviews: []seedReview{{
			author: "Happy Tenant", ratings: [6]int{5, 5, 5, 5, 5, 5},
			content: "Excellent landlord! Returned my full deposit, always responsive to requests, and very professional. They even helped coordinate with movers when I was leaving. Highly recommend!",
		}},
	},
	{name: "Frederick Property Management", location: "Frederick, MD", address: "123 Main Street, Frederick, MD 21701"},
	{name: "Potomac Rentals LLC", location: "Frederick, MD", address: "456 Market Street, Frederick, MD 21702"},
	{name: "Carroll Creek Properties", location: "Frederick, MD", address: "789 Baker Street, Frederick, MD 21703"},
	{name: "Chesapeake Bay Rentals", location: "Baltimore, MD", address: "500 Harbor Dr, Baltimore, MD"},
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().Int("workers", cfg.SeedWorkers).Int("landlords", len(seeds)).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	repo := mysqlrepo.New(db)
	ratings := app.NewRatingService(repo)

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, seed := range seeds {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(seed seedLandlord) {
			defer wg.Done()
			defer sem.Release(1)

			if err := plant(ctx, repo, ratings, seed); err != nil {
				log.Warn().Str("name", seed.name).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("name", seed.name).Msg("seed ok")
		}(seed)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

func plant(ctx context.Context, repo domain.Repository, ratings *app.RatingService, seed seedLandlord) error {
	addr := seed.address
	landlord, err := repo.CreateLandlord(ctx, domain.NewLandlord{
		Name:     seed.name,
		Location: seed.location,
		Address:  &addr,
	})
	if errors.Is(err, domain.ErrConflict) {
		// already seeded; leave the existing record and its reviews alone
		log.Info().Str("name", seed.name).Msg("landlord already exists")
		return nil
	}
	if err != nil {
		return err
	}

	for _, rv := range seed.reviews {
		nr := domain.NewReview{
			LandlordID:           landlord.ID,
			IsAnonymous:          rv.isAnonymous,
			OverallRating:        rv.ratings[0],
			DepositReturnRating:  rv.ratings[1],
			ResponsivenessRating: rv.ratings[2],
			EthicsRating:         rv.ratings[3],
			MaintenanceRating:    rv.ratings[4],
			CommunicationRating:  rv.ratings[5],
			Content:              rv.content,
		}
		if !rv.isAnonymous && rv.author != "" {
			author := rv.author
			nr.AuthorName = &author
		}
		if _, err := repo.CreateReview(ctx, nr); err != nil {
			return err
		}
	}
	if len(seed.reviews) > 0 {
		return ratings.Recompute(ctx, landlord.ID)
	}
	return nil
}
