package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "landlordwatch/internal/adapters/redis"
	"landlordwatch/internal/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	addr := "12 Oak St"
	in := domain.Landlord{ID: 7, Name: "Oak Street LLC", Location: "Frederick, MD", Address: &addr, AverageRating: 4.2}
	if err := c.Set(ctx, "landlord:7", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.Landlord
	ok, err := c.Get(ctx, "landlord:7", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if out.ID != in.ID || out.Name != in.Name || out.AverageRating != in.AverageRating {
		t.Fatalf("got %+v, want %+v", out, in)
	}
	if out.Address == nil || *out.Address != addr {
		t.Fatalf("address = %v", out.Address)
	}
}

func TestCache_MissAndDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var out domain.Landlord
	ok, err := c.Get(ctx, "landlord:404", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("unexpected hit")
	}

	if err := c.Set(ctx, "reviews:1", []domain.Review{{ID: 1}}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "reviews:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	var reviews []domain.Review
	if ok, _ := c.Get(ctx, "reviews:1", &reviews); ok {
		t.Fatal("key survived delete")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "landlord:9", domain.Landlord{ID: 9}, 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var out domain.Landlord
	if ok, _ := c.Get(ctx, "landlord:9", &out); ok {
		t.Fatal("entry survived its TTL")
	}
}
