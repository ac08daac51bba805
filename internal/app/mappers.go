package app

import (
	"fmt"
	"strings"

	"landlordwatch/internal/domain"
)

const unknownOwnerName = "Unknown Property Owner"

// normKey is the merge key for de-duplicating candidates across sources:
// lowercased name + lowercased location, exact equality.
func normKey(name, location string) string {
	return strings.ToLower(name) + "|" + strings.ToLower(location)
}

// locationTokens splits a location string on commas and whitespace into
// non-empty lowercase tokens.
func locationTokens(location string) []string {
	return strings.FieldsFunc(strings.ToLower(location), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// matchesLocation is the deliberately loose, recall-favoring filter: any
// token that substring-matches the candidate's location or address counts.
func matchesLocation(l domain.Landlord, location string) bool {
	if location == "" || location == "All Locations" {
		return true
	}
	loc := strings.ToLower(l.Location)
	addr := ""
	if l.Address != nil {
		addr = strings.ToLower(*l.Address)
	}
	for _, tok := range locationTokens(location) {
		if strings.Contains(loc, tok) || strings.Contains(addr, tok) {
			return true
		}
	}
	return false
}

// groupListings folds provider listings into landlord candidates keyed by
// owner/manager name + "City, State". Owners holding several listed
// properties get a summary address.
func groupListings(listings []domain.PropertyListing) []domain.Landlord {
	type group struct {
		name      string
		location  string
		addresses []string
	}
	groups := make(map[string]*group)
	var order []string

	for _, p := range listings {
		name := unknownOwnerName
		switch {
		case p.PropertyManager != nil && *p.PropertyManager != "":
			name = *p.PropertyManager
		case p.OwnerName != nil && *p.OwnerName != "":
			name = *p.OwnerName
		}
		location := fmt.Sprintf("%s, %s", p.City, p.State)
		address := p.FormattedAddress
		if address == "" {
			address = p.AddressLine1
		}

		key := normKey(name, location)
		g, ok := groups[key]
		if !ok {
			g = &group{name: name, location: location}
			groups[key] = g
			order = append(order, key)
		}
		seen := false
		for _, a := range g.addresses {
			if a == address {
				seen = true
				break
			}
		}
		if !seen {
			g.addresses = append(g.addresses, address)
		}
	}

	out := make([]domain.Landlord, 0, len(order))
	for _, key := range order {
		g := groups[key]
		addr := fmt.Sprintf("%d properties", len(g.addresses))
		if len(g.addresses) == 1 {
			addr = g.addresses[0]
		}
		out = append(out, domain.Landlord{
			Name:     g.name,
			Location: g.location,
			Address:  &addr,
		})
	}
	return out
}

// splitCityState parses "City, ST" style locations; state is empty when the
// location has no comma-separated second part.
func splitCityState(location string) (city, state string) {
	parts := strings.SplitN(location, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		state = strings.TrimSpace(parts[1])
	}
	return city, state
}
