// Package locale provides country-keyed demographic data providers. The
// synthesizer asks the registry for a provider and consumes demographic
// samples from it; adding a country means registering a provider, not
// touching the synthesizer's control flow.
package locale

import (
	"github.com/example/custgen/internal/stream"
)

// Sample is one demographic sample: the locale-dependent identity fields of
// a customer record.
type Sample struct {
	Name    string
	Gender  string
	City    string
	Address string
}

// Provider produces demographic samples for one country. Implementations
// must draw from the supplied stream in a fixed order so that identical
// stream positions yield identical samples.
type Provider interface {
	// CountryCode returns the ISO 3166-1 alpha-2 code this provider serves.
	CountryCode() string

	// Demographics draws one demographic sample from the stream.
	Demographics(s *stream.Stream) Sample
}

// genderOptions is the fixed gender enumeration used by all providers.
var genderOptions = []string{"Male", "Female", "Other", "Prefer not to say"}

// Registry maps country codes to providers, with a fallback for countries
// that have no dedicated provider.
type Registry struct {
	providers map[string]Provider
	fallback  Provider
}

// NewRegistry creates a registry with the built-in providers registered:
// a Singapore provider backed by static corpora and a generic faker-backed
// fallback for every other country.
func NewRegistry() *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		fallback:  &genericProvider{},
	}
	r.Register(NewSingapore())
	return r
}

// Register adds a provider for its country code, replacing any existing one.
func (r *Registry) Register(p Provider) {
	r.providers[p.CountryCode()] = p
}

// For returns the provider for the given country code, or the generic
// fallback when none is registered.
func (r *Registry) For(country string) Provider {
	if p, ok := r.providers[country]; ok {
		return p
	}
	return r.fallback
}

// genericProvider serves countries without a dedicated corpus using gofakeit
// data from the record stream.
type genericProvider struct{}

func (g *genericProvider) CountryCode() string { return "" }

// Demographics draws, in order: gender, first name, last name, city, street,
// postal code.
func (g *genericProvider) Demographics(s *stream.Stream) Sample {
	gender := stream.Pick(s, genderOptions)
	first := s.Faker.FirstName()
	last := s.Faker.LastName()
	city := s.Faker.City()
	street := s.Faker.Street()
	zip := s.Faker.Zip()

	return Sample{
		Name:    first + " " + last,
		Gender:  gender,
		City:    city,
		Address: street + ", " + city + " " + zip,
	}
}
