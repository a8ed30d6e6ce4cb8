package synth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/custgen/internal/constraint"
	"github.com/example/custgen/internal/distribution"
	"github.com/example/custgen/internal/locale"
	"github.com/example/custgen/internal/stream"
)

const dateLayout = "2006-01-02"

// adulthoodAge is the age at which records start carrying financials.
const adulthoodAge = 18

// Passport issue probability for adults and minors.
const (
	adultPassportProb = 0.95
	minorPassportProb = 0.60
)

var (
	nricPrefixes  = []string{"S", "T", "F", "G"}
	nricChecksums = "ABCDEFGHIZJKLMN"
	upperLetters  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Synthesizer produces customer records from a resolved constraint set.
// Each record index owns a pseudorandom stream seeded (seed, index), so a
// record is a pure function of (seed, constraints, index, reference date)
// regardless of batch size or generation order.
//
// The draw order within a record is fixed:
//  1. customer id (16 stream bytes)
//  2. date-of-birth day offset
//  3. demographic sample (provider-defined, itself fixed per provider)
//  4. NRIC number parts (SG only)
//  5. passport presence, then passport number and expiry if present
//  6. adults only: employment category, monthly income, annual income noise
//
// Changing this order changes every seeded output and is a breaking change.
type Synthesizer struct {
	constraints constraint.Set
	employment  *distribution.Discrete
	locales     *locale.Registry
	seed        uint64
	now         func() time.Time
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithClock fixes the reference date used for date-of-birth and document
// expiry arithmetic. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) { s.now = now }
}

// WithLocales supplies a custom locale registry.
func WithLocales(r *locale.Registry) Option {
	return func(s *Synthesizer) { s.locales = r }
}

// New creates a Synthesizer for the given resolved constraint set and seed.
func New(cs constraint.Set, seed uint64, opts ...Option) (*Synthesizer, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	employment, err := distribution.New(cs.EmploymentDistribution)
	if err != nil {
		return nil, fmt.Errorf("building employment distribution: %w", err)
	}

	s := &Synthesizer{
		constraints: cs,
		employment:  employment,
		locales:     locale.NewRegistry(),
		seed:        seed,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Record synthesizes the record at the given index. The result is not yet
// schema-validated; the batch runner owns the validation gate.
func (s *Synthesizer) Record(index int) (*CustomerRecord, error) {
	st := stream.New(s.seed, index)
	today := dateOf(s.now())
	cs := s.constraints

	id, err := uuid.NewRandomFromReader(st)
	if err != nil {
		return nil, fmt.Errorf("generating customer id: %w", err)
	}

	dob := s.dateOfBirth(st, today)
	age := ageAt(dob, today)

	sample := s.locales.For(cs.Country).Demographics(st)

	rec := &CustomerRecord{
		CustomerID: id.String(),
		PersonalDetails: PersonalDetails{
			Name:        sample.Name,
			Nationality: cs.Nationality,
			DateOfBirth: dob.Format(dateLayout),
			Address:     sample.Address,
		},
		Demographics: Demographics{
			Age:     age,
			Gender:  sample.Gender,
			Country: cs.Country,
			City:    sample.City,
		},
	}

	rec.IDDocuments = s.identityDocuments(st, rec, today)

	if age >= adulthoodAge {
		rec.Financials = s.financials(st)
	}

	return rec, nil
}

// dateOfBirth draws a DOB uniformly over the span that puts the resulting
// age inside [MinAge, MaxAge] inclusive. The earliest admissible DOB is the
// day after the date at which age would become MaxAge+1.
func (s *Synthesizer) dateOfBirth(st *stream.Stream, today time.Time) time.Time {
	latest := today.AddDate(-s.constraints.MinAge, 0, 0)
	earliest := today.AddDate(-(s.constraints.MaxAge + 1), 0, 0).AddDate(0, 0, 1)
	spanDays := int(latest.Sub(earliest).Hours() / 24)
	return earliest.AddDate(0, 0, st.IntRange(0, spanDays))
}

// identityDocuments draws the NRIC (SG residents) and, probabilistically,
// a passport. Returns nil when the customer carries no documents.
func (s *Synthesizer) identityDocuments(st *stream.Stream, rec *CustomerRecord, today time.Time) *IDDocuments {
	docs := &IDDocuments{}

	if s.constraints.Country == "SG" {
		docs.NRIC = &NRIC{
			NRICNumber:  nricNumber(st),
			Nationality: rec.PersonalDetails.Nationality,
			Address:     rec.PersonalDetails.Address,
		}
	}

	prob := minorPassportProb
	if rec.IsAdult() {
		prob = adultPassportProb
	}
	if st.Rand.Float64() < prob {
		expiry := today.AddDate(0, 0, st.IntRange(365, 3650))
		docs.Passport = &Passport{
			PassportNumber: passportNumber(st),
			Nationality:    rec.PersonalDetails.Nationality,
			ExpiryDate:     expiry.Format(dateLayout),
			IssuingCountry: s.constraints.Country,
		}
	}

	if docs.NRIC == nil && docs.Passport == nil {
		return nil
	}
	return docs
}

// financials draws the employment category from the weighted distribution,
// the monthly income uniformly from the category's range, and the annual
// income as monthly x 12 perturbed by up to +-5% multiplicative noise.
// The perturbation applies after the x12 annualization, and both figures are
// rounded to the currency's two-decimal minor unit. Rounding the annual
// figure last means the +-5% bound holds to within half a cent of the exact
// product.
func (s *Synthesizer) financials(st *stream.Stream) *Financials {
	category := s.employment.Sample(st.Rand.Float64())
	rng := s.constraints.MonthlyIncomeRanges[category]

	monthly := decimal.NewFromFloat(st.FloatRange(rng.Low, rng.High)).Round(2)
	noise := st.FloatRange(-0.05, 0.05)
	annual := monthly.
		Mul(decimal.NewFromInt(12)).
		Mul(decimal.NewFromFloat(1 + noise)).
		Round(2)

	return &Financials{
		EmploymentType: category,
		MonthlyIncome:  monthly.InexactFloat64(),
		AnnualIncome:   annual.InexactFloat64(),
		Currency:       s.constraints.Currency,
	}
}

// nricNumber draws a synthetic NRIC-like number: prefix letter, seven
// digits, checksum letter. The checksum only looks plausible; real NRIC
// check digits are deliberately not reproduced.
func nricNumber(st *stream.Stream) string {
	prefix := stream.Pick(st, nricPrefixes)
	digits := make([]byte, 7)
	for i := range digits {
		digits[i] = byte('0' + st.IntRange(0, 9))
	}
	checksum := nricChecksums[st.IntRange(0, len(nricChecksums)-1)]
	return prefix + string(digits) + string(checksum)
}

// passportNumber draws a synthetic passport number: two uppercase letters
// followed by seven digits.
func passportNumber(st *stream.Stream) string {
	a := upperLetters[st.IntRange(0, 25)]
	b := upperLetters[st.IntRange(0, 25)]
	return fmt.Sprintf("%c%c%d", a, b, st.IntRange(1000000, 9999999))
}

// dateOf truncates a time to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ageAt computes completed years between dob and today.
func ageAt(dob, today time.Time) int {
	years := today.Year() - dob.Year()
	if today.Month() < dob.Month() ||
		(today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}
	return years
}
