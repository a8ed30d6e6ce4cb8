package locale

import (
	"fmt"

	"github.com/example/custgen/internal/stream"
)

// PlanningAreas is the fixed list of Singapore administrative planning areas
// used as the city field. It is a static lookup table, not free-form text.
var PlanningAreas = []string{
	"Central Area", "Bukit Timah", "Jurong East", "Jurong West", "Tampines",
	"Bedok", "Hougang", "Yishun", "Punggol", "Sengkang", "Toa Payoh",
	"Ang Mo Kio", "Woodlands", "Bukit Panjang", "Queenstown", "Clementi",
	"Marine Parade", "Serangoon", "Pasir Ris", "Choa Chu Kang",
}

// Name corpora grouped by community, sampled roughly in proportion to
// Singapore's resident population mix.
var (
	sgChineseSurnames = []string{
		"Tan", "Lim", "Lee", "Ng", "Ong", "Wong", "Goh", "Chua", "Chan", "Koh",
		"Teo", "Ang", "Yeo", "Tay", "Ho", "Low", "Toh", "Sim", "Chong", "Chia",
	}
	sgChineseMale = []string{
		"Wei Ming", "Jun Jie", "Kai Wen", "Zhi Hao", "Yong Sheng", "Jia Jun",
		"Wei Jie", "Cheng Han", "Zi Xuan", "Ming En",
	}
	sgChineseFemale = []string{
		"Hui Ling", "Xin Yi", "Jia Hui", "Mei Ling", "Shu Ting", "Wen Xin",
		"Li Ting", "Yu Xuan", "Hui Min", "Zi Qi",
	}
	sgMalayMale = []string{
		"Muhammad Irfan", "Ahmad Danish", "Muhammad Haziq", "Amirul Hakim",
		"Muhammad Aqil", "Nur Iman",
	}
	sgMalayFemale = []string{
		"Nur Aisyah", "Siti Nurhaliza", "Nur Syafiqah", "Nurul Huda",
		"Siti Zulaikha", "Nur Amirah",
	}
	sgMalaySurnames = []string{
		"bin Abdullah", "bin Ismail", "bin Hassan", "binte Rahman",
		"bin Yusof", "binte Salleh",
	}
	sgIndianMale = []string{
		"Arjun", "Karthik", "Vignesh", "Pranav", "Dinesh", "Suresh",
	}
	sgIndianFemale = []string{
		"Priya", "Kavitha", "Deepa", "Lakshmi", "Anitha", "Meena",
	}
	sgIndianSurnames = []string{
		"s/o Rajan", "d/o Krishnan", "Pillai", "Nair", "Menon", "Subramaniam",
	}
	sgStreetTypes = []string{"Street", "Avenue", "Drive", "Crescent", "Road"}
)

// communityWeights approximates the Chinese/Malay/Indian/other resident mix.
var communityWeights = []float64{0.74, 0.135, 0.09, 0.035}

// SingaporeProvider generates Singapore demographics from static corpora.
type SingaporeProvider struct{}

// NewSingapore creates the Singapore provider.
func NewSingapore() *SingaporeProvider {
	return &SingaporeProvider{}
}

// CountryCode returns "SG".
func (p *SingaporeProvider) CountryCode() string { return "SG" }

// Demographics draws, in order: gender, community, given name, surname,
// planning area, block number, street type, street number, unit floor, unit
// number, postal code.
func (p *SingaporeProvider) Demographics(s *stream.Stream) Sample {
	gender := stream.Pick(s, genderOptions)
	community := sampleCommunity(s)

	feminine := gender == "Female"
	var given, surname string
	switch community {
	case 0: // Chinese
		if feminine {
			given = stream.Pick(s, sgChineseFemale)
		} else {
			given = stream.Pick(s, sgChineseMale)
		}
		surname = stream.Pick(s, sgChineseSurnames)
		// Surname-first ordering is conventional.
		given, surname = surname, given
	case 1: // Malay
		if feminine {
			given = stream.Pick(s, sgMalayFemale)
		} else {
			given = stream.Pick(s, sgMalayMale)
		}
		surname = stream.Pick(s, sgMalaySurnames)
	case 2: // Indian
		if feminine {
			given = stream.Pick(s, sgIndianFemale)
		} else {
			given = stream.Pick(s, sgIndianMale)
		}
		surname = stream.Pick(s, sgIndianSurnames)
	default: // other residents, generic corpus
		given = s.Faker.FirstName()
		surname = s.Faker.LastName()
	}

	city := stream.Pick(s, PlanningAreas)
	address := p.address(s, city)

	return Sample{
		Name:    given + " " + surname,
		Gender:  gender,
		City:    city,
		Address: address,
	}
}

// address builds an HDB-style address within the given planning area.
func (p *SingaporeProvider) address(s *stream.Stream, area string) string {
	block := s.IntRange(1, 980)
	streetType := stream.Pick(s, sgStreetTypes)
	streetNum := s.IntRange(1, 12)
	floor := s.IntRange(2, 25)
	unit := s.IntRange(1, 250)
	postal := s.IntRange(100000, 829999)

	return fmt.Sprintf("Blk %d %s %s %d, #%02d-%03d, Singapore %06d",
		block, area, streetType, streetNum, floor, unit, postal)
}

// sampleCommunity returns the community index for one draw.
func sampleCommunity(s *stream.Stream) int {
	u := s.Rand.Float64()
	acc := 0.0
	for i, w := range communityWeights {
		acc += w
		if u < acc {
			return i
		}
	}
	return len(communityWeights) - 1
}
