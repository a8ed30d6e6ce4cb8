// Package synth assembles individual customer records from a resolved
// constraint set and a seeded pseudorandom stream.
package synth

// CustomerRecord is one generated customer. It serializes to a single JSON
// Lines entry. Financials is present if and only if the customer is an adult
// (age >= 18); for minors the field is absent, never null.
type CustomerRecord struct {
	CustomerID      string          `json:"customer_id"`
	PersonalDetails PersonalDetails `json:"personal_details"`
	Demographics    Demographics    `json:"demographics"`
	IDDocuments     *IDDocuments    `json:"id_documents,omitempty"`
	Financials      *Financials     `json:"financials,omitempty"`
}

// PersonalDetails holds the identity fields of a customer.
type PersonalDetails struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
}

// Demographics holds the statistical fields of a customer.
type Demographics struct {
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// IDDocuments holds the identity documents issued to a customer. Both
// documents are optional; SG residents always carry an NRIC.
type IDDocuments struct {
	NRIC     *NRIC     `json:"nric,omitempty"`
	Passport *Passport `json:"passport,omitempty"`
}

// NRIC is a synthetic Singapore national registration identity card.
type NRIC struct {
	NRICNumber  string `json:"nric_number"`
	Nationality string `json:"nationality"`
	Address     string `json:"address"`
}

// Passport is a synthetic passport document.
type Passport struct {
	PassportNumber string `json:"passport_number"`
	Nationality    string `json:"nationality"`
	ExpiryDate     string `json:"expiry_date"`
	IssuingCountry string `json:"issuing_country"`
}

// Financials holds the employment and income fields of an adult customer.
// Income figures are rounded to two decimal places.
type Financials struct {
	EmploymentType string  `json:"employment_type"`
	MonthlyIncome  float64 `json:"monthly_income"`
	AnnualIncome   float64 `json:"annual_income"`
	Currency       string  `json:"currency"`
}

// IsAdult reports whether the record carries adult obligations.
func (r *CustomerRecord) IsAdult() bool {
	return r.Demographics.Age >= 18
}
