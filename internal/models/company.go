package models

// CompanyDetails describes the legal entity behind a user or a client.
type CompanyDetails struct {
	Name      string `json:"name"`
	VATNumber string `json:"vatNumber"`
	RegNumber string `json:"regNumber"`
	Address   string `json:"address"`

	// Banking identifiers, only meaningful for a user's own company.
	IBAN  string `json:"iban,omitempty"`
	SWIFT string `json:"swift,omitempty"`
}

// Identifies reports whether d and other share a tax or registration number.
// Empty numbers never match.
func (d CompanyDetails) Identifies(other CompanyDetails) bool {
	if d.VATNumber != "" && d.VATNumber == other.VATNumber {
		return true
	}
	return d.RegNumber != "" && d.RegNumber == other.RegNumber
}

// Merge returns d with every non-empty field of other applied over it.
func (d CompanyDetails) Merge(other CompanyDetails) CompanyDetails {
	if other.Name != "" {
		d.Name = other.Name
	}
	if other.VATNumber != "" {
		d.VATNumber = other.VATNumber
	}
	if other.RegNumber != "" {
		d.RegNumber = other.RegNumber
	}
	if other.Address != "" {
		d.Address = other.Address
	}
	if other.IBAN != "" {
		d.IBAN = other.IBAN
	}
	if other.SWIFT != "" {
		d.SWIFT = other.SWIFT
	}
	return d
}
