package customers

import "regexp"

var (
	taxIDPattern = regexp.MustCompile(`^[0-9]{8}[A-Za-z]$`)
	phonePattern = regexp.MustCompile(`^[0-9]{9}$`)
)

// LegalIdentity holds the legal registration data of a Customer. Both rows
// are created and removed together.
type LegalIdentity struct {
	TaxID        string `gorm:"column:tax_id;type:varchar(9);primaryKey" json:"tax_id"`
	LegalAddress string `gorm:"column:legal_address;not null" json:"legal_address"`
	Phone        string `gorm:"column:phone;type:varchar(9);not null" json:"phone"`
}

func (LegalIdentity) TableName() string { return "legal_identities" }

// ValidTaxID reports whether s is eight digits followed by one letter.
func ValidTaxID(s string) bool { return taxIDPattern.MatchString(s) }

// ValidPhone reports whether s is exactly nine digits.
func ValidPhone(s string) bool { return phonePattern.MatchString(s) }
