package customers

import (
	"strings"
	"time"
)

// Customer is a registered buyer. Its primary key is the tax id it shares
// with its LegalIdentity.
type Customer struct {
	TaxID        string    `gorm:"column:tax_id;type:varchar(9);primaryKey" json:"tax_id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Email        string    `gorm:"column:email;not null;uniqueIndex:idx_customers_email" json:"email"`
	RegisteredAt time.Time `gorm:"column:registered_at;not null;index" json:"registered_at"`

	LegalIdentity *LegalIdentity `gorm:"foreignKey:TaxID;references:TaxID" json:"legal_identity,omitempty"`
}

func (Customer) TableName() string { return "customers" }

// EmailForTaxID derives the contact address assigned at registration.
func EmailForTaxID(taxID string) string {
	return strings.ToLower(strings.TrimSpace(taxID)) + "@mail.com"
}
