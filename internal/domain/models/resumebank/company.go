package resumebank

import "time"

// Company is the organisation operating the résumé banks. One record is
// expected; it is created at startup from configuration.
type Company struct {
	ID        string    `json:"id" db:"id"`
	CNPJ      string    `json:"cnpj" db:"cnpj"` // 14 digits, no punctuation
	LegalName string    `json:"legal_name" db:"legal_name"`
	TradeName string    `json:"trade_name" db:"trade_name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email" db:"email"`
	Address   Address   `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Address is stored as one JSONB document
type Address struct {
	PostalCode string `json:"postal_code,omitempty"`
	Street     string `json:"street,omitempty"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
}

// CompanySummary is what anonymous callers may see
type CompanySummary struct {
	TradeName string `json:"trade_name"`
	CNPJ      string `json:"cnpj"`
	LegalName string `json:"legal_name"`
}

func (c *Company) Summary() CompanySummary {
	return CompanySummary{TradeName: c.TradeName, CNPJ: c.CNPJ, LegalName: c.LegalName}
}
