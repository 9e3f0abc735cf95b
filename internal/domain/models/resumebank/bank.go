package resumebank

import (
	"time"
)

// Bank is the top-level container of folders ("résumé bank").
type Bank struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Icon      *string   `json:"icon,omitempty" db:"icon"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BankMetadata holds the folder and résumé counts shown in bank listings
type BankMetadata struct {
	Folders int `json:"folders"`
	Resumes int `json:"resumes"`
}

// BankWithMetadata is a Bank annotated with its counts
type BankWithMetadata struct {
	Bank
	Metadata BankMetadata `json:"metadata"`
}
