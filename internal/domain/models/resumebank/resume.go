package resumebank

import (
	"time"
)

// Gender values accepted on a résumé profile
const (
	GenderMale        = "male"
	GenderFemale      = "female"
	GenderOther       = "other"
	GenderUnspecified = "unspecified"
)

// Genders lists every accepted gender value
var Genders = []interface{}{GenderMale, GenderFemale, GenderOther, GenderUnspecified}

// Experience is one entry of professional history
type Experience struct {
	Duration    string `json:"duration,omitempty"`
	Place       string `json:"place,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is used for both formal education and short courses
type Education struct {
	Institution string `json:"institution,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Contact struct {
	Phones      []string     `json:"phones,omitempty"`
	City        string       `json:"city,omitempty"`
	Email       string       `json:"email,omitempty"`
	SocialLinks []SocialLink `json:"social_links,omitempty"`
}

// ExtraField is a free-form name/value pair
type ExtraField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResumeProfile holds the structured personal and professional fields.
// It is persisted as a single JSONB column.
type ResumeProfile struct {
	Age         *int         `json:"age,omitempty"`
	CurrentRole string       `json:"current_role,omitempty"`
	About       string       `json:"about,omitempty"`
	Gender      string       `json:"gender,omitempty"`
	Skills      []string     `json:"skills,omitempty"`
	Experiences []Experience `json:"experiences,omitempty"`
	Education   []Education  `json:"education,omitempty"`
	Courses     []Education  `json:"courses,omitempty"`
	Contact     *Contact     `json:"contact,omitempty"`
	Objective   string       `json:"objective,omitempty"`
	ExtraData   []ExtraField `json:"extra_data,omitempty"`
}

// Resume is a leaf document owned by exactly one folder
type Resume struct {
	ID           string        `json:"id" db:"id"`
	FolderID     string        `json:"folder_id" db:"folder_id"`
	Name         string        `json:"name" db:"name"`
	Profile      ResumeProfile `json:"profile" db:"profile"`
	AttachmentID *string       `json:"attachment_id,omitempty" db:"attachment_id"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// ResumeSummary is the lightweight projection used in folder listings
type ResumeSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary projects the résumé to its listing form
func (r *Resume) Summary() ResumeSummary {
	return ResumeSummary{ID: r.ID, Name: r.Name, UpdatedAt: r.UpdatedAt}
}

// Attachment is binary content supplied alongside a résumé write
type Attachment struct {
	Data        []byte
	ContentType string
}
