package resumebank

import (
	"slices"
	"time"
)

// DefaultFolderColor is applied when a folder is created without a color
const DefaultFolderColor = "#ffcf48"

type Folder struct {
	ID         string    `json:"id" db:"id"`
	BankID     string    `json:"bank_id" db:"bank_id"` // immutable after creation
	ParentID   *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name       string    `json:"name" db:"name"`
	Color      string    `json:"color" db:"color"`
	Documents  []string  `json:"documents" db:"documents"`     // ordered résumé ids
	SubFolders []string  `json:"sub_folders" db:"sub_folders"` // ordered child folder ids
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// IsEmpty reports whether the folder can be deleted
func (f *Folder) IsEmpty() bool {
	return len(f.Documents) == 0 && len(f.SubFolders) == 0
}

// HasSubFolder reports whether id is listed as a direct child
func (f *Folder) HasSubFolder(id string) bool {
	return slices.Contains(f.SubFolders, id)
}

// HasDocument reports whether the résumé id is listed in this folder
func (f *Folder) HasDocument(id string) bool {
	return slices.Contains(f.Documents, id)
}

// FolderDetail is a folder with its resolved children.
// Documents carry summaries only (name + last modified), never full payloads.
type FolderDetail struct {
	Folder     *Folder         `json:"folder"`
	SubFolders []Folder        `json:"sub_folders"`
	Documents  []ResumeSummary `json:"documents"`
}

// ParentLink is the resolved parent of a folder being created.
// An Unbound link means the folder sits at root level, whether no parent was
// requested or the requested parent does not exist in the bank.
type ParentLink struct {
	id string
}

// Bound links to an existing parent folder in the same bank
func Bound(parentID string) ParentLink { return ParentLink{id: parentID} }

// Unbound is the root-level link
func Unbound() ParentLink { return ParentLink{} }

func (p ParentLink) IsBound() bool { return p.id != "" }

// ID returns the parent id, or "" when unbound
func (p ParentLink) ID() string { return p.id }

// Ptr returns the parent id as a nullable column value
func (p ParentLink) Ptr() *string {
	if !p.IsBound() {
		return nil
	}
	id := p.id
	return &id
}

// OptionalParent carries tri-state move semantics for folder updates.
// Transport-agnostic: the handler maps it from httputil.OptionalString.
//   - Present=false: keep the current parent
//   - Present=true, Value=nil: move to root level
//   - Present=true, Value=&id: move under id
type OptionalParent struct {
	Present bool
	Value   *string
}
