package cache

import "strings"

// Cache keys are composite: the full id chain needed to disambiguate a value.

func BanksKey() string { return "banks" }

func BankKey(bankID string) string { return join("bank", bankID) }

func FoldersKey(bankID string) string { return join("folders", bankID) }

func FolderKey(bankID, folderID string) string { return join("folder", bankID, folderID) }

func ResumesKey(bankID, folderID string) string { return join("resumes", bankID, folderID) }

func ResumeKey(bankID, folderID, resumeID string) string {
	return join("resume", bankID, folderID, resumeID)
}

func SearchKey(bankID, folderID, query string) string {
	return join("search", bankID, folderID, query)
}

// StatusKey holds the liveness value
func StatusKey() string { return "status" }

// CompanyKey holds the company record; public selects the summary view
func CompanyKey(public bool) string {
	if public {
		return join("company", "public")
	}
	return join("company", "full")
}

// Tags group keys by the resource they were computed from.

func BanksTag() Tag { return "banks" }

func BankTag(bankID string) Tag { return Tag(join("bank", bankID)) }

func FoldersTag(bankID string) Tag { return Tag(join("folders", bankID)) }

func FolderTag(bankID, folderID string) Tag { return Tag(join("folder", bankID, folderID)) }

func ResumesTag(bankID, folderID string) Tag { return Tag(join("resumes", bankID, folderID)) }

func ResumeTag(bankID, folderID, resumeID string) Tag {
	return Tag(join("resume", bankID, folderID, resumeID))
}

// SearchTag covers every search result computed within a bank
func SearchTag(bankID string) Tag { return Tag(join("search", bankID)) }

// CompaniesTag covers every company read, including a cached NotFound
func CompaniesTag() Tag { return "companies" }

func CompanyTag(companyID string) Tag { return Tag(join("company", companyID)) }

func join(parts ...string) string {
	return strings.Join(parts, ":")
}
