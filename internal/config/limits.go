package config

const (
	// MaxBankNameLength is the maximum length for bank names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxBankNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 255

	// MaxResumeNameLength is the maximum length for a candidate name.
	MaxResumeNameLength = 255

	// MaxCompanyNameLength bounds legal and trade names.
	MaxCompanyNameLength = 255

	// MaxAttachmentSize caps a single attachment upload (PDF).
	MaxAttachmentSize = 8 << 20

	// MaxRequestBodySize bounds JSON bodies; attachments travel base64 encoded
	// so this sits above MaxAttachmentSize.
	MaxRequestBodySize = 12 << 20

	// DefaultCacheTTLSeconds is the lifetime of cached read envelopes.
	DefaultCacheTTLSeconds = 600

	// StatusCacheTTLSeconds is the lifetime of the /status value.
	StatusCacheTTLSeconds = 50

	// DefaultSearchMaxTokens is the token budget for the candidates sent to the matcher.
	DefaultSearchMaxTokens = 128000

	// CharsPerToken approximates tokenizer output for budget checks.
	CharsPerToken = 4
)
