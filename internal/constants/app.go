package constants

import "time"

// Danbooru endpoint defaults
const (
	// DefaultBaseURL is the public Danbooru instance.
	DefaultBaseURL = "https://danbooru.donmai.us"

	// PostPathFormat is the JSON endpoint for a single post.
	PostPathFormat = "/posts/%s.json"

	// UserAgent identifies us to Danbooru, which rejects some default Go agents.
	UserAgent = "booru-prompt/1.0 (+https://github.com/booru-prompt/booru-prompt)"
)

// Rate limiting
//
// Danbooru allows 10 read requests/second per IP for anonymous and basic users.
// We target half of that and allow a short burst for batch extraction.
const (
	DefaultRequestsPerSecond = 5.0
	DefaultBurstCapacity     = 10.0
)

// HTTP client settings
const (
	DefaultRequestTimeout = 30 * time.Second

	HTTPDialTimeout           = 10 * time.Second
	HTTPDialKeepAlive         = 30 * time.Second
	HTTPIdleConnTimeout       = 90 * time.Second
	HTTPTLSHandshakeTimeout   = 10 * time.Second
	HTTPExpectContinueTimeout = 1 * time.Second
)

// Retry configuration for retryablehttp
const (
	RetryMax     = 4
	RetryWaitMin = 500 * time.Millisecond
	RetryWaitMax = 8 * time.Second
)

// Export file naming
const (
	// ExportFilePrefix + post ID + ExportFileExt is the suggested file name.
	ExportFilePrefix = "danbooru_tags_"
	ExportFileExt    = ".txt"
)

// Log rotation (lumberjack)
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 5
	LogMaxAgeDays = 30
)
