package sitemap

import "errors"

// Sentinel errors raised at entry construction or builder construction.
// They are never wrapped for retry; callers match with errors.Is.
var (
	ErrMissingLocation     = errors.New("sitemap: url entry has no location")
	ErrMissingProtocol     = errors.New("sitemap: url location has no protocol")
	ErrInvalidChangeFreq   = errors.New("sitemap: invalid change frequency")
	ErrInvalidPriority     = errors.New("sitemap: priority outside [0.0, 1.0]")
	ErrTargetFolderMissing = errors.New("sitemap: target folder does not exist")
	ErrTooManyEntries      = errors.New("sitemap: url count exceeds protocol limit")
)
