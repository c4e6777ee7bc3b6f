// ABOUTME: TikTok video URL validation using anchored patterns
// ABOUTME: Pure functions with no network or filesystem access

package validate

import (
	"regexp"
	"strings"
)

// Messages returned to interactive clients
const (
	MessageValid    = "Valid TikTok URL"
	MessageEmpty    = "Please enter a TikTok video URL"
	MessageInvalid  = "Please enter a valid TikTok video URL"
	MessageNotAText = "URL must be a string"
)

// Shape names a recognized URL layout
type Shape string

const (
	ShapeProfileVideo Shape = "profile_video"
	ShapeShortT       Shape = "short_t"
	ShapeShortVM      Shape = "short_vm"
	ShapeShortVT      Shape = "short_vt"
	ShapeMobileLegacy Shape = "mobile_legacy"
)

type pattern struct {
	shape Shape
	re    *regexp.Regexp
}

// Ordered so the most common shape is tried first.
var patterns = []pattern{
	{ShapeProfileVideo, regexp.MustCompile(`^https?://(?:www\.)?tiktok\.com/@[\w.-]+/video/(\d+)/?(?:\?.*)?$`)},
	{ShapeShortT, regexp.MustCompile(`^https?://(?:www\.)?tiktok\.com/t/[\w-]+/?$`)},
	{ShapeShortVM, regexp.MustCompile(`^https?://(?:www\.)?vm\.tiktok\.com/[\w-]+/?$`)},
	{ShapeShortVT, regexp.MustCompile(`^https?://(?:www\.)?vt\.tiktok\.com/[\w-]+/?$`)},
	{ShapeMobileLegacy, regexp.MustCompile(`^https?://(?:www\.)?m\.tiktok\.com/v/(\d+)\.html$`)},
}

// Result is the outcome of checking one candidate URL
type Result struct {
	Valid   bool
	Message string
	Shape   Shape
}

// IsValidVideoURL reports whether url is one of the recognized TikTok video URL shapes
func IsValidVideoURL(url string) bool {
	_, ok := Classify(url)
	return ok
}

// Classify returns the matched shape of a trimmed url
func Classify(url string) (Shape, bool) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", false
	}
	for _, p := range patterns {
		if p.re.MatchString(url) {
			return p.shape, true
		}
	}
	return "", false
}

// VideoID extracts the numeric video id from long-form URLs. Short links carry
// an opaque token instead, so they return "".
func VideoID(url string) string {
	url = strings.TrimSpace(url)
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(url); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// Check classifies an arbitrary decoded value, e.g. the "url" member of a JSON body
func Check(raw interface{}) Result {
	s, ok := raw.(string)
	if !ok {
		if raw == nil {
			return Result{Valid: false, Message: MessageEmpty}
		}
		return Result{Valid: false, Message: MessageNotAText}
	}
	if strings.TrimSpace(s) == "" {
		return Result{Valid: false, Message: MessageEmpty}
	}
	shape, ok := Classify(s)
	if !ok {
		return Result{Valid: false, Message: MessageInvalid}
	}
	return Result{Valid: true, Message: MessageValid, Shape: shape}
}

// Checker adapts Check to the handler contract
type Checker struct{}

// NewChecker creates a URL checker
func NewChecker() *Checker {
	return &Checker{}
}

// Check implements the handler-side URL checker. It never fails.
func (c *Checker) Check(raw interface{}) (Result, error) {
	return Check(raw), nil
}
