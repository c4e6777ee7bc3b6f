// ABOUTME: File name utilities for naming downloaded videos
// ABOUTME: Turns arbitrary video titles into header-safe attachment names

package filename

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Fallback is used when a title has no usable characters
const Fallback = "tiktok-video"

// MaxSlugRunes caps the title part of a file name. Titles fall back to the
// video description, which can run to thousands of characters.
const MaxSlugRunes = 100

var (
	unsafeChars  = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\s\p{Z}-]`)
	separatorRun = regexp.MustCompile(`[\s\p{Z}-]+`)
	nonASCII     = regexp.MustCompile(`[^\x20-\x7e]`)
	unsafeExt    = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Slug reduces a title to letters, digits and single hyphens in any script.
// "My Clip!" becomes "My-Clip"; a title with nothing left becomes Fallback.
func Slug(title string) string {
	s := unsafeChars.ReplaceAllString(title, "")
	s = separatorRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if utf8.RuneCountInString(s) > MaxSlugRunes {
		s = strings.TrimRight(string([]rune(s)[:MaxSlugRunes]), "-")
	}
	if s == "" {
		return Fallback
	}
	return s
}

// ForDownload returns the attachment name for a video title and container extension
func ForDownload(title, ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	ext = unsafeExt.ReplaceAllString(ext, "")
	if ext == "" {
		ext = "mp4"
	}
	return Slug(title) + "." + ext
}

// ContentDisposition builds an attachment header value for a name produced by
// ForDownload. Non-ASCII names get an ASCII filename for old clients plus an
// RFC 5987 filename* carrying the UTF-8 name.
func ContentDisposition(name string) string {
	if !nonASCII.MatchString(name) {
		return fmt.Sprintf("attachment; filename=%q", name)
	}
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", asciiFallback(name), encodeExtValue(name))
}

// asciiFallback drops non-ASCII characters, keeping the extension
func asciiFallback(name string) string {
	stem, ext := name, ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		stem, ext = name[:i], name[i:]
	}
	stem = nonASCII.ReplaceAllString(stem, "")
	stem = strings.Trim(separatorRun.ReplaceAllString(stem, "-"), "-")
	if stem == "" {
		stem = Fallback
	}
	return stem + ext
}

// encodeExtValue percent-encodes every byte outside the RFC 5987 attr-char set
func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
