package pathstore

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify lowercases s and reduces it to [a-z0-9-], at most 50 bytes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "-")
	}
	return s
}

// slugger hands out sibling-unique path segments.
type slugger map[string]int

func (sl slugger) next(content string) string {
	slug := Slugify(content)
	if slug == "" {
		slug = "node"
	}
	sl[slug]++
	if n := sl[slug]; n > 1 {
		return slug + "-" + strconv.Itoa(n)
	}
	return slug
}
