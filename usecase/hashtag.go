package usecase

import "strings"

const maxHashtags = 10

// baseHashtags lead every caption regardless of input
var baseHashtags = []string{"#viral", "#shorts"}

// DeriveHashtags builds a bounded, ordered set of hashtags from a video's
// script and its project theme. Pure; empty inputs yield just the base tags.
func DeriveHashtags(script, theme string) []string {
	hashtags := make([]string, 0, maxHashtags)
	seen := make(map[string]struct{}, maxHashtags)
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		hashtags = append(hashtags, tag)
	}
	for _, tag := range baseHashtags {
		add(tag)
	}

	for _, word := range strings.Fields(strings.ToLower(theme)) {
		if len(word) <= 3 {
			continue
		}
		if cleaned := sanitizeTag(word); cleaned != "" {
			add("#" + cleaned)
		}
	}

	keywords := 0
	for _, word := range strings.Fields(strings.ToLower(script)) {
		if keywords >= 3 {
			break
		}
		if len(word) <= 5 {
			continue
		}
		keywords++
		if cleaned := sanitizeTag(word); len(cleaned) > 3 {
			add("#" + cleaned)
		}
	}

	if len(hashtags) > maxHashtags {
		hashtags = hashtags[:maxHashtags]
	}
	return hashtags
}

// sanitizeTag keeps lowercase ascii letters and digits only
func sanitizeTag(word string) string {
	var b strings.Builder
	for _, r := range word {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
