package model

import (
	"regexp"
	"strings"
)

var (
	keywordNumberRe = regexp.MustCompile(`(?i)(?:episode|ova|special|sp)[\s.-]*(\d+(?:[.-]\d+)?)`)
	numberRe        = regexp.MustCompile(`\d+(?:[.-]\d+)?`)
)

// EpisodeLabel derives a compact label from a free-text episode name.
//
// The rules are applied in order:
//  1. a number following "episode", "ova", "special" or "sp" ("Episode 12" -> "12")
//  2. the markers "ova" -> "OVA", "special"/"sp" -> "SP", "movie" -> "MOV", case-insensitive
//  3. the last number in the string ("Naruto 220 END" -> "220")
//  4. the trimmed input
func EpisodeLabel(episode string) string {
	if m := keywordNumberRe.FindStringSubmatch(episode); m != nil {
		return m[1]
	}

	lower := strings.ToLower(episode)
	switch {
	case strings.Contains(lower, "ova"):
		return "OVA"
	case strings.Contains(lower, "special"), strings.Contains(lower, "sp"):
		return "SP"
	case strings.Contains(lower, "movie"):
		return "MOV"
	}

	if nums := numberRe.FindAllString(episode, -1); len(nums) > 0 {
		return nums[len(nums)-1]
	}
	return strings.TrimSpace(episode)
}
