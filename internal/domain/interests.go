package domain

import "strings"

// Interest groups a user can pick, mapped to the place categories searched for them.
var interestGroups = map[string][]string{
	"entertainment": {"amusement_park", "aquarium", "bowling_alley", "movie_theater", "zoo"},
	"gardens":       {"park"},
	"drinks":        {"bar", "night_club"},
	"food":          {"restaurant"},
}

// InterestGroups lists the supported group names in display order.
func InterestGroups() []string {
	return []string{"entertainment", "gardens", "drinks", "food"}
}

func IsInterestGroup(name string) bool {
	_, ok := interestGroups[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// ExpandInterests turns group names and raw place categories into a
// deduplicated category list, preserving first-seen order.
func ExpandInterests(interests []string) []string {
	seen := make(map[string]struct{}, len(interests))
	out := make([]string, 0, len(interests))

	add := func(c string) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	for _, raw := range interests {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if cats, ok := interestGroups[name]; ok {
			for _, c := range cats {
				add(c)
			}
			continue
		}
		add(name)
	}
	return out
}
