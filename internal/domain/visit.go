package domain

import "time"

type visitRule struct {
	all      []string
	duration time.Duration
}

// Ordered dwell estimates; the first rule whose types are all present wins.
var visitRules = []visitRule{
	{all: []string{"night_club", "bar"}, duration: 4 * time.Hour},
	{all: []string{"amusement_park"}, duration: 8 * time.Hour},
	{all: []string{"aquarium"}, duration: 4 * time.Hour},
	{all: []string{"bowling_alley"}, duration: 2 * time.Hour},
	{all: []string{"movie_theater"}, duration: 3 * time.Hour},
	{all: []string{"zoo"}, duration: 4 * time.Hour},
	{all: []string{"park"}, duration: 1 * time.Hour},
	{all: []string{"bar", "restaurant"}, duration: 2 * time.Hour},
	{all: []string{"bar"}, duration: 2 * time.Hour},
	{all: []string{"restaurant"}, duration: 1 * time.Hour},
}

// VisitSeconds estimates how long a stop with the given place types takes.
// Unrecognized types cost nothing.
func VisitSeconds(types []string) int {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}

	for _, rule := range visitRules {
		matched := true
		for _, t := range rule.all {
			if _, ok := set[t]; !ok {
				matched = false
				break
			}
		}
		if matched {
			return int(rule.duration / time.Second)
		}
	}
	return 0
}

// VisitSeconds is the expected dwell time at this candidate.
func (c Candidate) VisitSeconds() int { return VisitSeconds(c.Types) }
