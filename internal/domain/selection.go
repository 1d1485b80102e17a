package domain

import "fmt"

type CandidateState int

const (
	StateUnknown CandidateState = iota
	StateAvailable
	StateAdmitted
)

func (s CandidateState) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateAdmitted:
		return "admitted"
	default:
		return "unknown"
	}
}

// ToggleResult describes a committed toggle.
type ToggleResult struct {
	Candidate    Candidate
	Admitted     bool
	VisitSeconds int
	FreeSeconds  int
}

// SelectionSet partitions discovered candidates into the available pool and
// the admitted selection. A candidate lives in exactly one of the two, and
// never duplicates an anchor.
type SelectionSet struct {
	start Anchor
	end   Anchor

	pool     []Candidate
	admitted []Candidate
	state    map[string]CandidateState
}

func NewSelectionSet(start, end Anchor) *SelectionSet {
	return &SelectionSet{
		start: start,
		end:   end,
		state: make(map[string]CandidateState),
	}
}

func (s *SelectionSet) Start() Anchor { return s.start }

func (s *SelectionSet) End() Anchor { return s.end }

// ReplacePool swaps in a freshly searched candidate list. Admitted candidates
// and places matching an anchor are left out; duplicates keep the first entry.
func (s *SelectionSet) ReplacePool(candidates []Candidate) {
	for id, st := range s.state {
		if st == StateAvailable {
			delete(s.state, id)
		}
	}

	s.pool = s.pool[:0]
	for _, c := range candidates {
		if c.PlaceID == "" || c.PlaceID == s.start.PlaceID || c.PlaceID == s.end.PlaceID {
			continue
		}
		if _, ok := s.state[c.PlaceID]; ok {
			continue
		}
		s.state[c.PlaceID] = StateAvailable
		s.pool = append(s.pool, c)
	}
}

func (s *SelectionSet) State(placeID string) CandidateState {
	return s.state[placeID]
}

// Lookup finds a candidate in either partition.
func (s *SelectionSet) Lookup(placeID string) (Candidate, CandidateState, bool) {
	switch s.state[placeID] {
	case StateAvailable:
		if i := indexOf(s.pool, placeID); i >= 0 {
			return s.pool[i], StateAvailable, true
		}
	case StateAdmitted:
		if i := indexOf(s.admitted, placeID); i >= 0 {
			return s.admitted[i], StateAdmitted, true
		}
	}
	return Candidate{}, StateUnknown, false
}

// Pool returns a copy of the available candidates in discovery order.
func (s *SelectionSet) Pool() []Candidate {
	return append([]Candidate(nil), s.pool...)
}

// Admitted returns a copy of the admitted candidates in insertion order.
func (s *SelectionSet) Admitted() []Candidate {
	return append([]Candidate(nil), s.admitted...)
}

// Toggle moves a candidate between pool and selection, charging or refunding
// its visit time on the ledger. A rejected admission changes nothing.
func (s *SelectionSet) Toggle(placeID string, ledger *TimeLedger) (ToggleResult, error) {
	c, state, ok := s.Lookup(placeID)
	if !ok {
		return ToggleResult{}, fmt.Errorf("toggle %q: %w", placeID, ErrUnknownCandidate)
	}

	visit := c.VisitSeconds()

	if state == StateAdmitted {
		free := ledger.Credit(visit)
		s.admitted = removeAt(s.admitted, indexOf(s.admitted, placeID))
		s.pool = append(s.pool, c)
		s.state[placeID] = StateAvailable
		return ToggleResult{Candidate: c, Admitted: false, VisitSeconds: visit, FreeSeconds: free}, nil
	}

	free, accepted := ledger.TryDebit(visit)
	if !accepted {
		return ToggleResult{Candidate: c, VisitSeconds: visit, FreeSeconds: free},
			fmt.Errorf("toggle %q: visit=%ds free=%ds: %w", placeID, visit, free, ErrInsufficientTime)
	}

	s.pool = removeAt(s.pool, indexOf(s.pool, placeID))
	s.admitted = append(s.admitted, c)
	s.state[placeID] = StateAdmitted
	return ToggleResult{Candidate: c, Admitted: true, VisitSeconds: visit, FreeSeconds: free}, nil
}

// Markers returns the pins for both anchors followed by every admitted stop.
func (s *SelectionSet) Markers() []Marker {
	out := make([]Marker, 0, 2+len(s.admitted))
	out = append(out,
		Marker{Kind: MarkerStart, PlaceID: s.start.PlaceID, Title: s.start.Name, Location: s.start.Location},
		Marker{Kind: MarkerEnd, PlaceID: s.end.PlaceID, Title: s.end.Name, Location: s.end.Location},
	)
	for _, c := range s.admitted {
		out = append(out, Marker{Kind: MarkerStop, PlaceID: c.PlaceID, Title: c.Name, Location: c.Location})
	}
	return out
}

func indexOf(list []Candidate, placeID string) int {
	for i, c := range list {
		if c.PlaceID == placeID {
			return i
		}
	}
	return -1
}

func removeAt(list []Candidate, i int) []Candidate {
	if i < 0 {
		return list
	}
	return append(list[:i], list[i+1:]...)
}
