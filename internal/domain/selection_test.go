package domain

import (
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func testAnchors() (Anchor, Anchor) {
	start := Anchor{Role: AnchorStart, PlaceID: "start", Name: "Start", Location: Coordinates{Lat: 37.77, Lon: -122.41}}
	end := Anchor{Role: AnchorEnd, PlaceID: "end", Name: "End", Location: Coordinates{Lat: 37.80, Lon: -122.27}}
	return start, end
}

func restaurant(id string) Candidate {
	return Candidate{PlaceID: id, Name: "Restaurant " + id, Types: []string{"restaurant", "food"}}
}

func TestSelectionSetRestaurantScenario(t *testing.T) {
	start, end := testAnchors()
	set := NewSelectionSet(start, end)
	set.ReplacePool([]Candidate{restaurant("r1"), restaurant("r2")})

	ledger, err := NewTimeLedger(7200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := set.Toggle("r1", ledger)
	if err != nil {
		t.Fatalf("admit r1: %v", err)
	}
	if !res.Admitted || res.FreeSeconds != 3600 {
		t.Fatalf("admit r1 = %+v, want admitted with 3600 free", res)
	}

	_, err = set.Toggle("r2", ledger)
	if !errors.Is(err, ErrInsufficientTime) {
		t.Fatalf("admit r2 err = %v, want ErrInsufficientTime", err)
	}
	if set.State("r2") != StateAvailable {
		t.Fatalf("r2 state = %v, want available", set.State("r2"))
	}

	res, err = set.Toggle("r1", ledger)
	if err != nil {
		t.Fatalf("remove r1: %v", err)
	}
	if res.Admitted || ledger.FreeSeconds() != 7200 {
		t.Fatalf("after removing r1 free = %d, want 7200", ledger.FreeSeconds())
	}
}

func TestSelectionSetReplacePoolSkipsAnchorsAndAdmitted(t *testing.T) {
	start, end := testAnchors()
	set := NewSelectionSet(start, end)
	set.ReplacePool([]Candidate{restaurant("r1"), restaurant("r1"), {PlaceID: "start"}})

	if got := len(set.Pool()); got != 1 {
		t.Fatalf("pool size = %d, want 1", got)
	}

	ledger, _ := NewTimeLedger(10 * 3600)
	if _, err := set.Toggle("r1", ledger); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	set.ReplacePool([]Candidate{restaurant("r1"), restaurant("r2")})
	if got := len(set.Pool()); got != 1 {
		t.Fatalf("pool size after refresh = %d, want 1", got)
	}
	if set.State("r1") != StateAdmitted {
		t.Fatalf("r1 state = %v, want admitted", set.State("r1"))
	}
}

func TestSelectionSetUnknownCandidate(t *testing.T) {
	start, end := testAnchors()
	set := NewSelectionSet(start, end)
	ledger, _ := NewTimeLedger(3600)

	if _, err := set.Toggle("missing", ledger); !errors.Is(err, ErrUnknownCandidate) {
		t.Fatalf("err = %v, want ErrUnknownCandidate", err)
	}
}

func TestSelectionSetMarkers(t *testing.T) {
	start, end := testAnchors()
	set := NewSelectionSet(start, end)
	set.ReplacePool([]Candidate{restaurant("r1")})
	ledger, _ := NewTimeLedger(7200)
	_, _ = set.Toggle("r1", ledger)

	markers := set.Markers()
	if len(markers) != 3 {
		t.Fatalf("markers = %d, want 3", len(markers))
	}
	if markers[0].Kind != MarkerStart || markers[1].Kind != MarkerEnd || markers[2].PlaceID != "r1" {
		t.Fatalf("unexpected markers: %+v", markers)
	}
}

var poolTypes = [][]string{
	{"restaurant"},
	{"bar"},
	{"park"},
	{"zoo"},
	{"bar", "night_club"},
	{"movie_theater"},
	{"point_of_interest"},
}

func TestSelectionSetInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		start, end := testAnchors()
		set := NewSelectionSet(start, end)

		n := rapid.IntRange(1, 12).Draw(rt, "pool_size")
		pool := make([]Candidate, 0, n)
		for i := 0; i < n; i++ {
			pool = append(pool, Candidate{
				PlaceID: fmt.Sprintf("p%d", i),
				Types:   rapid.SampledFrom(poolTypes).Draw(rt, "types"),
			})
		}
		set.ReplacePool(pool)

		ledger, _ := NewTimeLedger(rapid.IntRange(0, 16*3600).Draw(rt, "capacity"))

		ops := rapid.SliceOfN(rapid.IntRange(0, n-1), 1, 40).Draw(rt, "ops")
		for _, i := range ops {
			id := fmt.Sprintf("p%d", i)
			before := ledger.FreeSeconds()
			wasAdmitted := set.State(id) == StateAdmitted

			res, err := set.Toggle(id, ledger)
			if err != nil && !errors.Is(err, ErrInsufficientTime) {
				rt.Fatalf("toggle %s: %v", id, err)
			}
			if ledger.FreeSeconds() < 0 {
				rt.Fatalf("committed free time negative: %d", ledger.FreeSeconds())
			}
			if err != nil && ledger.FreeSeconds() != before {
				rt.Fatalf("rejected toggle changed free time")
			}

			// Toggling straight back restores the exact balance.
			if err == nil && !wasAdmitted && res.Admitted && rapid.Bool().Draw(rt, "undo") {
				if _, err := set.Toggle(id, ledger); err != nil {
					rt.Fatalf("undo %s: %v", id, err)
				}
				if ledger.FreeSeconds() != before {
					rt.Fatalf("round trip free = %d, want %d", ledger.FreeSeconds(), before)
				}
			}

			if len(set.Pool())+len(set.Admitted()) != n {
				rt.Fatalf("partition lost candidates: pool=%d admitted=%d n=%d", len(set.Pool()), len(set.Admitted()), n)
			}
		}

		spent := 0
		for _, c := range set.Admitted() {
			spent += c.VisitSeconds()
		}
		if ledger.FreeSeconds() != ledger.CapacitySeconds()-spent {
			rt.Fatalf("free=%d capacity=%d spent=%d", ledger.FreeSeconds(), ledger.CapacitySeconds(), spent)
		}
	})
}
