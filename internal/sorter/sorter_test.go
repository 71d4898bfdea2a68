package sorter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
)

func tracksFromEnergies(energies []float64) []models.Track {
	tracks := make([]models.Track, len(energies))
	for i := range energies {
		e := energies[i]
		tracks[i] = models.Track{
			ID:     fmt.Sprintf("t%d", i),
			URI:    fmt.Sprintf("spotify:track:t%d", i),
			Energy: &e,
		}
	}
	return tracks
}

func energies(tracks []models.Track) []float64 {
	out := make([]float64, len(tracks))
	for i, t := range tracks {
		out[i] = t.EnergyValue()
	}
	return out
}

// samePermutation checks both lists hold the same multiset of track IDs.
func samePermutation(t *testing.T, before, after []models.Track) {
	t.Helper()

	if len(before) != len(after) {
		t.Fatalf("expected same length, got %d and %d", len(before), len(after))
	}

	counts := make(map[string]int)
	for _, track := range before {
		counts[track.ID]++
	}
	for _, track := range after {
		counts[track.ID]--
	}
	for id, n := range counts {
		if n != 0 {
			t.Errorf("track %s appears a different number of times after sorting", id)
		}
	}
}

func TestPyramid(t *testing.T) {
	t.Run("Empty Input", func(t *testing.T) {
		out := Pyramid(nil)
		if len(out) != 0 {
			t.Errorf("expected empty output, got %d tracks", len(out))
		}
	})

	t.Run("Single Track", func(t *testing.T) {
		in := tracksFromEnergies([]float64{0.5})

		out := Pyramid(in)
		if len(out) != 1 || out[0].ID != "t0" {
			t.Errorf("expected the single track back, got %v", out)
		}
	})

	t.Run("Five Track Example", func(t *testing.T) {
		in := tracksFromEnergies([]float64{0.1, 0.9, 0.5, 0.3, 0.7})

		out := Pyramid(in)
		samePermutation(t, in, out)

		got := energies(out)
		want := []float64{0.1, 0.5, 0.9, 0.7, 0.3}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected energy profile %v, got %v", want, got)
			}
		}

		if got[2] != 0.9 {
			t.Error("expected the maximum at the center for odd length")
		}
	})

	t.Run("Both Halves Rise Toward The Middle", func(t *testing.T) {
		inputs := [][]float64{
			{0.4, 0.2, 0.9, 0.1, 0.6, 0.8},
			{0.5, 0.5, 0.5},
			{0.0, 1.0},
			{0.33, 0.12, 0.98, 0.44, 0.76, 0.21, 0.67, 0.05},
		}

		for _, energiesIn := range inputs {
			in := tracksFromEnergies(energiesIn)
			out := Pyramid(in)
			samePermutation(t, in, out)

			profile := energies(out)
			mid := len(profile) / 2
			for i := 1; i <= mid; i++ {
				if profile[i] < profile[i-1] {
					t.Errorf("left half not non-decreasing: %v", profile)
				}
			}
			for i := len(profile) - 2; i >= mid; i-- {
				if profile[i] < profile[i+1] {
					t.Errorf("right half not non-decreasing toward middle: %v", profile)
				}
			}
		}
	})

	t.Run("Missing Energy Ranks As Zero", func(t *testing.T) {
		high := 0.9
		in := []models.Track{
			{ID: "t0", Energy: &high},
			{ID: "t1"},
		}

		out := Pyramid(in)
		if out[0].ID != "t1" {
			t.Error("expected the track without features at the low end")
		}
	})

	t.Run("Ties Keep Input Order", func(t *testing.T) {
		in := tracksFromEnergies([]float64{0.5, 0.5, 0.5, 0.5})

		out := Pyramid(in)

		// alternate placement of the stable ascending order t0,t1,t2,t3
		want := []string{"t0", "t2", "t3", "t1"}
		for i, id := range want {
			if out[i].ID != id {
				t.Fatalf("expected tie order %v, got %v", want, out)
			}
		}
	})

	t.Run("Input Not Mutated", func(t *testing.T) {
		in := tracksFromEnergies([]float64{0.9, 0.1, 0.5})

		Pyramid(in)

		want := []string{"t0", "t1", "t2"}
		for i, id := range want {
			if in[i].ID != id {
				t.Fatal("expected input untouched")
			}
		}
	})
}

func TestMoveTrack(t *testing.T) {
	t.Run("Splices Forward And Back", func(t *testing.T) {
		in := tracksFromEnergies([]float64{0.1, 0.2, 0.3, 0.4})

		out, err := MoveTrack(in, 0, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"t1", "t2", "t0", "t3"}
		for i, id := range want {
			if out[i].ID != id {
				t.Fatalf("expected %v, got %v", want, out)
			}
		}

		out, err = MoveTrack(out, 3, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if out[0].ID != "t3" {
			t.Errorf("expected t3 moved to front, got %s", out[0].ID)
		}

		if in[0].ID != "t0" {
			t.Error("expected input untouched")
		}
	})

	t.Run("Out Of Range", func(t *testing.T) {
		in := tracksFromEnergies([]float64{0.1, 0.2})

		for _, tc := range [][2]int{{-1, 0}, {2, 0}, {0, -1}, {0, 2}} {
			if _, err := MoveTrack(in, tc[0], tc[1]); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("move %d->%d: expected ErrInvalidInput, got %v", tc[0], tc[1], err)
			}
		}
	})
}

func TestWorklist(t *testing.T) {
	t.Run("Sort Move Reset", func(t *testing.T) {
		in := tracksFromEnergies([]float64{0.1, 0.9, 0.5, 0.3, 0.7})
		wl := NewWorklist(in)

		wl.Sort()
		sorted := wl.Tracks()
		if sorted[2].EnergyValue() != 0.9 {
			t.Error("expected pyramid order after Sort")
		}
		samePermutation(t, in, sorted)

		if err := wl.Move(0, 4); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		samePermutation(t, in, wl.Tracks())

		wl.Reset()
		reset := wl.Tracks()
		for i := range in {
			if reset[i].ID != in[i].ID {
				t.Fatal("expected Reset to restore the fetched order")
			}
		}
	})

	t.Run("URIs Skip Blank", func(t *testing.T) {
		in := tracksFromEnergies([]float64{0.1, 0.2})
		in[1].URI = ""

		wl := NewWorklist(in)

		uris := wl.URIs()
		if len(uris) != 1 || uris[0] != "spotify:track:t0" {
			t.Errorf("expected one URI, got %v", uris)
		}
	})

	t.Run("Tracks Returns A Copy", func(t *testing.T) {
		wl := NewWorklist(tracksFromEnergies([]float64{0.1, 0.2}))

		got := wl.Tracks()
		got[0].ID = "mutated"

		if wl.Tracks()[0].ID != "t0" {
			t.Error("expected internal state isolated from returned slice")
		}
	})
}
