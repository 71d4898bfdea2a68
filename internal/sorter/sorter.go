// Package sorter reorders tracks into a pyramid energy curve.
//
// A pyramid places the lowest-energy tracks at both ends of the playlist and
// the highest-energy tracks in the middle, producing a symmetric
// low-high-low intensity profile over the ride.
package sorter

import (
	"fmt"
	"slices"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
)

// Pyramid returns the tracks reordered into a pyramid energy curve.
//
// The input is stably sorted ascending by effective energy (a track without
// an energy record ranks as zero), then distributed by alternating placement:
// the lowest track takes the leftmost free slot, the next the rightmost, the
// next the second leftmost, and so on. Ties keep the input's relative order.
//
// Pure: the input slice is never mutated; the result is a new slice holding
// a permutation of the input.
func Pyramid(tracks []models.Track) []models.Track {
	if len(tracks) <= 1 {
		return slices.Clone(tracks)
	}

	ascending := slices.Clone(tracks)
	slices.SortStableFunc(ascending, func(a, b models.Track) int {
		switch {
		case a.EnergyValue() < b.EnergyValue():
			return -1
		case a.EnergyValue() > b.EnergyValue():
			return 1
		default:
			return 0
		}
	})

	out := make([]models.Track, len(ascending))
	left, right := 0, len(ascending)-1
	for i, track := range ascending {
		if i%2 == 0 {
			out[left] = track
			left++
		} else {
			out[right] = track
			right--
		}
	}

	return out
}

// MoveTrack returns a new list with the element at from spliced in at to.
// The input list is not mutated. Out-of-range indexes fail.
func MoveTrack(list []models.Track, from, to int) ([]models.Track, error) {
	if from < 0 || from >= len(list) {
		return nil, fmt.Errorf("%w: from index %d out of range [0,%d)", shared.ErrInvalidInput, from, len(list))
	}
	if to < 0 || to >= len(list) {
		return nil, fmt.Errorf("%w: to index %d out of range [0,%d)", shared.ErrInvalidInput, to, len(list))
	}

	out := slices.Clone(list)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)

	return out, nil
}

// Worklist pairs a fetched track list with a working order derived from it.
//
// The working order only ever changes through Sort, Move, and Reset, all of
// which produce permutations of the original, so publishing the working
// order can never drop or duplicate a track.
type Worklist struct {
	original []models.Track
	working  []models.Track
}

// NewWorklist creates a worklist over the fetched tracks. The initial working
// order is the fetched order.
func NewWorklist(tracks []models.Track) *Worklist {
	return &Worklist{
		original: slices.Clone(tracks),
		working:  slices.Clone(tracks),
	}
}

// Tracks returns the current working order.
func (w *Worklist) Tracks() []models.Track {
	return slices.Clone(w.working)
}

// Original returns the fetched order.
func (w *Worklist) Original() []models.Track {
	return slices.Clone(w.original)
}

// Len returns the number of tracks in the worklist.
func (w *Worklist) Len() int {
	return len(w.working)
}

// Sort replaces the working order with the pyramid of the current working
// order.
func (w *Worklist) Sort() {
	w.working = Pyramid(w.working)
}

// Move splices the working order, moving the track at from to position to.
func (w *Worklist) Move(from, to int) error {
	moved, err := MoveTrack(w.working, from, to)
	if err != nil {
		return err
	}

	w.working = moved
	return nil
}

// Reset restores the fetched order, discarding sorts and manual moves.
func (w *Worklist) Reset() {
	w.working = slices.Clone(w.original)
}

// URIs returns the track URIs of the working order, for publishing.
func (w *Worklist) URIs() []string {
	uris := make([]string, 0, len(w.working))
	for _, t := range w.working {
		if t.URI != "" {
			uris = append(uris, t.URI)
		}
	}
	return uris
}
