package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func testExport() *models.PlaylistExport {
	return &models.PlaylistExport{
		Playlist: models.PlaylistSummary{
			ID:          "test123",
			Name:        "Test Playlist",
			Description: "A test playlist",
			TrackCount:  2,
			Public:      true,
		},
		Tracks: []models.Track{
			{
				ID:         "track1",
				URI:        "spotify:track:track1",
				Name:       "Song One",
				Artist:     "Artist One",
				DurationMS: 180000,
				Energy:     floatPtr(0.35),
				BPM:        intPtr(92),
			},
			{
				ID:         "track2",
				URI:        "spotify:track:track2",
				Name:       "Song Two",
				Artist:     "Artist Two",
				DurationMS: 240000,
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Position,ID,Name,Artist,Duration,Energy,BPM,Danceability,Valence") {
			t.Errorf("CSV missing headers, got: %s", output)
		}

		if !strings.Contains(output, "track1") {
			t.Errorf("CSV missing track1 ID")
		}
		if !strings.Contains(output, "Song One") {
			t.Errorf("CSV missing track1 name")
		}
		if !strings.Contains(output, "0.350") {
			t.Errorf("CSV missing track1 energy")
		}
		if !strings.Contains(output, "92") {
			t.Errorf("CSV missing track1 bpm")
		}
		if !strings.Contains(output, "3:00") {
			t.Errorf("CSV missing formatted duration")
		}

		// track2 has no feature record; its cells stay empty
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
		}
		if !strings.HasSuffix(lines[2], ",,,") {
			t.Errorf("expected empty feature cells for track2, got: %s", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testExport(), "cover.jpg")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Test Playlist") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "![Cover](cover.jpg)") {
			t.Errorf("Markdown missing cover image")
		}
		if !strings.Contains(output, "**Visibility**: Public") {
			t.Errorf("Markdown missing visibility")
		}
		if !strings.Contains(output, "| 1 | Song One | Artist One |") {
			t.Errorf("Markdown missing track row, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Playlist: Test Playlist") {
			t.Errorf("text missing playlist name")
		}
		if !strings.Contains(output, "1. Artist One - Song One [energy 0.35]") {
			t.Errorf("text missing track line with energy, got: %s", output)
		}
		if !strings.Contains(output, "2. Artist Two - Song Two\n") {
			t.Errorf("expected no energy suffix for track without features, got: %s", output)
		}
	})
}

func TestEnergyProfile(t *testing.T) {
	tracks := []models.Track{
		{Name: "Low", Energy: floatPtr(0.1)},
		{Name: "High", Energy: floatPtr(1.0)},
		{Name: "Unknown"},
	}

	output := EnergyProfile(tracks)
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}

	if strings.Count(lines[1], "█") != profileBarWidth {
		t.Errorf("expected full bar for energy 1.0, got: %s", lines[1])
	}

	if strings.Count(lines[0], "█") >= strings.Count(lines[1], "█") {
		t.Error("expected shorter bar for lower energy")
	}

	if !strings.Contains(lines[2], "?") {
		t.Errorf("expected ? marker for missing energy, got: %s", lines[2])
	}

	if strings.Contains(lines[2], "█") {
		t.Errorf("expected empty bar for missing energy, got: %s", lines[2])
	}

	t.Run("Long Names Truncated", func(t *testing.T) {
		long := []models.Track{{Name: strings.Repeat("x", 50), Energy: floatPtr(0.5)}}

		output := EnergyProfile(long)
		if !strings.Contains(output, "...") {
			t.Error("expected long name truncated")
		}
	})

	t.Run("Multi Byte Names Truncate On Runes", func(t *testing.T) {
		long := []models.Track{{Name: strings.Repeat("é", 30), Energy: floatPtr(0.5)}}

		output := EnergyProfile(long)
		if !utf8.ValidString(output) {
			t.Errorf("expected valid UTF-8 output, got: %q", output)
		}
		if !strings.Contains(output, strings.Repeat("é", 21)+"...") {
			t.Errorf("expected 21 runes kept before ellipsis, got: %q", output)
		}
	})
}

func TestFileExports(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "test123")

		result, err := WriteCSVExport(testExport(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		for _, file := range []string{result.TracksFile, result.MetadataFile} {
			if _, err := os.Stat(file); err != nil {
				t.Errorf("expected file %s to exist: %v", file, err)
			}
		}

		data, err := os.ReadFile(result.MetadataFile)
		if err != nil {
			t.Fatalf("failed to read metadata: %v", err)
		}
		if !strings.Contains(string(data), `"name": "Test Playlist"`) {
			t.Errorf("metadata missing playlist name, got: %s", data)
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.txt")

		written, err := WriteTextExport(testExport(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}

		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}

		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}
	})

	t.Run("WriteMarkdownExport Without Image", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "md")

		result, err := WriteMarkdownExport(testExport(), dir, "")
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		if len(result.Files) != 1 || !strings.HasSuffix(result.Files[0], "README.md") {
			t.Errorf("expected README.md only, got %v", result.Files)
		}

		if result.CoverImage != "" {
			t.Errorf("expected no cover image, got %s", result.CoverImage)
		}
	})
}
