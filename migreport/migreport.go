// Package migreport renders a summary of a completed migration run:
// per-region/per-chunk counts from a driver.Report, and per-mod
// identifier-resolution counts from a maptable.BuildStats, including
// which source symbols had no resolvable target (spec §4.3 step 1's
// "no entry is added" case, §7's "Benign" severity).
//
// Grounded on lib/tools/reporter's shape — a struct wrapping the data
// to summarize, with one method per output sheet — but the spreadsheet
// backend (go-ods) is dropped (see DESIGN.md); output here is plain
// text or CSV via the standard library, matching driver/report.go's
// choice of plain accumulator over a rich report object.
package migreport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/chunkmigrate/chunkmigrate/driver"
	"github.com/chunkmigrate/chunkmigrate/maptable"
)

// Artifact is the on-disk JSON shape cmd/chunkmigrate writes (via
// --report-json) and cmd/migreport reads, carrying both halves of the
// summary across the process boundary between the two CLIs.
type Artifact struct {
	Report *driver.Report       `json:"report"`
	Stats  *maptable.BuildStats `json:"stats,omitempty"`
}

// SaveArtifact writes a run's Report and BuildStats as JSON.
func SaveArtifact(path string, report *driver.Report, stats *maptable.BuildStats) error {
	data, err := json.MarshalIndent(Artifact{Report: report, Stats: stats}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report artifact %q: %w", path, err)
	}
	return nil
}

// LoadArtifact reads back what SaveArtifact wrote.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report artifact %q: %w", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing report artifact %q: %w", path, err)
	}
	return &a, nil
}

// Reporter wraps the data a completed run produces and renders it in
// either of two formats.
type Reporter struct {
	Report *driver.Report
	Stats  *maptable.BuildStats
}

// New returns a Reporter over a driver.Report and the maptable.BuildStats
// gathered while building the MapInfo that run used. Stats may be nil
// if the caller built its MapInfo with maptable.Build instead of
// maptable.BuildWithStats; the per-mod section is omitted in that case.
func New(report *driver.Report, stats *maptable.BuildStats) *Reporter {
	return &Reporter{Report: report, Stats: stats}
}

// WriteText renders a human-readable plain-text summary.
func (r *Reporter) WriteText(w io.Writer) error {
	rep := r.Report
	if rep == nil {
		rep = driver.NewReport()
	}

	fmt.Fprintln(w, "migration summary")
	fmt.Fprintln(w, "==================")
	fmt.Fprintf(w, "regions processed:   %d\n", rep.RegionsProcessed)
	fmt.Fprintf(w, "chunks migrated:     %d\n", rep.ChunksProcessed)
	fmt.Fprintf(w, "chunks failed:       %d\n", rep.ChunksFailed)
	fmt.Fprintf(w, "players migrated:    %d\n", rep.PlayersProcessed)
	fmt.Fprintf(w, "players skipped:     %d\n", rep.PlayersSkipped)
	fmt.Fprintf(w, "level.dat migrated:  %t\n", rep.LevelDatMigrated)

	if len(rep.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "chunk errors:")
		for _, e := range rep.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}

	if r.Stats == nil {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "per-mod identifier resolution")
	fmt.Fprintln(w, "-----------------------------")
	for _, ms := range r.Stats.PerMod {
		fmt.Fprintf(w, "%s:\n", ms.Name)
		fmt.Fprintf(w, "  blocks: %d/%d resolved\n", ms.BlocksMapped, ms.BlocksConsidered)
		if len(ms.UnresolvedBlocks) > 0 {
			fmt.Fprintf(w, "    unresolved: %s\n", joinSorted(ms.UnresolvedBlocks))
		}
		fmt.Fprintf(w, "  items:  %d/%d resolved\n", ms.ItemsMapped, ms.ItemsConsidered)
		if len(ms.UnresolvedItems) > 0 {
			fmt.Fprintf(w, "    unresolved: %s\n", joinSorted(ms.UnresolvedItems))
		}
	}
	return nil
}

// WriteCSV renders the same summary as two CSV tables: a run-stats
// table followed by a blank row and a per-mod table.
func (r *Reporter) WriteCSV(w io.Writer) error {
	rep := r.Report
	if rep == nil {
		rep = driver.NewReport()
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	rows := [][]string{
		{"metric", "value"},
		{"regions_processed", itoa(rep.RegionsProcessed)},
		{"chunks_processed", itoa(rep.ChunksProcessed)},
		{"chunks_failed", itoa(rep.ChunksFailed)},
		{"players_processed", itoa(rep.PlayersProcessed)},
		{"players_skipped", itoa(rep.PlayersSkipped)},
		{"level_dat_migrated", fmt.Sprintf("%t", rep.LevelDatMigrated)},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	if r.Stats == nil {
		return nil
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}
	header := []string{"mod", "space", "considered", "mapped", "unresolved"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, ms := range r.Stats.PerMod {
		if err := cw.Write([]string{ms.Name, "blocks", itoa(ms.BlocksConsidered), itoa(ms.BlocksMapped), joinSorted(ms.UnresolvedBlocks)}); err != nil {
			return err
		}
		if err := cw.Write([]string{ms.Name, "items", itoa(ms.ItemsConsidered), itoa(ms.ItemsMapped), joinSorted(ms.UnresolvedItems)}); err != nil {
			return err
		}
	}
	return nil
}

func joinSorted(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	out := ""
	for i, n := range sorted {
		if i > 0 {
			out += ";"
		}
		out += n
	}
	return out
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}
