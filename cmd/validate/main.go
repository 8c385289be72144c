// Command validate checks a YAML hotspot seed file before it is served with
// HOTSPOT_SOURCE=file or published with feedseed. It verifies record fields,
// map coverage under the default projection, and that every record survives
// the feed encoding unchanged.
//
// Usage:
//
//	go run ./cmd/validate data/hotspots.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/couchcryptid/hotspot-map-service/internal/mapview"
	"github.com/couchcryptid/hotspot-map-service/internal/provider"
	"github.com/google/go-cmp/cmp"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s <seed.yaml>\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(run(flag.Arg(0), os.Stdout))
}

func run(path string, out io.Writer) int {
	fmt.Fprintln(out, "=== Hotspot Seed Validation ===")
	fmt.Fprintln(out)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "FATAL: read seed file: %v\n", err)
		return 1
	}
	hotspots, err := provider.DecodeSeed(data)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRecords(hotspots),
		validateCoverage(hotspots, mapview.DefaultProjection),
		validateFeedRoundTrip(hotspots),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintf(out, "\nRecords: %d\n", len(hotspots))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// validateRecords checks every record's fields and that IDs are unique.
func validateRecords(hotspots []domain.Hotspot) *phase {
	p := &phase{name: "Phase 1: Records (fields and ranges)"}
	seen := make(map[int]int, len(hotspots))
	for i, h := range hotspots {
		if err := domain.Validate(h); err != nil {
			p.errorf("record %d: %v", i+1, err)
		}
		if first, dup := seen[h.ID]; dup {
			p.errorf("record %d: duplicate id %d (first at record %d)", i+1, h.ID, first)
			continue
		}
		seen[h.ID] = i + 1
	}
	return p
}

// validateCoverage checks that every hotspot lands on the canvas at the
// default zoom. The linear projection is only meaningful near its
// calibration point, so far-away coordinates are usually typos.
func validateCoverage(hotspots []domain.Hotspot, proj mapview.Projection) *phase {
	p := &phase{name: "Phase 2: Map coverage (projection)"}
	for _, h := range hotspots {
		if h.Coordinates.IsZero() {
			p.errorf("id %d (%s): no coordinates", h.ID, h.Location)
			continue
		}
		pt := proj.Project(h.Coordinates)
		if pt.X < 0 || pt.X > proj.Width || pt.Y < 0 || pt.Y > proj.Height {
			p.errorf("id %d (%s): projects to (%.1f, %.1f), outside the %gx%g canvas",
				h.ID, h.Location, pt.X, pt.Y, proj.Width, proj.Height)
		}
	}
	return p
}

// validateFeedRoundTrip encodes each record as a feed message and parses it
// back, as feedseed and the live pipeline would.
func validateFeedRoundTrip(hotspots []domain.Hotspot) *phase {
	p := &phase{name: "Phase 3: Feed round trip (JSON)"}
	for _, h := range hotspots {
		value, err := json.Marshal(h.Message())
		if err != nil {
			p.errorf("id %d: encode: %v", h.ID, err)
			continue
		}
		u, err := domain.ParseFeedMessage(domain.FeedMessage{Value: value})
		if err != nil {
			p.errorf("id %d: parse: %v", h.ID, err)
			continue
		}
		want := h
		if want.UpdatedAt.IsZero() {
			// The feed stamps missing times on arrival.
			want.UpdatedAt = u.Hotspot.UpdatedAt
		}
		if diff := cmp.Diff(want, u.Hotspot); diff != "" {
			p.errorf("id %d: round trip mismatch (-seed +feed):\n%s", h.ID, diff)
		}
	}
	return p
}
