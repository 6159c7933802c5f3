package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	sim "github.com/mainframe-market/mfsim/sim"
)

// printSummary writes the end-of-run bar chart: one '#' per two units
// acquired, followed by the volume.
func printSummary(w io.Writer, r *sim.Report) {
	fmt.Fprintf(w, "SUMMARY: %s .. %s (%s days)\n",
		r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly), humanize.Comma(r.Ticks))
	for _, f := range r.Families {
		status := ""
		if !f.Available {
			status = " (withdrawn)"
		}
		fmt.Fprintf(w, "%10s: %s %s%s\n", f.Name, strings.Repeat("#", f.Volume/2),
			humanize.Comma(int64(f.Volume)), status)
	}
	fmt.Fprintf(w, "%10s: %s units, %d families\n", "TOTAL", humanize.Comma(int64(r.TotalVolume())), len(r.Families))
}
