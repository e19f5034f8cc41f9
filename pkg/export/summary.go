package export

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ssargent/gsbgrid/pkg/grid"
)

// WriteSummary prints the overview header and one row per sub-grid
func WriteSummary(w io.Writer, g *grid.GridFile) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, key := range g.Header.Keys() {
		v, _ := g.Header.Get(key)
		fmt.Fprintf(tw, "%s:\t%s\n", key, v)
	}
	fmt.Fprintln(tw)

	if len(g.SubGrids) == 0 {
		fmt.Fprintln(tw, "No sub-grids found")
		return tw.Flush()
	}

	fmt.Fprintln(tw, "SUB_NAME\tPARENT\tS_LAT\tN_LAT\tW_LON\tE_LON\tLAT_INC\tLON_INC\tGS_COUNT")
	for _, sg := range g.SubGrids {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			sg.Name(),
			sg.Parent(),
			field(sg, "S_LAT"),
			field(sg, "N_LAT"),
			field(sg, "W_LON"),
			field(sg, "E_LON"),
			field(sg, "LAT_INC"),
			field(sg, "LON_INC"),
			sg.Count(),
		)
	}

	return tw.Flush()
}

func field(sg *grid.SubGrid, key string) string {
	f, ok := sg.Header.Float(key)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.6f", f)
}
