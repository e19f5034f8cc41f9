/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ssargent/gsbgrid/pkg/catalog"
)

// outputEntries displays catalog entries as a table
func outputEntries(out io.Writer, entries []*catalog.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No grids in catalog")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tIMPORTED\tSUB-GRIDS\tSHIFTS\tSOURCE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			e.ID,
			e.ImportedAt.Format(time.RFC3339),
			e.SubGrids,
			e.Shifts,
			e.Source)
	}
	return w.Flush()
}

// outputEntry displays a single entry and its sub-grids
func outputEntry(out io.Writer, e *catalog.Entry) error {
	doc, err := e.Decode()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", e.ID)
	fmt.Fprintf(w, "Source:\t%s\n", e.Source)
	fmt.Fprintf(w, "Imported:\t%s\n", e.ImportedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Sub-grids:\t%d\n", e.SubGrids)
	fmt.Fprintf(w, "Shifts:\t%d\n", e.Shifts)

	if header, ok := doc["header"].(map[string]interface{}); ok {
		for _, key := range []string{"SYSTEM_F", "SYSTEM_T", "VERSION", "GS_TYPE"} {
			if v, ok := header[key]; ok {
				fmt.Fprintf(w, "%s:\t%v\n", key, v)
			}
		}
	}

	subGrids, _ := doc["sub_grids"].([]interface{})
	if len(subGrids) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "SUB_NAME\tPARENT\tGS_COUNT")
		for _, raw := range subGrids {
			sg, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%v\t%v\t%v\n", sg["SUB_NAME"], sg["PARENT"], sg["GS_COUNT"])
		}
	}

	return w.Flush()
}
