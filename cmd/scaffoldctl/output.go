package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/scaffold"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatMeters(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinMeters(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatMeters(v)
	}
	return strings.Join(parts, ", ")
}

func writeMeta(w io.Writer, meta dto.ScaffoldMeta) {
	fmt.Fprintf(w, "Levels:\t%d\n", meta.Levels)
	fmt.Fprintf(w, "Bays:\t%s\n", joinMeters(meta.Bays))
	fmt.Fprintf(w, "Frames:\t%d\n", meta.Frames)
	fmt.Fprintf(w, "Deck:\t%d x %s\n", meta.DeckColumns, formatMeters(meta.DeckWidth))
}

func writeRequirements(w io.Writer, req scaffold.RequirementMap) {
	fmt.Fprintln(w, "PIECE\tNEEDED")
	for _, need := range req.Categories {
		fmt.Fprintf(w, "%s\t%d\n", need.Category, need.Count)
	}
	for _, need := range req.Ledgers {
		fmt.Fprintf(w, "%s %sm\t%d\n", scaffold.CategoryLedger, formatMeters(need.Length), need.Count)
	}
}

func writePlanText(out io.Writer, resp dto.PlanResponse) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	writeMeta(w, resp.Meta)
	fmt.Fprintf(w, "Level heights:\t%s\n", joinMeters(resp.LevelHeights))
	fmt.Fprintln(w)
	writeRequirements(w, resp.Requirements)
	return w.Flush()
}

func writeAllocationText(out io.Writer, resp dto.ScaffoldResponse) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	writeMeta(w, resp.Meta)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "ITEM\tCATEGORY\tQTY\tNOTE")
	for _, line := range resp.Pieces {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", line.Name, line.Category, line.Quantity, line.Note)
	}
	fmt.Fprintf(w, "\nTotal weight:\t%s kg\n", strconv.FormatFloat(resp.TotalWeight, 'f', -1, 64))

	if len(resp.Shortfalls) > 0 {
		fmt.Fprintln(w, "\nShortfalls:")
		for _, s := range resp.Shortfalls {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}
	return w.Flush()
}
