package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"

	"github.com/inference-sim/attn-tiles/tiles"
	"github.com/inference-sim/attn-tiles/tiles/sweep"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

func renderSelection(w io.Writer, sel selection) {
	data := [][]string{
		{"gpu", fmt.Sprintf("%s (%s)", sel.GPU, sel.Arch)},
		{"config", sel.Config.String()},
		{"block_m", strconv.Itoa(sel.Tile.BlockM)},
		{"block_n", strconv.Itoa(sel.Tile.BlockN)},
	}
	if sel.Sm90 != nil {
		data = append(data,
			[]string{"smem", fmt.Sprintf("%d / %d bytes", sel.SmemBytes, sel.LimitBytes)},
			[]string{"mma_pv_is_rs", strconv.FormatBool(sel.Sm90.MmaPVIsRS)},
			[]string{"intra_wg_overlap", strconv.FormatBool(sel.Sm90.IntraWGOverlap)},
		)
	}
	if sel.Sm8x != nil {
		data = append(data,
			[]string{"n_warps", strconv.Itoa(sel.Sm8x.NWarps)},
			[]string{"stages", strconv.Itoa(sel.Sm8x.Stages)},
			[]string{"q_in_regs", strconv.FormatBool(sel.Sm8x.QInRegs)},
		)
	}
	table := newTable(w)
	table.AppendBulk(data)
	table.Render()
}

// sweepRow is the printable form of one sweep result.
type sweepRow struct {
	Config    tiles.KernelShapeConfig `json:"config"`
	BlockM    int                     `json:"block_m"`
	BlockN    int                     `json:"block_n"`
	SmemBytes int                     `json:"smem_bytes"`
	Status    string                  `json:"status"`
}

func sweepRows(report *sweep.Report) []sweepRow {
	rows := make([]sweepRow, 0, len(report.Results))
	for _, r := range report.Results {
		row := sweepRow{Config: r.Config, BlockM: r.Tile.BlockM, BlockN: r.Tile.BlockN, SmemBytes: r.EstimateBytes, Status: "ok"}
		switch {
		case r.Err != nil:
			row.Status = r.Err.Error()
		case r.EstimateBytes > report.LimitBytes:
			row.Status = "OVER"
		}
		rows = append(rows, row)
	}
	return rows
}

func renderSweep(w io.Writer, report *sweep.Report) {
	var data [][]string
	for _, row := range sweepRows(report) {
		data = append(data, []string{
			row.Config.String(),
			strconv.Itoa(row.BlockM),
			strconv.Itoa(row.BlockN),
			strconv.Itoa(row.SmemBytes),
			row.Status,
		})
	}
	table := newTable(w)
	table.SetHeader([]string{"CONFIG", "BLOCK_M", "BLOCK_N", "SMEM", "STATUS"})
	table.AppendBulk(data)
	table.Render()
	fmt.Fprintf(w, "\n%d configurations, %d over %d bytes, %d errors\n",
		len(report.Results), report.Violations, report.LimitBytes, report.Errors)
}

func renderProfiles(w io.Writer, catalog *tiles.HardwareCatalog) {
	var data [][]string
	for _, name := range catalog.Names() {
		p := catalog.Profiles[name]
		if name == catalog.Default {
			name += " *"
		}
		data = append(data, []string{name, p.Arch, strconv.Itoa(p.SmemLimitBytes), p.Description})
	}
	table := newTable(w)
	table.SetHeader([]string{"NAME", "ARCH", "SMEM LIMIT", "DESCRIPTION"})
	table.AppendBulk(data)
	table.Render()
}
