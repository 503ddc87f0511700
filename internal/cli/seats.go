package cli

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-booking/internal/client"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/seating"
)

var statusMark = map[model.SeatStatus]string{
	model.SeatAvailable: ".",
	model.SeatSelected:  "*",
	model.SeatOccupied:  "X",
}

func newSeatsCommand(o *options) *cobra.Command {
	var selected []string
	cmd := &cobra.Command{
		Use:   "seats SESSION_ID",
		Short: "Render the seat map of a session",
		Long:  `Render the seat map of a session. "." is free, "X" is taken, "*" is in --select.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			sel, err := parseSeats(selected)
			if err != nil {
				return err
			}
			m, err := o.client().Seats(cmd.Context(), id, sel)
			if err != nil {
				return err
			}
			renderSeatMap(cmd.OutOrStdout(), m)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&selected, "select", nil, "seats to show as selected, e.g. C5,C6")
	return cmd
}

func renderSeatMap(w io.Writer, m client.SeatMap) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("%s, session %d, %d UAH per seat", m.Hall.Name, m.SessionID, m.Price)

	header := table.Row{""}
	for col := 1; col <= m.Hall.Cols; col++ {
		header = append(header, strconv.Itoa(col))
	}
	t.AppendHeader(header)
	for _, row := range m.Grid {
		if len(row) == 0 {
			continue
		}
		r := table.Row{seating.RowLabel(row[0].Row)}
		for _, s := range row {
			r = append(r, statusMark[s.Status])
		}
		t.AppendRow(r)
	}
	if m.SelectedCount > 0 {
		t.AppendFooter(table.Row{"", "selected " + strconv.Itoa(m.SelectedCount), "total " + strconv.FormatInt(m.TotalPrice, 10)})
	}
	t.Render()
}
