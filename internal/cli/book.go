package cli

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-booking/internal/seating"
)

func newBookCommand(o *options) *cobra.Command {
	var (
		seats  []string
		userID string
	)
	cmd := &cobra.Command{
		Use:   "book SESSION_ID --seat C5 [--seat C6]",
		Short: "Book seats directly, without payment",
		Long: `Book seats directly, without payment. Running the same booking twice
is reported as already booked rather than as an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			pos, err := parseSeats(seats)
			if err != nil {
				return err
			}
			if len(pos) == 0 {
				return errors.New("at least one --seat is required")
			}
			res, err := o.client().Book(cmd.Context(), id, pos, userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Replayed {
				fmt.Fprintln(out, "already booked:", res.Message)
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Ticket", "Session", "Seat", "User"})
			for _, tk := range res.Tickets {
				user := "-"
				if tk.UserID != nil {
					user = *tk.UserID
				}
				t.AppendRow(table.Row{tk.ID, tk.SessionID, seating.SeatLabel(tk.Row, tk.Col), user})
			}
			t.Render()
			fmt.Fprintln(out, res.Message)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&seats, "seat", nil, "seat label, repeatable or comma separated")
	cmd.Flags().StringVar(&userID, "user", "", "user id for an anonymous request")
	return cmd
}

func newQuoteCommand(o *options) *cobra.Command {
	var (
		seats []string
		code  string
	)
	cmd := &cobra.Command{
		Use:   "quote SESSION_ID --seat C5 [--promocode CODE]",
		Short: "Price seats with an optional promocode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			pos, err := parseSeats(seats)
			if err != nil {
				return err
			}
			q, err := o.client().Quote(cmd.Context(), id, pos, code)
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendRows([]table.Row{
				{"Seats", fmt.Sprintf("%d %v", q.Count, q.Labels)},
				{"Price per seat", q.UnitPrice},
				{"Subtotal", q.OriginalPrice},
				{"Discount", q.Discount.Discount},
				{"Total", q.FinalPrice},
			})
			if q.Promocode != nil {
				t.AppendRow(table.Row{"Promocode", q.Promocode.Message})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&seats, "seat", nil, "seat label, repeatable or comma separated")
	cmd.Flags().StringVar(&code, "promocode", "", "promocode to apply")
	return cmd
}
