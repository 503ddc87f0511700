// Package cli implements ticketctl, the operator command line for the
// booking service.
package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-booking/internal/client"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/seating"
)

type options struct {
	server  string
	token   string
	timeout time.Duration
}

func (o *options) client() *client.Client {
	c := client.New(o.server, o.token)
	c.HTTP.Timeout = o.timeout
	return c
}

// NewRootCommand builds the command tree.  Output goes to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "ticketctl",
		Short:         "Cinema booking operator CLI",
		Long:          `Inspect seat maps, book tickets, price orders and work with LiqPay payloads from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().StringVar(&o.server, "server", envOr("TICKETCTL_SERVER", "http://localhost:8080"), "booking service base URL")
	root.PersistentFlags().StringVar(&o.token, "token", os.Getenv("TICKETCTL_TOKEN"), "bearer token sent to the service")
	root.PersistentFlags().DurationVar(&o.timeout, "timeout", 15*time.Second, "request timeout")

	root.AddCommand(
		newSeatsCommand(o),
		newBookCommand(o),
		newQuoteCommand(o),
		newPayCommand(o),
		newTokenCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "ticketctl v0.1")
			},
		},
	)
	return root
}

// Execute runs ticketctl and exits non-zero on error.
func Execute() {
	cmd := NewRootCommand(os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseSessionID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid session id %q", arg)
	}
	return id, nil
}

// parseSeats turns labels like C5 into positions.
func parseSeats(labels []string) ([]model.SeatPosition, error) {
	out := make([]model.SeatPosition, 0, len(labels))
	for _, l := range labels {
		row, col, err := seating.ParseSeatLabel(l)
		if err != nil {
			return nil, err
		}
		out = append(out, model.SeatPosition{Row: row, Col: col})
	}
	return out, nil
}
