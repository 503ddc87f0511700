package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-booking/internal/payment"
)

type payOptions struct {
	publicKey  string
	privateKey string
	sandbox    bool
	baseURL    string
}

func (p *payOptions) gateway() (*payment.Gateway, error) {
	return payment.NewGateway(payment.Config{
		PublicKey:  p.publicKey,
		PrivateKey: p.privateKey,
		Sandbox:    p.sandbox,
		BaseURL:    p.baseURL,
	})
}

func newPayCommand(o *options) *cobra.Command {
	p := &payOptions{}
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Create, sign, verify and decode LiqPay payloads",
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&p.publicKey, "public-key", os.Getenv("LIQPAY_PUBLIC_KEY"), "LiqPay public key")
	pf.StringVar(&p.privateKey, "private-key", os.Getenv("LIQPAY_PRIVATE_KEY"), "LiqPay private key")
	pf.BoolVar(&p.sandbox, "sandbox", true, "mark signed payloads as sandbox")
	pf.StringVar(&p.baseURL, "base-url", envOr("PUBLIC_BASE_URL", "http://localhost:8080"), "public base URL for result and server URLs")

	cmd.AddCommand(newPayCreateCommand(o), newPaySignCommand(p), newPayVerifyCommand(p), newPayDecodeCommand(p))
	return cmd
}

// newPayCreateCommand asks the service for a payload, so the amount is
// the one the service computes.
func newPayCreateCommand(o *options) *cobra.Command {
	var (
		seats             []string
		code, description string
	)
	cmd := &cobra.Command{
		Use:   "create SESSION_ID --seat C5",
		Short: "Request a signed checkout payload from the service",
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
			pl, err := o.client().Pay(cmd.Context(), id, pos, code, description)
			if err != nil {
				return err
			}
			printPayload(cmd, pl)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&seats, "seat", nil, "seat label, repeatable or comma separated")
	cmd.Flags().StringVar(&code, "promocode", "", "promocode to apply")
	cmd.Flags().StringVar(&description, "description", "", "payment description")
	return cmd
}

func newPaySignCommand(p *payOptions) *cobra.Command {
	var (
		seats       []string
		session     uint64
		amount      int64
		description string
		orderID     string
	)
	cmd := &cobra.Command{
		Use:   "sign --session 1 --seat C5 --amount 150 --description TEXT",
		Short: "Build and sign a checkout payload offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gw, err := p.gateway()
			if err != nil {
				return err
			}
			pos, err := parseSeats(seats)
			if err != nil {
				return err
			}
			if orderID == "" {
				orderID = gw.NewOrderID()
			}
			pl, err := gw.CreatePayload(payment.Params{
				Amount:      amount,
				Description: description,
				OrderID:     orderID,
				SessionID:   session,
				Seats:       pos,
			})
			if err != nil {
				return err
			}
			printPayload(cmd, pl)
			return nil
		},
	}
	f := cmd.Flags()
	f.Uint64Var(&session, "session", 0, "session id")
	f.StringSliceVar(&seats, "seat", nil, "seat label, repeatable or comma separated")
	f.Int64Var(&amount, "amount", 0, "amount in UAH")
	f.StringVar(&description, "description", "", "payment description")
	f.StringVar(&orderID, "order", "", "order id, generated when empty")
	return cmd
}

func newPayVerifyCommand(p *payOptions) *cobra.Command {
	var data, signature string
	cmd := &cobra.Command{
		Use:   "verify --data DATA --signature SIG",
		Short: "Check a callback signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gw, err := p.gateway()
			if err != nil {
				return err
			}
			if !gw.Verify(data, signature) {
				return payment.ErrInvalidSignature
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signature ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "base64 data")
	cmd.Flags().StringVar(&signature, "signature", "", "base64 signature")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}

func newPayDecodeCommand(p *payOptions) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "decode --data DATA",
		Short: "Print the fields of callback data without checking the signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if data == "" {
				return errors.New("--data is required")
			}
			gw, err := p.gateway()
			if err != nil {
				return err
			}
			cb, err := gw.Decode(data)
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendRows([]table.Row{
				{"status", cb.Status},
				{"successful", payment.IsSuccessful(cb.Status)},
				{"order_id", cb.OrderID},
				{"payment_id", cb.PaymentID},
				{"amount", cb.Amount.String()},
				{"currency", cb.Currency},
				{"description", cb.Description},
				{"err_code", cb.ErrCode},
			})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "base64 data")
	return cmd
}

func printPayload(cmd *cobra.Command, pl payment.Payload) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"order_id", pl.OrderID},
		{"amount", pl.Amount},
		{"checkout", pl.CheckoutURL},
		{"data", pl.Data},
		{"signature", pl.Signature},
	})
	t.Render()
}
