/*
main.go - Offline valuation CLI

PURPOSE:
  Values a schedule and transaction ledger from local JSON files, without
  a server or database. Useful for spot checks and for piping valuations
  into scripts.

USAGE:
  # Value on a date
  valuate value --schedule loan.json --transactions ledger.json --at 2025-03-15

  # Daily series
  valuate history --schedule loan.json --transactions ledger.json \
      --from 2025-01-01 --to 2025-12-31

FILE FORMATS:
  --schedule takes the same schedule document the API accepts.
  --transactions takes a JSON array:
    [{"type": "BUY", "quantity": "100", "price": "100",
      "trade_date": "2025-01-01"}]

SEE ALSO:
  - factory/schedule.go: Schedule document format
  - valuation/engine.go: The computation behind both commands
*/
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Alfystar/LibreFolio-sub004/factory"
	"github.com/Alfystar/LibreFolio-sub004/valuation"
)

type rootConfig struct {
	SchedulePath     string
	TransactionsPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rc := &rootConfig{}

	cmd := &cobra.Command{
		Use:           "valuate",
		Short:         "Value scheduled-interest assets from local JSON files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.SchedulePath, "schedule", "", "Path to schedule document (JSON)")
	cmd.PersistentFlags().StringVar(&rc.TransactionsPath, "transactions", "", "Path to transaction ledger (JSON array)")

	cmd.AddCommand(
		newValueCmd(rc),
		newHistoryCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("valuate (dev)")
		},
	})

	return cmd
}

func newValueCmd(rc *rootConfig) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "value",
		Short: "Value the asset on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, source, err := loadInputs(rc)
			if err != nil {
				return err
			}

			target := valuation.Today()
			if at != "" {
				if target, err = valuation.ParseDate(at); err != nil {
					return fmt.Errorf("--at: %w", err)
				}
			}

			result, err := valuation.NewEngine().ValueAt(cmd.Context(), schedule, source, target)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Valuation date YYYY-MM-DD (default today)")
	return cmd
}

func newHistoryCmd(rc *rootConfig) *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print one valuation per day over a range",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, source, err := loadInputs(rc)
			if err != nil {
				return err
			}

			from, err := valuation.ParseDate(fromStr)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			to, err := valuation.ParseDate(toStr)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			results, err := valuation.NewEngine().History(cmd.Context(), schedule, source, from, to)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%s\t%s\t%s\t%s\n", r.AsOf, r.Principal, r.Interest, r.Value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Range start YYYY-MM-DD")
	cmd.Flags().StringVar(&toStr, "to", "", "Range end YYYY-MM-DD (inclusive)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

// ledgerEntry mirrors the API transaction request shape.
type ledgerEntry struct {
	Type      string `json:"type"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
	TradeDate string `json:"trade_date"`
}

func loadInputs(rc *rootConfig) (*valuation.Schedule, *valuation.TransactionSource, error) {
	if rc.SchedulePath == "" {
		return nil, nil, fmt.Errorf("--schedule is required")
	}
	if rc.TransactionsPath == "" {
		return nil, nil, fmt.Errorf("--transactions is required")
	}

	doc, err := os.ReadFile(rc.SchedulePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read schedule: %w", err)
	}
	schedule, err := factory.NewScheduleFactory().ParseSchedule(string(doc))
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(rc.TransactionsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read transactions: %w", err)
	}
	var entries []ledgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil, fmt.Errorf("parse transactions: %w", err)
	}

	records := make([]valuation.TransactionRecord, 0, len(entries))
	for i, e := range entries {
		rec, err := toRecord(e)
		if err != nil {
			return nil, nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		records = append(records, rec)
	}

	return schedule, valuation.NewTransactionSource(records), nil
}

func toRecord(e ledgerEntry) (valuation.TransactionRecord, error) {
	var rec valuation.TransactionRecord
	var err error

	rec.Type = valuation.TransactionType(e.Type)
	if !rec.Type.Valid() {
		return rec, fmt.Errorf("%w: %q", valuation.ErrUnknownTransactionType, e.Type)
	}
	if e.Quantity != "" {
		if rec.Quantity, err = decimal.NewFromString(e.Quantity); err != nil {
			return rec, fmt.Errorf("quantity: %w", err)
		}
	}
	if e.Price != "" {
		if rec.Price, err = decimal.NewFromString(e.Price); err != nil {
			return rec, fmt.Errorf("price: %w", err)
		}
	}
	if rec.TradeDate, err = valuation.ParseDate(e.TradeDate); err != nil {
		return rec, fmt.Errorf("trade_date: %w", err)
	}
	return rec, nil
}

func printResult(r valuation.Result) {
	fmt.Printf("as_of:     %s\n", r.AsOf)
	fmt.Printf("principal: %s\n", r.Principal)
	fmt.Printf("interest:  %s\n", r.Interest)
	fmt.Printf("value:     %s\n", r.Value)
}
