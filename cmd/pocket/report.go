package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pocketledger/pocketledger/internal/cli"
	"github.com/pocketledger/pocketledger/internal/date"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/service"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Period summaries and category breakdowns",
	}

	cmd.AddCommand(reportDayCmd())
	cmd.AddCommand(reportPeriodCmd())
	cmd.AddCommand(reportCategoriesCmd())
	cmd.AddCommand(reportDrilldownCmd())
	cmd.AddCommand(reportTopCategoryCmd())

	return cmd
}

// parsePeriod accepts "2026" or "2026-08".
func parsePeriod(s string) (service.Period, error) {
	parts := strings.SplitN(s, "-", 2)
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return service.Period{}, fmt.Errorf("invalid period %q (want YYYY or YYYY-MM)", s)
	}
	if len(parts) == 1 {
		return service.Period{Year: year}, nil
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return service.Period{}, fmt.Errorf("invalid period %q (want YYYY or YYYY-MM)", s)
	}
	return service.Period{Year: year, Month: time.Month(month)}, nil
}

func reportDayCmd() *cobra.Command {
	var typeStr string

	cmd := &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "Transactions on one calendar day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			day, err := date.Parse(args[0])
			if err != nil {
				return err
			}
			txnType, err := model.ParseTransactionType(typeStr)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions, err := store.TransactionsOnDate(ctx, txnType, day)
			if err != nil {
				return err
			}
			printTransactions(transactions)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeStr, "type", "expense", "transaction type (income or expense)")
	return cmd
}

func reportPeriodCmd() *cobra.Command {
	var typeStr string

	cmd := &cobra.Command{
		Use:   "period <YYYY[-MM]>",
		Short: "Transactions in a month or a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			period, err := parsePeriod(args[0])
			if err != nil {
				return err
			}
			txnType, err := model.ParseTransactionType(typeStr)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions, err := store.TransactionsInPeriod(ctx, txnType, period)
			if err != nil {
				return err
			}
			printTransactions(transactions)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeStr, "type", "expense", "transaction type (income or expense)")
	return cmd
}

func reportCategoriesCmd() *cobra.Command {
	var typeStr string

	cmd := &cobra.Command{
		Use:   "categories <YYYY[-MM]>",
		Short: "Per-category totals for a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			period, err := parsePeriod(args[0])
			if err != nil {
				return err
			}
			txnType, err := model.ParseTransactionType(typeStr)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			totals, err := store.CategoryTotals(ctx, txnType, period)
			if err != nil {
				return err
			}
			if len(totals) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions in this period."))
				return nil
			}

			// Largest totals first, name as tiebreak.
			names := make([]string, 0, len(totals))
			for name := range totals {
				names = append(names, name)
			}
			sort.Slice(names, func(i, j int) bool {
				cmp := totals[names[i]].Cmp(totals[names[j]])
				if cmp != 0 {
					return cmp > 0
				}
				return names[i] < names[j]
			})

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintf(w, "%s\t%s\n",
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Total"))
			for _, name := range names {
				fmt.Fprintf(w, "%s\t%s\n", name, totals[name].String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typeStr, "type", "expense", "transaction type (income or expense)")
	return cmd
}

func reportDrilldownCmd() *cobra.Command {
	var typeStr string

	cmd := &cobra.Command{
		Use:   "category <name> <YYYY[-MM]>",
		Short: "Transactions of one category in a period, most recent first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			period, err := parsePeriod(args[1])
			if err != nil {
				return err
			}
			txnType, err := model.ParseTransactionType(typeStr)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions, err := store.TransactionsByCategoryAndPeriod(ctx, txnType, args[0], period)
			if err != nil {
				return err
			}
			printTransactions(transactions)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeStr, "type", "expense", "transaction type (income or expense)")
	return cmd
}

func reportTopCategoryCmd() *cobra.Command {
	var typeStr string

	cmd := &cobra.Command{
		Use:   "top-category",
		Short: "Most frequently used category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			txnType, err := model.ParseTransactionType(typeStr)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			name, err := store.MostFrequentCategory(ctx, txnType)
			if err != nil {
				return err
			}
			fmt.Println(name)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeStr, "type", "expense", "transaction type (income or expense)")
	return cmd
}
