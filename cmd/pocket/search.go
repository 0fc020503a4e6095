package main

import (
	"fmt"

	"github.com/pocketledger/pocketledger/internal/date"
	"github.com/pocketledger/pocketledger/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var (
		typeStr    string
		startStr   string
		endStr     string
		accounts   []string
		categories []string
		minStr     string
		maxStr     string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search transactions",
		Long: `Search transactions by free text over title, description, category and
account, combined with optional type, date-range, account, category and
amount-range filters. All supplied filters must match.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			filter := service.SearchFilter{
				Type:       typeStr,
				Accounts:   accounts,
				Categories: categories,
			}
			if len(args) == 1 {
				filter.Query = args[0]
			}

			if startStr != "" {
				day, err := date.Parse(startStr)
				if err != nil {
					return err
				}
				filter.StartDate = &day
			}
			if endStr != "" {
				day, err := date.Parse(endStr)
				if err != nil {
					return err
				}
				filter.EndDate = &day
			}
			if minStr != "" {
				amount, err := decimal.NewFromString(minStr)
				if err != nil {
					return fmt.Errorf("invalid --min %q: %w", minStr, err)
				}
				filter.MinAmount = &amount
			}
			if maxStr != "" {
				amount, err := decimal.NewFromString(maxStr)
				if err != nil {
					return fmt.Errorf("invalid --max %q: %w", maxStr, err)
				}
				filter.MaxAmount = &amount
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions, err := store.Search(ctx, filter)
			if err != nil {
				return err
			}
			printTransactions(transactions)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeStr, "type", "all", "transaction type (income, expense or all)")
	cmd.Flags().StringVar(&startStr, "start", "", "start date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&accounts, "account", nil, "restrict to account names (repeatable)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "restrict to category names (repeatable)")
	cmd.Flags().StringVar(&minStr, "min", "", "minimum amount")
	cmd.Flags().StringVar(&maxStr, "max", "", "maximum amount")
	return cmd
}
