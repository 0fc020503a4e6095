package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/pocketledger/pocketledger/internal/cli"
	"github.com/pocketledger/pocketledger/internal/date"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(updateTxCmd())
	cmd.AddCommand(deleteTxCmd())
	cmd.AddCommand(listTxCmd())

	return cmd
}

func listTxCmd() *cobra.Command {
	var typeStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions, err := store.Search(ctx, service.SearchFilter{Type: typeStr})
			if err != nil {
				return err
			}
			printTransactions(transactions)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeStr, "type", "all", "transaction type (income, expense or all)")
	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		description string
		account     string
		category    string
		typeStr     string
		amountStr   string
		dayOffset   int
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Record a transaction",
		Long: `Record an income or expense transaction. The date is today shifted by
--day-offset days (0 = today, -1 = yesterday), matching the date navigator.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			txnType, err := model.ParseTransactionType(typeStr)
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amountStr, err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			draft := model.TransactionDraft{
				Title:       args[0],
				Description: description,
				Amount:      amount,
				Account:     account,
				Category:    category,
				Type:        txnType,
			}

			txn, err := store.InsertTransaction(ctx, draft, dayOffset)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Recorded %s %q of %s on %s (id %d)",
				txn.Type, txn.Title, txn.Amount.String(), txn.Date, txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "free-form note")
	cmd.Flags().StringVar(&account, "account", model.CashAccountName, "account name")
	cmd.Flags().StringVar(&category, "category", model.FallbackCategoryName, "category name")
	cmd.Flags().StringVar(&typeStr, "type", "expense", "transaction type (income or expense)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (non-negative)")
	cmd.Flags().IntVar(&dayOffset, "day-offset", 0, "days relative to today (negative = past)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func updateTxCmd() *cobra.Command {
	var (
		title       string
		description string
		account     string
		category    string
		typeStr     string
		amountStr   string
		dateStr     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rewrite a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := store.GetTransactionByID(ctx, id)
			if err != nil {
				return err
			}

			// Only explicitly set flags override the stored row.
			if cmd.Flags().Changed("title") {
				txn.Title = title
			}
			if cmd.Flags().Changed("description") {
				txn.Description = description
			}
			if cmd.Flags().Changed("account") {
				txn.Account = account
			}
			if cmd.Flags().Changed("category") {
				txn.Category = category
			}
			if cmd.Flags().Changed("type") {
				txnType, err := model.ParseTransactionType(typeStr)
				if err != nil {
					return err
				}
				txn.Type = txnType
			}
			if cmd.Flags().Changed("amount") {
				amount, err := decimal.NewFromString(amountStr)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amountStr, err)
				}
				txn.Amount = amount
			}
			if cmd.Flags().Changed("date") {
				day, err := date.Parse(dateStr)
				if err != nil {
					return err
				}
				txn.Date = day
			}

			if err := store.UpdateTransaction(ctx, *txn); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated transaction %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&description, "description", "", "free-form note")
	cmd.Flags().StringVar(&account, "account", "", "account name")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&typeStr, "type", "", "transaction type (income or expense)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (non-negative)")
	cmd.Flags().StringVar(&dateStr, "date", "", "calendar date (YYYY-MM-DD)")
	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteTransaction(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction %d", id)))
			return nil
		},
	}
}

// printTransactions renders a transaction table shared by report and search.
func printTransactions(transactions []model.Transaction) {
	if len(transactions) == 0 {
		fmt.Println(cli.InfoStyle.Render("No matching transactions."))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("ID"),
		cli.TableHeaderStyle.Render("Date"),
		cli.TableHeaderStyle.Render("Title"),
		cli.TableHeaderStyle.Render("Amount"),
		cli.TableHeaderStyle.Render("Type"),
		cli.TableHeaderStyle.Render("Account"),
		cli.TableHeaderStyle.Render("Category"))

	for _, txn := range transactions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			txn.ID, txn.Date, txn.Title, txn.Amount.String(), txn.Type, txn.Account, txn.Category)
	}
}
