package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/pocketledger/pocketledger/internal/cli"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
		Long:  `List, add, update and delete accounts, set the default account, and view balances.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(updateAccountCmd())
	cmd.AddCommand(deleteAccountCmd())
	cmd.AddCommand(setDefaultAccountCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts with balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			balances, err := store.AllBalances(ctx)
			if err != nil {
				return fmt.Errorf("failed to compute balances: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Opening"),
				cli.TableHeaderStyle.Render("Balance"),
				cli.TableHeaderStyle.Render("Flags"))

			for _, b := range balances {
				flags := ""
				if b.IsDefault {
					flags += "default "
				}
				if b.IsPermanent {
					flags += "permanent"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					b.ID, b.Name, b.OpeningBalance.String(), b.Balance.String(),
					cli.SubtleStyle.Render(flags))
			}
			return nil
		},
	}
}

func addAccountCmd() *cobra.Command {
	var (
		icon    string
		opening string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			openingBalance, err := decimal.NewFromString(opening)
			if err != nil {
				return fmt.Errorf("invalid opening balance %q: %w", opening, err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			acc, err := store.CreateAccount(ctx, args[0], icon, openingBalance)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created account %q (id %d)", acc.Name, acc.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "wallet", "symbolic icon name")
	cmd.Flags().StringVar(&opening, "opening", "0", "opening balance")
	return cmd
}

func updateAccountCmd() *cobra.Command {
	var (
		name    string
		icon    string
		opening string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account's name, icon or opening balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid account id %q", args[0])
			}
			openingBalance, err := decimal.NewFromString(opening)
			if err != nil {
				return fmt.Errorf("invalid opening balance %q: %w", opening, err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.UpdateAccount(ctx, id, name, icon, openingBalance); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated account %d", id)))
			fmt.Println(cli.SubtleStyle.Render("Note: existing transactions keep the old account name."))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&icon, "icon", "wallet", "symbolic icon name")
	cmd.Flags().StringVar(&opening, "opening", "0", "opening balance")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func deleteAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a non-permanent account",
		Long:  `Delete an account. Its transactions are reassigned to Cash first.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid account id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteAccount(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted account %d (transactions moved to Cash)", id)))
			return nil
		},
	}
}

func setDefaultAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <id>",
		Short: "Make an account the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid account id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetDefaultAccount(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Account %d is now the default", id)))
			return nil
		},
	}
}
