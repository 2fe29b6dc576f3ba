package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"credify-backend/internal/adapter/repository/mysql"
	"credify-backend/internal/domain/loan"
	loanuc "credify-backend/internal/usecase/loan"
	otpuc "credify-backend/internal/usecase/otp"

	"github.com/spf13/cobra"
)

func migrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := open()
			if err != nil {
				return err
			}
			if err := mysql.AutoMigrate(gdb); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(mysql.Models()))
			return nil
		},
	}
}

func otpCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "otp",
		Short: "Manage one-time login codes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired login codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := open()
			if err != nil {
				return err
			}
			n, err := otpuc.NewUsecase(mysql.NewOTPRepository(gdb), nil, nil, 0).PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired codes\n", n)
			return nil
		},
	})
	return cmd
}

func loansCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Inspect loan applications",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List loans, optionally filtered by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, _ := cmd.Flags().GetStringSlice("status")
			limit, _ := cmd.Flags().GetInt("limit")

			f := loan.ListFilter{Limit: limit}
			for _, s := range statuses {
				if s = strings.TrimSpace(s); s != "" {
					f.Statuses = append(f.Statuses, loan.Status(s))
				}
			}

			gdb, err := open()
			if err != nil {
				return err
			}
			loans, err := loanuc.NewUsecase(mysql.NewLoanRepository(gdb), nil).List(cmd.Context(), f)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tAMOUNT\tRATE\tMAX RATE\tMONTHS\tBIDS\tPURPOSE")
			for _, l := range loans {
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\t%d\t%d\t%s\n",
					l.ID, l.Status, l.Amount, l.Rate, l.MaxRate, l.Duration, len(l.Bids), l.Purpose)
			}
			return w.Flush()
		},
	}
	list.Flags().StringSliceP("status", "s", nil, "Filter by status (Open, Pending, Funded)")
	list.Flags().IntP("limit", "n", 50, "Maximum results")
	cmd.AddCommand(list)
	return cmd
}
