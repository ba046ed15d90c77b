package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cogniseguros/internal/schema"
	"cogniseguros/internal/services"
	"cogniseguros/pkg/utils"
)

var (
	sqlFile     string
	concurrency int
	noCreate    bool

	adminPassword string
	adminName     string
)

var migrateTenantCmd = &cobra.Command{
	Use:   "migrate-tenant [account-id]",
	Short: "Migrate one tenant database",
	Long:  `Ensure the tenant schema, or apply --sql, on the database of a single aseguradora.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id < 1 {
			return fmt.Errorf("invalid account id %q", args[0])
		}
		m, err := migrationFromFlags()
		if err != nil {
			return err
		}

		return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
			res, err := d.Tenants.MigrateTenant(ctx, id, m)
			if errors.Is(err, utils.ErrAccountNotFound) {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return err
		})
	},
}

var migrateAllCmd = &cobra.Command{
	Use:   "migrate-all-tenants",
	Short: "Migrate every tenant database",
	Long: `Apply the tenant schema, or --sql, to every aseguradora database. A failing
tenant does not stop the others; the command exits non-zero if any failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := migrationFromFlags()
		if err != nil {
			return err
		}
		m.Concurrency = concurrency

		return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
			report, err := d.Tenants.MigrateAllTenants(ctx, m)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report)
		})
	},
}

var migrateMasterCmd = &cobra.Command{
	Use:   "migrate-master",
	Short: "Ensure the master database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
			if err := d.Provisioner.Ensure(ctx, d.DB, schema.MasterSchema()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK master")
			return nil
		})
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin [email]",
	Short: "Create an admin account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(adminPassword) < 6 {
			return errors.New("--password must be at least 6 characters")
		}

		return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
			account, err := d.Accounts.CreateAdmin(ctx, args[0], adminName, adminPassword)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %d %s\n", account.ID, account.Email)
			return nil
		})
	},
}

func migrationFromFlags() (services.Migration, error) {
	m := services.Migration{CreateMissing: !noCreate}
	if sqlFile == "" {
		return m, nil
	}
	raw, err := os.ReadFile(sqlFile)
	if err != nil {
		return m, fmt.Errorf("read --sql: %w", err)
	}
	m.SQL = string(raw)
	return m, nil
}

func printResult(w io.Writer, r services.TenantResult) {
	if r.OK() {
		fmt.Fprintf(w, "OK   %d %s (%d statements, %s)\n", r.AccountID, r.Database, r.Statements, r.Duration.Round(time.Millisecond))
		return
	}
	state := utils.SQLState(r.Err)
	if state != "" {
		state = " [" + state + "]"
	}
	fmt.Fprintf(w, "FAIL %d %s%s: %v\n", r.AccountID, r.Database, state, r.Err)
}

// writeReport prints one line per tenant and a summary. It fails when any
// tenant failed so the command exits non-zero.
func writeReport(w io.Writer, report *services.MigrationReport) error {
	for _, r := range report.Results {
		printResult(w, r)
	}
	fmt.Fprintf(w, "%d ok, %d failed\n", report.OK, report.Failed)
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d tenants failed", report.Failed, len(report.Results))
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{migrateTenantCmd, migrateAllCmd} {
		c.Flags().StringVar(&sqlFile, "sql", "", "SQL script to apply instead of the tenant schema")
		c.Flags().BoolVar(&noCreate, "no-create", false, "do not create missing tenant databases")
	}
	migrateAllCmd.Flags().IntVar(&concurrency, "concurrency", 0, "tenants migrated in parallel (default MIGRATION_CONCURRENCY)")

	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Admin", "display name")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(migrateTenantCmd)
	rootCmd.AddCommand(migrateAllCmd)
	rootCmd.AddCommand(migrateMasterCmd)
	rootCmd.AddCommand(createAdminCmd)
}
