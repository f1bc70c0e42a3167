// Command dashctl runs the dashboard computations from a terminal: KPI summaries, the
// spreadsheet export and assistant questions.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"sales-analytics/internal/app"
	"sales-analytics/internal/config"
	"sales-analytics/internal/lib/logger"
	"sales-analytics/internal/service/insight"
)

var errAssistantDisabled = errors.New("assistant is not configured: set GEMINI_API_KEY")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dashctl",
		Short:        "Sales dashboard operator tool",
		SilenceUsage: true,
	}

	root.AddCommand(newKPICmd(), newExportCmd(), newAskCmd())

	return root
}

// withApp loads configuration, opens the store and hands the wired services to fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// stdout carries command output, so logs go to stderr
	log := logger.New(cfg.Env, cmd.ErrOrStderr(), nil)

	ctx := cmd.Context()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, cfg, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newKPICmd() *cobra.Command {
	var (
		username string
		year     int
	)

	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Print the KPI cards for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, cfg *config.Config, a *app.App) error {
				if year == 0 {
					year = cfg.Dashboard.DefaultYear
				}

				kpis, err := a.Dashboard.KPISummary(ctx, username, year)
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), kpis)
			})
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "username to scope the figures to")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "fiscal year (default from config)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		username string
		year     int
		out      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the landing page workbook to an .xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, cfg *config.Config, a *app.App) error {
				if year == 0 {
					year = cfg.Dashboard.DefaultYear
				}

				data, err := a.Report.GenerateExcel(ctx, username, year)
				if err != nil {
					return err
				}

				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "username to scope the figures to")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "fiscal year (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "sales_report.xlsx", "output file")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant a question about the sales data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, cfg *config.Config, a *app.App) error {
				if a.Insight == nil {
					return errAssistantDisabled
				}

				answer, err := a.Insight.Ask(ctx, args[0])
				if errors.Is(err, insight.ErrUnsafeQuery) && answer != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "rejected SQL: %s\n", answer.SQLUsed)
				}
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), answer)
			})
		},
	}
}
