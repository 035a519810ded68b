package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/retrodev-essonne/retrobus-finance/internal/config"
	"github.com/retrodev-essonne/retrobus-finance/internal/database"
	"github.com/retrodev-essonne/retrobus-finance/internal/database/repository"
	"github.com/retrodev-essonne/retrobus-finance/internal/finance"
	"github.com/retrodev-essonne/retrobus-finance/internal/logger"
	"github.com/retrodev-essonne/retrobus-finance/internal/service"
)

type app struct {
	cfg config.Config
	db  *sql.DB

	ledger     *service.LedgerService
	scheduler  *service.SchedulerService
	simulation *service.SimulationService
	reporting  *service.ReportingService
	documents  *service.DocumentService
}

func newApp() (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path, cfg.Database.MigrationsPath); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(context.Background(), db); err != nil {
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	txRepo := repository.NewTransactionRepo(db)
	docRepo := repository.NewDocumentRepo(db)
	ledger := &service.LedgerService{
		Snapshots:  repository.NewBalanceRepo(db),
		Admins:     cfg,
		LegacyCode: cfg.Ledger.Code,
	}
	return &app{
		cfg:        cfg,
		db:         db,
		ledger:     ledger,
		scheduler:  &service.SchedulerService{Operations: repository.NewOperationRepo(db)},
		simulation: &service.SimulationService{Scenarios: repository.NewScenarioRepo(db)},
		reporting:  &service.ReportingService{DB: db, Transactions: txRepo, Ledger: ledger},
		documents:  &service.DocumentService{Documents: docRepo, Transactions: txRepo, Admins: cfg},
	}, nil
}

func main() {
	var a *app
	root := &cobra.Command{
		Use:   "retrobus-finance",
		Short: "Financial scheduling and projection engine for the association's books",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil && a.db != nil {
				_ = a.db.Close()
			}
		},
		SilenceUsage: true,
	}

	root.AddCommand(balanceCmd(&a))
	root.AddCommand(configureCmd(&a))
	root.AddCommand(reportCmd(&a))
	root.AddCommand(operationsCmd(&a))
	root.AddCommand(simulateCmd(&a))

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func balanceCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print the current ledger balance and its audit history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := (*a).ledger.Current(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("current balance: %s\n", finance.FormatCents(current))
			history, err := (*a).ledger.History(ctx)
			if err != nil {
				return err
			}
			for _, s := range history {
				fmt.Printf("  %s  %s -> %s  (%s, by %s)\n",
					s.CreatedAt.Format(time.DateOnly),
					finance.FormatCents(s.OldBalanceCents),
					finance.FormatCents(s.NewBalanceCents),
					s.Reason, s.Actor)
			}
			return nil
		},
	}
}

func configureCmd(a **app) *cobra.Command {
	var actor, code, reason, amount string
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Correct the ledger balance (audited, finance-admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := finance.ParseCents(amount)
			if err != nil {
				return err
			}
			snap, err := (*a).ledger.Configure(cmd.Context(), actor, code, cents, reason)
			if err != nil {
				return err
			}
			fmt.Printf("balance corrected: %s -> %s (difference %s)\n",
				finance.FormatCents(snap.OldBalanceCents),
				finance.FormatCents(snap.NewBalanceCents),
				finance.FormatCents(snap.DifferenceCents()))
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "acting member")
	cmd.Flags().StringVar(&code, "code", "", "confirmation code")
	cmd.Flags().StringVar(&reason, "reason", "", "correction reason")
	cmd.Flags().StringVar(&amount, "amount", "", "new balance, e.g. 1234.56")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("reason")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func reportCmd(a **app) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate one calendar year and reconcile against the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := (*a).reporting.YearReport(cmd.Context(), year)
			if err != nil {
				return err
			}
			fmt.Printf("year %d: credits %s, debits %s, net %s\n", year,
				finance.FormatCents(r.TotalCreditsCents),
				finance.FormatCents(r.TotalDebitsCents),
				finance.FormatCents(r.NetCents))
			fmt.Printf("opening %s -> closing %s\n",
				finance.FormatCents(r.OpeningCents), finance.FormatCents(r.ClosingCents))
			for m, totals := range r.Monthly {
				if totals.CreditsCents == 0 && totals.DebitsCents == 0 {
					continue
				}
				fmt.Printf("  %s: %s\n", time.Month(m+1), finance.FormatCents(totals.NetCents))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "calendar year")
	return cmd
}

func operationsCmd(a **app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "operations",
		Short: "List scheduled operations with their amortization state",
		RunE: func(cmd *cobra.Command, args []string) error {
			overviews, err := (*a).scheduler.Overview(cmd.Context(), !all)
			if err != nil {
				return err
			}
			for _, ov := range overviews {
				op := ov.Operation
				fmt.Printf("%s  %s/%s  %s\n", op.Label, finance.FormatCents(op.AmountCents), op.Frequency,
					map[bool]string{true: "active", false: "inactive"}[op.Active])
				am := ov.Amortization
				switch {
				case am.MonthsKnown:
					fmt.Printf("  remaining %s over %d months (until %s)\n",
						finance.FormatCents(am.RemainingTotalCents), am.MonthsRemaining,
						am.EstimatedEnd.Format("2006-01"))
				case op.PlannedCountYear > 0:
					fmt.Printf("  %d of %d installments left this year\n", am.RemainingCountYear, op.PlannedCountYear)
				}
			}
			total, err := (*a).scheduler.MonthlyCommitmentTotal(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("monthly commitment: %s\n", finance.FormatCents(total))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include inactive operations")
	return cmd
}

func simulateCmd(a **app) *cobra.Command {
	var scenarioID, startingBalance string
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a what-if scenario projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if scenarioID == "" {
				scenarios, err := (*a).simulation.List(ctx)
				if err != nil {
					return err
				}
				for _, sc := range scenarios {
					fmt.Printf("%s  %s (%d items, %d months)\n", sc.ID, sc.Name, len(sc.Items), sc.ProjectionMonths)
				}
				return nil
			}
			start, err := finance.ParseCents(startingBalance)
			if err != nil {
				return err
			}
			p, err := (*a).simulation.Run(ctx, scenarioID, start)
			if err != nil {
				return err
			}
			for _, m := range p.Months {
				fmt.Printf("month %2d: %s -> %s (net %s)\n", m.Month,
					finance.FormatCents(m.StartCents), finance.FormatCents(m.EndCents),
					finance.FormatCents(m.NetCents))
			}
			s := p.Summary
			fmt.Printf("final: %s, change %s/month\n", finance.FormatCents(s.FinalCents), finance.FormatCents(s.MonthlyNetCents))
			if s.BreakEven {
				fmt.Printf("warning: balance goes negative in month %d\n", s.BreakEvenMonth)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scenarioID, "scenario", "", "scenario id (empty lists scenarios)")
	cmd.Flags().StringVar(&startingBalance, "start", "0", "starting balance, e.g. 500.00")
	return cmd
}
