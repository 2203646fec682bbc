package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"StockLens/internal/chart"
	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/notifier"
	"StockLens/internal/scheduler"
	"StockLens/internal/session"
	"StockLens/internal/ui"
)

const defaultConfigPath = "configs/config.yaml"

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "stocklens",
		Short: "StockLens - daily price charts and next-close predictions",
		Long: `StockLens lets you pick a listed stock, shows its latest volume, open and close
with a chart of recent closes, and predicts the next close with a linear regression.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = defaultConfigPath
				if v := os.Getenv("CONFIG_PATH"); v != "" {
					path = v
				}
			}
			loaded, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, cfg)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Configuration file path (default configs/config.yaml or $CONFIG_PATH)")

	rootCmd.AddCommand(newPredictCmd(&cfg))
	rootCmd.AddCommand(newCatalogCmd(&cfg))
	rootCmd.AddCommand(newPredictionsCmd(&cfg))
	rootCmd.AddCommand(newWatchCmd(&cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func chartConfig(cfg *config.Config) chart.Config {
	return chart.Config{Window: cfg.Chart.Window, Height: cfg.Chart.Height, Width: cfg.Chart.Width}
}

func runInteractive(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := cfg.ValidateCatalog(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	restore, err := logToFile("data/stocklens.log")
	if err != nil {
		log.Printf("[WARN] log file unavailable, logging to stderr: %v", err)
	} else {
		defer restore()
	}

	ctx := cmd.Context()
	symbols, err := newCatalogLoader(cfg).LoadCatalog(ctx)
	if err != nil {
		log.Printf("[FATAL] load symbol list: %v", err)
		fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderError(err))
		return err
	}
	log.Printf("[INFO] catalog loaded: %d symbols", len(symbols))

	rec := openRecorder(cfg)
	defer rec.Close()

	engine := session.NewEngine(collector.NewCollector(newFetcher(cfg)), rec)
	app := ui.NewApp(engine, symbols, chartConfig(cfg))
	app.Out = cmd.OutOrStdout()
	return app.Run(ctx)
}

func newPredictCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "predict SYMBOL",
		Short: "Fetch, chart and predict one symbol without prompts",
		Example: `  stocklens predict AAPL
  stocklens predict "MSFT - Microsoft Corp"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if err := c.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			rec := openRecorder(c)
			defer rec.Close()

			engine := session.NewEngine(collector.NewCollector(newFetcher(c)), rec)
			out := cmd.OutOrStdout()
			if _, err := engine.Select(cmd.Context(), args[0]); err != nil {
				fmt.Fprintln(out, ui.RenderError(err))
				return err
			}
			fmt.Fprintln(out, ui.RenderSession(engine.Current(), chartConfig(c)))

			res, err := engine.Analyze()
			if err != nil {
				fmt.Fprintln(out, ui.RenderError(err))
				return err
			}
			fmt.Fprintln(out, ui.RenderPrediction(res))
			return nil
		},
	}
}

func newCatalogCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the listed symbols",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if err := c.ValidateCatalog(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			grep, _ := cmd.Flags().GetString("grep")
			limit, _ := cmd.Flags().GetInt("limit")

			symbols, err := newCatalogLoader(c).LoadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			grep = strings.ToLower(grep)
			printed := 0
			for _, s := range symbols {
				display := s.Display()
				if grep != "" && !strings.Contains(strings.ToLower(display), grep) {
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), display)
				printed++
				if limit > 0 && printed >= limit {
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().String("grep", "", "Only show entries containing this text (case-insensitive)")
	cmd.Flags().Int("limit", 0, "Maximum number of entries to print (0 for all)")
	return cmd
}

func newPredictionsCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predictions [SYMBOL]",
		Short: "List recorded predictions, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if c.Database.SQLitePath == "" {
				return errors.New("database.sqlite_path is not set; predictions are not recorded")
			}
			limit, _ := cmd.Flags().GetInt("limit")
			symbol := ""
			if len(args) == 1 {
				symbol = strings.ToUpper(args[0])
			}

			rec := openRecorder(c)
			defer rec.Close()
			events, err := rec.ListPredictions(symbol, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No predictions recorded")
				return nil
			}
			fmt.Fprintf(out, "%-20s %-8s %-10s %12s %12s %12s\n", "RECORDED", "SYMBOL", "LAST DATE", "LAST CLOSE", "PREDICTED", "RMSE")
			for _, e := range events {
				fmt.Fprintf(out, "%-20s %-8s %-10s %12.3f %12.3f %12.5f\n",
					e.Timestamp.Format("2006-01-02 15:04:05"), e.Symbol, e.LastDate, e.LastClose, e.PredictedClose, e.RMSE)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum number of rows")
	return cmd
}

func newWatchCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Predict the watchlist on a schedule and report to Telegram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if err := c.ValidateWatch(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			runNow, _ := cmd.Flags().GetBool("run-now")
			if os.Getenv("RUN_ON_START") == "true" {
				runNow = true
			}
			ctx := cmd.Context()

			rec := openRecorder(c)
			defer rec.Close()

			tn := notifier.NewTelegramNotifier(c.Telegram.BotToken, c.Telegram.ChatID, c.Proxy)
			col := collector.NewCollector(newFetcher(c))

			sched := scheduler.NewScheduler(ctx, col, tn, rec, c.Schedule.Watchlist)
			if err := sched.Register(c.Schedule.DailyCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Println("[INFO] Telegram polling started")

			if runNow {
				log.Println("[INFO] running watchlist now")
				go sched.RunNow()
			}

			log.Printf("[INFO] StockLens is watching %s. Press Ctrl+C to stop.", strings.Join(c.Schedule.Watchlist, ", "))
			<-ctx.Done()
			log.Println("[INFO] shutdown signal received, stopping...")
			return nil
		},
	}
	cmd.Flags().Bool("run-now", false, "Run the watchlist once immediately")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "StockLens %s\n", version)
		},
	}
}
