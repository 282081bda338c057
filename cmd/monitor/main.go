package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"CoinMonitor/internal/chart"
	"CoinMonitor/internal/config"
	"CoinMonitor/internal/logger"
	"CoinMonitor/internal/model"
	"CoinMonitor/internal/monitor"
	"CoinMonitor/internal/source"
	"CoinMonitor/internal/store"
	"CoinMonitor/internal/view"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A local .env feeds the config overrides; absence is fine.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatalf("config validation: %v", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fatalf("init logger: %v", err)
	}
	defer log.Sync()

	src := source.NewCoinGeckoSource(
		cfg.Source.BaseURL,
		cfg.Source.Coins,
		time.Duration(cfg.Source.TimeoutSeconds)*time.Second,
	)
	st := store.New(cfg.Storage.HistoryFile)

	var backend chart.Backend
	if cfg.Chart.Disabled {
		backend = chart.NewNoopBackend()
	} else {
		backend = chart.NewGoChartBackend()
	}
	renderer := chart.NewRenderer(backend, cfg.Chart.OutputFile)

	mon := monitor.New(
		src, st,
		time.Duration(cfg.Monitor.IntervalSeconds)*time.Second,
		os.Stdout, log,
	)

	log.Info("crypto monitor starting",
		zap.String("source", src.Name()),
		zap.String("history_file", st.Path()))

	in := bufio.NewScanner(os.Stdin)
	for {
		switch choice := prompt(in); choice {
		case "1":
			runMonitoring(mon, log)
		case "2":
			if history, ok := loadHistory(st, log); ok {
				view.RenderHistory(os.Stdout, history)
			}
		case "3":
			history, ok := loadHistory(st, log)
			if !ok {
				continue
			}
			if err := renderer.Render(os.Stdout, history); err != nil {
				fmt.Printf("❌ Could not render chart: %v\n\n", err)
				log.Error("chart render failed", zap.Error(err))
			}
		case "0":
			fmt.Println("Goodbye! 👋")
			log.Info("crypto monitor stopped")
			return
		default:
			fmt.Println("Invalid option. Try again.")
			fmt.Println()
		}
	}
}

// prompt shows the main menu and returns the user's choice. EOF on stdin
// counts as a normal quit.
func prompt(in *bufio.Scanner) string {
	fmt.Println("🚀 Crypto Price Monitor")
	fmt.Println(strings.Repeat("-", 32))
	fmt.Println("[1] Start monitoring")
	fmt.Println("[2] View history")
	fmt.Println("[3] View chart")
	fmt.Println("[0] Exit")
	fmt.Print("\nSelect an option: ")
	if !in.Scan() {
		return "0"
	}
	return strings.TrimSpace(in.Text())
}

// runMonitoring runs one monitoring session until the user interrupts it
// with Ctrl+C or the session fails. Either way control falls back to the
// menu; only the user's explicit exit ends the process.
func runMonitoring(mon *monitor.Monitor, log *zap.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := mon.Run(ctx); err != nil {
		fmt.Printf("\n❌ Monitoring stopped: %v\n\n", err)
		log.Error("monitoring session failed", zap.Error(err))
	}
}

func loadHistory(st *store.Store, log *zap.Logger) (model.RecordSet, bool) {
	history, err := st.LoadAll()
	if err != nil {
		fmt.Printf("❌ Could not load history: %v\n\n", err)
		log.Error("load history failed", zap.Error(err))
		return nil, false
	}
	return history, true
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[FATAL] "+format+"\n", args...)
	os.Exit(1)
}
