package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/client"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/payout"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

func helpMessage() {
	fmt.Println("payoutd")
	fmt.Println("          Share pool payout keeper")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("run       Watch the pool and distribute whenever the vault is full")
	fmt.Println("history   Print the most recent rounds from the journal")
	fmt.Println("version   Print the version")
	fmt.Println(`
Configuration is read from SHAREPOOL_* environment variables.`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "payoutd")

	flag.CommandLine.Usage = helpMessage
	flag.Parse()
	cmd := "run"
	var rest []string
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
		rest = flag.Args()[1:]
	}

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "run":
		err = runCmd(logger)
	case "history":
		err = historyCmd(rest)
	case "version":
		fmt.Println(sharepool.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

func runCmd(logger log.Logger) error {
	c, err := payout.LoadConfig()
	if err != nil {
		return err
	}
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return errors.Wrap(errors.ErrConfiguration, err.Error())
	}
	logger = log.NewFilter(logger, opt)

	journal, err := payout.OpenJournal(c.JournalPath)
	if err != nil {
		return err
	}
	defer journal.Close()

	node := client.NewClient(client.NewHTTPConnection(c.RPCURL))
	keeper, err := payout.FromConfig(c, node, node, journal)
	if err != nil {
		return err
	}
	keeper = keeper.WithLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics, err := payout.NewMetrics(reg)
		if err != nil {
			return err
		}
		keeper = keeper.WithMetrics(metrics)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: c.MetricsAddr, Handler: mux}
		go func() {
			logger.Info("Serving metrics", "addr", c.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server", "err", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	logger.Info("Watching pool", "pool", c.Pool, "node", c.RPCURL)
	if err := keeper.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("Stopped")
	return nil
}

func historyCmd(args []string) error {
	fl := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fl.Int("n", 10, "number of rounds to print")
	path := fl.String("journal", os.Getenv("SHAREPOOL_JOURNAL"), "journal file, SHAREPOOL_JOURNAL by default")
	if err := fl.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if *path == "" {
		*path = "payout.db"
	}

	journal, err := payout.OpenJournal(*path)
	if err != nil {
		return err
	}
	defer journal.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rounds, err := journal.Recent(ctx, *limit)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rounds)
}
