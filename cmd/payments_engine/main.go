package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/logger"
	"github.com/payments-engine/internal/platform/csvio"
	"github.com/payments-engine/internal/transaction_processor/components"
	"github.com/payments-engine/internal/transaction_processor/service"
)

const usage = `Usage: payments_engine <transactions.csv>

Applies the deposits, withdrawals, disputes, resolves and chargebacks in the
given CSV file and prints the resulting client balances as CSV on stdout.

Input columns:  type,client,tx,amount
Output columns: client,available,held,total,locked

Rejected and malformed rows are reported on stderr and do not stop processing.
Set OUTPUT_SINK=postgres|mongo|none to store the balances instead of printing them.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, returning the exit code
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 || args[0] == "--help" || args[0] == "-h" {
		fmt.Fprint(stdout, usage)
		return 0
	}

	// Initialize configuration
	cfg, err := config.LoadConfig("payments_engine")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return execute(ctx, cfg, args[0], stdout, stderr)
}

func execute(ctx context.Context, cfg *config.Config, path string, stdout, stderr io.Writer) int {
	log := logger.NewLoggerWithWriter(cfg, stderr)

	input, err := csvio.Open(path, csvio.WithTrimSpaces(cfg.Input.TrimSpaces))
	if err != nil {
		log.Error("Failed to open input", "path", path, "error", err)
		return 1
	}
	defer input.Close()

	out, err := openOutput(ctx, cfg, log, stdout)
	if err != nil {
		log.Error("Failed to initialize output sink", "sink", cfg.Output.Sink, "error", err)
		return 1
	}
	defer out.Close(context.WithoutCancel(ctx))

	sink := components.CreateDiagnosticSink(cfg, log, nil, nil)
	result, err := service.NewBatchService(sink, cfg.Output.Precision, log).Run(ctx, input)
	if err != nil {
		log.Error("Batch run failed", "path", path, "error", err)
		return 1
	}

	if err := out.Write(ctx, path, result); err != nil {
		log.Error("Failed to write snapshot", "sink", cfg.Output.Sink, "run_id", result.RunID.String(), "error", err)
		return 1
	}
	return 0
}
