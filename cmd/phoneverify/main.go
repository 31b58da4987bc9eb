package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"phoneverify/cache"
	"phoneverify/internal/config"
	"phoneverify/internal/phone"
	"phoneverify/internal/term"
	"phoneverify/numverify"
	"phoneverify/retry"
	"phoneverify/verify"
)

// main wires the configuration, decision cache, numverify client, and
// batch runner, then renders the summary. Validation logic lives in the
// verify package.
func main() {
	configFlag := flag.String("config", "config.json", "Path to the JSON configuration file")
	inputFlag := flag.String("input", "", "File with one phone number per line ('-' reads stdin)")
	outputFlag := flag.String("output", "", "Results file (overrides output_file from the config)")
	rateFlag := flag.Float64("rate", 0, "Maximum validations per second (0 = unlimited)")
	burstFlag := flag.Int("burst", 1, "Burst size when -rate is set")
	quietFlag := flag.Bool("quiet", false, "Disable the progress bar and colored output")
	verboseFlag := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		term.PrintLn(term.Red, err)
		os.Exit(1)
	}
	if *outputFlag != "" {
		cfg.OutputFile = *outputFlag
	}
	if *verboseFlag {
		cfg.LogLevel = "DEBUG"
	}

	quiet := *quietFlag || term.Quiet()
	if quiet {
		color.NoColor = true
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		term.PrintLn(term.Red, err)
		os.Exit(1)
	}
	defer closeLog()

	numbers, skipped := gatherNumbers(flag.Args(), *inputFlag, logger)
	if len(numbers) == 0 {
		term.PrintLn(term.Red, "no usable phone numbers (pass them as arguments or with -input)")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clientOpts := []numverify.Option{
		numverify.WithTimeout(cfg.Timeout()),
		numverify.WithConnectionLimit(cfg.ConnectionLimit),
		numverify.WithLogger(logger),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, numverify.WithBaseURL(cfg.BaseURL))
	}
	client, err := numverify.New(cfg.APIKey, clientOpts...)
	if err != nil {
		term.PrintLn(term.Red, err)
		os.Exit(1)
	}

	decisions := cache.New[string, verify.Result](cfg.CacheSize)
	validator, err := verify.NewValidator(decisions, verify.WithValidatorLogger(logger))
	if err != nil {
		term.PrintLn(term.Red, err)
		os.Exit(1)
	}

	runnerOpts := []verify.RunnerOption{
		verify.WithRetryPolicy(retry.Policy{
			MaxAttempts: cfg.RetryCount,
			BaseDelay:   cfg.RetryDelay(),
		}),
		verify.WithRetryClassifier(numverify.Retryable),
		verify.WithSink(verify.FileSink(cfg.OutputFile)),
		verify.WithLogger(logger),
	}
	if *rateFlag > 0 {
		runnerOpts = append(runnerOpts, verify.WithRateLimit(*rateFlag, *burstFlag))
	}

	var bar *progressbar.ProgressBar
	if !quiet {
		bar = term.ProgressBar(len(numbers), "Validating numbers")
		runnerOpts = append(runnerOpts, verify.WithProgress(func(completed, _ int) {
			_ = bar.Set(completed)
		}))
	}

	runner, err := verify.NewRunner(client, validator, runnerOpts...)
	if err != nil {
		term.PrintLn(term.Red, err)
		os.Exit(1)
	}

	start := time.Now()
	results, err := runner.Run(ctx, numbers)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		if ctx.Err() != nil {
			term.PrintLn(term.Yellow, "validation cancelled")
			os.Exit(130)
		}
		term.PrintLn(term.Red, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	valid := 0
	for _, res := range results {
		if res.Valid {
			valid++
		}
	}

	if !quiet {
		fmt.Println()
		if _, err := term.RenderSummary(os.Stdout, numbers, results); err != nil {
			logger.Warn("rendering summary", "error", err)
		}
	}

	term.Printf(term.Green, "✅ %d/%d numbers valid (%s)\n", valid, len(numbers), elapsed.Round(time.Millisecond))
	if skipped > 0 {
		term.Printf(term.Yellow, "⚠️  %d input entries skipped\n", skipped)
	}
	fmt.Printf("Results written to %s\n", cfg.OutputFile)

	stats := decisions.Stats()
	logger.Debug("cache stats",
		"size", stats.Size,
		"hits", stats.Hits,
		"misses", stats.Misses,
		"evictions", stats.Evictions,
		"hit_rate", stats.HitRate(),
	)
}

// newLogger builds the structured logger, writing to the configured log
// file when one is set and to stderr otherwise.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	out := io.Writer(os.Stderr)
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	return slog.New(handler), closeFn, nil
}

// gatherNumbers merges positional arguments with the optional input
// file, normalizes each entry, and reports how many were skipped.
func gatherNumbers(args []string, inputPath string, log *slog.Logger) ([]string, int) {
	raw := append([]string{}, args...)
	if inputPath != "" {
		lines, err := readLines(inputPath)
		if err != nil {
			term.PrintLn(term.Red, err)
			os.Exit(1)
		}
		raw = append(raw, lines...)
	}

	numbers := make([]string, 0, len(raw))
	skipped := 0
	for _, entry := range raw {
		number, err := phone.Normalize(entry)
		if err != nil {
			term.Printf(term.Yellow, "⚠️  %v\n", err)
			log.Warn("skipping input", "entry", entry, "error", err)
			skipped++
			continue
		}
		numbers = append(numbers, number)
	}
	return numbers, skipped
}

// readLines reads non-empty lines from path, or stdin when path is "-".
// Lines starting with # are treated as comments.
func readLines(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}
