package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/janesferr/Regression-test/capture"
	"github.com/janesferr/Regression-test/config"
	"github.com/janesferr/Regression-test/models"
	"github.com/janesferr/Regression-test/report"
	"github.com/janesferr/Regression-test/sitemap"
)

func main() {
	defaultCfg := config.DefaultConfig()
	outputDefault := defaultCfg.OutputDir
	if value, ok := config.EnvString("VRT_OUTPUT"); ok {
		outputDefault = value
	}
	attemptsDefault := defaultCfg.MaxAttempts
	if value, ok, err := config.EnvInt("VRT_ATTEMPTS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid VRT_ATTEMPTS: %v\n", err)
		os.Exit(1)
	} else if ok {
		attemptsDefault = value
	}
	headlessDefault := defaultCfg.Headless
	if value, ok, err := config.EnvBool("VRT_HEADLESS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid VRT_HEADLESS: %v\n", err)
		os.Exit(1)
	} else if ok {
		headlessDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("VRT_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	sourceURL := flag.String("source", "", "Production (source) site base URL")
	targetURL := flag.String("target", "", "Staging (target) site base URL")
	sourceSitemap := flag.String("source-sitemap", "", "Source sitemap URL (default <source>"+config.DefaultSitemapPath+")")
	targetSitemap := flag.String("target-sitemap", "", "Target sitemap URL (default <target>"+config.DefaultSitemapPath+")")
	outputDir := flag.String("output", outputDefault, "Report output directory")
	outputFormat := flag.String("format", defaultCfg.OutputFormat, "Report format: html, json, or dual")
	headless := flag.Bool("headless", headlessDefault, "Run the browser headless")
	insecureTLS := flag.Bool("insecure-tls", defaultCfg.InsecureTLS, "Skip TLS certificate verification (self-signed staging certs)")
	attempts := flag.Int("attempts", attemptsDefault, "Capture attempts per page")
	retryDelayMs := flag.Int("retry-delay", int(defaultCfg.RetryDelay/time.Millisecond), "Delay before each retry (milliseconds)")
	settleMs := flag.Int("settle", int(defaultCfg.SettleDelay/time.Millisecond), "Wait after navigation before capture (milliseconds)")
	timeoutMs := flag.Int("timeout", int(defaultCfg.Timeout/time.Millisecond), "Per-operation browser/fetch timeout (milliseconds)")
	scrollStep := flag.Int("scroll-step", defaultCfg.ScrollStep, "Lazy-load scroll increment (pixels)")
	userAgent := flag.String("user-agent", defaultCfg.UserAgent, "Browser user agent")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")

	flag.Parse()

	cfg := defaultCfg
	cfg.SourceBaseURL = *sourceURL
	cfg.TargetBaseURL = *targetURL
	cfg.SourceSitemapURL = config.SitemapURL(*sourceSitemap, *sourceURL)
	cfg.TargetSitemapURL = config.SitemapURL(*targetSitemap, *targetURL)
	cfg.OutputDir = *outputDir
	cfg.OutputFormat = *outputFormat
	cfg.Headless = *headless
	cfg.InsecureTLS = *insecureTLS
	cfg.MaxAttempts = *attempts
	cfg.RetryDelay = time.Duration(*retryDelayMs) * time.Millisecond
	cfg.SettleDelay = time.Duration(*settleMs) * time.Millisecond
	cfg.Timeout = time.Duration(*timeoutMs) * time.Millisecond
	cfg.ScrollStep = *scrollStep
	cfg.UserAgent = *userAgent
	cfg.Verbose = *verbose
	cfg.MetricsAddr = *metricsAddr

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.Create(filepath.Join(cfg.OutputDir, "logs.txt"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "create run log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger, level := newLogger(cfg.Verbose, logFile)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	slog.Info("starting visual regression run",
		slog.String("source", cfg.SourceBaseURL),
		slog.String("target", cfg.TargetBaseURL),
		slog.Int("attempts", cfg.MaxAttempts),
		slog.Bool("headless", cfg.Headless),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing current page")
	}()

	metrics := capture.NewMetrics()
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	reader := sitemap.NewReader(cfg)
	sourceIndex := sitemap.BuildIndex(reader, "source", cfg.SourceBaseURL, cfg.SourceSitemapURL)
	targetIndex := sitemap.BuildIndex(reader, "target", cfg.TargetBaseURL, cfg.TargetSitemapURL)
	items := sitemap.Reconcile(sourceIndex, targetIndex)
	slog.Info("work list reconciled", slog.Int("pages", len(items)))

	session, err := capture.NewSession(cfg)
	if err != nil {
		slog.Error("launching browser", slog.Any("error", err))
		os.Exit(1)
	}
	defer session.Close()

	meta := report.Meta{
		SourceBase:     cfg.SourceBaseURL,
		TargetBase:     cfg.TargetBaseURL,
		OutputDir:      cfg.OutputDir,
		SourceDegraded: sourceIndex.Degraded,
		TargetDegraded: targetIndex.Degraded,
	}
	writer, err := createWriter(cfg.OutputFormat, cfg.OutputDir, meta)
	if err != nil {
		slog.Error("creating report writer", slog.Any("error", err))
		session.Close()
		os.Exit(1)
	}

	runner := capture.NewRunner(session, cfg, metrics)
	result, runErr := runner.Run(ctx, items, writer)

	if err := writer.Close(); err != nil {
		slog.Error("closing report writer", slog.Any("error", err))
	}
	if err := writer.Validate(); err != nil {
		slog.Error("report validation failed", slog.Any("error", err))
	}
	if runErr != nil {
		slog.Error("run did not complete", slog.Any("error", runErr))
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, cfg.OutputDir)
	if runErr != nil {
		session.Close()
		os.Exit(1)
	}
}

func createWriter(format, root string, meta report.Meta) (report.Writer, error) {
	switch format {
	case "html":
		return report.NewHTMLWriter(root, meta)
	case "json":
		return report.NewJSONWriter(root, meta)
	case "dual":
		return report.NewDualWriter(root, meta)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printSummary(result *models.RunResult, outputDir string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Run complete")
	fmt.Printf("  Pages:          %d\n", result.Pages)
	fmt.Printf("  Captures:       %d\n", result.Captures)
	fmt.Printf("  Failed:         %d\n", result.Failures)
	fmt.Printf("  Retries:        %d\n", result.Retries)
	if len(result.FailuresByKind) > 0 {
		fmt.Printf("  Failure kinds:  %v\n", result.FailuresByKind)
	}
	fmt.Printf("  Duration:       %v\n", result.EndTime.Sub(result.StartTime).Round(time.Millisecond))
	fmt.Printf("  Report:         %s\n", filepath.Join(outputDir, "index.html"))
	fmt.Println(separator)
}

func newLogger(verbose bool, logFile io.Writer) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, logFile), opts)
	return slog.New(handler), level
}
