// Command ppcalc computes relationship-anonymity sets over a ground-truth
// trace (analyze), or produces a synthetic ground-truth trace (generate).
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cdoepmann/ppcalc-go/internal/cli"
	"github.com/cdoepmann/ppcalc-go/internal/config"
	"github.com/cdoepmann/ppcalc-go/internal/generate"
	"github.com/cdoepmann/ppcalc-go/internal/obsmetrics"
	"github.com/cdoepmann/ppcalc-go/internal/progress"
	"github.com/cdoepmann/ppcalc-go/internal/telemetry"
	"github.com/cdoepmann/ppcalc-go/pkg/anonymity"
	"github.com/cdoepmann/ppcalc-go/pkg/output"
	"github.com/cdoepmann/ppcalc-go/pkg/trace"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, cli.Usage())
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "analyze":
		err = runAnalyze(logger, os.Args[2:])
	case "generate":
		err = runGenerate(logger, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, cli.Usage())
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func runAnalyze(logger *logrus.Logger, args []string) error {
	a, err := cli.ParseAnalyzeArgs(args)
	if err != nil {
		return err
	}

	if a.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(
			obsmetrics.Gatherer(), promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(a.MetricsAddr, mux); err != nil {
				logger.WithError(err).Warn("metrics server stopped")
			}
		}()
	}

	b := trace.NewBuilder()
	if err := b.FromCSV(a.InputPath); err != nil {
		return err
	}
	tr, err := b.Build()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"entries":  tr.Len(),
		"sources":  tr.MaxSourceId() + 1,
		"checksum": tr.Checksum(),
	}).Info("trace loaded")

	tracer, shutdown, err := telemetry.Init("ppcalc-analyze")
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	reporter := progress.NewReporter(logger, "sources", 1000)
	deps := anonymity.Deps{Logger: logger, Reporter: reporter, Tracer: tracer}

	switch {
	case a.GenerateTestcase != "":
		sets := anonymity.Compute(tr, a.MinWindow, a.MaxWindow, deps)
		reporter.Close()
		return output.WriteTestcase(a.GenerateTestcase, tr, sets, a.MinWindow, a.MaxWindow)

	case a.SizesOnly:
		sets := anonymity.ComputeSizes(tr, a.MinWindow, a.MaxWindow, deps)
		reporter.Close()
		return output.WriteResult(a.Output, output.BuildSizesResult(tr, sets))

	default:
		sets := anonymity.Compute(tr, a.MinWindow, a.MaxWindow, deps)
		reporter.Close()
		if err := output.WriteResult(a.Output, output.BuildResult(tr, sets)); err != nil {
			return err
		}
		if a.OutputUserAnonsets != "" {
			return output.WriteDeanonymization(a.OutputUserAnonsets, output.BuildDeanonymization(sets))
		}
		return nil
	}
}

func runGenerate(logger *logrus.Logger, args []string) error {
	g, err := cli.ParseGenerateArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return err
	}

	seed := g.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	tr, err := generate.Generate(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"entries": tr.Len(),
		"sources": tr.MaxSourceId() + 1,
		"seed":    seed,
	}).Info("trace generated")

	obsmetrics.SourcesProcessed.Add(0) // keep the collector registered/visible even if /metrics is never scraped

	return tr.WriteToFile(g.Output)
}
