// Command build-graph assembles the dependency graph, layers the five
// knowledge-edge families on top of it, scores it with personalized
// PageRank, validates it, and exports it to a CBOR+zstd file (spec.md
// §6.5, SPEC_FULL.md §4.12).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iqrah/graphkg/internal/codec"
	"github.com/iqrah/graphkg/internal/depgraph"
	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/internal/kgbuilder"
	"github.com/iqrah/graphkg/internal/morphology"
	"github.com/iqrah/graphkg/internal/quran"
	"github.com/iqrah/graphkg/internal/scoring"
	"github.com/iqrah/graphkg/internal/stats"
	"github.com/iqrah/graphkg/pkg/config"
	"github.com/iqrah/graphkg/pkg/errors"
	"github.com/iqrah/graphkg/pkg/logging"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("build-graph", flag.ContinueOnError)
	bundle := fs.String("bundle", "", "path to the offline Quran bundle directory (required)")
	morphPath := fs.String("morphology", "", "path to the morphology TSV dump (required)")
	out := fs.String("out", "", "path to write the graph.cbor.zst output (required)")
	compressionLevel := fs.Int("compression-level", config.Default().CompressionLevel, "zstd compression level (1-22)")
	strict := fs.Bool("strict", false, "fail the run on any validation warning, not only errors")
	enableTajweed := fs.Bool("enable-tajweed", false, "enable the tajweed knowledge-edge family")
	enableDeepUnderstanding := fs.Bool("enable-deep-understanding", false, "enable the deep-understanding knowledge-edge family")
	configPath := fs.String("config", "", "optional YAML manifest overlaying these flags")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "json", "log format (json, console)")

	if err := fs.Parse(args); err != nil {
		return errors.ExitCode(fmt.Errorf("parsing flags: %w", err))
	}

	pipeline := config.Default()
	pipeline.BundleDir = *bundle
	pipeline.MorphologyPath = *morphPath
	pipeline.OutPath = *out
	pipeline.CompressionLevel = *compressionLevel
	pipeline.Strict = *strict
	pipeline.Edges.Tajweed = *enableTajweed
	pipeline.Edges.DeepUnderstanding = *enableDeepUnderstanding
	pipeline.LogLevel = *logLevel
	pipeline.LogFormat = *logFormat

	if *configPath != "" {
		if err := config.LoadManifest(&pipeline, *configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return errors.ExitCode(err)
		}
	}
	if err := config.Validate(pipeline); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log, err := logging.New(pipeline.LogLevel, logging.Format(pipeline.LogFormat))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer log.Sync()

	if err := buildGraph(log, pipeline); err != nil {
		log.Error("build-graph failed", zap.Error(err))
		return errors.ExitCode(err)
	}
	return 0
}

func buildGraph(log *zap.Logger, p config.Pipeline) error {
	var q quran.Quran
	var corpus *morphology.Corpus

	done := logging.Stage(log, "load")
	var err error
	func() {
		defer done(&err)
		q, err = quran.NewLoader(p.BundleDir).LoadFullQuran()
		if err != nil {
			return
		}
		corpus, err = morphology.LoadFile(p.MorphologyPath)
	}()
	if err != nil {
		return err
	}

	var g *graph.Graph
	done = logging.Stage(log, "dependency-graph")
	func() {
		defer done(&err)
		g, err = depgraph.Build(q, corpus)
	}()
	if err != nil {
		return err
	}

	kb := kgbuilder.New(g, q)
	done = logging.Stage(log, "knowledge-edges")
	func() {
		defer done(&err)
		err = kb.BuildAll(kgbuilder.Families(p.Edges))
	}()
	if err != nil {
		return err
	}
	log.Info("knowledge edges built",
		zap.Int("memorization", kb.Stats().Memorization),
		zap.Int("tajweed", kb.Stats().Tajweed),
		zap.Int("translation", kb.Stats().Translation),
		zap.Int("grammar", kb.Stats().Grammar),
		zap.Int("deep_understanding", kb.Stats().DeepUnderstanding),
	)

	done = logging.Stage(log, "compile")
	func() {
		defer done(&err)
		err = kb.Compile(p.Strict)
	}()
	if err != nil {
		return err
	}

	done = logging.Stage(log, "score")
	func() {
		defer done(&err)
		opts := scoring.DefaultOptions()
		opts.MaxIterations = p.MaxIterations
		err = scoring.Calculate(g, opts)
	}()
	if err != nil {
		return err
	}

	report := stats.Compute(g, 20)
	log.Info("graph statistics",
		zap.Int("node_count", g.NodeCount()),
		zap.Int("edge_count", g.EdgeCount()),
		zap.Bool("weakly_connected", report.WeaklyConnected),
		zap.Int("weakly_connected_components", report.WeaklyConnectedComponents),
	)
	for _, f := range report.Findings {
		if f.Severity == "error" {
			log.Error("validation finding", zap.String("message", f.Message))
		} else {
			log.Warn("validation finding", zap.String("message", f.Message))
		}
	}
	if report.HasErrors() || (p.Strict && len(report.Findings) > 0) {
		return errors.Invariant("graph failed validation: %d finding(s)", len(report.Findings))
	}

	done = logging.Stage(log, "export")
	func() {
		defer done(&err)
		err = codec.Export(g, p.OutPath, p.CompressionLevel, map[string]any{
			"source": "build-graph",
		})
	}()
	return err
}
