// Command build-content ingests the offline Quran bundle and morphology
// dump into a SQLite content database (spec.md §6.5, SPEC_FULL.md §4.12).
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/iqrah/graphkg/internal/content"
	"github.com/iqrah/graphkg/internal/morphology"
	"github.com/iqrah/graphkg/internal/quran"
	"github.com/iqrah/graphkg/pkg/config"
	"github.com/iqrah/graphkg/pkg/errors"
	"github.com/iqrah/graphkg/pkg/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("build-content", flag.ContinueOnError)
	bundle := fs.String("bundle", "", "path to the offline Quran bundle directory (required)")
	morphPath := fs.String("morphology", "", "path to the morphology TSV dump (required)")
	out := fs.String("out", "", "path to write the content.db output (required)")
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

	if err := buildContent(log, pipeline); err != nil {
		log.Error("build-content failed", zap.Error(err))
		return errors.ExitCode(err)
	}
	return 0
}

func buildContent(log *zap.Logger, p config.Pipeline) error {
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

	var store *content.Store
	done = logging.Stage(log, "create-schema")
	func() {
		defer done(&err)
		store, err = content.Create(p.OutPath)
	}()
	if err != nil {
		return err
	}
	defer store.Close()

	done = logging.Stage(log, "ingest")
	func() {
		defer done(&err)
		err = content.Build(store, q, corpus)
	}()
	if err != nil {
		return err
	}

	done = logging.Stage(log, "finalize")
	func() {
		defer done(&err)
		err = store.Finalize()
	}()
	return err
}
