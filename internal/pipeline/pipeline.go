// Package pipeline runs a full analysis: normalize, build the report and the
// charts in memory, then commit every artifact through a sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
	"github.com/KaramelBytes/attrition-cli/internal/charts"
	"github.com/KaramelBytes/attrition-cli/internal/dataset"
	"github.com/KaramelBytes/attrition-cli/internal/logging"
	"github.com/KaramelBytes/attrition-cli/internal/narrative"
	"github.com/KaramelBytes/attrition-cli/internal/normalize"
	"github.com/KaramelBytes/attrition-cli/internal/output"
)

// DefaultReportName is the report file name used when none is configured.
const DefaultReportName = "HR_Attrition_Report_Text.txt"

// Options controls a run.
type Options struct {
	ReportName string
	NoCharts   bool
	DPI        float64
	// FailFast stops committing at the first artifact failure. Artifacts
	// after it are recorded as skipped.
	FailFast  bool
	Normalize normalize.Options
}

// Runner executes runs against one sink.
type Runner struct {
	Catalog *analysis.Catalog
	Sink    output.Sink
	Logger  *slog.Logger
	Options Options
}

// New returns a runner over the default catalog.
func New(sink output.Sink, opt Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	if opt.ReportName == "" {
		opt.ReportName = DefaultReportName
	}
	return &Runner{Catalog: analysis.DefaultCatalog(), Sink: sink, Logger: logger, Options: opt}
}

// Result is what a run produced.
type Result struct {
	Normalized *normalize.Result
	Report     *narrative.Document
	Manifest   *output.Manifest
}

type artifact struct {
	name string
	kind string
	data []byte
	err  error
}

// Run analyzes raw. Normalization, aggregate and category errors abort the
// run before anything is written. Artifacts that fail to draw or write are
// recorded in the manifest and returned joined; the others are still written.
func (r *Runner) Run(ctx context.Context, raw *dataset.Raw) (*Result, error) {
	m := output.NewManifest(raw.Name)
	ctx = logging.WithRunID(ctx, m.RunID)
	log := r.Logger

	norm, err := normalize.Normalize(raw, r.Options.Normalize)
	if err != nil {
		log.ErrorContext(ctx, "normalization failed", "error", err)
		return nil, fmt.Errorf("normalize %s: %w", raw.Name, err)
	}
	t := norm.Table
	m.Rows, m.Columns, m.Duplicates = t.Rows(), len(t.Columns()), norm.Duplicates
	log.InfoContext(ctx, "normalized", "rows", m.Rows, "columns", m.Columns,
		"duplicates", norm.Duplicates, "dropped", norm.Dropped, "ignored", norm.Ignored)

	var pending []artifact
	var chartNames []string
	if !r.Options.NoCharts {
		for _, spec := range charts.Specs() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			png, err := spec.Render(r.Catalog, t, r.Options.DPI)
			var re *output.RenderError
			switch {
			case errors.As(err, &re):
				log.WarnContext(ctx, "chart not drawn", "artifact", spec.Name, "error", err)
			case err != nil:
				return nil, err
			default:
				log.DebugContext(ctx, "chart drawn", "artifact", spec.Name, "bytes", len(png))
				chartNames = append(chartNames, spec.Name)
			}
			pending = append(pending, artifact{name: spec.Name, kind: output.KindChart, data: png, err: err})
		}
	}

	doc, err := narrative.New(r.Catalog).Render(t, narrative.Meta{
		Source:     raw.Name,
		Duplicates: norm.Duplicates,
		Dropped:    norm.Dropped,
		Charts:     chartNames,
		NoCharts:   r.Options.NoCharts,
	})
	if err != nil {
		log.ErrorContext(ctx, "report not built", "error", err)
		return nil, err
	}
	report := artifact{name: r.Options.ReportName, kind: output.KindReport, data: doc.Bytes()}
	pending = append([]artifact{report}, pending...)

	res := &Result{Normalized: norm, Report: doc, Manifest: m}
	var failures []error
	stopped := false
	for _, a := range pending {
		if stopped {
			m.Skip(a.name, a.kind)
			continue
		}
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			stopped = true
			m.Skip(a.name, a.kind)
			continue
		}
		err := a.err
		if err == nil {
			if werr := r.Sink.Put(a.name, a.data); werr != nil {
				err = &output.RenderError{Artifact: a.name, Err: werr}
			}
		}
		m.Record(a.name, a.kind, len(a.data), err)
		if err != nil {
			log.ErrorContext(ctx, "artifact failed", "artifact", a.name, "error", err)
			failures = append(failures, err)
			if r.Options.FailFast {
				stopped = true
			}
			continue
		}
		log.InfoContext(ctx, "artifact written", "artifact", a.name, "bytes", len(a.data))
	}

	m.Finish()
	if err := m.Save(r.Sink); err != nil {
		log.ErrorContext(ctx, "manifest not written", "error", err)
		failures = append(failures, err)
	}
	return res, errors.Join(failures...)
}
