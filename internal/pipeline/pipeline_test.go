package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
	"github.com/KaramelBytes/attrition-cli/internal/charts"
	"github.com/KaramelBytes/attrition-cli/internal/dataset"
	"github.com/KaramelBytes/attrition-cli/internal/output"
	"github.com/KaramelBytes/attrition-cli/internal/pipeline"
	"github.com/KaramelBytes/attrition-cli/internal/schema"
	"github.com/KaramelBytes/attrition-cli/internal/testutil"
)

// failingSink refuses writes of one artifact and stores the rest.
type failingSink struct {
	*output.MemorySink
	fail string
}

func (s failingSink) Put(name string, data []byte) error {
	if name == s.fail {
		return fs.ErrPermission
	}
	return s.MemorySink.Put(name, data)
}

func raw(t *testing.T, records [][]string) *dataset.Raw {
	t.Helper()
	r, err := dataset.FromRecords("hr.csv", records)
	require.NoError(t, err)
	return r
}

func manifest(t *testing.T, s *output.MemorySink) output.Manifest {
	t.Helper()
	b, ok := s.Get(output.ManifestName)
	require.True(t, ok)
	var m output.Manifest
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestRunWritesEveryArtifact(t *testing.T) {
	sink := output.NewMemorySink()
	r := pipeline.New(sink, pipeline.Options{DPI: 30}, nil)

	res, err := r.Run(context.Background(), raw(t, testutil.Records(100)))
	require.NoError(t, err)
	assert.True(t, res.Manifest.Complete)

	names := sink.Names()
	assert.Len(t, names, 2+len(charts.Names()))
	assert.Contains(t, names, pipeline.DefaultReportName)
	assert.Contains(t, names, output.ManifestName)

	report, ok := sink.Get(pipeline.DefaultReportName)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(string(report), "--- 1. Data Cleaning & Preparation ---"))
	assert.Contains(t, string(report), "- correlation_matrix_heatmap.png")

	m := manifest(t, sink)
	assert.Equal(t, 100, m.Rows)
	assert.Equal(t, 32, m.Columns)
	assert.Equal(t, output.KindReport, m.Artifacts[0].Kind)
	assert.Len(t, m.Artifacts, 1+len(charts.Names()))
}

func TestRunAbortsOnUnmappedOrdinal(t *testing.T) {
	records := testutil.Records(50)
	testutil.Set(records, "Education", 2, "6")
	sink := output.NewMemorySink()

	_, err := pipeline.New(sink, pipeline.Options{NoCharts: true}, nil).Run(context.Background(), raw(t, records))
	var ue *schema.UnmappedOrdinalValueError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 3, ue.Row)
	assert.Empty(t, sink.Names(), "nothing may be written")
}

func TestRunAbortsOnMissingCategory(t *testing.T) {
	records := testutil.Records(50)
	testutil.SetAll(records, "StockOptionLevel", func(int) string { return "2" })
	sink := output.NewMemorySink()

	_, err := pipeline.New(sink, pipeline.Options{DPI: 30}, nil).Run(context.Background(), raw(t, records))
	var nf *analysis.CategoryNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Empty(t, sink.Names())
}

func TestSinkFailureMarksOnlyThatArtifact(t *testing.T) {
	mem := output.NewMemorySink()
	bad := "attrition_by_gender_bar_chart.png"
	r := pipeline.New(failingSink{MemorySink: mem, fail: bad}, pipeline.Options{DPI: 30}, nil)

	res, err := r.Run(context.Background(), raw(t, testutil.Records(80)))
	require.Error(t, err)
	var re *output.RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, bad, re.Artifact)
	assert.True(t, errors.Is(err, fs.ErrPermission))

	failed := res.Manifest.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, bad, failed[0].Name)
	assert.Equal(t, output.StatusFailed, failed[0].Status)

	_, ok := mem.Get(bad)
	assert.False(t, ok)
	_, ok = mem.Get("attrition_by_overtime_bar_chart.png")
	assert.True(t, ok)
	assert.False(t, manifest(t, mem).Complete)
}

func TestFailFastSkipsTheRest(t *testing.T) {
	mem := output.NewMemorySink()
	r := pipeline.New(failingSink{MemorySink: mem, fail: pipeline.DefaultReportName},
		pipeline.Options{DPI: 30, FailFast: true}, nil)

	res, err := r.Run(context.Background(), raw(t, testutil.Records(60)))
	require.Error(t, err)
	failed := res.Manifest.Failed()
	require.Len(t, failed, 1+len(charts.Names()))
	assert.Equal(t, output.StatusFailed, failed[0].Status)
	for _, a := range failed[1:] {
		assert.Equal(t, output.StatusSkipped, a.Status, a.Name)
	}
	assert.Equal(t, []string{output.ManifestName}, mem.Names())
}

func TestNoCharts(t *testing.T) {
	sink := output.NewMemorySink()
	r := pipeline.New(sink, pipeline.Options{NoCharts: true, ReportName: "report.txt"}, nil)
	_, err := r.Run(context.Background(), raw(t, testutil.Records(40)))
	require.NoError(t, err)
	assert.Equal(t, []string{"report.txt", output.ManifestName}, sink.Names())

	report, _ := sink.Get("report.txt")
	assert.Contains(t, string(report), "Chart rendering was disabled for this run.")
}

func TestCancelledRunSkipsArtifacts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := output.NewMemorySink()
	res, err := pipeline.New(sink, pipeline.Options{NoCharts: true}, nil).Run(ctx, raw(t, testutil.Records(40)))
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, res.Manifest.Artifacts, 1)
	assert.Equal(t, output.StatusSkipped, res.Manifest.Artifacts[0].Status)
	assert.Equal(t, []string{output.ManifestName}, sink.Names())
}
