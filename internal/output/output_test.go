package output_test

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/attrition-cli/internal/output"
)

func TestDirSinkWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s, err := output.NewDirSink(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put("report.txt", []byte("hello")))

	b, err := os.ReadFile(filepath.Join(dir, "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	assert.Error(t, s.Put("../escape.txt", []byte("x")))
	assert.Error(t, s.Put("", []byte("x")))
}

func TestMemorySinkCopies(t *testing.T) {
	s := output.NewMemorySink()
	data := []byte("abc")
	require.NoError(t, s.Put("b.png", data))
	require.NoError(t, s.Put("a.txt", []byte("x")))
	data[0] = 'z'
	got, ok := s.Get("b.png")
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))
	assert.Equal(t, []string{"a.txt", "b.png"}, s.Names())
}

func TestManifest(t *testing.T) {
	m := output.NewManifest("hr.csv")
	assert.Len(t, m.RunID, 36)
	m.Record("report.txt", output.KindReport, 120, nil)
	m.Record("pie.png", output.KindChart, 0, &output.RenderError{Artifact: "pie.png", Err: fs.ErrPermission})
	m.Skip("bar.png", output.KindChart)
	m.Finish()

	assert.False(t, m.Complete)
	failed := m.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, output.StatusFailed, failed[0].Status)
	assert.Equal(t, output.StatusSkipped, failed[1].Status)

	s := output.NewMemorySink()
	require.NoError(t, m.Save(s))
	raw, ok := s.Get(output.ManifestName)
	require.True(t, ok)
	var back output.Manifest
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, m.RunID, back.RunID)
	assert.Len(t, back.Artifacts, 3)
	assert.Equal(t, 120, back.Artifacts[0].Bytes)
}

func TestRenderErrorUnwraps(t *testing.T) {
	err := error(&output.RenderError{Artifact: "x.png", Err: fs.ErrPermission})
	assert.True(t, errors.Is(err, fs.ErrPermission))
	var re *output.RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "x.png", re.Artifact)
}

func TestWriteFileReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "report.txt")

	require.NoError(t, output.WriteFile(p, []byte("first")))
	require.NoError(t, output.WriteFile(p, []byte("second")))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be renamed or removed")
}

func TestWriteFileMissingDir(t *testing.T) {
	err := output.WriteFile(filepath.Join(t.TempDir(), "absent", "x.txt"), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.txt")
}
