package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ManifestName is the file name of the run manifest.
const ManifestName = "run_manifest.json"

// Status is the outcome of one artifact.
type Status string

const (
	StatusWritten Status = "written"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Artifact kinds.
const (
	KindReport = "report"
	KindChart  = "chart"
)

// ArtifactRecord describes one artifact of a run.
type ArtifactRecord struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Status Status `json:"status"`
	Bytes  int    `json:"bytes"`
	Error  string `json:"error,omitempty"`
}

// Manifest records what a run produced so partial output is recognizable.
type Manifest struct {
	RunID      string           `json:"run_id"`
	Source     string           `json:"source"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Rows       int              `json:"rows"`
	Columns    int              `json:"columns"`
	Duplicates int              `json:"duplicates"`
	Artifacts  []ArtifactRecord `json:"artifacts"`
	Complete   bool             `json:"complete"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(source string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Source:    source,
		StartedAt: time.Now(),
	}
}

// Record adds the outcome of one artifact. A nil err marks it written.
func (m *Manifest) Record(name, kind string, size int, err error) {
	rec := ArtifactRecord{Name: name, Kind: kind, Status: StatusWritten, Bytes: size}
	if err != nil {
		rec.Status = StatusFailed
		rec.Bytes = 0
		rec.Error = err.Error()
	}
	m.Artifacts = append(m.Artifacts, rec)
}

// Skip records an artifact that was never attempted.
func (m *Manifest) Skip(name, kind string) {
	m.Artifacts = append(m.Artifacts, ArtifactRecord{Name: name, Kind: kind, Status: StatusSkipped})
}

// Failed returns the records that did not end up written.
func (m *Manifest) Failed() []ArtifactRecord {
	var out []ArtifactRecord
	for _, a := range m.Artifacts {
		if a.Status != StatusWritten {
			out = append(out, a)
		}
	}
	return out
}

// Finish stamps the end time and the completeness flag.
func (m *Manifest) Finish() {
	m.FinishedAt = time.Now()
	m.Complete = len(m.Failed()) == 0
}

// Save writes the manifest through s.
func (m *Manifest) Save(s Sink) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := s.Put(ManifestName, b); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
