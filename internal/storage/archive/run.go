// internal/storage/archive/run.go
package archive

import (
	"context"
	"path"
	"time"

	"ballast/internal/core"
)

// RunArtifacts are the files one backtest run leaves behind. Empty
// entries are skipped.
type RunArtifacts struct {
	Summary    []byte // summary.json
	Ledger     []byte // ledger.csv
	Fills      []byte // fills.csv
	Chart      []byte // equity.png
	Commentary []byte // commentary.md
}

// SaveRun writes a run's artifacts under runs/<label>/<stamp>/ and
// returns the prefix it wrote to.
func SaveRun(ctx context.Context, store Storage, label string, stamp time.Time, art RunArtifacts) (string, error) {
	if label == "" {
		label = "run"
	}
	prefix := path.Join("runs", label, stamp.UTC().Format("20060102T150405Z"))

	files := []struct {
		name string
		data []byte
	}{
		{"summary.json", art.Summary},
		{"ledger.csv", art.Ledger},
		{"fills.csv", art.Fills},
		{"equity.png", art.Chart},
		{"commentary.md", art.Commentary},
	}
	for _, f := range files {
		if len(f.data) == 0 {
			continue
		}
		if err := store.Write(ctx, path.Join(prefix, f.name), f.data); err != nil {
			return "", core.WrapError(core.ErrArchiveFailed, err)
		}
	}
	return prefix, nil
}
