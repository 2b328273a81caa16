package ops

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmhart/cardforge/internal/errors"
	"github.com/jmhart/cardforge/internal/store"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	ID   string
	Path string // optional; defaults to <id>.md in the working directory
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path  string `json:"path"`
	Cards int    `json:"cards"`
}

// Export writes a deck as a markdown study sheet: H1 title, description
// paragraph, then one H2 front + paragraph back per card. The format
// round-trips through Import.
func Export(st *store.Store, input ExportInput) (*ExportOutput, error) {
	d, err := st.Get(input.ID)
	if err != nil {
		return nil, err
	}

	path := input.Path
	if path == "" {
		path = d.ID + ".md"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", d.Title)
	if d.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Description)
	}
	for _, c := range d.Cards {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", c.Front, c.Back)
	}

	if err := writeFileAtomic(path, []byte(b.String())); err != nil {
		return nil, err
	}

	return &ExportOutput{Path: path, Cards: len(d.Cards)}, nil
}

// writeFileAtomic writes via a temp file in the destination directory and
// renames it into place, removing the temp file on failure.
func writeFileAtomic(path string, data []byte) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewPersistence(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"-"+hex.EncodeToString(randBytes)+".tmp")

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return errors.NewPersistence(err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.NewPersistence(fmt.Errorf("failed to finalize export: %w", err))
	}
	return nil
}
