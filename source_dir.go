package agentfolio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/rs/zerolog"
)

// DirSource reads documents from a directory tree, usually the agents' data folder.
type DirSource struct {
	*store
	fsys fs.FS
}

// NewDirSource returns a Source reading from fsys, see Source for the expected layout.
func NewDirSource(fsys fs.FS, log zerolog.Logger) *DirSource {
	d := &DirSource{fsys: fsys}
	d.store = newStore(d, log)
	return d
}

func (d *DirSource) open(_ context.Context, _ Market, name string) (io.ReadCloser, error) {
	f, err := d.fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}
	return f, err
}

// Agents implements Source: every folder with a position log is an agent.
func (d *DirSource) Agents(_ context.Context, market Market) ([]string, error) {
	entries, err := fs.ReadDir(d.fsys, agentDir(market))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot list %s agents: %w", market, err)
	}
	var agents []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := fs.Stat(d.fsys, positionPath(market, e.Name())); err != nil {
			continue
		}
		agents = append(agents, e.Name())
	}
	return agents, nil
}
