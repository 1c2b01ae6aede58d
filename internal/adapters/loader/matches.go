package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/pkg/logger"
	"github.com/okian/standings/pkg/metrics"
)

// Loader reads matches and rules. The zero value is not usable; call New.
type Loader struct {
	log logger.Logger
	ext string
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{log: logger.Nop(), ext: ".json"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Matches decodes every match file of dir in lexical file-name order.
// Each match's ID is its file name. A file that cannot be read or decoded
// aborts the load with an error naming it.
func (l *Loader) Matches(ctx context.Context, dir string) ([]model.Match, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		metrics.RecordLoadError("matches")
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, dir, err)
	}

	matches := make([]model.Match, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), l.ext) {
			continue
		}
		m, err := l.MatchFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	l.log.Debug(ctx, "matches loaded", logger.String("dir", dir), logger.Int("count", len(matches)))
	return matches, nil
}

// MatchFile decodes a single match file.
func (l *Loader) MatchFile(path string) (model.Match, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		metrics.RecordLoadError("matches")
		return model.Match{}, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	m, err := DecodeMatch(b)
	if err != nil {
		metrics.RecordLoadError("matches")
		return model.Match{}, fmt.Errorf("%s: %w", path, err)
	}
	m.ID = filepath.Base(path)
	metrics.RecordMatchFileLoaded()
	return m, nil
}

// DecodeMatch decodes one match record. Both teams must be named.
func DecodeMatch(b []byte) (model.Match, error) {
	var m model.Match
	if err := json.Unmarshal(b, &m); err != nil {
		return model.Match{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if m.Teams.Home == "" || m.Teams.Away == "" {
		return model.Match{}, fmt.Errorf("%w: teams.home and teams.away are required", ErrDecode)
	}
	return m, nil
}
