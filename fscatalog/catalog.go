// Package fscatalog reads skill descriptors from a directory tree of the
// form <dir>/<skill-name>/SKILL.md. The catalog is deliberately not
// cached: every ListSkills call re-reads the directory so skill files
// edited out of band take effect on the next turn without a restart.
package fscatalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flexigpt/agentgate-go/spec"
)

type Catalog struct {
	dir    string
	logger *slog.Logger
}

type Option func(*Catalog) error

func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) error {
		c.logger = l
		return nil
	}
}

func New(dir string, opts ...Option) (*Catalog, error) {
	d := strings.TrimSpace(dir)
	if d == "" {
		return nil, fmt.Errorf("%w: empty skills dir", spec.ErrInvalidArgument)
	}
	abs, err := filepath.Abs(filepath.Clean(d))
	if err != nil {
		return nil, errors.Join(spec.ErrInvalidSkillDir, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Join(spec.ErrInvalidSkillDir, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %q", spec.ErrInvalidSkillDir, dir)
	}

	c := &Catalog{dir: abs, logger: slog.Default()}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return nil, err
		}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

func (c *Catalog) Dir() string { return c.dir }

// ListSkills scans the backing directory. A malformed entry is logged and
// skipped, never fatal to the whole scan.
func (c *Catalog) ListSkills(ctx context.Context) ([]spec.SkillDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, errors.Join(spec.ErrInvalidSkillDir, err)
	}

	out := make([]spec.SkillDescriptor, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.IsDir() {
			continue
		}
		root := filepath.Join(c.dir, e.Name())
		sk, err := parseSkillDir(root)
		if err != nil {
			c.logger.Warn("skipping skill entry", "dir", root, "error", err)
			continue
		}
		out = append(out, sk)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
