package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/shopmonkeyus/go-common/logger"
	"github.com/shopmonkeyus/product-type-generator/internal/util"
)

type fileSink struct {
	logger logger.Logger
	dir    string
	opts   Options
}

var _ Sink = (*fileSink)(nil)

// dirFromURL returns the directory for file://dir, file:///abs/dir and bare paths rewritten to file://.
func dirFromURL(u *url.URL) (string, error) {
	dir := u.Host + u.Path
	if u.Opaque != "" {
		dir = u.Opaque
	}
	if dir == "" {
		return "", fmt.Errorf("path is required in url which should be the directory to store files")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("unable to get absolute path for %s: %w", dir, err)
	}
	return abs, nil
}

func newFileSink(ctx context.Context, logger logger.Logger, u *url.URL, opts Options) (Sink, error) {
	dir, err := dirFromURL(u)
	if err != nil {
		return nil, err
	}
	if !opts.DryRun {
		if !util.Exists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("unable to create directory: %w", err)
			}
		}
		if err := util.CheckDirWritable(dir); err != nil {
			return nil, err
		}
	}
	return &fileSink{
		logger: logger.WithPrefix("[file]"),
		dir:    dir,
		opts:   opts,
	}, nil
}

func (s *fileSink) Write(ctx context.Context, name string, buf []byte) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	fp := filepath.Join(s.dir, name)
	if s.opts.SkipUnchanged {
		if existing, err := os.ReadFile(fp); err == nil && bytes.Equal(existing, buf) {
			s.logger.Trace("unchanged %s", fp)
			return false, nil
		}
	}
	if s.opts.DryRun {
		s.logger.Trace("would have stored %s", fp)
		return true, nil
	}
	if err := os.WriteFile(fp, buf, 0644); err != nil {
		return false, fmt.Errorf("unable to write file %s: %w", fp, err)
	}
	s.logger.Trace("stored %s", fp)
	return true, nil
}

func (s *fileSink) Close() error {
	return nil
}

func (s *fileSink) String() string {
	return s.dir
}

func init() {
	Register("file", newFileSink)
}
