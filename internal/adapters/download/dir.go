// Package download writes export payloads to a local directory
package download

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
)

// DirSaver saves each export as a file under Dir
// files are written to a temp name and renamed so a failed copy never leaves a partial file
type DirSaver struct {
	Dir string

	// Overwrite replaces an existing file of the same name
	Overwrite bool

	// Written is called after a successful rename with the final path
	Written func(path string, size int64)
}

// NewDirSaver creates the directory if needed
func NewDirSaver(dir string, overwrite bool) (*DirSaver, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "create download dir %s", dir)
	}
	return &DirSaver{Dir: dir, Overwrite: overwrite}, nil
}

// Save implements domain.Saver
func (s *DirSaver) Save(ctx context.Context, filename string, size int64, body io.Reader) error {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return perr.InvalidArgf("invalid download filename %q", filename)
	}
	final := filepath.Join(s.Dir, name)
	if !s.Overwrite {
		if _, err := os.Stat(final); err == nil {
			return perr.Conflictf("%s already exists", final)
		}
	}

	tmp, err := os.CreateTemp(s.Dir, "."+name+".part-*")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "create temp file in %s", s.Dir)
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	n, err := io.Copy(tmp, readerWithContext(ctx, body))
	if err != nil {
		cleanup()
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "write %s", name)
	}
	if size >= 0 && n != size {
		cleanup()
		return perr.Newf(perr.ErrorCodeUnknown, "short write for %s: %d of %d bytes", name, n, size)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "close %s", name)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		_ = os.Remove(tmp.Name())
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "rename %s", name)
	}

	logger.C(ctx).Debug().Str("path", final).Int64("bytes", n).Msg("download saved")
	if s.Written != nil {
		s.Written(final, n)
	}
	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader { return ctxReader{ctx: ctx, r: r} }
