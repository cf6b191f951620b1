package service

import (
	"io"
	"os"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
)

// blob is a spooled export payload owned by exactly one export call
type blob struct {
	f    *os.File
	size int64
}

// spool copies r into a new temp file under dir ("" means os.TempDir)
func spool(dir string, r io.Reader) (*blob, error) {
	f, err := os.CreateTemp(dir, "ergoquipt-export-*")
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "create export spool")
	}
	b := &blob{f: f}
	n, err := io.Copy(f, r)
	if err != nil {
		_ = b.release()
		return nil, perr.Wrapf(err, perr.ErrorCodeNetwork, "read export payload")
	}
	b.size = n
	return b, nil
}

// reader returns a fresh reader over the whole payload
func (b *blob) reader() io.Reader { return io.NewSectionReader(b.f, 0, b.size) }

// path is the spool file location
func (b *blob) path() string { return b.f.Name() }

// release closes and removes the spool file
func (b *blob) release() error {
	cerr := b.f.Close()
	rerr := os.Remove(b.f.Name())
	if rerr != nil && !os.IsNotExist(rerr) {
		return rerr
	}
	return cerr
}
