package httpkit

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
	phttp "github.com/Frey210/ergoquipt-admin-web/internal/platform/net/http"
)

// AttachmentSaver streams a single file into the response as a download
// it satisfies the reporting Saver contract so exports can write straight to the client
type AttachmentSaver struct {
	w       http.ResponseWriter
	started bool
}

// NewAttachmentSaver wraps w
func NewAttachmentSaver(w http.ResponseWriter) *AttachmentSaver { return &AttachmentSaver{w: w} }

// Save writes the attachment headers and copies body
func (s *AttachmentSaver) Save(_ context.Context, filename string, size int64, body io.Reader) error {
	s.started = true
	return phttp.RespondAttachment(s.w, filename, ContentTypeFor(filename), size, body)
}

// Started reports whether headers were already sent
func (s *AttachmentSaver) Started() bool { return s.started }

// Download adapts a handler that writes through an AttachmentSaver
// errors before the first byte become an error envelope; later ones can only be logged
func Download(fn func(*http.Request, *AttachmentSaver) error) Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		s := NewAttachmentSaver(w)
		err := fn(r, s)
		if err == nil {
			return
		}
		if !s.Started() {
			phttp.RespondError(w, r, err)
			return
		}
		logger.C(r.Context()).Warn().Err(err).Msg("attachment stream aborted")
	}
}

// ContentTypeFor picks a content type from the file extension
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".json":
		return "application/json"
	case ".zip":
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}
