package pcmwav

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	// ContentType is the media type of the produced containers.
	ContentType = "audio/wav"

	defaultDownloadName = "recap"
)

// ServeHTTP serves registered containers by handle id, the last path element
// of the request. GET and HEAD stream the bytes (range requests included); a
// download query parameter turns the response into an attachment named after
// it. DELETE releases the handle and always answers 204.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h := HandleFromID(path.Base(req.URL.Path))

	switch req.Method {
	case http.MethodGet, http.MethodHead:
		e, ok := r.lookup(h)
		if !ok {
			http.NotFound(w, req)
			return
		}

		w.Header().Set("Content-Type", ContentType)

		if name, ok := req.URL.Query()["download"]; ok {
			w.Header().Set("Content-Disposition", ContentDisposition(name[0]))
		}

		http.ServeContent(w, req, "", e.created, bytes.NewReader(e.data))
	case http.MethodDelete:
		r.Release(h)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, HEAD, DELETE")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// ContentDisposition returns the attachment header for a recap title. Names
// outside US-ASCII are sent in the RFC 2231 filename* form.
func ContentDisposition(title string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": DownloadName(title) + ".wav"})
}

// DownloadName turns a recap title into a file stem that is safe on common
// file systems and in a Content-Disposition header.
func DownloadName(title string) string {
	var b strings.Builder

	lastSep := true

	for _, c := range strings.TrimSpace(title) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			b.WriteRune(c)

			lastSep = false

			continue
		}

		if !lastSep {
			b.WriteByte('_')
		}

		lastSep = true
	}

	name := strings.Trim(b.String(), "_")
	if name == "" {
		return defaultDownloadName
	}

	return name
}

// Export writes the container registered under h to dir as
// DownloadName(title)+".wav" and returns the file path.
func (r *Registry) Export(h Handle, dir, title string) (string, error) {
	data, ok := r.Open(h)
	if !ok {
		return "", fmt.Errorf("unknown handle %s", h)
	}

	out := filepath.Join(dir, DownloadName(title)+".wav")
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", out, err)
	}

	return out, nil
}
