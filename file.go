package maw

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// SendFile reads the named file into the response body, inferring the
// content type from the extension. The whole file is buffered, matching the
// builder model; this targets assets and templates, not multi-gigabyte
// downloads.
func (c *Context) SendFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("read file %s: %w", path, err)
	}

	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(b)
	}

	c.res.Set("Content-Type", ct)
	c.res.Send(b)
	return nil
}
