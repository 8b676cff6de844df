package middleware

import (
	"errors"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrymomot/maw"
)

// StaticConfig configures the static file handler.
type StaticConfig struct {
	// Prefix is the URL prefix stripped before resolving files, e.g.
	// "/static". Empty serves from the path root.
	Prefix string

	// Root is the filesystem directory files are served from. Required.
	Root string

	// Index is the file served for directory paths (default: "index.html")
	Index string

	// MaxAge sets a Cache-Control max-age in seconds (default: 0, no header)
	MaxAge int
}

// Static creates a terminal handler serving files from root under the given
// URL prefix. Register it on a wildcard route:
//
//	r.Get("/static/*", middleware.Static("/static", "./public"))
//
// Requests outside the prefix or for missing files answer 404 without
// touching the rest of the chain.
func Static(prefix, root string) maw.Handler {
	return StaticWithConfig(StaticConfig{Prefix: prefix, Root: root})
}

// StaticWithConfig creates a static file handler with custom configuration.
func StaticWithConfig(cfg StaticConfig) maw.Handler {
	if cfg.Index == "" {
		cfg.Index = "index.html"
	}
	prefix := strings.Trim(cfg.Prefix, "/")

	return maw.HandlerFunc(func(c *maw.Context) error {
		reqPath := strings.TrimPrefix(c.Path(), "/")

		if prefix != "" {
			rest, ok := strings.CutPrefix(reqPath, prefix)
			if !ok {
				c.Response().SendStatus(http.StatusNotFound)
				return nil
			}
			reqPath = strings.TrimPrefix(rest, "/")
		}

		// Collapse any ../ escapes before touching the filesystem.
		clean := path.Clean("/" + reqPath)
		if clean == "/" || strings.HasSuffix(reqPath, "/") {
			clean = path.Join(clean, cfg.Index)
		}

		full := filepath.Join(cfg.Root, filepath.FromSlash(clean))

		err := c.SendFile(full)
		if errors.Is(err, maw.ErrNotFound) {
			// Fall back to a directory index before giving up.
			if ierr := c.SendFile(filepath.Join(full, cfg.Index)); ierr != nil {
				c.Response().SendStatus(http.StatusNotFound)
				return nil
			}
		} else if err != nil {
			return err
		}

		if cfg.MaxAge > 0 {
			c.Response().Set("Cache-Control", "public, max-age="+strconv.Itoa(cfg.MaxAge))
		}
		return nil
	})
}
