package middleware

import (
	"golang.org/x/text/language"

	"github.com/dmitrymomot/maw"
)

// languageLocal keys the negotiated language tag in the context locals.
const languageLocal = "middleware.language"

// LanguageConfig configures the language negotiation middleware.
type LanguageConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(c *maw.Context) bool

	// Supported lists the languages the application serves, most preferred
	// first. The first entry is the fallback. Required.
	Supported []language.Tag

	// QueryParam optionally overrides the Accept-Language header with an
	// explicit query parameter, e.g. "lang" (default: disabled)
	QueryParam string
}

// Language creates a middleware negotiating the response language from the
// Accept-Language header against the supported set; the match lands in the
// locals and in Content-Language.
func Language(supported ...language.Tag) maw.Handler {
	return LanguageWithConfig(LanguageConfig{Supported: supported})
}

// LanguageWithConfig creates a language negotiation middleware with custom
// configuration.
func LanguageWithConfig(cfg LanguageConfig) maw.Handler {
	if len(cfg.Supported) == 0 {
		cfg.Supported = []language.Tag{language.English}
	}
	matcher := language.NewMatcher(cfg.Supported)

	return maw.HandlerFunc(func(c *maw.Context) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		accept := c.Header("Accept-Language")
		if cfg.QueryParam != "" {
			if v := c.QueryValue(cfg.QueryParam); v != "" {
				accept = v
			}
		}

		tags, _, err := language.ParseAcceptLanguage(accept)
		if err != nil || len(tags) == 0 {
			tags = []language.Tag{cfg.Supported[0]}
		}
		_, index, _ := matcher.Match(tags...)
		tag := cfg.Supported[index]

		c.SetLocal(languageLocal, tag)
		c.Response().Set("Content-Language", tag.String())

		return c.Next()
	})
}

// GetLanguage retrieves the language tag negotiated by the middleware.
func GetLanguage(c *maw.Context) (language.Tag, bool) {
	return maw.LocalAs[language.Tag](c, languageLocal)
}
