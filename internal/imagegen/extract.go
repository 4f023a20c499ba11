package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNoContent means the upstream completion carried no textual content at
// all.
var ErrNoContent = errors.New("no content in response")

// UnrecognizedContentError means no extraction rule matched. Excerpt holds at
// most the first 100 characters of the offending text so error messages stay
// bounded.
type UnrecognizedContentError struct {
	Excerpt string
}

func (e *UnrecognizedContentError) Error() string {
	return fmt.Sprintf("no image in model output: %q", e.Excerpt)
}

const excerptLen = 100

var (
	dataURIPattern  = regexp.MustCompile(`data:image/([a-zA-Z]+);base64,([A-Za-z0-9+/=\s]+)`)
	imageURLPattern = regexp.MustCompile(`(?i)https?://[^\s)"']+\.(png|jpg|jpeg|webp)`)
	bareBlobPattern = regexp.MustCompile(`^[A-Za-z0-9+/=\s]{100,}$`)
)

// extractionRule is one content-shape heuristic: it either recovers a Result
// from the completion text or reports a non-match.
type extractionRule struct {
	name string
	fn   func(ctx context.Context, content string) (Result, bool)
}

// ExtractorOptions configures an Extractor.
type ExtractorOptions struct {
	// HTTPClient performs the secondary fetch of the embedded-URL rule.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Extractor recovers an output image from the free-form completion text of an
// image-capable chat model. The upstream contract is unspecified, so the
// extractor works through an ordered list of heuristics, strongest evidence
// first, stopping at the first match.
type Extractor struct {
	httpClient *http.Client
	logger     zerolog.Logger
	rules      []extractionRule
}

// NewExtractor constructs an Extractor with the fixed rule order: inline data
// URI, then embedded image URL, then bare base64 blob.
func NewExtractor(opts ExtractorOptions) *Extractor {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	e := &Extractor{httpClient: client, logger: opts.Logger}
	e.rules = []extractionRule{
		{name: "data-uri", fn: e.matchDataURI},
		{name: "image-url", fn: e.matchImageURL},
		{name: "bare-base64", fn: e.matchBareBlob},
	}
	return e
}

// Extract applies the rules in order and returns the first match. Empty
// content yields ErrNoContent; content no rule recognizes yields
// *UnrecognizedContentError with a truncated excerpt.
func (e *Extractor) Extract(ctx context.Context, content string) (Result, error) {
	if content == "" {
		return Result{}, ErrNoContent
	}
	for _, rule := range e.rules {
		if res, ok := rule.fn(ctx, content); ok {
			return res, nil
		}
	}
	excerpt := content
	if len(excerpt) > excerptLen {
		excerpt = excerpt[:excerptLen]
	}
	return Result{}, &UnrecognizedContentError{Excerpt: excerpt}
}

// matchDataURI finds an inline data:image/<subtype>;base64 block. Checked
// first because it is the most explicit signal the upstream can give.
func (e *Extractor) matchDataURI(_ context.Context, content string) (Result, bool) {
	m := dataURIPattern.FindStringSubmatch(content)
	if m == nil {
		return Result{}, false
	}
	return Result{
		ImageBase64: stripWhitespace(m[2]),
		MIMEType:    "image/" + strings.ToLower(m[1]),
	}, true
}

// matchImageURL finds an http(s) URL with an image extension and fetches it.
// A failed fetch is deliberately a non-match, not an error: the URL is weaker
// evidence than a data URI, and extraction should still fall through to the
// bare-blob heuristic. The failure is logged on its own so operators can tell
// it apart from "nothing matched".
func (e *Extractor) matchImageURL(ctx context.Context, content string) (Result, bool) {
	m := imageURLPattern.FindStringSubmatch(content)
	if m == nil {
		return Result{}, false
	}
	url := m[0]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, false
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Warn().Err(err).Str("url", url).Msg("image url matched but fetch failed")
		return Result{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("image url matched but fetch failed")
		return Result{}, false
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		e.logger.Warn().Err(err).Str("url", url).Msg("image url matched but body read failed")
		return Result{}, false
	}
	return Result{
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MIMEType:    "image/" + strings.ToLower(m[1]),
	}, true
}

// matchBareBlob treats the whole trimmed text as a PNG payload when it looks
// like base64 and is long enough to plausibly be an image rather than prose.
func (e *Extractor) matchBareBlob(_ context.Context, content string) (Result, bool) {
	trimmed := strings.TrimSpace(content)
	if !bareBlobPattern.MatchString(trimmed) {
		return Result{}, false
	}
	return Result{
		ImageBase64: stripWhitespace(trimmed),
		MIMEType:    "image/png",
	}, true
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
