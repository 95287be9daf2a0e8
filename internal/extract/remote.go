package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/source"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const remoteUserAgent = "Mozilla/5.0 (compatible; summarizer-agent/1.0)"

// Elements that never contribute article text. Keep in sync with the
// skip handling in collectBlockText.
var skipElements = []string{
	"script", "style", "noscript", "iframe", "object", "embed",
	"svg", "canvas", "nav", "header", "footer", "aside", "form",
}

// RemoteExtractor fetches an HTML page and reduces it to the article's
// block-level text.
type RemoteExtractor struct {
	client *http.Client
	logger *zap.Logger
}

// NewRemoteExtractor builds a remote adapter whose fetches are bounded
// by timeout. The adapter never retries; the fetch is idempotent and
// cheap for the caller to re-invoke.
func NewRemoteExtractor(timeout time.Duration, logger *zap.Logger) *RemoteExtractor {
	return &RemoteExtractor{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Extract fetches the descriptor's URL and returns the page's readable
// text, block elements joined with single newlines.
func (e *RemoteExtractor) Extract(ctx context.Context, desc source.Descriptor) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %q: %w", desc.URL, err)
	}
	req.Header.Set("User-Agent", remoteUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", desc.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("fetch %q: %w (HTTP %d)", desc.URL, ErrNotFound, resp.StatusCode)
		}
		return nil, fmt.Errorf("fetch %q: unexpected status %s", desc.URL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", desc.URL, err)
	}

	text := e.readableText(doc)
	return newDocument(text, desc)
}

// readableText strips boilerplate and returns the page's flowing text.
// Paragraphs inside an <article> win when present; otherwise all <p>
// elements; otherwise the cleaned body text as a last resort.
func (e *RemoteExtractor) readableText(doc *goquery.Document) string {
	sel := strings.Join(skipElements, ", ")
	doc.Find(sel).Remove()

	scope := doc.Selection
	if article := doc.Find("article"); article.Length() > 0 {
		scope = article
	}

	var blocks []string
	scope.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.TrimSpace(p.Text()); t != "" {
			blocks = append(blocks, t)
		}
	})

	if len(blocks) == 0 {
		e.logger.Debug("no paragraph elements found, falling back to body text")
		for _, n := range doc.Find("body").Nodes {
			blocks = collectBlockText(n, blocks)
		}
	}

	return strings.Join(blocks, "\n")
}

// collectBlockText walks the node tree and appends every non-blank text
// node as its own block. Skip elements are already removed from the
// tree, but the walk guards against them anyway in case a future caller
// passes an uncleaned subtree.
func collectBlockText(n *html.Node, blocks []string) []string {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			blocks = append(blocks, t)
		}
		return blocks
	}
	if n.Type == html.ElementNode {
		for _, skip := range skipElements {
			if n.Data == skip {
				return blocks
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		blocks = collectBlockText(c, blocks)
	}
	return blocks
}
