// Package source classifies a caller-supplied input string into one of
// the content kinds the extraction layer knows how to read.
package source

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Kind enumerates the closed set of supported source kinds.
type Kind int

const (
	// Unsupported marks inputs that are neither a fetchable URL nor an
	// existing local file of a known format.
	Unsupported Kind = iota
	// RemoteDocument is an http or https URL.
	RemoteDocument
	// LocalPDF is an existing local .pdf file.
	LocalPDF
	// LocalWordDoc is an existing local .docx or .doc file.
	LocalWordDoc
	// LocalSpreadsheet is an existing local .xlsx or .xls file.
	LocalSpreadsheet
)

func (k Kind) String() string {
	switch k {
	case RemoteDocument:
		return "remote"
	case LocalPDF:
		return "pdf"
	case LocalWordDoc:
		return "word"
	case LocalSpreadsheet:
		return "spreadsheet"
	default:
		return "unsupported"
	}
}

// Descriptor is the immutable classification of one input string.
type Descriptor struct {
	// Raw is the input exactly as the caller supplied it.
	Raw string
	// Kind is the classified source kind.
	Kind Kind
	// URL is set for RemoteDocument sources.
	URL string
	// Path is the cleaned filesystem path for local sources.
	Path string
}

// Identifier returns the canonical identity persisted for this source:
// the URL for remote documents, a file:// form for local ones.
func (d Descriptor) Identifier() string {
	if d.Kind == RemoteDocument {
		return d.URL
	}
	if d.Path != "" {
		if abs, err := filepath.Abs(d.Path); err == nil {
			return "file://" + abs
		}
		return "file://" + d.Path
	}
	return d.Raw
}

// Classify inspects the input string and returns its descriptor. The
// only side effect is an existence stat for local paths; classifying
// the same string twice yields the same descriptor.
func Classify(input string) Descriptor {
	d := Descriptor{Raw: input, Kind: Unsupported}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return d
	}

	if u, err := url.Parse(trimmed); err == nil && u.IsAbs() && u.Host != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			d.Kind = RemoteDocument
			d.URL = trimmed
			return d
		default:
			return d
		}
	}

	info, err := os.Stat(trimmed)
	if err != nil || info.IsDir() {
		return d
	}

	switch strings.ToLower(filepath.Ext(trimmed)) {
	case ".pdf":
		d.Kind = LocalPDF
	case ".docx", ".doc":
		d.Kind = LocalWordDoc
	case ".xlsx", ".xls":
		d.Kind = LocalSpreadsheet
	default:
		return d
	}

	d.Path = filepath.Clean(trimmed)
	return d
}
