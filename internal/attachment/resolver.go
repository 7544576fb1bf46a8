// Package attachment resolves attachment source references into readable
// byte streams, independent of any native API conventions.
package attachment

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// ErrUnsupportedSource is returned for source schemes the resolver does
// not know how to open.
var ErrUnsupportedSource = errors.New("unsupported attachment source")

const dataScheme = "data:"

// Stream is a resolved attachment: a single-consumer byte stream tagged
// with a filename. The consumer owns Reader and must close it.
type Stream struct {
	Name   string
	Reader io.ReadCloser
}

// Resolver turns attachment source strings (inline data URIs, remote
// URLs, local file URIs) into Streams. The zero value is usable; HTTP
// requests then go through http.DefaultClient. Timeout policy belongs to
// the injected client, not the resolver.
type Resolver struct {
	HTTPClient *http.Client
}

// NewResolver creates a Resolver using the given HTTP client, or
// http.DefaultClient when nil.
func NewResolver(client *http.Client) *Resolver {
	return &Resolver{HTTPClient: client}
}

// Resolve opens source as a byte stream tagged with filename. Remote
// schemes issue the network request immediately; a connection failure is
// the caller's resolution failure. No retry is attempted.
func (r *Resolver) Resolve(source, filename string) (Stream, error) {
	if strings.HasPrefix(source, dataScheme) {
		return resolveDataURI(source, filename)
	}
	parsed, err := url.Parse(source)
	if err != nil {
		return Stream{}, fmt.Errorf("parse attachment url: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https":
		return r.resolveHTTP(source, filename)
	case "file":
		file, err := os.Open(parsed.Path)
		if err != nil {
			return Stream{}, fmt.Errorf("open attachment file: %w", err)
		}
		return Stream{Name: filename, Reader: file}, nil
	default:
		return Stream{}, fmt.Errorf("%w: %s", ErrUnsupportedSource, parsed.Scheme)
	}
}

func (r *Resolver) resolveHTTP(source, filename string) (Stream, error) {
	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(source)
	if err != nil {
		return Stream{}, fmt.Errorf("fetch attachment: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return Stream{}, fmt.Errorf("fetch attachment status: %d", resp.StatusCode)
	}
	return Stream{Name: filename, Reader: resp.Body}, nil
}

// resolveDataURI decodes `data:<mime>;base64,<payload>` or the
// percent-encoded form `data:<mime>,<payload>` into an in-memory stream.
func resolveDataURI(source, filename string) (Stream, error) {
	head, payload, ok := strings.Cut(source, ",")
	if !ok {
		return Stream{}, fmt.Errorf("malformed data URI: missing payload")
	}
	var data []byte
	if isBase64DataURI(head) {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return Stream{}, fmt.Errorf("decode base64 payload: %w", err)
		}
		data = decoded
	} else {
		decoded, err := url.PathUnescape(payload)
		if err != nil {
			return Stream{}, fmt.Errorf("decode percent-encoded payload: %w", err)
		}
		data = []byte(decoded)
	}
	return Stream{Name: filename, Reader: io.NopCloser(bytes.NewReader(data))}, nil
}

// isBase64DataURI reports whether the segment after the MIME type
// declares base64, e.g. `data:text/plain;base64`.
func isBase64DataURI(head string) bool {
	_, params, ok := strings.Cut(head, ";")
	if !ok {
		return false
	}
	return strings.HasPrefix(params, "base64")
}
