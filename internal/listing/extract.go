// Package listing turns a shared-folder HTML page into the list of files it offers.
package listing

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// FileLinkMarker is the class token the storage provider puts on anchors that point at files.
const FileLinkMarker = "file-link"

// FileEntry is a downloadable file found on a listing page.
type FileEntry struct {
	Filename string
	Link     string
}

// DecodeError reports a payload or filename that cannot be read as UTF-8 text.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot decode %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("cannot decode %s as UTF-8 text", e.What)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Extract scans the HTML in r and returns the file links in document order.
// contentType is the Content-Type of the response and may be empty.
// Malformed markup is tolerated; only undecodable text is an error.
func Extract(r io.Reader, contentType string) ([]FileEntry, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}

	text, err := charset.NewReader(bytes.NewReader(payload), contentType)
	if err != nil {
		return nil, &DecodeError{What: "listing payload", Err: err}
	}
	decoded, err := io.ReadAll(text)
	if err != nil {
		return nil, &DecodeError{What: "listing payload", Err: err}
	}
	if !utf8.Valid(decoded) {
		return nil, &DecodeError{What: "listing payload"}
	}

	var entries []FileEntry
	z := html.NewTokenizer(bytes.NewReader(decoded))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer failure; either way we keep what we found
			return entries, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			if t.Data != "a" {
				continue
			}
			href, ok := fileLinkHref(t.Attr)
			if !ok {
				continue
			}
			entry, err := parseFileLink(href)
			if err != nil {
				return nil, err
			}
			if entry.Filename == "" {
				continue
			}
			entries = append(entries, entry)
		}
	}
}

func fileLinkHref(attrs []html.Attribute) (string, bool) {
	isFileLink := false
	href := ""
	for _, attr := range attrs {
		switch attr.Key {
		case "class":
			if strings.Contains(attr.Val, FileLinkMarker) {
				isFileLink = true
			}
		case "href":
			href = attr.Val
		}
	}
	return href, isFileLink && href != ""
}

// parseFileLink derives the entry for a single href. The filename is the
// unescaped last path segment; the link is rewritten from its preview form
// (trailing "0" flag) to its direct-content form (trailing "1").
func parseFileLink(href string) (FileEntry, error) {
	segments := strings.Split(href, "/")
	escaped, _, _ := strings.Cut(segments[len(segments)-1], "?")

	name, err := url.PathUnescape(escaped)
	if err != nil {
		name = escaped
	}
	if !utf8.ValidString(name) {
		return FileEntry{}, &DecodeError{What: fmt.Sprintf("filename %q", escaped)}
	}
	if !safeFilename(name) {
		name = ""
	}

	return FileEntry{
		Filename: name,
		Link:     strings.TrimRight(href, "0") + "1",
	}, nil
}

func safeFilename(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}
