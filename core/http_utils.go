package core

import (
	"bufio"
	"bytes"
	"fmt"
	"html"
	"io"
	"net/http"
	urlpkg "net/url"
	"regexp"
	"strings"

	"github.com/lordmilko/PrtgAPI-sub005/serde"
)

// sniffLength is how much of a body is examined for an error page.
const sniffLength = 4096

var (
	errorContainer = regexp.MustCompile(`(?is)<[a-z0-9]+[^>]*class\s*=\s*["'][^"']*\berrormsg\b[^"']*["'][^>]*>(.*?)</[a-z0-9]+>`)
	markup         = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// buildURL joins endpoint onto the server's base URL and attaches query.
func buildURL(base *urlpkg.URL, endpoint, query string) string {
	u := *base
	u.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(endpoint, "/")
	u.RawQuery = query
	return u.String()
}

// redactURL hides credentials in URLs that end up in logs and errors.
func redactURL(raw string) string {
	u, err := urlpkg.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	changed := false
	for _, key := range []string{"password", "passhash"} {
		if q.Has(key) {
			q.Set(key, "***")
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// validateResponse turns the server's three error conventions, and any other
// unsuccessful status, into a RequestFailedError. On success the returned
// reader replays the bytes examined while sniffing for an HTML error page.
func validateResponse(response *http.Response, requestURL string) (io.Reader, error) {
	if response.StatusCode >= 300 && response.StatusCode < 400 {
		location := response.Header.Get(HeaderLocation)
		if msg := redirectMessage(location); msg != "" {
			return nil, &RequestFailedError{StatusCode: response.StatusCode, URL: requestURL, Message: msg, Source: "redirect"}
		}
		return nil, &RequestFailedError{
			StatusCode: response.StatusCode,
			URL:        requestURL,
			Message:    fmt.Sprintf("unexpected redirect to %q", location),
			Source:     "status",
		}
	}

	body := bufio.NewReaderSize(response.Body, sniffLength)
	head, _ := body.Peek(sniffLength)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		all, _ := io.ReadAll(body)
		if msg, source := bodyMessage(all); msg != "" {
			return nil, &RequestFailedError{StatusCode: response.StatusCode, URL: requestURL, Message: msg, Source: source}
		}
		msg := http.StatusText(response.StatusCode)
		if response.StatusCode == http.StatusUnauthorized {
			msg = "authentication rejected: check the username and password or passhash"
		}
		return nil, &RequestFailedError{StatusCode: response.StatusCode, URL: requestURL, Message: msg, Source: "status"}
	}

	if isHTML(response.Header.Get(HeaderContentType), head) {
		if msg := htmlErrorMessage(head); msg != "" {
			return nil, &RequestFailedError{StatusCode: response.StatusCode, URL: requestURL, Message: msg, Source: "html"}
		}
	}
	return body, nil
}

// redirectMessage extracts the errormsg parameter of an error page redirect.
func redirectMessage(location string) string {
	if location == "" {
		return ""
	}
	u, err := urlpkg.Parse(location)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("errormsg"))
}

// bodyMessage looks for an XML <error> or an HTML error container in body.
func bodyMessage(body []byte) (msg, source string) {
	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<prtg")) {
		if root, err := serde.Parse(bytes.NewReader(trimmed)); err == nil {
			if e := root.Child("error"); e != nil {
				return strings.TrimSpace(e.Text), "xml"
			}
		}
	}
	if msg := htmlErrorMessage(trimmed); msg != "" {
		return msg, "html"
	}
	return "", ""
}

// isHTML reports an HTML page by its Content-Type or, when that is missing or
// generic, by its first bytes.
func isHTML(contentType string, head []byte) bool {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), ContentTypeHTML) {
		return true
	}
	lower := bytes.ToLower(bytes.TrimSpace(head))
	return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html"))
}

// htmlErrorMessage returns the text inside the first class="errormsg" container.
func htmlErrorMessage(body []byte) string {
	m := errorContainer.FindSubmatch(body)
	if m == nil {
		return ""
	}
	text := markup.ReplaceAllString(string(m[1]), " ")
	text = html.UnescapeString(text)
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}
