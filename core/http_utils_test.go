package core

import (
	"errors"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
	"testing"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base, endpoint, query, want string
	}{
		{"https://prtg", "api/table.xml", "content=sensors", "https://prtg/api/table.xml?content=sensors"},
		{"https://prtg/", "/api/table.xml", "", "https://prtg/api/table.xml"},
		{"http://prtg:8080/monitor", "api/getstatus.xml", "id=0", "http://prtg:8080/monitor/api/getstatus.xml?id=0"},
	}
	for _, tt := range tests {
		base, err := urlpkg.Parse(tt.base)
		if err != nil {
			t.Fatal(err)
		}
		if got := buildURL(base, tt.endpoint, tt.query); got != tt.want {
			t.Errorf("buildURL(%q, %q) = %q, want %q", tt.base, tt.endpoint, got, tt.want)
		}
	}
}

func TestRedactURL(t *testing.T) {
	got := redactURL("https://prtg/api/table.xml?username=a&passhash=123&content=sensors")
	if got != "https://prtg/api/table.xml?content=sensors&passhash=%2A%2A%2A&username=a" {
		t.Errorf("redactURL() = %q", got)
	}
	plain := "https://prtg/api/table.xml?content=sensors"
	if redactURL(plain) != plain {
		t.Errorf("redactURL() changed a URL without credentials")
	}
}

func TestHTMLErrorMessage(t *testing.T) {
	page := `<!DOCTYPE html><html><body>
<div class="errormsg">
  Sorry, the object &amp; its
  parent could not be found.
</div></body></html>`
	want := "Sorry, the object & its parent could not be found."
	if got := htmlErrorMessage([]byte(page)); got != want {
		t.Errorf("htmlErrorMessage() = %q, want %q", got, want)
	}
	if got := htmlErrorMessage([]byte("<html><body>fine</body></html>")); got != "" {
		t.Errorf("htmlErrorMessage() = %q for a page without an error", got)
	}
}

func TestRedirectMessage(t *testing.T) {
	loc := "/error.htm?errormsg=Object%20not%20found&errorurl=%2Fapi%2Ftable.xml"
	if got := redirectMessage(loc); got != "Object not found" {
		t.Errorf("redirectMessage() = %q", got)
	}
	if got := redirectMessage("/index.htm"); got != "" {
		t.Errorf("redirectMessage() = %q for a plain redirect", got)
	}
}

func TestValidateResponse_ReplaysSniffedBody(t *testing.T) {
	body := `<?xml version="1.0"?><prtg><sensors totalcount="0"></sensors></prtg>`
	resp := &http.Response{StatusCode: 200, Header: http.Header{}, Body: io.NopCloser(strings.NewReader(body))}
	r, err := validateResponse(resp, "https://prtg/api/table.xml")
	if err != nil {
		t.Fatalf("validateResponse() error = %v", err)
	}
	got, _ := io.ReadAll(r)
	if string(got) != body {
		t.Errorf("body = %q, want %q", got, body)
	}
}

func TestValidateResponse_HTMLByContentType(t *testing.T) {
	body := `<div class="errormsg">Sorry, you do not have access.</div>`
	resp := &http.Response{
		StatusCode: 200,
		Header:     http.Header{HeaderContentType: []string{"text/html; charset=UTF-8"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
	_, err := validateResponse(resp, "https://prtg/api/table.xml")
	var rfErr *RequestFailedError
	if !errors.As(err, &rfErr) {
		t.Fatalf("validateResponse() error = %v, want RequestFailedError", err)
	}
	if rfErr.Source != "html" || rfErr.Message != "Sorry, you do not have access." {
		t.Errorf("got source %q message %q", rfErr.Source, rfErr.Message)
	}
}
