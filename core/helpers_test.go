package core

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

type testItem struct {
	ID   int    `prtg:"objid" required:"true"`
	Name string `prtg:"name"`
}

// fakePRTG serves the table, status and pass-hash endpoints from memory.
type fakePRTG struct {
	mu       sync.Mutex
	items    []testItem
	requests []url.Values
	paths    []string

	version   string
	passHash  string
	password  string
	failStart map[int]bool
	delay     time.Duration
}

func newFakePRTG(n int) *fakePRTG {
	f := &fakePRTG{version: "23.1.82.2074+", passHash: "1234567890", password: "secret", failStart: map[int]bool{}}
	for i := 1; i <= n; i++ {
		f.items = append(f.items, testItem{ID: i, Name: fmt.Sprintf("sensor-%d", i)})
	}
	return f
}

func (f *fakePRTG) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.requests = append(f.requests, q)
	f.paths = append(f.paths, r.URL.Path)
	f.mu.Unlock()

	switch r.URL.Path {
	case "/api/getpasshash.htm":
		if q.Get("password") != f.password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, f.passHash)
	case "/api/getstatus.xml":
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8" ?><status><NewAlarms>0</NewAlarms><Version>%s</Version></status>`, f.version)
	case "/api/table.xml":
		f.table(w, q)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakePRTG) table(w http.ResponseWriter, q url.Values) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	items := f.items
	// Only exact id filters are applied; operator filters are ignored.
	if ids := q["filter_objid"]; len(ids) > 0 && !strings.HasPrefix(ids[0], "@") {
		items = slices.DeleteFunc(slices.Clone(items), func(it testItem) bool {
			return !slices.Contains(ids, strconv.Itoa(it.ID))
		})
	}
	total := len(items)
	start, _ := strconv.Atoi(q.Get("start"))
	if q.Get("count") != "0" && f.failStart[start] {
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><prtg><error>page failed</error></prtg>`)
		return
	}
	items = items[min(start, len(items)):]
	if c := q.Get("count"); c != "*" && c != "" {
		n, _ := strconv.Atoi(c)
		items = items[:min(n, len(items))]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?><%s totalcount="%d" listend="1"><prtg-version>%s</prtg-version>`,
		q.Get("content"), total, f.version)
	for _, it := range items {
		fmt.Fprintf(&sb, "<item><objid>%d</objid><name>%s</name></item>", it.ID, html.EscapeString(it.Name))
	}
	fmt.Fprintf(&sb, "</%s>", q.Get("content"))
	w.Header().Set("Content-Type", ContentTypeXML)
	fmt.Fprint(w, sb.String())
}

// tableRequests returns the query of every table request, in arrival order.
func (f *fakePRTG) tableRequests() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []url.Values
	for i, p := range f.paths {
		if p == "/api/table.xml" {
			out = append(out, f.requests[i])
		}
	}
	return out
}

func (f *fakePRTG) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.paths {
		if p == path {
			n++
		}
	}
	return n
}

// newTestSession starts handler and returns a session against it with
// retries delayed by nothing.
func newTestSession(t *testing.T, handler http.Handler, configure ...func(*PRTGConfig)) *Session {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	noDelay := time.Duration(0)
	config := &PRTGConfig{
		Server:     srv.URL,
		Username:   "prtgadmin",
		PassHash:   "1234567890",
		RetryDelay: &noDelay,
	}
	for _, fn := range configure {
		fn(config)
	}
	s, err := NewSession(config)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

func newTestResource(t *testing.T, s *Session) *TableResource[testItem] {
	t.Helper()
	r, err := NewTableResource[testItem](s, "sensors")
	if err != nil {
		t.Fatalf("NewTableResource() error = %v", err)
	}
	return r
}

func intPtr(n int) *int { return &n }

// roundTripFunc stands in for the network.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return fn(r) }
