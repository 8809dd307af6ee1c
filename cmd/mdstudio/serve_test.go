package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdstudio "github.com/alnah/go-mdstudio"
)

// getJSON decodes the JSON response of GET url into v and returns the status.
func getJSON(t *testing.T, url string, v any) int {
	t.Helper()

	resp, err := http.Get(url) // #nosec G107 -- test server URL
	if err != nil {
		return 0
	}
	defer resp.Body.Close()

	if v != nil {
		data, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(data, v)
	}
	return resp.StatusCode
}

func eventually(t *testing.T, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

// ---------------------------------------------------------------------------
// TestRun_Serve - Serve, watch and shutdown
// ---------------------------------------------------------------------------

func TestRun_Serve(t *testing.T) {
	dir := isolateConfig(t)

	// Lookup only checks the binary exists; nothing is launched unless a
	// PDF or PNG is exported.
	fakeChrome := filepath.Join(dir, "chrome")
	writeFile(t, fakeChrome, "")
	t.Setenv("ROD_BROWSER_BIN", fakeChrome)

	doc := filepath.Join(dir, "doc.md")
	writeFile(t, doc, "# Uno")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	env, stdout, stderr := testEnv()
	env.Listen = func(string, string) (net.Listener, error) { return ln, nil }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"serve", "--watch", doc, "--debounce", "10ms"}, env)
	}()

	base := "http://" + ln.Addr().String()

	if !eventually(t, func() bool { return getJSON(t, base+"/health", nil) == http.StatusOK }) {
		t.Fatal("server did not become healthy")
	}

	var status struct {
		Ready bool `json:"ready"`
	}
	getJSON(t, base+"/api/status", &status)
	if !status.Ready {
		t.Error("editor not ready with a browser binary present")
	}

	type document struct {
		Text string `json:"text"`
		View struct {
			HTML string `json:"html"`
		} `json:"view"`
	}

	var d document
	getJSON(t, base+"/api/document", &d)
	if d.Text != "# Uno" {
		t.Errorf("watched file not loaded, text = %q", d.Text)
	}

	writeFile(t, doc, "# Dos")
	if !eventually(t, func() bool {
		var d document
		getJSON(t, base+"/api/document", &d)
		return d.Text == "# Dos"
	}) {
		t.Error("document not reloaded after the file changed")
	}

	cancel()
	select {
	case code := <-done:
		if code != ExitSuccess {
			t.Errorf("exit code = %d, stderr = %s", code, stderr.String())
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}

	if got := stdout.String(); got != "mdstudio listening on "+base+"\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRun_ServeWithoutBrowser(t *testing.T) {
	dir := isolateConfig(t)
	t.Setenv("ROD_BROWSER_BIN", filepath.Join(dir, "missing-chrome"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	env, _, stderr := testEnv()
	env.Listen = func(string, string) (net.Listener, error) { return ln, nil }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int, 1)
	go func() { done <- run(ctx, []string{"serve"}, env) }()

	base := "http://" + ln.Addr().String()
	if !eventually(t, func() bool { return getJSON(t, base+"/health", nil) == http.StatusOK }) {
		t.Fatal("server did not start without a browser")
	}

	var status struct {
		Ready bool   `json:"ready"`
		Error string `json:"error"`
	}
	getJSON(t, base+"/api/status", &status)
	if status.Ready || status.Error == "" {
		t.Errorf("status = %+v, want not ready with an error", status)
	}

	cancel()
	select {
	case code := <-done:
		if code != ExitSuccess {
			t.Errorf("exit code = %d, stderr = %s", code, stderr.String())
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestRun_ServeListenError(t *testing.T) {
	isolateConfig(t)

	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer taken.Close()

	env, _, stderr := testEnv()
	code := run(context.Background(), []string{"serve", "--addr", taken.Addr().String()}, env)
	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
	if !strings.Contains(stderr.String(), "--addr") {
		t.Errorf("stderr has no address hint: %q", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestServeUntilDone - Graceful shutdown
// ---------------------------------------------------------------------------

func TestServeUntilDone_FinishesInFlightRequests(t *testing.T) {
	t.Parallel()

	ed := mdstudio.NewEditor(nil)
	st := &stack{editor: ed}
	events, unsubscribe := ed.Subscribe()
	defer unsubscribe()

	started := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/lento", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(200 * time.Millisecond)
		if err := r.Context().Err(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "hecho")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	env, _, _ := testEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- serveUntilDone(ctx, ln, mux, st, env, newLogger(io.Discard, false, true)) }()

	type result struct {
		status int
		body   string
		err    error
	}
	got := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/lento") // #nosec G107 -- test server URL
		if err != nil {
			got <- result{err: err}
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		got <- result{status: resp.StatusCode, body: string(body)}
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}
	cancel()

	res := <-got
	if res.err != nil {
		t.Fatalf("in-flight request failed: %v", res.err)
	}
	if res.status != http.StatusOK || res.body != "hecho" {
		t.Errorf("in-flight request = %d %q, want 200 %q", res.status, res.body, "hecho")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serveUntilDone() = %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serveUntilDone did not return")
	}

	select {
	case _, ok := <-events:
		if ok {
			t.Error("event stream still open after shutdown")
		}
	case <-time.After(time.Second):
		t.Error("event stream not closed on shutdown")
	}
}
