package debug

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-stencil/stencil/pkg/element"
	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/geometry"
	"github.com/go-stencil/stencil/pkg/stenciltest"
)

func renderSnapshot(t *testing.T) TreeSnapshot {
	t.Helper()
	h := stenciltest.NewHarness(t.Name())
	views := h.Render(stenciltest.Column{Children: []element.Element{
		stenciltest.Label{Text: "snapshot"},
		stenciltest.Spacer{Size: geometry.Size{Width: 5, Height: 5}},
	}}, geometry.Size{Width: 200, Height: 100}, environment.Empty())
	return Capture(views, h.Metrics)
}

func TestCaptureViews(t *testing.T) {
	snapshot := renderSnapshot(t)

	if len(snapshot.Views) != 1 {
		t.Fatalf("expected one root view, got %d", len(snapshot.Views))
	}
	root := snapshot.Views[0]
	if root.Kind != "Column" {
		t.Fatalf("root kind: %q", root.Kind)
	}
	if root.Frame.Width != 200 || root.Frame.Height != 100 {
		t.Fatalf("root frame: %+v", root.Frame)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected the label only (the spacer is layout-only), got %d children", len(root.Children))
	}
	if root.Children[0].Kind != "Label" {
		t.Fatalf("child kind: %q", root.Children[0].Kind)
	}
	if got := root.Children[0].Path; got != "stenciltest.Column.1/stenciltest.Label.1" {
		t.Fatalf("child path must be anchored at the root: %q", got)
	}
}

func TestCaptureMetrics(t *testing.T) {
	snapshot := renderSnapshot(t)

	if snapshot.Metrics == nil {
		t.Fatal("metrics missing")
	}
	if snapshot.Metrics.Passes != 1 || snapshot.Pass != 1 {
		t.Fatalf("pass count: %d / %d", snapshot.Metrics.Passes, snapshot.Pass)
	}
	if snapshot.Metrics.NodesCreated == 0 {
		t.Fatal("first pass must create nodes")
	}

	if CaptureMetrics(nil) != nil {
		t.Fatal("nil metrics capture as nil")
	}
}

func TestSnapshotYAMLRoundTrip(t *testing.T) {
	snapshot := renderSnapshot(t)

	data, err := snapshot.ToYAML()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), "kind: Column") {
		t.Fatalf("yaml missing root kind:\n%s", data)
	}

	var decoded TreeSnapshot
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Views[0].Frame != snapshot.Views[0].Frame {
		t.Fatalf("frame did not survive: %+v vs %+v", decoded.Views[0].Frame, snapshot.Views[0].Frame)
	}
}

func waitForServer(t *testing.T, port int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	url := fmt.Sprintf("http://localhost:%d/health", port)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("server not ready")
}

func TestServerServesSnapshots(t *testing.T) {
	source := &StoredSnapshot{}
	server := NewServer(source, nil)

	port, err := server.Start(0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer server.Stop()
	waitForServer(t, port)

	// Before any pass, the snapshot endpoints report unavailable.
	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/views", port))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before the first pass, got %d", resp.StatusCode)
	}

	source.Record(renderSnapshot(t))

	resp, err = http.Get(fmt.Sprintf("http://localhost:%d/views", port))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var decoded TreeSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Views) != 1 || decoded.Views[0].Kind != "Column" {
		t.Fatalf("unexpected snapshot: %+v", decoded)
	}

	metricsResp, err := http.Get(fmt.Sprintf("http://localhost:%d/metrics", port))
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer metricsResp.Body.Close()
	var metrics MetricsSummary
	if err := json.NewDecoder(metricsResp.Body).Decode(&metrics); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if metrics.Passes != 1 {
		t.Fatalf("metrics passes: %d", metrics.Passes)
	}

	yamlResp, err := http.Get(fmt.Sprintf("http://localhost:%d/views.yaml", port))
	if err != nil {
		t.Fatalf("get yaml: %v", err)
	}
	defer yamlResp.Body.Close()
	if got := yamlResp.Header.Get("Content-Type"); got != "application/yaml" {
		t.Fatalf("yaml content type: %q", got)
	}
}

func TestServerRejectsNonGet(t *testing.T) {
	source := &StoredSnapshot{}
	server := NewServer(source, nil)
	port, err := server.Start(0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer server.Stop()
	waitForServer(t, port)

	resp, err := http.Post(fmt.Sprintf("http://localhost:%d/views", port), "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
