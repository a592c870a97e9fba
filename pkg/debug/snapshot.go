// Package debug provides introspection for layout passes: serializable
// snapshots of the resolved view tree and an HTTP server exposing them to
// inspection tooling.
package debug

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/go-stencil/stencil/pkg/element"
	"github.com/go-stencil/stencil/pkg/view"
)

// TreeSnapshot captures one pass's resolved output together with the pass
// counters recorded while producing it.
type TreeSnapshot struct {
	Pass    int             `json:"pass" yaml:"pass"`
	Views   []NodeSnapshot  `json:"views,omitempty" yaml:"views,omitempty"`
	Metrics *MetricsSummary `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// NodeSnapshot is the serializable form of one resolved view node.
type NodeSnapshot struct {
	Kind     string         `json:"kind" yaml:"kind"`
	Path     string         `json:"path,omitempty" yaml:"path,omitempty"`
	Frame    FrameSnapshot  `json:"frame" yaml:"frame"`
	Alpha    float64        `json:"alpha" yaml:"alpha"`
	Hidden   bool           `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Children []NodeSnapshot `json:"children,omitempty" yaml:"children,omitempty"`
}

// FrameSnapshot is a node frame in the parent's coordinate space.
type FrameSnapshot struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// MetricsSummary is the serializable form of element.PassMetrics.
type MetricsSummary struct {
	Passes           int     `json:"passes" yaml:"passes"`
	NodesVisited     int     `json:"nodesVisited" yaml:"nodesVisited"`
	NodesCreated     int     `json:"nodesCreated" yaml:"nodesCreated"`
	NodesCollected   int     `json:"nodesCollected" yaml:"nodesCollected"`
	NodesInvalidated int     `json:"nodesInvalidated" yaml:"nodesInvalidated"`
	MeasureHits      int     `json:"measureHits" yaml:"measureHits"`
	MeasureMisses    int     `json:"measureMisses" yaml:"measureMisses"`
	LayoutHits       int     `json:"layoutHits" yaml:"layoutHits"`
	LayoutMisses     int     `json:"layoutMisses" yaml:"layoutMisses"`
	PassDurationMs   float64 `json:"passDurationMs" yaml:"passDurationMs"`
}

// CaptureViews converts a resolved view hierarchy into its snapshot form.
// Paths are anchored at the pass root rather than each node's nearest
// view-backed ancestor, so a snapshot line is addressable on its own.
func CaptureViews(nodes []view.Node) []NodeSnapshot {
	return captureViews(nodes, nil)
}

func captureViews(nodes []view.Node, prefix view.Path) []NodeSnapshot {
	if len(nodes) == 0 {
		return nil
	}
	snapshots := make([]NodeSnapshot, 0, len(nodes))
	for _, node := range nodes {
		path := prefix
		for _, component := range node.Path {
			path = path.Appending(component)
		}
		snapshots = append(snapshots, NodeSnapshot{
			Kind: node.Description.Kind,
			Path: path.String(),
			Frame: FrameSnapshot{
				X:      node.Attributes.Frame.Left,
				Y:      node.Attributes.Frame.Top,
				Width:  node.Attributes.Frame.Width(),
				Height: node.Attributes.Frame.Height(),
			},
			Alpha:    node.Attributes.Alpha,
			Hidden:   node.Attributes.Hidden,
			Children: captureViews(node.Children, path),
		})
	}
	return snapshots
}

// CaptureMetrics converts pass counters into their snapshot form.
func CaptureMetrics(metrics *element.PassMetrics) *MetricsSummary {
	if metrics == nil {
		return nil
	}
	return &MetricsSummary{
		Passes:           metrics.Passes,
		NodesVisited:     metrics.NodesVisited,
		NodesCreated:     metrics.NodesCreated,
		NodesCollected:   metrics.NodesCollected,
		NodesInvalidated: metrics.NodesInvalidated,
		MeasureHits:      metrics.MeasureCacheHits,
		MeasureMisses:    metrics.MeasureCacheMisses,
		LayoutHits:       metrics.LayoutCacheHits,
		LayoutMisses:     metrics.LayoutCacheMisses,
		PassDurationMs:   float64(metrics.PassDuration.Microseconds()) / 1000,
	}
}

// Capture builds a full snapshot from a resolved hierarchy plus optional
// metrics.
func Capture(nodes []view.Node, metrics *element.PassMetrics) TreeSnapshot {
	snapshot := TreeSnapshot{
		Views:   CaptureViews(nodes),
		Metrics: CaptureMetrics(metrics),
	}
	if metrics != nil {
		snapshot.Pass = metrics.Passes
	}
	return snapshot
}

// ToYAML renders the snapshot as YAML, the format used for dumps and
// golden files. It is a named method rather than encoding.TextMarshaler so
// the yaml encoder walks the struct instead of calling back into it.
func (s TreeSnapshot) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode tree snapshot: %w", err)
	}
	return data, nil
}
