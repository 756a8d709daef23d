package content

import (
	"encoding/json"
	"fmt"
)

// ChartType enumerates the supported chart renderings.
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartArea    ChartType = "area"
	ChartPie     ChartType = "pie"
	ChartDonut   ChartType = "donut"
	ChartScatter ChartType = "scatter"
)

// KnownChartType reports whether t is a renderable chart type. Unrecognized
// types are kept as-is and fail closed at render time.
func KnownChartType(t ChartType) bool {
	switch t {
	case ChartBar, ChartLine, ChartArea, ChartPie, ChartDonut, ChartScatter:
		return true
	}
	return false
}

// ChartConfig is the self-contained payload of a chart node. Data rows are
// already resolved; the renderer performs no fetching.
type ChartConfig struct {
	Type     ChartType        `json:"type"`
	Data     []map[string]any `json:"data"`
	XAxisKey string           `json:"xAxisKey"`
	YAxisKey string           `json:"yAxisKey"`
	Colors   []string         `json:"colors,omitempty"`
}

// ImageConfig is the payload of an image node. A nil ImageURL means the image
// has not been generated or uploaded yet.
type ImageConfig struct {
	ImageURL *string `json:"imageUrl"`
	Prompt   string  `json:"prompt"`
	Alt      string  `json:"alt"`
}

// VideoConfig is the payload of a video node.
type VideoConfig struct {
	VideoURL     *string `json:"videoUrl"`
	Prompt       string  `json:"prompt"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}

// NewChartNode builds a chart decorator node from a typed config.
func NewChartNode(cfg ChartConfig) *Node {
	return &Node{Type: NodeChart, Version: 1, Direction: "ltr", Chart: &cfg}
}

// NewImageNode builds an image decorator node from a typed config.
func NewImageNode(cfg ImageConfig) *Node {
	return &Node{Type: NodeImage, Version: 1, Direction: "ltr", Image: &cfg}
}

// NewVideoNode builds a video decorator node from a typed config.
func NewVideoNode(cfg VideoConfig) *Node {
	return &Node{Type: NodeVideo, Version: 1, Direction: "ltr", Video: &cfg}
}

// IsChartNode is the type guard for chart decorator nodes.
func IsChartNode(n *Node) bool { return n != nil && n.Type == NodeChart }

// IsImageNode is the type guard for image decorator nodes.
func IsImageNode(n *Node) bool { return n != nil && n.Type == NodeImage }

// IsVideoNode is the type guard for video decorator nodes.
func IsVideoNode(n *Node) bool { return n != nil && n.Type == NodeVideo }

// ExportChartConfig serializes a chart node's config to JSON.
func ExportChartConfig(n *Node) ([]byte, error) {
	if !IsChartNode(n) || n.Chart == nil {
		return nil, fmt.Errorf("not a chart node")
	}
	return json.Marshal(n.Chart)
}

// ImportChartConfig parses a chart config previously produced by
// ExportChartConfig. Round-trips exactly: no field loss.
func ImportChartConfig(data []byte) (*Node, error) {
	var cfg ChartConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse chart config: %w", err)
	}
	return NewChartNode(cfg), nil
}

// sanitizeChartConfig fills defaults on a decoded chart payload.
func sanitizeChartConfig(cfg *ChartConfig) {
	if cfg.Data == nil {
		cfg.Data = []map[string]any{}
	}
}
