// Package geo loads the two GeoJSON point layers and serves them to the map
// client in a slimmed form: geometry plus display properties only. Question
// bodies and answer keys never leave the server through the layer endpoints.
package geo

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/placequest/placequest/internal/quiz"
	"github.com/placequest/placequest/internal/storage"
)

const (
	NodesFile = "knowledge_nodes.geojson"
	NewsFile  = "positive_news.geojson"
)

// boundsPad widens the computed layer envelope so markers near the edge are
// not clipped by the map's max-bounds clamp.
const boundsPad = 0.01

type Catalog struct {
	nodes     map[string]quiz.KnowledgeNode
	nodeLayer []*geojson.Feature
	nodesErr  error

	news      map[string]quiz.NewsItem
	newsLayer []*geojson.Feature
	newsErr   error

	bounds *geom.Bounds
}

// Load reads both layers from src. A layer that fails to load or parse is
// recorded as failed and served as such; loading never aborts the service.
func Load(src storage.BlobStore, includeNews bool) *Catalog {
	c := &Catalog{
		nodes:  map[string]quiz.KnowledgeNode{},
		news:   map[string]quiz.NewsItem{},
		bounds: geom.NewBounds(geom.XY),
	}

	if err := c.loadNodes(src); err != nil {
		log.Printf("load %s: %v", NodesFile, err)
		c.nodesErr = err
	}
	if includeNews {
		if err := c.loadNews(src); err != nil {
			log.Printf("load %s: %v", NewsFile, err)
			c.newsErr = err
		}
	}
	return c
}

func readCollection(src storage.BlobStore, key string) (*geojson.FeatureCollection, error) {
	rc, err := src.Get(key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parse feature collection: %w", err)
	}
	return &fc, nil
}

// pointOf returns the feature's point geometry, or nil for non-point or
// missing geometry. Only point features become markers.
func pointOf(f *geojson.Feature) *geom.Point {
	p, ok := f.Geometry.(*geom.Point)
	if !ok {
		return nil
	}
	return p
}

func decodeProperties(props map[string]interface{}, dst interface{}) error {
	raw, err := json.Marshal(props)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func (c *Catalog) loadNodes(src storage.BlobStore) error {
	fc, err := readCollection(src, NodesFile)
	if err != nil {
		return err
	}
	for i, f := range fc.Features {
		pt := pointOf(f)
		if pt == nil {
			log.Printf("%s: feature %d: not a point, skipped", NodesFile, i)
			continue
		}
		var node quiz.KnowledgeNode
		if err := decodeProperties(f.Properties, &node); err != nil {
			log.Printf("%s: feature %d: bad properties, skipped: %v", NodesFile, i, err)
			continue
		}
		if node.ID == "" {
			log.Printf("%s: feature %d: missing id, skipped", NodesFile, i)
			continue
		}
		c.nodes[node.ID] = node
		c.nodeLayer = append(c.nodeLayer, &geojson.Feature{
			Geometry: pt,
			Properties: map[string]interface{}{
				"id":             node.ID,
				"title":          node.Title,
				"subtitle":       node.Subtitle,
				"question_count": len(node.Questions),
			},
		})
		c.bounds = c.bounds.Extend(pt)
	}
	return nil
}

func (c *Catalog) loadNews(src storage.BlobStore) error {
	fc, err := readCollection(src, NewsFile)
	if err != nil {
		return err
	}
	for i, f := range fc.Features {
		pt := pointOf(f)
		if pt == nil {
			log.Printf("%s: feature %d: not a point, skipped", NewsFile, i)
			continue
		}
		var item quiz.NewsItem
		if err := decodeProperties(f.Properties, &item); err != nil {
			log.Printf("%s: feature %d: bad properties, skipped: %v", NewsFile, i, err)
			continue
		}
		if item.ID == "" {
			item.ID = fmt.Sprintf("news_%d", i)
		}
		c.news[item.ID] = item
		c.newsLayer = append(c.newsLayer, &geojson.Feature{
			Geometry: pt,
			Properties: map[string]interface{}{
				"id":    item.ID,
				"title": item.Title,
			},
		})
		c.bounds = c.bounds.Extend(pt)
	}
	return nil
}

// Node returns the full quiz content for one node.
func (c *Catalog) Node(id string) (quiz.KnowledgeNode, bool) {
	n, ok := c.nodes[id]
	return n, ok
}

// News returns one positive-news item.
func (c *Catalog) News(id string) (quiz.NewsItem, bool) {
	n, ok := c.news[id]
	return n, ok
}

// NodeLayer returns the slimmed marker collection, or an error if the layer
// failed to load.
func (c *Catalog) NodeLayer() (*geojson.FeatureCollection, error) {
	if c.nodesErr != nil {
		return nil, c.nodesErr
	}
	return &geojson.FeatureCollection{Features: c.nodeLayer}, nil
}

// NewsLayer returns the slimmed news marker collection.
func (c *Catalog) NewsLayer() (*geojson.FeatureCollection, error) {
	if c.newsErr != nil {
		return nil, c.newsErr
	}
	return &geojson.FeatureCollection{Features: c.newsLayer}, nil
}

// MapConfig is what the map client needs to initialize: a center and a
// padded bounding box to clamp panning to. Coordinates are [lat, lng] pairs,
// matching the client widget's convention.
type MapConfig struct {
	Center [2]float64     `json:"center"`
	Bounds *[2][2]float64 `json:"bounds,omitempty"`
}

func (c *Catalog) MapConfig() MapConfig {
	// Guadalupe fallback when no features loaded.
	cfg := MapConfig{Center: [2]float64{34.9715, -120.5713}}
	if c.bounds.IsEmpty() {
		return cfg
	}
	minX, minY := c.bounds.Min(0), c.bounds.Min(1)
	maxX, maxY := c.bounds.Max(0), c.bounds.Max(1)
	cfg.Center = [2]float64{(minY + maxY) / 2, (minX + maxX) / 2}
	cfg.Bounds = &[2][2]float64{
		{minY - boundsPad, minX - boundsPad},
		{maxY + boundsPad, maxX + boundsPad},
	}
	return cfg
}
