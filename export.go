package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Saver persists a canvas. Implementations report every file they wrote.
type Saver interface {
	Save(c *Canvas) (SaveResult, error)
}

// SaveResult lists the written files. Warning carries an *OverflowWarning
// when the text export was cut at the export limit.
type SaveResult struct {
	Files   []string
	Warning error
}

type document struct {
	Title       string             `json:"title"`
	Nodes       []nodeRecord       `json:"nodes"`
	Connections []connectionRecord `json:"connections"`
	Viewport    viewportRecord     `json:"viewport"`
}

type nodeRecord struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	Text string `json:"text"`
}

type connectionRecord struct {
	ID     int     `json:"id"`
	Source int     `json:"source"`
	Target int     `json:"target"`
	Arrow  bool    `json:"arrow"`
	Path   []point `json:"path,omitempty"`
}

type viewportRecord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// fileStore writes <dir>/<title>.json, <dir>/<title>.txt and optionally
// <dir>/<title>.png.
type fileStore struct {
	config *Config
}

func newFileStore(cfg *Config) *fileStore {
	return &fileStore{config: cfg}
}

func (s *fileStore) pathFor(title, ext string) string {
	return s.config.GetSavePath(fileBase(title) + ext)
}

func (s *fileStore) Save(c *Canvas) (SaveResult, error) {
	var result SaveResult
	if dir := s.config.SaveDirectory; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, &IOError{Op: "create directory", Path: dir, Err: err}
		}
	}

	data, err := json.MarshalIndent(encodeDocument(c), "", "  ")
	if err != nil {
		return result, &IOError{Op: "encode", Path: c.Title, Err: err}
	}
	jsonPath := s.pathFor(c.Title, ".json")
	if err := os.WriteFile(jsonPath, append(data, '\n'), 0o644); err != nil {
		return result, &IOError{Op: "write", Path: jsonPath, Err: err}
	}
	result.Files = append(result.Files, jsonPath)

	grid, warn := RenderExport(c)
	result.Warning = warn
	txtPath := s.pathFor(c.Title, ".txt")
	if err := os.WriteFile(txtPath, []byte(grid.String()), 0o644); err != nil {
		return result, &IOError{Op: "write", Path: txtPath, Err: err}
	}
	result.Files = append(result.Files, txtPath)

	if s.config.ExportPNG && grid.Height() > 0 {
		pngPath := s.pathFor(c.Title, ".png")
		if err := exportPNG(grid, pngPath); err != nil {
			return result, &IOError{Op: "write", Path: pngPath, Err: err}
		}
		result.Files = append(result.Files, pngPath)
	}

	slog.Info("diagram saved", "title", c.Title, "files", len(result.Files))
	return result, nil
}

// Open loads the diagram saved under title.
func (s *fileStore) Open(title string) (*Canvas, error) {
	return Load(s.pathFor(title, ".json"))
}

// Load reads a state document and rebuilds the canvas from it. Cached paths
// in the document are ignored and every connection is routed again.
func Load(path string) (*Canvas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: path, Reason: "decode", Err: err}
	}
	return decodeDocument(path, doc)
}

func encodeDocument(c *Canvas) document {
	doc := document{
		Title:       c.Title,
		Nodes:       []nodeRecord{},
		Connections: []connectionRecord{},
		Viewport:    viewportRecord{X: c.Viewport.X, Y: c.Viewport.Y},
	}
	for _, n := range c.Nodes() {
		doc.Nodes = append(doc.Nodes, nodeRecord{
			ID:   n.ID,
			Kind: n.Kind.String(),
			X:    n.X,
			Y:    n.Y,
			W:    n.Width,
			H:    n.Height,
			Text: n.Text,
		})
	}
	for _, conn := range c.Connections() {
		doc.Connections = append(doc.Connections, connectionRecord{
			ID:     conn.ID,
			Source: conn.FromID,
			Target: conn.ToID,
			Arrow:  conn.Arrow,
			Path:   conn.Path,
		})
	}
	return doc
}

func decodeDocument(path string, doc document) (*Canvas, error) {
	c := NewCanvas(doc.Title)
	c.Viewport.X = doc.Viewport.X
	c.Viewport.Y = doc.Viewport.Y

	for i, rec := range doc.Nodes {
		kind, ok := parseNodeKind(rec.Kind)
		if !ok {
			return nil, formatErrorf(path, "node %d: unknown kind %q", rec.ID, rec.Kind)
		}
		if rec.ID <= 0 {
			return nil, formatErrorf(path, "node at index %d: invalid id %d", i, rec.ID)
		}
		if _, exists := c.nodes[rec.ID]; exists {
			return nil, formatErrorf(path, "duplicate node id %d", rec.ID)
		}
		if rec.W < minNodeWidth || rec.H < minNodeHeight {
			return nil, formatErrorf(path, "node %d: size %dx%d is below %dx%d", rec.ID, rec.W, rec.H, minNodeWidth, minNodeHeight)
		}
		c.insertNode(Node{
			ID:     rec.ID,
			Kind:   kind,
			X:      rec.X,
			Y:      rec.Y,
			Width:  rec.W,
			Height: rec.H,
			Text:   rec.Text,
		})
	}

	for i, rec := range doc.Connections {
		if rec.ID <= 0 {
			return nil, formatErrorf(path, "connection at index %d: invalid id %d", i, rec.ID)
		}
		if _, exists := c.connections[rec.ID]; exists {
			return nil, formatErrorf(path, "duplicate connection id %d", rec.ID)
		}
		if rec.Source == rec.Target {
			return nil, formatErrorf(path, "connection %d: node %d connects to itself", rec.ID, rec.Source)
		}
		if _, ok := c.nodes[rec.Source]; !ok {
			return nil, formatErrorf(path, "connection %d: unknown source node %d", rec.ID, rec.Source)
		}
		if _, ok := c.nodes[rec.Target]; !ok {
			return nil, formatErrorf(path, "connection %d: unknown target node %d", rec.ID, rec.Target)
		}
		conn := &Connection{ID: rec.ID, FromID: rec.Source, ToID: rec.Target, Arrow: rec.Arrow}
		c.routeConnection(conn)
		c.addConnection(conn)
	}

	if err := c.Check(); err != nil {
		return nil, &FormatError{Path: path, Reason: "inconsistent document", Err: err}
	}
	return c, nil
}

// openOrNew loads title from the store. A missing file yields an empty
// canvas silently; an unreadable or invalid one yields an empty canvas and
// the error so the caller can report it.
func openOrNew(s *fileStore, title string) (*Canvas, error) {
	c, err := s.Open(title)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return NewCanvas(title), nil
	}
	return NewCanvas(title), err
}

// fileBase turns a title into a file name, replacing path separators and
// characters most filesystems reject.
func fileBase(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 32 {
			return '_'
		}
		return r
	}, title)
}

func describeSave(result SaveResult) string {
	msg := fmt.Sprintf("Saved %s", strings.Join(result.Files, ", "))
	if result.Warning != nil {
		msg += " (" + result.Warning.Error() + ")"
	}
	return msg
}
