package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/observability"
	"github.com/matzehuels/expedition/pkg/wire"
)

// Output formats accepted by [Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed lists every scalar field in node labels.
	// When false, only the type and the first text field are shown.
	Detailed bool
}

type node struct {
	id     string
	label  string
	shared bool
}

type edge struct {
	from, to string
	label    string
	ref      bool
}

type graph struct {
	opts   Options
	nodes  []node
	edges  []edge
	tokens map[string]string // id token -> node id
	refs   []edge            // resolved after the walk
}

// ToDOT converts a deflated object tree to Graphviz DOT. Ownership edges
// are solid; edges to objects owned elsewhere ("@n" references) are
// dashed. Shared objects are highlighted and labelled with their token.
func ToDOT(tree any, opts Options) string {
	g := build(tree, opts)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.nodes {
		attrs := []string{fmt.Sprintf("label=%q", n.label)}
		if n.shared {
			attrs = append(attrs, "fillcolor=lightyellow")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", n.id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.edges {
		attrs := []string{fmt.Sprintf("label=%q", e.label)}
		if e.ref {
			attrs = append(attrs, "style=dashed", "color=grey40")
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", e.from, e.to, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Count returns the number of distinct objects in a deflated tree.
func Count(tree any) int {
	return len(build(tree, Options{}).nodes)
}

func build(tree any, opts Options) *graph {
	g := &graph{opts: opts, tokens: map[string]string{}}
	g.collect(tree)
	g.walk(tree, "", "")
	for _, r := range g.refs {
		if to, ok := g.tokens[r.to]; ok {
			r.to = to
			g.edges = append(g.edges, r)
		}
	}
	return g
}

// collect registers the id token of every object up front so references
// that appear before their definition still resolve.
func (g *graph) collect(v any) {
	switch v := v.(type) {
	case *wire.Map:
		if isObject(v) {
			if id, ok := v.Get(wire.KeyID); ok {
				if s, ok := id.(string); ok {
					g.tokens[s] = ""
				}
			}
		}
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			g.collect(child)
		}
	case []any:
		for _, item := range v {
			g.collect(item)
		}
	}
}

// walk visits v, which sits at label below the node parent.
func (g *graph) walk(v any, parent, label string) {
	switch v := v.(type) {
	case string:
		if _, known := g.tokens[v]; known && parent != "" && wire.IsRef(v) {
			g.refs = append(g.refs, edge{from: parent, to: v, label: label, ref: true})
		}
	case []any:
		for i, item := range v {
			g.walk(item, parent, fmt.Sprintf("%s[%d]", label, i))
		}
	case *wire.Map:
		switch {
		case isObject(v):
			id := g.addObject(v)
			if parent != "" {
				g.edges = append(g.edges, edge{from: parent, to: id, label: label})
			}
			fields := fieldsOf(v)
			for _, k := range fields.Keys() {
				child, _ := fields.Get(k)
				g.walk(child, id, k)
			}
		case isChoice(v):
			picked, _ := v.Get(wire.KeyPicked)
			obj, _ := v.Get(wire.KeyObject)
			if name, ok := picked.(string); ok {
				g.walk(obj, parent, label+"."+name)
			}
		default:
			for _, k := range v.Keys() {
				child, _ := v.Get(k)
				g.walk(child, parent, label+"."+k)
			}
		}
	}
}

func (g *graph) addObject(m *wire.Map) string {
	n := node{id: fmt.Sprintf("n%d", len(g.nodes))}
	typeName, _ := m.Get(wire.KeyType)
	header := fmt.Sprint(typeName)
	if id, ok := m.Get(wire.KeyID); ok {
		if token, ok := id.(string); ok {
			n.shared = true
			g.tokens[token] = n.id
			header += " " + token
		}
	}
	n.label = header + labelFields(fieldsOf(m), g.opts.Detailed)
	g.nodes = append(g.nodes, n)
	return n.id
}

func labelFields(fields *wire.Map, detailed bool) string {
	var lines []string
	for _, k := range fields.Keys() {
		v, _ := fields.Get(k)
		s, ok := scalar(v)
		if !ok {
			continue
		}
		if !detailed {
			if _, isText := v.(string); isText && !wire.IsRef(s) {
				return "\n" + s
			}
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", k, s))
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n" + strings.Join(lines, "\n")
}

func scalar(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

func isObject(m *wire.Map) bool {
	return m.Has(wire.KeyType) && m.Has(wire.KeyFields)
}

func isChoice(m *wire.Map) bool {
	return m.Len() == 2 && m.Has(wire.KeyPicked) && m.Has(wire.KeyObject)
}

func fieldsOf(m *wire.Map) *wire.Map {
	f, _ := m.Get(wire.KeyFields)
	fields, _ := f.(*wire.Map)
	return fields
}

// Render draws a deflated tree in the given format ("dot" or "svg") and
// reports the work to the render hooks.
func Render(ctx context.Context, tree any, format string, opts Options) ([]byte, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, format, Count(tree))
	start := time.Now()

	out, err := render(ctx, tree, format, opts)
	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	return out, err
}

func render(ctx context.Context, tree any, format string, opts Options) ([]byte, error) {
	dot := ToDOT(tree, opts)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
