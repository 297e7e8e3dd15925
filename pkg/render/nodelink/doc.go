// Package nodelink renders object graphs as node-link diagrams.
//
// # Overview
//
// The input is a deflated tree as produced by [codec.Deflate]: every object
// becomes a box, every owning field an arrow labelled with the field path.
// Objects that are referenced from more than one place carry an id token
// in the tree; they are highlighted and the references to them are drawn
// as dashed arrows, so the diagram shows exactly which parts of a document
// are shared.
//
// # Usage
//
//	tree := codec.DeflateObject(exp)
//	dot := nodelink.ToDOT(tree, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [Render] combines both steps and reports to the [observability] render
// hooks.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
