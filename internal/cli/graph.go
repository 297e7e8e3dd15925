package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/expedition/pkg/cache"
	"github.com/matzehuels/expedition/pkg/codec"
	"github.com/matzehuels/expedition/pkg/render/nodelink"
	"github.com/matzehuels/expedition/pkg/wire"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output file; empty writes to stdout
	format   string // "dot" or "svg"
	detailed bool   // list every scalar field in node labels
	noCache  bool   // bypass the render cache
}

// graphCommand draws the object graph of a document.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: nodelink.FormatSVG}

	cmd := &cobra.Command{
		Use:   "graph <document>",
		Short: "Draw the object graph of a document",
		Long: `Draw the object graph of a document as Graphviz DOT or SVG.

Every object is a box. Shared objects (stored once and referenced by id)
are highlighted, and references to them are drawn dashed. Rendered output
is cached by document hash.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != nodelink.FormatDOT && opts.format != nodelink.FormatSVG {
				return invalidInput("--format must be dot or svg, got %q", opts.format)
			}
			if opts.output == "" && opts.format == nodelink.FormatSVG {
				opts.output = defaultGraphOutput(args[0])
			}
			return c.runGraph(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <document>.svg; stdout for dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show every field in node labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render even if a cached result exists")

	return cmd
}

func defaultGraphOutput(ref string) string {
	base := filepath.Base(ref)
	return base[:len(base)-len(filepath.Ext(base))] + ".svg"
}

func (c *CLI) runGraph(ctx context.Context, cmd *cobra.Command, ref string, opts graphOpts) error {
	data, err := c.raw(ctx, ref)
	if err != nil {
		return err
	}
	// Render what the schema sees: inflate, then deflate.
	doc, err := c.load(ctx, ref)
	if err != nil {
		return err
	}
	tree := codec.DeflateObject(doc.exp)

	rc, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer rc.Close()

	key := cache.NewDefaultKeyer().RenderKey(cache.Hash(data), cache.RenderKeyOpts{
		Format:   opts.format,
		Detailed: opts.detailed,
	})

	// SVG goes through Graphviz and can take a moment; DOT is immediate.
	var spinner *Spinner
	if opts.format == nodelink.FormatSVG {
		spinner = startSpinner(ctx, os.Stderr, "Rendering "+ref+"...")
	}
	out, cached, err := cache.GetOrSet(ctx, rc, "render", key, 0, func() ([]byte, error) {
		return nodelink.Render(ctx, tree, opts.format, nodelink.Options{Detailed: opts.detailed})
	})
	if err != nil {
		spinner.StopWithError("Rendering %s failed", ref)
		return err
	}

	if opts.output == "" {
		spinner.Stop()
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		spinner.StopWithError("Rendering %s failed", ref)
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	spinner.StopWithSuccess("Rendered %s", StyleHighlight.Render(ref))
	printFile(opts.output)
	printStats(nodelink.Count(tree), countShared(tree), cached)
	return nil
}

// countShared counts the objects that carry an id.
func countShared(v any) int {
	n := 0
	switch v := v.(type) {
	case *wire.Map:
		if v.Has(wire.KeyID) && v.Has(wire.KeyType) {
			n++
		}
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			n += countShared(child)
		}
	case []any:
		for _, item := range v {
			n += countShared(item)
		}
	}
	return n
}
