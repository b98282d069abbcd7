// Command inspect-graph reads a CBOR+zstd graph file and prints its header,
// node-type histogram and edge-attribute histogram to stdout, grounded on
// original_source's export/cbor_export.py's inspect_cbor_graph (spec.md
// §6.5, SPEC_FULL.md §4.12).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/iqrah/graphkg/internal/codec"
	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/pkg/errors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("inspect-graph", flag.ContinueOnError)
	sampleSize := fs.Int("sample-size", 10, "number of sample nodes/edges to print")

	if err := fs.Parse(args); err != nil {
		return errors.ExitCode(fmt.Errorf("parsing flags: %w", err))
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect-graph [--sample-size N] <file.cbor.zst>")
		return 2
	}

	if err := inspect(fs.Arg(0), *sampleSize, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errors.ExitCode(err)
	}
	return 0
}

// inspect mirrors inspect_cbor_graph: a header readout, a node-type
// histogram keyed by each node's type (default "unknown"), an
// edge-attribute histogram counting how many edges carry each attribute
// key, and a sample of nodes/edges, all printed as one JSON document.
func inspect(path string, sampleSize int, w *os.File) error {
	result, err := codec.Import(path)
	if err != nil {
		return err
	}
	g := result.Graph

	report := struct {
		Header struct {
			NodeCount int            `json:"node_count"`
			EdgeCount int            `json:"edge_count"`
			Metadata  map[string]any `json:"metadata"`
		} `json:"header"`
		Warnings    []string       `json:"warnings,omitempty"`
		NodeTypes   map[string]int `json:"node_types"`
		EdgeAttrs   map[string]int `json:"edge_attrs"`
		SampleNodes []sampleNode   `json:"sample_nodes"`
		SampleEdges []sampleEdge   `json:"sample_edges"`
	}{}

	report.Header.NodeCount = g.NodeCount()
	report.Header.EdgeCount = g.EdgeCount()
	report.Header.Metadata = result.Metadata
	report.Warnings = result.Warnings
	report.NodeTypes = nodeTypeHistogram(g)
	report.EdgeAttrs = edgeAttrHistogram(g)
	report.SampleNodes = sampleNodes(g, sampleSize)
	report.SampleEdges = sampleEdges(g, sampleSize)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func nodeTypeHistogram(g *graph.Graph) map[string]int {
	hist := make(map[string]int)
	for _, n := range g.Nodes() {
		typ := string(n.Type)
		if typ == "" {
			typ = "unknown"
		}
		hist[typ]++
	}
	return hist
}

// edgeAttrHistogram counts, per edge, each attribute KEY present — how
// many edges carry that key, not a histogram of the key's values.
func edgeAttrHistogram(g *graph.Graph) map[string]int {
	hist := make(map[string]int)
	for _, e := range g.Edges() {
		for k := range e.Attrs {
			hist[k]++
		}
	}
	return hist
}

type sampleNode struct {
	ID   string         `json:"id"`
	Type string         `json:"type"`
	Attr map[string]any `json:"attrs"`
}

type sampleEdge struct {
	From string         `json:"from"`
	To   string         `json:"to"`
	Type string         `json:"type"`
	Attr map[string]any `json:"attrs"`
}

func sampleNodes(g *graph.Graph, n int) []sampleNode {
	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	if n > len(nodes) {
		n = len(nodes)
	}
	out := make([]sampleNode, 0, n)
	for _, nd := range nodes[:n] {
		out = append(out, sampleNode{ID: nd.ID, Type: string(nd.Type), Attr: nd.Attrs})
	}
	return out
}

func sampleEdges(g *graph.Graph, n int) []sampleEdge {
	edges := g.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	if n > len(edges) {
		n = len(edges)
	}
	out := make([]sampleEdge, 0, n)
	for _, e := range edges[:n] {
		out = append(out, sampleEdge{From: e.From, To: e.To, Type: string(e.Type), Attr: e.Attrs})
	}
	return out
}
