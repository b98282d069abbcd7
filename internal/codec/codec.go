// Package codec implements the CBOR+zstd graph serialization format
// (spec.md §4.10/§6.3), grounded on original_source's
// export/cbor_export.py. Libraries: github.com/fxamacker/cbor/v2 for the
// record encoding, github.com/klauspost/compress/zstd for the streaming
// compressor/decompressor — both present in the pack's manifests, adopted
// since stdlib offers neither CBOR nor zstd.
package codec

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/iqrah/graphkg/internal/graph"
	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

const (
	formatVersion = 2
	formatName    = "structure_only"
)

// structuralAttributes is the export whitelist from spec.md §4.10: every
// other node/edge attribute key (the Arabic text, translations,
// transliterations the content store owns) is dropped.
var structuralAttributes = map[string]struct{}{
	"type": {}, "verse_key": {}, "chapter_number": {}, "verse_number": {},
	"position": {}, "word_key": {}, "foundational_score": {}, "influence_score": {},
	"knowledge_axis": {}, "dist": {}, "m": {}, "s": {}, "a": {}, "b": {},
	"weight": {}, "knowledge_type": {},
}

func filterStructural(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if _, ok := structuralAttributes[k]; ok || strings.HasSuffix(k, "_score") {
			out[k] = v
		}
	}
	return out
}

type graphMeta struct {
	Directed  bool `cbor:"directed"`
	Multi     bool `cbor:"multi"`
	NodeCount int  `cbor:"node_count"`
	EdgeCount int  `cbor:"edge_count"`
}

type header struct {
	V         int            `cbor:"v"`
	Format    string         `cbor:"format"`
	CreatedAt string         `cbor:"created_at"`
	Graph     graphMeta      `cbor:"graph"`
	Metadata  map[string]any `cbor:"metadata"`
}

type nodeRecord struct {
	T  string         `cbor:"t"`
	ID string         `cbor:"id"`
	A  map[string]any `cbor:"a"`
}

type edgeRecord struct {
	T string         `cbor:"t"`
	U string         `cbor:"u"`
	V string         `cbor:"v"`
	A map[string]any `cbor:"a"`
}

// zstdLevelFromCompressionLevel maps the spec's 1-22 zstd compression
// level knob onto klauspost's four-tier EncoderLevel.
func zstdLevelFromCompressionLevel(level int) zstd.EncoderLevel {
	return zstd.EncoderLevelFromZstd(level)
}

// Export streams g to path as a zstd-compressed sequence of CBOR records:
// one header, g.NodeCount() node records, then g.EdgeCount() edge
// records. An empty graph is rejected outright; any I/O or encoding
// failure deletes the partial output file before returning.
func Export(g *graph.Graph, path string, compressionLevel int, graphMetadata map[string]any) (err error) {
	if g.NodeCount() == 0 {
		return pkgerrors.Invariant("cannot export empty graph")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return pkgerrors.IO("cannot create output directory for "+path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return pkgerrors.IO("cannot create output file "+path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(path)
		}
	}()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstdLevelFromCompressionLevel(compressionLevel)))
	if err != nil {
		return pkgerrors.IO("cannot initialize zstd compressor", err)
	}
	defer func() {
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	}()

	enc := cbor.NewEncoder(zw)

	h := header{
		V:         formatVersion,
		Format:    formatName,
		CreatedAt: time.Now().Format(time.RFC3339),
		Graph: graphMeta{
			Directed:  true,
			Multi:     false,
			NodeCount: g.NodeCount(),
			EdgeCount: g.EdgeCount(),
		},
		Metadata: graphMetadata,
	}
	if h.Metadata == nil {
		h.Metadata = map[string]any{}
	}
	if err = enc.Encode(h); err != nil {
		return pkgerrors.IO("cannot write header record", err)
	}

	for _, nd := range g.Nodes() {
		attrs := filterStructural(nd.Attrs)
		attrs["type"] = string(nd.Type)
		if err = enc.Encode(nodeRecord{T: "node", ID: nd.ID, A: attrs}); err != nil {
			return pkgerrors.IO("cannot write node record for "+nd.ID, err)
		}
	}

	for _, e := range g.Edges() {
		attrs := filterStructural(e.Attrs)
		attrs["type"] = string(e.Type)
		if err = enc.Encode(edgeRecord{T: "edge", U: e.From, V: e.To, A: attrs}); err != nil {
			return pkgerrors.IO("cannot write edge record for "+e.From+"->"+e.To, err)
		}
	}

	return nil
}

// ImportResult carries the reconstructed graph plus any non-fatal
// discrepancies observed while reading (spec.md §4.10: a count mismatch
// is a warning, not a fatal error).
type ImportResult struct {
	Graph    *graph.Graph
	Metadata map[string]any
	Warnings []string
}

// Import reads a file written by Export and reconstructs the graph.
func Import(path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.IO("cannot open graph file "+path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, pkgerrors.IO("cannot initialize zstd decompressor", err)
	}
	defer zr.Close()

	dec := cbor.NewDecoder(zr)

	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, pkgerrors.Malformed("cannot decode header record: %v", err)
	}

	result := &ImportResult{Graph: graph.New(), Metadata: h.Metadata}

	nodesRead := 0
	for nodesRead < h.Graph.NodeCount {
		var rec nodeRecord
		if derr := dec.Decode(&rec); derr != nil {
			if errors.Is(derr, io.EOF) {
				break
			}
			return nil, pkgerrors.Malformed("cannot decode node record %d: %v", nodesRead, derr)
		}
		typ, _ := rec.A["type"].(string)
		if _, err := result.Graph.AddNode(rec.ID, graph.NodeType(typ), rec.A); err != nil {
			return nil, err
		}
		nodesRead++
	}
	if nodesRead != h.Graph.NodeCount {
		result.Warnings = append(result.Warnings, "node count mismatch: header declared "+
			itoa(h.Graph.NodeCount)+", read "+itoa(nodesRead))
	}

	edgesRead := 0
	for edgesRead < h.Graph.EdgeCount {
		var rec edgeRecord
		if derr := dec.Decode(&rec); derr != nil {
			if errors.Is(derr, io.EOF) {
				break
			}
			return nil, pkgerrors.Malformed("cannot decode edge record %d: %v", edgesRead, derr)
		}
		typ, _ := rec.A["type"].(string)
		edgeType := graph.Dependency
		if typ == string(graph.Knowledge) {
			edgeType = graph.Knowledge
		}
		if _, err := result.Graph.AddEdge(rec.U, rec.V, edgeType, rec.A); err != nil {
			return nil, err
		}
		edgesRead++
	}
	if edgesRead != h.Graph.EdgeCount {
		result.Warnings = append(result.Warnings, "edge count mismatch: header declared "+
			itoa(h.Graph.EdgeCount)+", read "+itoa(edgesRead))
	}

	return result, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
