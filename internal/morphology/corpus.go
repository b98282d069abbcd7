package morphology

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// Corpus is a deterministic, ordered collection of morphology segments
// parsed from a tab-delimited dump, indexed for O(1) single-word lookup.
type Corpus struct {
	segments []Segment
	byWord   map[[3]int][]int // (chapter,verse,word) -> indices into segments, in source order
}

// LoadFile parses the morphology TSV at path.
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.Missing("morphology file not found: %s", path)
		}
		return nil, pkgerrors.IO("opening morphology file", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses the morphology TSV from r. The first line is a header and is
// discarded; each subsequent line has four tab-separated columns:
// LOCATION \t FORM \t POS \t FEATURES.
func Load(r io.Reader) (*Corpus, error) {
	c := &Corpus{byWord: make(map[[3]int][]int)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue // header
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != 4 {
			return nil, pkgerrors.Malformed("morphology line %d: expected 4 tab-separated columns, got %d", lineNo, len(cols))
		}
		seg, err := parseSegment(cols, lineNo)
		if err != nil {
			return nil, err
		}
		idx := len(c.segments)
		c.segments = append(c.segments, seg)
		key := [3]int{seg.Location[0], seg.Location[1], seg.Location[2]}
		c.byWord[key] = append(c.byWord[key], idx)
	}
	if err := scanner.Err(); err != nil {
		return nil, pkgerrors.IO("reading morphology stream", err)
	}
	return c, nil
}

func parseSegment(cols []string, lineNo int) (Segment, error) {
	loc, err := parseLocation(cols[0], lineNo)
	if err != nil {
		return Segment{}, err
	}

	features, flags := parseFeatures(cols[3])

	segType := classifySegment(flags, features)
	pos := parsePOS(cols[2])
	gram := determineGrammaticalFeatures(flags, features)

	return Segment{
		Location:            loc,
		Text:                cols[1],
		SegmentType:         segType,
		POS:                 pos,
		Root:                features["ROOT"],
		Lemma:               features["LEM"],
		GrammaticalFeatures: gram,
	}, nil
}

func parseLocation(s string, lineNo int) (Location, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return Location{}, pkgerrors.Malformed("morphology line %d: invalid location %q, expected ch:v:w:s", lineNo, s)
	}
	var loc Location
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return Location{}, pkgerrors.Malformed("morphology line %d: invalid location field %q in %q", lineNo, p, s)
		}
		loc[i] = n
	}
	return loc, nil
}

// parseFeatures splits the '|'-separated feature string into a KEY:VALUE
// dict and a presence set of bare flags (matching the Python
// _parse_features, which treats every token as a dict entry keyed by its
// first ':'-segment, with a nil value for bare tokens).
func parseFeatures(s string) (map[string]string, map[string]struct{}) {
	dict := make(map[string]string)
	flags := make(map[string]struct{})
	if s == "" {
		return dict, flags
	}
	for _, tok := range strings.Split(s, "|") {
		if tok == "" {
			continue
		}
		if key, val, ok := strings.Cut(tok, ":"); ok {
			dict[key] = val
			flags[key] = struct{}{}
		} else {
			flags[tok] = struct{}{}
		}
	}
	return dict, flags
}

// classifySegment applies the first-matching-wins priority order from
// spec.md §4.2 / morphology/corpus.py._determine_segment_type.
func classifySegment(flags map[string]struct{}, features map[string]string) SegmentType {
	switch {
	case has(flags, "PREF"):
		return Prefix
	case has(flags, "SUFF"):
		return Suffix
	case has(flags, "ROOT"):
		return RootSeg
	case has(flags, "PRON"):
		return Pronoun
	case has(flags, "LEM"):
		return LemmaSeg
	case has(flags, "INL"):
		return Inlaid
	default:
		return Unknown
	}
}

func has(flags map[string]struct{}, key string) bool {
	_, ok := flags[key]
	return ok
}

func determineGrammaticalFeatures(flags map[string]struct{}, _ map[string]string) map[GrammaticalFeature]struct{} {
	out := make(map[GrammaticalFeature]struct{})
	for code, feature := range featureMapping {
		if has(flags, code) {
			out[feature] = struct{}{}
		}
	}
	if !has(flags, "PASS") {
		out[Active] = struct{}{}
	}
	return out
}

// Len returns the total segment count.
func (c *Corpus) Len() int { return len(c.segments) }

// Segments returns all segments in source order. The slice must not be
// mutated by callers.
func (c *Corpus) Segments() []Segment { return c.segments }

// Roots returns only segments whose SegmentType is ROOT, in source order.
func (c *Corpus) Roots() []Segment {
	var out []Segment
	for _, s := range c.segments {
		if s.SegmentType == RootSeg {
			out = append(out, s)
		}
	}
	return out
}

// Get returns the single segment at the exact 4-tuple location.
func (c *Corpus) Get(chapter, verse, word, segment int) (Segment, bool) {
	for _, idx := range c.byWord[[3]int{chapter, verse, word}] {
		if c.segments[idx].Location[3] == segment {
			return c.segments[idx], true
		}
	}
	return Segment{}, false
}

// Word returns all segments for the (chapter, verse, word) triple, in
// source order, via the pre-built index — O(segments of that word) after
// the one-pass O(n) index built at Load time.
func (c *Corpus) Word(chapter, verse, word int) []Segment {
	idxs := c.byWord[[3]int{chapter, verse, word}]
	out := make([]Segment, len(idxs))
	for i, idx := range idxs {
		out[i] = c.segments[idx]
	}
	return out
}

// Dim is one dimension of a multi-dimensional slice query: either an exact
// index (Exact) or an inclusive range (RangeDim). The zero-value Dim (All)
// and RangeDim(0, 0) both mean "all values for this dimension".
type Dim struct {
	exact    bool
	value    int
	lo, hi   int
	isRanged bool
}

// Exact pins a dimension to a single value.
func Exact(v int) Dim { return Dim{exact: true, value: v} }

// All matches every value of a dimension.
func All() Dim { return Dim{} }

// RangeDim matches values in [lo, hi] inclusive. lo == 0 means "from the
// start"; hi == 0 means "to the observed maximum", mirroring the Python
// slice(None, None) defaulting behavior.
func RangeDim(lo, hi int) Dim { return Dim{lo: lo, hi: hi, isRanged: true} }

// Slice applies up to 4 per-dimension filters (chapter, verse, word,
// segment) over the corpus and returns the deterministic ordered subset,
// exactly mirroring source ordering. Dimensions beyond len(dims) are left
// unconstrained.
func (c *Corpus) Slice(dims ...Dim) []Segment {
	result := append([]Segment(nil), c.segments...)

	for dim, d := range dims {
		if dim >= 4 {
			break
		}
		if len(result) == 0 {
			return result
		}
		if d.exact {
			filtered := result[:0:0]
			for _, seg := range result {
				if seg.Location[dim] == d.value {
					filtered = append(filtered, seg)
				}
			}
			result = filtered
			continue
		}
		if !d.isRanged {
			continue // All(): no constraint
		}
		lo := d.lo
		if lo == 0 {
			lo = 1
		}
		hi := d.hi
		if hi == 0 {
			hi = maxInDim(result, dim)
		}
		filtered := result[:0:0]
		for _, seg := range result {
			if seg.Location[dim] >= lo && seg.Location[dim] <= hi {
				filtered = append(filtered, seg)
			}
		}
		result = filtered
	}
	return result
}

func maxInDim(segs []Segment, dim int) int {
	m := 0
	for _, s := range segs {
		if s.Location[dim] > m {
			m = s.Location[dim]
		}
	}
	return m
}
