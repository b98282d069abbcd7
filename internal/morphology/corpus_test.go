package morphology

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

const sampleTSV = "LOCATION\tFORM\tTAG\tFEATURES\n" +
	"1:1:1:1\tبِسْمِ\tP\tPREF\n" +
	"1:1:1:2\tٱسْمِ\tN\tROOT:سمو|LEM:اسم|M|GEN\n" +
	"1:1:2:1\tٱللَّهِ\tPN\tROOT:اله|LEM:الله|GEN\n" +
	"1:1:3:1\tٱلرَّحْمَٰنِ\tADJ\tROOT:رحم|LEM:رحمن|GEN\n"

func load(t *testing.T) *Corpus {
	t.Helper()
	c, err := Load(strings.NewReader(sampleTSV))
	require.NoError(t, err)
	return c
}

func TestLoadParsesAllRows(t *testing.T) {
	c := load(t)
	assert.Equal(t, 4, c.Len())
}

func TestSegmentClassificationPriority(t *testing.T) {
	c := load(t)
	segs := c.Word(1, 1, 1)
	require.Len(t, segs, 2)
	assert.Equal(t, Prefix, segs[0].SegmentType)
	assert.Equal(t, RootSeg, segs[1].SegmentType)
	assert.Equal(t, "سمو", segs[1].Root)
	assert.Equal(t, "اسم", segs[1].Lemma)
}

func TestVoiceDefaultsToActiveWithoutPassive(t *testing.T) {
	c := load(t)
	seg, ok := c.Get(1, 1, 1, 2)
	require.True(t, ok)
	assert.True(t, seg.HasFeature(Active))
	assert.False(t, seg.HasFeature(Passive))
}

func TestGetExactLocation(t *testing.T) {
	c := load(t)
	seg, ok := c.Get(1, 1, 2, 1)
	require.True(t, ok)
	assert.Equal(t, "ٱللَّهِ", seg.Text)

	_, ok = c.Get(1, 1, 99, 1)
	assert.False(t, ok)
}

func TestSliceByWordAllSegments(t *testing.T) {
	c := load(t)
	segs := c.Slice(Exact(1), Exact(1), Exact(1), All())
	assert.Len(t, segs, 2)
}

func TestSliceRangeOverWords(t *testing.T) {
	c := load(t)
	segs := c.Slice(Exact(1), Exact(1), RangeDim(2, 3))
	assert.Len(t, segs, 2)
}

func TestRootsIteration(t *testing.T) {
	c := load(t)
	roots := c.Roots()
	for _, s := range roots {
		assert.Equal(t, RootSeg, s.SegmentType)
	}
}

func TestLoadRejectsMalformedLocation(t *testing.T) {
	_, err := Load(strings.NewReader("LOCATION\tFORM\tTAG\tFEATURES\nbad\tx\tN\tROOT:a\n"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsMalformed(err))
}
