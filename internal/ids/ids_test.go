package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []string{
		ChapterID(1),
		VerseID(1, 7),
		WordInstanceID(2, 255, 3),
		WordID("الله"),
		LemmaID("حمد"),
		RootID("ح م د"),
		StemID("كتاب"),
	}
	for _, id := range cases {
		_, err := Decode(id)
		assert.NoError(t, err, "id=%s", id)
	}
}

func TestDecodeKnowledgeSubNodeAsKnowledge(t *testing.T) {
	d, err := Decode(VerseID(1, 1) + ":memorization")
	require.NoError(t, err)
	assert.Equal(t, Knowledge, d.Kind)
}

func TestDecodeRejectsMissingSeparator(t *testing.T) {
	_, err := Decode("nocolon")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.InputMalformed, pkgerrors.KindOf(err))
}

func TestDecodeRejectsNonIntegerField(t *testing.T) {
	_, err := Decode("CHAPTER:abc")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsMalformed(err))
}

func TestDecodeRejectsWrongArity(t *testing.T) {
	_, err := Decode("VERSE:1:2:3")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsMalformed(err))
}

func TestVerseKeyFromWordInstance(t *testing.T) {
	key, err := VerseKey(WordInstanceID(2, 255, 3))
	require.NoError(t, err)
	assert.Equal(t, "2:255", key)
}

func TestChapterKey(t *testing.T) {
	key, err := ChapterKey(ChapterID(1))
	require.NoError(t, err)
	assert.Equal(t, "1", key)
}

func TestWordInstanceKey(t *testing.T) {
	key, err := WordInstanceKey(WordInstanceID(2, 255, 3))
	require.NoError(t, err)
	assert.Equal(t, "2:255:3", key)
}
