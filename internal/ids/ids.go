// Package ids implements the canonical node-identifier codec (spec.md
// §3.1/§4.1): colon-delimited strings with a fixed prefix token, grounded on
// original_source's NodeIdentifierGenerator/NodeIdentifierParser.
package ids

import (
	"strconv"
	"strings"

	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// Kind is the closed set of structural node kinds plus the "knowledge"
// kind for axis sub-nodes.
type Kind string

const (
	Chapter      Kind = "CHAPTER"
	Verse        Kind = "VERSE"
	WordInstance Kind = "WORD_INSTANCE"
	Word         Kind = "WORD"
	Lemma        Kind = "LEMMA"
	Root         Kind = "ROOT"
	Stem         Kind = "STEM"
	Knowledge    Kind = "KNOWLEDGE"
)

const sep = ":"

// ChapterID builds CHAPTER:<n>.
func ChapterID(n int) string { return string(Chapter) + sep + strconv.Itoa(n) }

// VerseID builds VERSE:<chapter>:<verse>.
func VerseID(chapter, verse int) string {
	return string(Verse) + sep + strconv.Itoa(chapter) + sep + strconv.Itoa(verse)
}

// VerseIDFromKey builds VERSE:<key> from an already-formed "chapter:verse" key.
func VerseIDFromKey(key string) string { return string(Verse) + sep + key }

// WordInstanceID builds WORD_INSTANCE:<chapter>:<verse>:<position>.
func WordInstanceID(chapter, verse, position int) string {
	return string(WordInstance) + sep + strconv.Itoa(chapter) + sep + strconv.Itoa(verse) + sep + strconv.Itoa(position)
}

// WordID builds WORD:<arabic>.
func WordID(text string) string { return string(Word) + sep + text }

// LemmaID builds LEMMA:<arabic>.
func LemmaID(lemma string) string { return string(Lemma) + sep + lemma }

// RootID builds ROOT:<arabic>.
func RootID(root string) string { return string(Root) + sep + root }

// StemID builds STEM:<arabic>.
func StemID(stem string) string { return string(Stem) + sep + stem }

// KnowledgeID builds <parent-id>:<axis>.
func KnowledgeID(parentID string, axis string) string { return parentID + sep + axis }

// Decoded is the result of parsing a node id: its kind and the raw payload
// tail (everything after the first ':').
type Decoded struct {
	Kind    Kind
	Payload string
}

var kindsByPrefix = map[string]Kind{
	"CHAPTER":       Chapter,
	"VERSE":         Verse,
	"WORD_INSTANCE": WordInstance,
	"WORD":          Word,
	"LEMMA":         Lemma,
	"ROOT":          Root,
	"STEM":          Stem,
}

// Decode splits a node id into its kind and payload, validating arity and
// numeric fields for structural kinds. Knowledge sub-node ids (a valid
// structural id followed by ":<axis>" with a known axis name) decode as
// Kind = Knowledge with the full id as payload, as does any id whose prefix
// is not one of the seven structural kinds; callers resolve the axis/parent
// split themselves.
func Decode(id string) (Decoded, error) {
	prefix, rest, found := strings.Cut(id, sep)
	if !found {
		return Decoded{}, pkgerrors.Malformed("invalid node id %q: missing ':' separator", id)
	}

	kind, ok := kindsByPrefix[prefix]
	if !ok {
		return Decoded{Kind: Knowledge, Payload: id}, nil
	}

	if i := strings.LastIndex(id, sep); i > len(prefix) {
		switch id[i+1:] {
		case "memorization", "translation", "tafsir", "tajweed", "contextual_memorization", "meaning":
			if _, err := Decode(id[:i]); err == nil {
				return Decoded{Kind: Knowledge, Payload: id}, nil
			}
		}
	}

	switch kind {
	case Chapter:
		if err := requireInt(rest, id); err != nil {
			return Decoded{}, err
		}
	case Verse:
		parts := strings.Split(rest, sep)
		if len(parts) != 2 {
			return Decoded{}, pkgerrors.Malformed("invalid VERSE id %q: expected chapter:verse", id)
		}
		if err := requireInts(parts, id); err != nil {
			return Decoded{}, err
		}
	case WordInstance:
		parts := strings.Split(rest, sep)
		if len(parts) != 3 {
			return Decoded{}, pkgerrors.Malformed("invalid WORD_INSTANCE id %q: expected chapter:verse:position", id)
		}
		if err := requireInts(parts, id); err != nil {
			return Decoded{}, err
		}
	case Word, Lemma, Root, Stem:
		if rest == "" {
			return Decoded{}, pkgerrors.Malformed("invalid %s id %q: empty payload", kind, id)
		}
	}

	return Decoded{Kind: kind, Payload: rest}, nil
}

func requireInt(s, id string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return pkgerrors.Malformed("invalid numeric field %q in id %q", s, id)
	}
	return nil
}

func requireInts(parts []string, id string) error {
	for _, p := range parts {
		if err := requireInt(p, id); err != nil {
			return err
		}
	}
	return nil
}

// ChapterKey extracts the chapter key from a CHAPTER id.
func ChapterKey(id string) (string, error) {
	d, err := Decode(id)
	if err != nil {
		return "", err
	}
	if d.Kind != Chapter {
		return "", pkgerrors.Malformed("cannot extract chapter key from %s id %q", d.Kind, id)
	}
	return d.Payload, nil
}

// VerseKey extracts the "chapter:verse" key from a VERSE or WORD_INSTANCE id.
func VerseKey(id string) (string, error) {
	d, err := Decode(id)
	if err != nil {
		return "", err
	}
	switch d.Kind {
	case Verse:
		return d.Payload, nil
	case WordInstance:
		parts := strings.Split(d.Payload, sep)
		return parts[0] + sep + parts[1], nil
	default:
		return "", pkgerrors.Malformed("cannot extract verse key from %s id %q", d.Kind, id)
	}
}

// WordInstanceKey extracts the "chapter:verse:position" key from a
// WORD_INSTANCE id.
func WordInstanceKey(id string) (string, error) {
	d, err := Decode(id)
	if err != nil {
		return "", err
	}
	if d.Kind != WordInstance {
		return "", pkgerrors.Malformed("cannot extract word instance key from %s id %q", d.Kind, id)
	}
	return d.Payload, nil
}
