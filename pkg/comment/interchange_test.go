package comment

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComment() *Comment {
	coherence := 0.5

	return &Comment{
		ID:                      3,
		Path:                    "src/app/User.java",
		Position:                Position{Line: 12, Column: 5},
		Type:                    TypeFunction,
		Text:                    "Returns the user name,\nor \"anonymous\".",
		Handle:                  "getUserName",
		CodeLanguage:            "Java",
		ProcessedText:           "Returns the user name, or \"anonymous\".",
		Words:                   []string{"returns", "the", "user", "name", "or", "anonymous"},
		ComplexWords:            []string{"anonymous"},
		Sentences:               []string{"Returns the user name, or \"anonymous\"."},
		Syllables:               []string{"re", "turns", "the", "u", "ser", "na", "me"},
		Label:                   "summary",
		LabelProbability:        0.82,
		FleschKincaidGradeLevel: 3.5,
		FleschReadingEaseLevel:  78.25,
		FogIndex:                9.1,
		Abbreviations:           []string{},
		CoherenceCoefficient:    &coherence,
		Language:                "en",
		LanguageProbability:     0.97,
		Synonyms:                map[string][]string{"name": {"title"}},
		TimeMillis:              1.25,
	}
}

func TestWriteReadComments_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	orig := sampleComment()
	require.NoError(t, WriteComments(&buf, []*Comment{orig}))

	got, err := ReadComments(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, orig, got[0])
}

func TestWriteReadComments_NilCoherence(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	c := sampleComment()
	c.CoherenceCoefficient = nil
	c.Synonyms = nil
	c.Abbreviations = nil

	require.NoError(t, WriteComments(&buf, []*Comment{c}))

	got, err := ReadComments(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Nil(t, got[0].CoherenceCoefficient)
	assert.Empty(t, got[0].Synonyms)
	assert.NotNil(t, got[0].Synonyms)
	assert.Empty(t, got[0].Abbreviations)
}

func TestWriteComments_HeaderOrder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, WriteComments(&buf, nil))

	firstLine, _, _ := strings.Cut(buf.String(), "\n")
	assert.Equal(t, strings.Join(CommentsHeader, ","), firstLine)
	assert.True(t, strings.HasPrefix(firstLine, "id,path,position,type,handle,text"))
}

func TestReadComments_HeaderMismatch(t *testing.T) {
	t.Parallel()

	_, err := ReadComments(strings.NewReader("id,path\n1,a.java\n"))
	require.ErrorIs(t, err, ErrHeaderMismatch)
}

func TestReadComments_InvalidType(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	c := sampleComment()
	c.Type = "struct"

	require.NoError(t, WriteComments(&buf, []*Comment{c}))

	_, err := ReadComments(&buf)
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestWriteReadMissing_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	missing := []MissingComment{
		{Path: "src/a.c", Position: HeaderPosition, Type: TypeHeader},
		{Path: "src/a.c", Position: Position{Line: 10, Column: 1}, Handle: "main", Type: TypeFunction},
	}

	require.NoError(t, WriteMissing(&buf, missing))

	got, err := ReadMissing(&buf)
	require.NoError(t, err)
	assert.Equal(t, missing, got)
}

func TestParsePosition(t *testing.T) {
	t.Parallel()

	pos, err := ParsePosition("7:3")
	require.NoError(t, err)
	assert.Equal(t, Position{Line: 7, Column: 3}, pos)
	assert.Equal(t, "7:3", pos.String())

	for _, bad := range []string{"", "7", "a:3", "7:b"} {
		_, err = ParsePosition(bad)
		require.ErrorIs(t, err, ErrInvalidPosition, bad)
	}
}

func TestTypeValid(t *testing.T) {
	t.Parallel()

	for _, typ := range Types {
		assert.True(t, typ.Valid())
	}

	assert.False(t, Type("method").Valid())
}

func TestPosition_TextRoundTrip(t *testing.T) {
	t.Parallel()

	text, err := Position{Line: 4, Column: 9}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "4:9", string(text))

	var pos Position
	require.NoError(t, pos.UnmarshalText(text))
	assert.Equal(t, Position{Line: 4, Column: 9}, pos)
	require.ErrorIs(t, pos.UnmarshalText([]byte("x")), ErrInvalidPosition)
}
