package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	g := Grammar{Fields: []string{"input", "root", "def"}, Separator: ";"}

	t.Run("plain record", func(t *testing.T) {
		record, err := g.ParseLine("input=fahren;root=fahren;def=to drive")
		require.NoError(t, err)
		assert.Equal(t, "fahren", record["input"])
		assert.Equal(t, "fahren", record["root"])
		assert.Equal(t, "to drive", record["def"])
	})

	t.Run("whitespace around separators", func(t *testing.T) {
		record, err := g.ParseLine("input=fahren; root=fahren; def=to drive")
		require.NoError(t, err)
		assert.Equal(t, "fahren", record["root"])
	})

	t.Run("separator inside a value", func(t *testing.T) {
		record, err := g.ParseLine("input=x;root=x;def=to drive; to ride; to travel")
		require.NoError(t, err)
		assert.Equal(t, "to drive; to ride; to travel", record["def"])
	})

	t.Run("separator inside a middle value", func(t *testing.T) {
		record, err := g.ParseLine("input=a; b;root=x;def=y")
		require.NoError(t, err)
		assert.Equal(t, "a; b", record["input"])
	})

	t.Run("wrong leading field", func(t *testing.T) {
		_, err := g.ParseLine("root=fahren;input=fahren;def=to drive")
		assert.ErrorContains(t, err, `"input"`)
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := g.ParseLine("input=fahren;def=to drive")
		assert.ErrorContains(t, err, `"root"`)
	})

	t.Run("empty value allowed", func(t *testing.T) {
		record, err := g.ParseLine("input=fahren;root=;def=to drive")
		require.NoError(t, err)
		assert.Equal(t, "", record["root"])
	})
}

func TestParseKeepsBatchOnBadLines(t *testing.T) {
	g := Grammar{Fields: []string{"a", "b"}, Separator: ";"}
	output := "a=1;b=2\n\nHere are your records:\na=3;b=4\n"

	records, unparsed := g.Parse(output)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0]["a"])
	assert.Equal(t, "3", records[1]["a"])

	require.Len(t, unparsed, 1)
	assert.Equal(t, 3, unparsed[0].LineNumber)
	assert.Equal(t, "Here are your records:", unparsed[0].Line)
	assert.NotEmpty(t, unparsed[0].Reason)
}

func TestGrammarInstructions(t *testing.T) {
	g := Grammar{Fields: []string{"input", "text", "ans"}, Separator: ";"}
	assert.Equal(t, "input=...;text=...;ans=...", g.Instructions())
}
