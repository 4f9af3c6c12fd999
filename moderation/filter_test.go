package moderation

import (
	"log/slog"
	"testing"
	"testing/fstest"

	"workspace-chat/errors"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)

	// Given two dictionaries sharing a word and a non dictionary file
	fsys := fstest.MapFS{
		"words/en.txt":    {Data: []byte("badger\r\nsnake\n\n# comment\n")},
		"words/fr.txt":    {Data: []byte("blaireau\nbadger\n")},
		"words/README.md": {Data: []byte("ignored")},
	}

	data, err := NewCensoredLoader(fsys).LoadAll("words")
	req.NoError(err)

	// Then words are merged, trimmed and sorted
	req.Equal([]string{"badger", "blaireau", "snake"}, data.Words)
	req.Equal([]string{"en", "fr"}, data.Languages)
}

func TestCensoredLoader_Empty(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{"words/en.txt": {Data: []byte("\n  \n")}}

	_, err := NewCensoredLoader(fsys).LoadAll("words")
	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestCensoredLoader_Embedded_Dictionaries(t *testing.T) {
	req := require.New(t)

	data, err := NewCensoredLoader(Dictionaries).LoadAll(DictionaryDir)
	req.NoError(err)
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)
	req.Contains(data.Words, "idiot")
}

func TestFilter_Censors_And_Detects_Language(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	mod, err := NewModerator([]string{"badger"}, replacementChar, log)
	req.NoError(err)
	filter := NewFilter(mod, log)

	// When a long English sentence contains a dictionary word
	result := filter.Filter("The quick brown fox jumps over the lazy badger while everyone watches from the river bank")

	// Then the word is masked and reported
	req.Equal("The quick brown fox jumps over the lazy ****** while everyone watches from the river bank", result.Body)
	req.Equal([]string{"badger"}, result.Censored)
	req.Equal("en", result.Lang)
}

func TestFilter_Clean_Body_Is_Untouched(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	filter, err := NewDefaultFilter(replacementChar, log)
	req.NoError(err)

	result := filter.Filter("hello")
	req.Equal("hello", result.Body)
	req.Empty(result.Censored)
}
