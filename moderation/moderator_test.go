package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModerator_Censor(t *testing.T) {
	t.Run("should mask censored words and leave the rest intact", func(t *testing.T) {
		req := require.New(t)
		moderator, err := NewModerator([]string{"idiot"}, '*')
		req.NoError(err)

		req.Equal("you ***** you", moderator.Censor("you idiot you"))
	})

	t.Run("should match case-insensitively", func(t *testing.T) {
		req := require.New(t)
		moderator, err := NewModerator([]string{"idiot"}, '*')
		req.NoError(err)

		req.Equal("*****!", moderator.Censor("IdIoT!"))
	})

	t.Run("should pass clean text through unchanged", func(t *testing.T) {
		req := require.New(t)
		moderator, err := NewModerator([]string{"idiot"}, '*')
		req.NoError(err)

		req.Equal("hi", moderator.Censor("hi"))
	})

	t.Run("should be a no-op without words", func(t *testing.T) {
		req := require.New(t)
		moderator, err := NewModerator(nil, '*')
		req.NoError(err)

		req.Equal("anything goes", moderator.Censor("anything goes"))
	})
}

func TestDefaultWords(t *testing.T) {
	req := require.New(t)
	words, err := DefaultWords()
	req.NoError(err)
	req.NotEmpty(words)
}
