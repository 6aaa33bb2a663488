// Package moderation masks censored words in message bodies before they are
// persisted, using an Aho-Corasick automaton for linear-time matching.
package moderation

import (
	"bufio"
	"embed"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"

	"chat-relay/errors"
)

//go:embed censored/*
var censoredFolder embed.FS

// Moderator replaces every occurrence of a censored word with the replacement
// rune. Matching is case-insensitive. The zero value is a no-op moderator.
type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// NewModerator builds the automaton from the word list. An empty list yields a
// no-op moderator so moderation can be disabled by shipping an empty file.
func NewModerator(words []string, replacement rune) (Moderator, error) {
	if len(words) == 0 {
		return Moderator{}, nil
	}

	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = []rune(strings.ToLower(word))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: m, replacement: replacement}, nil
}

// Censor masks every matched span in original, preserving length and casing of
// the untouched parts.
func (m *Moderator) Censor(original string) string {
	if m.matcher == nil {
		return original
	}

	runes := []rune(original)
	lowered := make([]rune, len(runes))
	for i, r := range runes {
		lowered[i] = unicode.ToLower(r)
	}

	spans := m.matcher.MultiPatternSearch(lowered, false)
	if len(spans) == 0 {
		return original
	}

	for _, span := range spans {
		end := span.Pos + len(span.Word)
		if span.Pos < 0 || end > len(runes) {
			continue
		}
		for i := span.Pos; i < end; i++ {
			runes[i] = m.replacement
		}
	}
	return string(runes)
}

// DefaultWords loads the embedded censored word list, one word per line.
func DefaultWords() ([]string, error) {
	file, err := censoredFolder.Open("censored/words.txt")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.ErrEmptyWords
	}
	return words, nil
}
