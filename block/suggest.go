package block

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the "did you mean" list.
const maxSuggestions = 3

// Suggest returns up to limit candidates resembling word, best first.
//
// Candidates containing the characters of word in order rank first. Then come
// candidates whose own characters all appear in word, which catches typos
// that add a letter.
func Suggest(word string, candidates []string, limit int) []string {
	if word == "" || limit <= 0 {
		return nil
	}

	var out []string

	for _, m := range fuzzy.Find(word, candidates) {
		out = append(out, m.Str)
	}

	var reverse fuzzy.Matches

	for i, c := range candidates {
		if slices.Contains(out, c) {
			continue
		}

		if ms := fuzzy.Find(c, []string{word}); len(ms) > 0 {
			ms[0].Str, ms[0].Index = c, i
			reverse = append(reverse, ms[0])
		}
	}

	slices.SortStableFunc(reverse, func(a, b fuzzy.Match) int {
		// Longer candidates cover more of word.
		return len(b.Str) - len(a.Str)
	})

	for _, m := range reverse {
		out = append(out, m.Str)
	}

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}

// DidYouMean returns an error naming word, listing close candidates when
// there are any.
func DidYouMean(word string, candidates []string) error {
	s := Suggest(word, candidates, maxSuggestions)
	if len(s) == 0 {
		return fmt.Errorf("%q", word)
	}

	quoted := make([]string, len(s))
	for i, c := range s {
		quoted[i] = fmt.Sprintf("%q", c)
	}

	return fmt.Errorf("%q (did you mean %s?)", word, strings.Join(quoted, " or "))
}

func kindNames() []string {
	kinds := Kinds()
	out := make([]string, len(kinds))

	for i, k := range kinds {
		out[i] = string(k)
	}

	return out
}

func slotNames(specs []SlotSpec) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		name := s.Name
		if s.Repeated {
			name += "0"
		}

		out = append(out, name)
	}

	return out
}
