package diag

import "github.com/lithammer/fuzzysearch/fuzzy"

// Suggest ranks candidates by similarity to target and returns the closest
// match, or "" if candidates is empty or nothing ranks as similar enough.
// This is how an unknown name (a named capture, a `let` variable, a
// shorthand identifier, a Unicode property name) grows a "did you mean X?"
// help paragraph instead of a bare "unknown name" message.
func Suggest(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}

// DidYouMean formats a suggestion as a help paragraph, or "" if there is no
// close candidate.
func DidYouMean(target string, candidates []string) string {
	s := Suggest(target, candidates)
	if s == "" {
		return ""
	}
	return "did you mean `" + s + "`?"
}
