package resolver

import (
	"regexp"
	"strings"
)

var (
	initialsPairs = map[string]bool{"cj": true, "tj": true, "jj": true, "dj": true, "aj": true, "rj": true}
	nameSuffixes  = map[string]bool{"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true}

	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s'-]`)
)

// normalize lowercases a name and collapses whitespace.
func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// words splits a name into lowercase words. Dots are dropped so "C.J." is "cj".
func words(name string) []string {
	name = strings.ReplaceAll(strings.ToLower(name), ".", "")
	return strings.Fields(punctuation.ReplaceAllString(name, " "))
}

// lastName is the final word that is not a generational suffix.
func lastName(name string) string {
	ws := words(name)
	for i := len(ws) - 1; i >= 0; i-- {
		if !nameSuffixes[ws[i]] {
			return ws[i]
		}
	}
	return ""
}

// searchTerms are the words worth sending to the store as a coarse filter.
func searchTerms(name string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range words(name) {
		if len(w) < 2 || nameSuffixes[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// NameVariations expands common abbreviation patterns in both directions:
// "CJ" and "C.J." and "C J" initials, generational suffixes, and punctuation.
// The returned variations are lowercase and exclude the input itself.
func NameVariations(name string) []string {
	base := normalize(name)
	if base == "" {
		return nil
	}

	seen := map[string]bool{base: true}
	var out []string
	add := func(v string) {
		v = normalize(v)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	dotless := normalize(strings.ReplaceAll(base, ".", ""))
	add(dotless)

	tokens := strings.Fields(dotless)
	if len(tokens) == 0 {
		return out
	}
	rest := strings.Join(tokens[1:], " ")
	first := tokens[0]

	// "c j stroud" collapses to the "cj" form first.
	if len(tokens) >= 3 && len(tokens[0]) == 1 && len(tokens[1]) == 1 {
		first = tokens[0] + tokens[1]
		rest = strings.Join(tokens[2:], " ")
		add(first + " " + rest)
	}

	if len(first) == 2 && isAlpha(first) && rest != "" {
		dotted := string(first[0]) + "." + string(first[1]) + "."
		add(dotted + " " + rest)
		add(first + " " + rest)
		if initialsPairs[first] {
			add(string(first[0]) + " " + string(first[1]) + " " + rest)
		}
	}

	// Generational suffixes, added or removed.
	last := tokens[len(tokens)-1]
	if nameSuffixes[last] && len(tokens) > 1 {
		stem := strings.Join(tokens[:len(tokens)-1], " ")
		add(stem)
	} else if len(tokens) > 1 {
		add(dotless + " jr")
		add(dotless + " jr.")
		add(dotless + " ii")
		add(dotless + " iii")
	}

	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
