package match

import "sort"

// DefaultThreshold is the minimum similarity for a name to be suggested.
const DefaultThreshold = 0.6

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is sorted by descending score, then name.
type CandidateList []Candidate

func (c CandidateList) Len() int      { return len(c) }
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// RankCandidates scores every known name against name, comparing normalized
// forms so case and separators do not count as edits.
func RankCandidates(name string, known []string) CandidateList {
	target := NormalizeIdent(name)
	candidates := make(CandidateList, 0, len(known))

	for _, k := range known {
		if k == name {
			continue
		}

		candidates = append(candidates, Candidate{Name: k, Score: Similarity(target, NormalizeIdent(k))})
	}

	sort.Sort(candidates)

	return candidates
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// Top returns at most n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if len(c) <= n {
		return c
	}

	return c[:n]
}

// Names returns the candidate names.
func (c CandidateList) Names() []string {
	names := make([]string, len(c))
	for i, cand := range c {
		names[i] = cand.Name
	}

	return names
}

// Suggest returns up to two known names close enough to name.
func Suggest(name string, known []string) []string {
	return RankCandidates(name, known).AboveThreshold(DefaultThreshold).Top(2).Names()
}
