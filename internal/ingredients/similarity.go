package ingredients

// ScoreSimilarity returns the Dice coefficient of the character bigram sets
// of a and b. Identical strings score 1; anything shorter than two runes
// scores 0 against a different string.
func ScoreSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	first, second := bigrams(ra), bigrams(rb)
	shared := 0
	for bg := range first {
		if _, ok := second[bg]; ok {
			shared++
		}
	}
	return float64(2*shared) / float64(len(first)+len(second))
}

// BestMatch returns the candidate most similar to s. Ties go to the earliest
// candidate; an empty candidate list yields "".
func BestMatch(s string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	best, bestScore := 0, ScoreSimilarity(s, candidates[0])
	for i := 1; i < len(candidates); i++ {
		if score := ScoreSimilarity(s, candidates[i]); score > bestScore {
			best, bestScore = i, score
		}
	}
	return candidates[best]
}

func bigrams(r []rune) map[[2]rune]struct{} {
	set := make(map[[2]rune]struct{}, len(r)-1)
	for i := 0; i < len(r)-1; i++ {
		set[[2]rune{r[i], r[i+1]}] = struct{}{}
	}
	return set
}
