package kb

// Score rates how well a candidate token sequence covers a query token
// sequence, in [0,1]. Duplicates are collapsed before comparison. The blend
// favors query coverage over symmetric similarity because queries are short
// and candidate fields may be long.
func Score(queryTokens, candidateTokens []string) float64 {
	if len(queryTokens) == 0 || len(candidateTokens) == 0 {
		return 0
	}

	qSet := toSet(queryTokens)
	cSet := toSet(candidateTokens)

	inter := 0
	for t := range qSet {
		if _, ok := cSet[t]; ok {
			inter++
		}
	}

	union := len(qSet) + len(cSet) - inter
	jaccard := float64(inter) / float64(union)
	overlap := float64(inter) / float64(len(qSet))

	return 0.75*overlap + 0.25*jaccard
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}

	return set
}
