// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import "github.com/lithammer/fuzzysearch/fuzzy"

// closestName returns the registered name closest to target, or "".
// Candidates that contain target as a subsequence are preferred; otherwise a
// candidate that is itself a subsequence of target (an extra character typed) is used.
func closestName(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}

	best, bestDistance := "", -1
	for _, r := range fuzzy.RankFindFold(target, candidates) {
		if bestDistance < 0 || r.Distance < bestDistance {
			best, bestDistance = r.Target, r.Distance
		}
	}
	if best != "" {
		return best
	}

	for _, c := range candidates {
		d := fuzzy.RankMatchFold(c, target)
		if d >= 0 && (bestDistance < 0 || d < bestDistance) {
			best, bestDistance = c, d
		}
	}
	return best
}
