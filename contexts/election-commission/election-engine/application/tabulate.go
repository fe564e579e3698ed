package application

import (
	"sort"

	"madison/contexts/election-commission/election-engine/domain/entities"
)

// TabulateOffice aggregates accepted ballots into the per-office result
// listing. House and Senate count at-large: every selected candidate on every
// accepted ballot receives one vote. President contributes at most one vote
// per ballot. Ordering is descending vote count with ties broken by ascending
// candidate name, so repeated calls over the same data are identical.
func TabulateOffice(
	office entities.Office,
	candidates []entities.Candidate,
	accepted []entities.Ballot,
) entities.OfficeResult {
	votes := make(map[string]int, len(candidates))
	for _, candidate := range candidates {
		votes[candidate.CandidateID] = 0
	}

	total := 0
	for _, ballot := range accepted {
		for _, candidateID := range ballot.SelectionsFor(office) {
			if _, ok := votes[candidateID]; !ok {
				// Selection references a candidate no longer registered for
				// this office; it cannot be labeled, so it is not counted.
				continue
			}
			votes[candidateID]++
			total++
		}
	}

	tallies := make([]entities.CandidateTally, 0, len(candidates))
	for _, candidate := range candidates {
		count := votes[candidate.CandidateID]
		percentage := 0.0
		if total > 0 {
			percentage = float64(count) / float64(total) * 100
		}
		tallies = append(tallies, entities.CandidateTally{
			CandidateID: candidate.CandidateID,
			Label:       candidate.Label(),
			Votes:       count,
			Percentage:  percentage,
		})
	}

	names := make(map[string]string, len(candidates))
	for _, candidate := range candidates {
		names[candidate.CandidateID] = candidate.Name
	}
	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].Votes == tallies[j].Votes {
			return names[tallies[i].CandidateID] < names[tallies[j].CandidateID]
		}
		return tallies[i].Votes > tallies[j].Votes
	})

	return entities.OfficeResult{
		Office:     office,
		TotalVotes: total,
		Tallies:    tallies,
	}
}
