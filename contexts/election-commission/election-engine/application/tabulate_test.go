package application

import (
	"testing"

	"madison/contexts/election-commission/election-engine/domain/entities"
)

func senateCandidate(id, name string) entities.Candidate {
	return entities.Candidate{
		CandidateID: id,
		ElectionID:  "e1",
		Office:      entities.OfficeSenate,
		Name:        name,
		Party:       "P",
		State:       "NY",
	}
}

func acceptedBallot(voter string, senate ...string) entities.Ballot {
	return entities.Ballot{
		BallotID:      "b-" + voter,
		ElectionID:    "e1",
		VoterID:       voter,
		SenateChoices: senate,
		ReviewStatus:  entities.ReviewStatusAccepted,
	}
}

func TestTabulateOfficeOrdering(t *testing.T) {
	candidates := []entities.Candidate{
		senateCandidate("c-z", "Zeller"),
		senateCandidate("c-a", "Abbot"),
		senateCandidate("c-m", "Mason"),
	}
	ballots := []entities.Ballot{
		acceptedBallot("v1", "c-z", "c-a"),
		acceptedBallot("v2", "c-z"),
		acceptedBallot("v3", "c-a"),
	}

	result := TabulateOffice(entities.OfficeSenate, candidates, ballots)
	if result.TotalVotes != 4 {
		t.Fatalf("expected 4 total votes, got %d", result.TotalVotes)
	}

	order := []string{result.Tallies[0].CandidateID, result.Tallies[1].CandidateID, result.Tallies[2].CandidateID}
	// Abbot and Zeller tie at 2; the name breaks the tie. Mason trails at 0.
	want := []string{"c-a", "c-z", "c-m"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected ordering %v, want %v", order, want)
		}
	}
	if result.Tallies[0].Percentage != 50.0 {
		t.Fatalf("expected 50%%, got %v", result.Tallies[0].Percentage)
	}
}

func TestTabulateOfficeSkipsUnknownSelections(t *testing.T) {
	candidates := []entities.Candidate{senateCandidate("c-a", "Abbot")}
	ballots := []entities.Ballot{acceptedBallot("v1", "c-a", "c-gone")}

	result := TabulateOffice(entities.OfficeSenate, candidates, ballots)
	if result.TotalVotes != 1 {
		t.Fatalf("unknown selections must not count, got total %d", result.TotalVotes)
	}
}

func TestTabulateOfficeEmpty(t *testing.T) {
	candidates := []entities.Candidate{senateCandidate("c-a", "Abbot")}

	result := TabulateOffice(entities.OfficeSenate, candidates, nil)
	if result.TotalVotes != 0 {
		t.Fatalf("expected no votes, got %d", result.TotalVotes)
	}
	if len(result.Tallies) != 1 || result.Tallies[0].Votes != 0 || result.Tallies[0].Percentage != 0 {
		t.Fatalf("expected zeroed tally for registered candidate, got %+v", result.Tallies)
	}
}
