package unit

import (
	"context"
	"errors"
	"testing"

	electionengine "madison/contexts/election-commission/election-engine"
	engineapp "madison/contexts/election-commission/election-engine/application"
	domainerrors "madison/contexts/election-commission/election-engine/domain/errors"
	httptransport "madison/contexts/election-commission/election-engine/transport/http"
)

func newEngineModule() electionengine.Module {
	return electionengine.NewInMemoryModule(engineapp.Config{}, nil)
}

func createElection(t *testing.T, module electionengine.Module, id string, house, senate, president bool) httptransport.ElectionResponse {
	t.Helper()
	resp, err := module.Handler.CreateElectionHandler(context.Background(), "admin-1", httptransport.CreateElectionRequest{
		ElectionID:       id,
		Type:             "GENERAL",
		IncludeHouse:     house,
		IncludeSenate:    senate,
		IncludePresident: president,
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	return resp
}

func openElection(t *testing.T, module electionengine.Module, id string) {
	t.Helper()
	if _, err := module.Handler.OpenElectionHandler(context.Background(), id); err != nil {
		t.Fatalf("open election failed: %v", err)
	}
}

func registerCandidate(t *testing.T, module electionengine.Module, electionID string, req httptransport.RegisterCandidateRequest) httptransport.CandidateResponse {
	t.Helper()
	resp, err := module.Handler.RegisterCandidateHandler(context.Background(), electionID, req)
	if err != nil {
		t.Fatalf("register candidate %q failed: %v", req.Name, err)
	}
	return resp
}

func TestElectionLifecycleHappyPath(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()

	created := createElection(t, module, "general-2026", true, true, true)
	if created.Status != "DRAFT" {
		t.Fatalf("expected DRAFT after create, got %s", created.Status)
	}

	opened, err := module.Handler.OpenElectionHandler(ctx, "general-2026")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if opened.Status != "OPEN" {
		t.Fatalf("expected OPEN, got %s", opened.Status)
	}

	closed, err := module.Handler.CloseElectionHandler(ctx, "general-2026")
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if closed.Status != "CLOSED" {
		t.Fatalf("expected CLOSED, got %s", closed.Status)
	}

	cert, err := module.Handler.CertifyElectionHandler(ctx, "general-2026", "admin-1", httptransport.CertifyElectionRequest{Notes: "clean run"})
	if err != nil {
		t.Fatalf("certify failed: %v", err)
	}
	if cert.CertifiedBy != "admin-1" {
		t.Fatalf("expected certifier admin-1, got %s", cert.CertifiedBy)
	}

	reverted, err := module.Handler.RevertCertificationHandler(ctx, "general-2026", "admin-2", httptransport.RevertCertificationRequest{Reason: "late ballots found"})
	if err != nil {
		t.Fatalf("revert failed: %v", err)
	}
	if reverted.Status != "CLOSED" {
		t.Fatalf("expected CLOSED after revert, got %s", reverted.Status)
	}
}

func TestCreateElectionValidation(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()

	cases := []struct {
		name string
		req  httptransport.CreateElectionRequest
	}{
		{"empty id", httptransport.CreateElectionRequest{Type: "GENERAL", IncludeHouse: true}},
		{"whitespace id", httptransport.CreateElectionRequest{ElectionID: "bad id", Type: "GENERAL", IncludeHouse: true}},
		{"unknown type", httptransport.CreateElectionRequest{ElectionID: "e1", Type: "RUNOFF", IncludeHouse: true}},
		{"no offices", httptransport.CreateElectionRequest{ElectionID: "e2", Type: "GENERAL"}},
	}
	for _, tc := range cases {
		if _, err := module.Handler.CreateElectionHandler(ctx, "admin-1", tc.req); !errors.Is(err, domainerrors.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	createElection(t, module, "midterms-2026", true, false, false)
	_, err := module.Handler.CreateElectionHandler(ctx, "admin-1", httptransport.CreateElectionRequest{
		ElectionID: "midterms-2026", Type: "MIDTERMS", IncludeHouse: true,
	})
	if !errors.Is(err, domainerrors.ErrDuplicate) {
		t.Fatalf("expected duplicate election error, got %v", err)
	}
}

func TestElectionTransitionRules(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()
	createElection(t, module, "special-9", false, false, true)

	if _, err := module.Handler.CloseElectionHandler(ctx, "special-9"); !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected invalid state closing DRAFT, got %v", err)
	}
	if _, err := module.Handler.CertifyElectionHandler(ctx, "special-9", "admin-1", httptransport.CertifyElectionRequest{}); !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected invalid state certifying DRAFT, got %v", err)
	}

	openElection(t, module, "special-9")
	if _, err := module.Handler.CloseElectionHandler(ctx, "special-9"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := module.Handler.CertifyElectionHandler(ctx, "special-9", "admin-1", httptransport.CertifyElectionRequest{}); err != nil {
		t.Fatalf("certify failed: %v", err)
	}

	if _, err := module.Handler.OpenElectionHandler(ctx, "special-9"); !errors.Is(err, domainerrors.ErrLocked) {
		t.Fatalf("expected locked opening CERTIFIED, got %v", err)
	}
	if _, err := module.Handler.CloseElectionHandler(ctx, "special-9"); !errors.Is(err, domainerrors.ErrLocked) {
		t.Fatalf("expected locked closing CERTIFIED, got %v", err)
	}
	if _, err := module.Handler.RevertCertificationHandler(ctx, "special-9", "admin-1", httptransport.RevertCertificationRequest{}); !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error for empty revert reason, got %v", err)
	}
}

func TestCandidateRegistrationRules(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()
	createElection(t, module, "general-2026", true, true, true)

	house := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "HOUSE", Name: "Ada Barnes", Party: "Federalist", State: "NY", District: 3,
	})
	if house.Label != "Ada Barnes (Federalist) — NY-03" {
		t.Fatalf("unexpected house label %q", house.Label)
	}

	senate := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "SENATE", Name: "Cal Dorsey", Party: "Whig", State: "VA", District: 7,
	})
	if senate.District != 0 {
		t.Fatalf("expected senate district cleared, got %d", senate.District)
	}
	if senate.Label != "Cal Dorsey (Whig) — VA SEN" {
		t.Fatalf("unexpected senate label %q", senate.Label)
	}

	president := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "PRESIDENT", Name: "Eve Franklin", Party: "Unity", State: "CA", District: 12,
	})
	if president.State != "" || president.District != 0 {
		t.Fatalf("expected president state and district cleared, got %q/%d", president.State, president.District)
	}
	if president.Label != "Eve Franklin (Unity) — POTUS" {
		t.Fatalf("unexpected president label %q", president.Label)
	}

	bad := []httptransport.RegisterCandidateRequest{
		{Office: "HOUSE", Name: "No State", Party: "P", District: 1},
		{Office: "HOUSE", Name: "No District", Party: "P", State: "TX"},
		{Office: "HOUSE", Name: "Bad State", Party: "P", State: "ZZ", District: 1},
		{Office: "SENATE", Name: "No State Sen", Party: "P"},
		{Office: "MAYOR", Name: "Wrong Office", Party: "P"},
		{Office: "PRESIDENT", Name: "", Party: "P"},
	}
	for _, req := range bad {
		if _, err := module.Handler.RegisterCandidateHandler(ctx, "general-2026", req); !errors.Is(err, domainerrors.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", req.Name, err)
		}
	}

	_, err := module.Handler.RegisterCandidateHandler(ctx, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "HOUSE", Name: "ada barnes", Party: "Other", State: "OH", District: 1,
	})
	if !errors.Is(err, domainerrors.ErrDuplicate) {
		t.Fatalf("expected duplicate candidate error, got %v", err)
	}
}

func TestCandidateRegistrationLockedAfterCertification(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()
	createElection(t, module, "special-1", false, false, true)
	registerCandidate(t, module, "special-1", httptransport.RegisterCandidateRequest{
		Office: "PRESIDENT", Name: "Gia Holt", Party: "Unity",
	})
	openElection(t, module, "special-1")
	if _, err := module.Handler.CloseElectionHandler(ctx, "special-1"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := module.Handler.CertifyElectionHandler(ctx, "special-1", "admin-1", httptransport.CertifyElectionRequest{}); err != nil {
		t.Fatalf("certify failed: %v", err)
	}

	_, err := module.Handler.RegisterCandidateHandler(ctx, "special-1", httptransport.RegisterCandidateRequest{
		Office: "PRESIDENT", Name: "Late Entry", Party: "Unity",
	})
	if !errors.Is(err, domainerrors.ErrLocked) {
		t.Fatalf("expected locked error, got %v", err)
	}
}

func TestBallotSubmissionRules(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()
	createElection(t, module, "general-2026", true, false, true)
	house := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "HOUSE", Name: "Ada Barnes", Party: "Federalist", State: "NY", District: 3,
	})
	president := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "PRESIDENT", Name: "Eve Franklin", Party: "Unity",
	})

	_, err := module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-1", HouseChoices: []string{house.CandidateID},
	})
	if !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected invalid state submitting to DRAFT, got %v", err)
	}

	openElection(t, module, "general-2026")

	ballot, err := module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID:   "voter-1",
		VoterName: "Pat Quill",
		HouseChoices: []string{
			house.CandidateID, house.CandidateID, // duplicate selections collapse
		},
		SenateChoices:   []string{"ignored-senate-ref"}, // senate not on this ballot
		PresidentChoice: president.CandidateID,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if ballot.ReviewStatus != "PENDING" {
		t.Fatalf("expected PENDING ballot, got %s", ballot.ReviewStatus)
	}
	if len(ballot.HouseChoices) != 1 {
		t.Fatalf("expected deduplicated house choices, got %v", ballot.HouseChoices)
	}
	if len(ballot.SenateChoices) != 0 {
		t.Fatalf("expected senate choices cleared for excluded office, got %v", ballot.SenateChoices)
	}

	_, err = module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-1", PresidentChoice: president.CandidateID,
	})
	if !errors.Is(err, domainerrors.ErrDuplicate) {
		t.Fatalf("expected duplicate ballot error, got %v", err)
	}

	_, err = module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-2",
	})
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error for empty ballot, got %v", err)
	}

	_, err = module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-3", HouseChoices: []string{"no-such-candidate"},
	})
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error for unknown candidate ref, got %v", err)
	}
}

func TestBallotReviewFlow(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()
	createElection(t, module, "general-2026", false, false, true)
	president := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "PRESIDENT", Name: "Eve Franklin", Party: "Unity",
	})
	openElection(t, module, "general-2026")

	first, err := module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-1", PresidentChoice: president.CandidateID,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	second, err := module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-2", PresidentChoice: president.CandidateID,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	next, err := module.Handler.NextPendingHandler(ctx, "general-2026")
	if err != nil {
		t.Fatalf("next pending failed: %v", err)
	}
	if !next.Found || next.Ballot.BallotID != first.BallotID {
		t.Fatalf("expected oldest pending ballot %s first, got %+v", first.BallotID, next)
	}

	accepted, err := module.Handler.AcceptBallotHandler(ctx, first.BallotID, "reviewer-1")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.ReviewStatus != "ACCEPTED" || accepted.ReviewedBy != "reviewer-1" {
		t.Fatalf("unexpected accepted ballot %+v", accepted)
	}

	if _, err := module.Handler.AcceptBallotHandler(ctx, first.BallotID, "reviewer-2"); !errors.Is(err, domainerrors.ErrAlreadyReviewed) {
		t.Fatalf("expected already reviewed, got %v", err)
	}
	if _, err := module.Handler.RejectBallotHandler(ctx, first.BallotID, "reviewer-2", httptransport.RejectBallotRequest{Reason: "late"}); !errors.Is(err, domainerrors.ErrAlreadyReviewed) {
		t.Fatalf("expected already reviewed on reject, got %v", err)
	}

	if _, err := module.Handler.RejectBallotHandler(ctx, second.BallotID, "reviewer-1", httptransport.RejectBallotRequest{}); !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error for empty reject reason, got %v", err)
	}
	rejected, err := module.Handler.RejectBallotHandler(ctx, second.BallotID, "reviewer-1", httptransport.RejectBallotRequest{Reason: "illegible selections"})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.ReviewStatus != "REJECTED" || rejected.ReviewReason != "illegible selections" {
		t.Fatalf("unexpected rejected ballot %+v", rejected)
	}

	remaining, err := module.Handler.NextPendingHandler(ctx, "general-2026")
	if err != nil {
		t.Fatalf("next pending failed: %v", err)
	}
	if remaining.Found {
		t.Fatalf("expected empty review queue, got %+v", remaining)
	}
}

func TestTabulationOrderingAndPercentages(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()
	createElection(t, module, "general-2026", false, true, false)

	adams := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "SENATE", Name: "Adams", Party: "A", State: "NY",
	})
	brooks := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "SENATE", Name: "Brooks", Party: "B", State: "PA",
	})
	carver := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "SENATE", Name: "Carver", Party: "C", State: "OH",
	})
	openElection(t, module, "general-2026")

	// brooks 2, adams 2, carver 0; tie broken by name ascending.
	votes := [][]string{
		{brooks.CandidateID, adams.CandidateID},
		{brooks.CandidateID},
		{adams.CandidateID},
	}
	for i, choices := range votes {
		ballot, err := module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
			VoterID: "voter-" + string(rune('a'+i)), SenateChoices: choices,
		})
		if err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
		if _, err := module.Handler.AcceptBallotHandler(ctx, ballot.BallotID, "reviewer-1"); err != nil {
			t.Fatalf("accept %d failed: %v", i, err)
		}
	}

	// One pending ballot must not count.
	if _, err := module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-pending", SenateChoices: []string{carver.CandidateID},
	}); err != nil {
		t.Fatalf("pending submit failed: %v", err)
	}

	results, err := module.Handler.OfficeResultsHandler(ctx, "general-2026", "SENATE")
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.TotalVotes != 4 {
		t.Fatalf("expected 4 total votes, got %d", results.TotalVotes)
	}
	if len(results.Tallies) != 3 {
		t.Fatalf("expected all candidates in tallies, got %d", len(results.Tallies))
	}
	if results.Tallies[0].CandidateID != adams.CandidateID || results.Tallies[1].CandidateID != brooks.CandidateID {
		t.Fatalf("expected tie broken by name (Adams before Brooks), got %+v", results.Tallies)
	}
	if results.Tallies[2].CandidateID != carver.CandidateID || results.Tallies[2].Votes != 0 {
		t.Fatalf("expected zero-vote candidate listed last, got %+v", results.Tallies[2])
	}
	if results.Tallies[0].Percentage != 50.0 {
		t.Fatalf("expected 50%% for leader, got %v", results.Tallies[0].Percentage)
	}

	stats, err := module.Handler.ReportingStatsHandler(ctx, "general-2026")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Submitted != 4 || stats.Accepted != 3 {
		t.Fatalf("expected 4 submitted / 3 accepted, got %+v", stats)
	}

	if _, err := module.Handler.OfficeResultsHandler(ctx, "general-2026", "HOUSE"); !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error for excluded office, got %v", err)
	}
}

func TestResultsEmptyElection(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()
	createElection(t, module, "quiet-1", false, false, true)
	registerCandidate(t, module, "quiet-1", httptransport.RegisterCandidateRequest{
		Office: "PRESIDENT", Name: "Eve Franklin", Party: "Unity",
	})

	results, err := module.Handler.OfficeResultsHandler(ctx, "quiet-1", "PRESIDENT")
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.TotalVotes != 0 {
		t.Fatalf("expected zero total votes, got %d", results.TotalVotes)
	}
	for _, tally := range results.Tallies {
		if tally.Percentage != 0 {
			t.Fatalf("expected zero percent with no votes, got %v", tally.Percentage)
		}
	}
}

func TestCertificationSnapshotAndRecertification(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()
	createElection(t, module, "general-2026", false, false, true)
	eve := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "PRESIDENT", Name: "Eve Franklin", Party: "Unity",
	})
	openElection(t, module, "general-2026")

	accepted, err := module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-1", PresidentChoice: eve.CandidateID,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := module.Handler.AcceptBallotHandler(ctx, accepted.BallotID, "reviewer-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	pending, err := module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-2", PresidentChoice: eve.CandidateID,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := module.Handler.CloseElectionHandler(ctx, "general-2026"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	cert, err := module.Handler.CertifyElectionHandler(ctx, "general-2026", "admin-1", httptransport.CertifyElectionRequest{})
	if err != nil {
		t.Fatalf("certify failed: %v", err)
	}
	if cert.AcceptedBallots != 1 || cert.SubmittedBallots != 2 {
		t.Fatalf("unexpected certification counts %+v", cert)
	}

	// Review is locked while certified.
	if _, err := module.Handler.AcceptBallotHandler(ctx, pending.BallotID, "reviewer-1"); !errors.Is(err, domainerrors.ErrLocked) {
		t.Fatalf("expected review locked under certification, got %v", err)
	}

	if _, err := module.Handler.RevertCertificationHandler(ctx, "general-2026", "admin-1", httptransport.RevertCertificationRequest{Reason: "pending ballot missed"}); err != nil {
		t.Fatalf("revert failed: %v", err)
	}
	if _, err := module.Handler.AcceptBallotHandler(ctx, pending.BallotID, "reviewer-1"); err != nil {
		t.Fatalf("accept after revert failed: %v", err)
	}

	recert, err := module.Handler.CertifyElectionHandler(ctx, "general-2026", "admin-1", httptransport.CertifyElectionRequest{})
	if err != nil {
		t.Fatalf("re-certify failed: %v", err)
	}
	if recert.AcceptedBallots != 2 {
		t.Fatalf("expected superseding snapshot with 2 accepted, got %+v", recert)
	}

	stored, err := module.Handler.CertificationHandler(ctx, "general-2026")
	if err != nil {
		t.Fatalf("get certification failed: %v", err)
	}
	if stored.AcceptedBallots != 2 {
		t.Fatalf("expected stored snapshot superseded, got %+v", stored)
	}
}

func TestBallotSelectionCapTruncation(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()
	createElection(t, module, "general-2026", true, false, false)

	refs := make([]string, 0, 4)
	names := []string{"Ada Barnes", "Cal Dorsey", "Eve Franklin", "Gia Holt"}
	for i, name := range names {
		candidate := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
			Office: "HOUSE", Name: name, Party: "Unity", State: "NY", District: i + 1,
		})
		refs = append(refs, candidate.CandidateID)
	}
	openElection(t, module, "general-2026")

	ballot, err := module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-1", HouseChoices: refs,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if len(ballot.HouseChoices) != 3 {
		t.Fatalf("expected house choices truncated to 3, got %d", len(ballot.HouseChoices))
	}
	for _, ref := range ballot.HouseChoices {
		if ref != refs[0] && ref != refs[1] && ref != refs[2] {
			t.Fatalf("expected earliest selections kept, got %v", ballot.HouseChoices)
		}
	}
}
