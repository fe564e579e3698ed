package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"madison/contexts/election-commission/election-engine/application/commands"
	"madison/contexts/election-commission/election-engine/application/queries"
	"madison/contexts/election-commission/election-engine/domain/entities"
	httptransport "madison/contexts/election-commission/election-engine/transport/http"
)

// Handler maps transport DTOs onto use cases. Authorization happens in the
// dispatch layer; everything arriving here is pre-authorized.
type Handler struct {
	Elections  commands.ElectionUseCase
	Candidates commands.CandidateUseCase
	Ballots    commands.BallotUseCase
	Results    queries.ResultsUseCase
	Queue      queries.ReviewQueueUseCase
	Logger     *slog.Logger
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	actorID string,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.Create(ctx, commands.CreateElectionCommand{
		ElectionID:       req.ElectionID,
		Type:             entities.ElectionType(req.Type),
		IncludeHouse:     req.IncludeHouse,
		IncludeSenate:    req.IncludeSenate,
		IncludePresident: req.IncludePresident,
		CreatedBy:        actorID,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(election), nil
}

func (h Handler) OpenElectionHandler(ctx context.Context, electionID string) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.Open(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(election), nil
}

func (h Handler) CloseElectionHandler(ctx context.Context, electionID string) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.Close(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(election), nil
}

func (h Handler) CertifyElectionHandler(
	ctx context.Context,
	electionID string,
	actorID string,
	req httptransport.CertifyElectionRequest,
) (httptransport.CertificationResponse, error) {
	record, err := h.Elections.Certify(ctx, commands.CertifyElectionCommand{
		ElectionID:  electionID,
		CertifiedBy: actorID,
		Notes:       req.Notes,
	})
	if err != nil {
		return httptransport.CertificationResponse{}, err
	}
	return certificationResponse(record), nil
}

func (h Handler) RevertCertificationHandler(
	ctx context.Context,
	electionID string,
	actorID string,
	req httptransport.RevertCertificationRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.RevertCertification(ctx, commands.RevertCertificationCommand{
		ElectionID: electionID,
		RevertedBy: actorID,
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(election), nil
}

func (h Handler) RegisterCandidateHandler(
	ctx context.Context,
	electionID string,
	req httptransport.RegisterCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Candidates.Register(ctx, commands.RegisterCandidateCommand{
		ElectionID: electionID,
		Office:     entities.Office(req.Office),
		Name:       req.Name,
		Party:      req.Party,
		State:      req.State,
		District:   req.District,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return httptransport.CandidateResponse{
		CandidateID: candidate.CandidateID,
		ElectionID:  candidate.ElectionID,
		Office:      string(candidate.Office),
		Name:        candidate.Name,
		Party:       candidate.Party,
		State:       candidate.State,
		District:    candidate.District,
		Label:       candidate.Label(),
	}, nil
}

func (h Handler) SubmitBallotHandler(
	ctx context.Context,
	electionID string,
	req httptransport.SubmitBallotRequest,
) (httptransport.BallotResponse, error) {
	ballot, err := h.Ballots.Submit(ctx, commands.SubmitBallotCommand{
		ElectionID:      electionID,
		VoterID:         req.VoterID,
		VoterName:       req.VoterName,
		HouseChoices:    req.HouseChoices,
		SenateChoices:   req.SenateChoices,
		PresidentChoice: req.PresidentChoice,
	})
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return ballotResponse(ballot), nil
}

func (h Handler) AcceptBallotHandler(ctx context.Context, ballotID string, reviewerID string) (httptransport.BallotResponse, error) {
	ballot, err := h.Ballots.Accept(ctx, commands.ReviewBallotCommand{
		BallotID:   ballotID,
		ReviewerID: reviewerID,
	})
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return ballotResponse(ballot), nil
}

func (h Handler) RejectBallotHandler(
	ctx context.Context,
	ballotID string,
	reviewerID string,
	req httptransport.RejectBallotRequest,
) (httptransport.BallotResponse, error) {
	ballot, err := h.Ballots.Reject(ctx, commands.ReviewBallotCommand{
		BallotID:   ballotID,
		ReviewerID: reviewerID,
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return ballotResponse(ballot), nil
}

func (h Handler) NextPendingHandler(ctx context.Context, electionID string) (httptransport.NextPendingResponse, error) {
	ballot, found, err := h.Queue.NextPending(ctx, electionID)
	if err != nil {
		return httptransport.NextPendingResponse{}, err
	}
	if !found {
		return httptransport.NextPendingResponse{Found: false}, nil
	}
	resp := ballotResponse(ballot)
	return httptransport.NextPendingResponse{Found: true, Ballot: &resp}, nil
}

func (h Handler) BallotHandler(ctx context.Context, ballotID string) (httptransport.BallotResponse, error) {
	ballot, err := h.Queue.Ballot(ctx, ballotID)
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return ballotResponse(ballot), nil
}

func (h Handler) OfficeResultsHandler(
	ctx context.Context,
	electionID string,
	office string,
) (httptransport.OfficeResultsResponse, error) {
	result, err := h.Results.OfficeResults(ctx, electionID, entities.Office(office))
	if err != nil {
		return httptransport.OfficeResultsResponse{}, err
	}
	return officeResultsResponse(electionID, result), nil
}

func (h Handler) ReportingStatsHandler(ctx context.Context, electionID string) (httptransport.ReportingStatsResponse, error) {
	stats, err := h.Results.ReportingStats(ctx, electionID)
	if err != nil {
		return httptransport.ReportingStatsResponse{}, err
	}
	return httptransport.ReportingStatsResponse{
		ElectionID:      electionID,
		Submitted:       stats.Submitted,
		Accepted:        stats.Accepted,
		AcceptedPercent: stats.AcceptedPercent,
	}, nil
}

func (h Handler) OfficeInclusionHandler(ctx context.Context, electionID string) (httptransport.OfficeInclusionResponse, error) {
	offices, err := h.Results.OfficeInclusion(ctx, electionID)
	if err != nil {
		return httptransport.OfficeInclusionResponse{}, err
	}
	names := make([]string, 0, len(offices))
	for _, office := range offices {
		names = append(names, string(office))
	}
	return httptransport.OfficeInclusionResponse{
		ElectionID: electionID,
		Offices:    names,
	}, nil
}

func (h Handler) CertificationHandler(ctx context.Context, electionID string) (httptransport.CertificationResponse, error) {
	record, err := h.Results.Certification(ctx, electionID)
	if err != nil {
		return httptransport.CertificationResponse{}, err
	}
	return certificationResponse(record), nil
}

func electionResponse(election entities.Election) httptransport.ElectionResponse {
	return httptransport.ElectionResponse{
		ElectionID:       election.ID,
		Type:             string(election.Type),
		IncludeHouse:     election.IncludeHouse,
		IncludeSenate:    election.IncludeSenate,
		IncludePresident: election.IncludePresident,
		Status:           string(election.Status),
		CreatedAt:        election.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ballotResponse(ballot entities.Ballot) httptransport.BallotResponse {
	return httptransport.BallotResponse{
		BallotID:        ballot.BallotID,
		ElectionID:      ballot.ElectionID,
		VoterID:         ballot.VoterID,
		VoterName:       ballot.VoterName,
		HouseChoices:    ballot.HouseChoices,
		SenateChoices:   ballot.SenateChoices,
		PresidentChoice: ballot.PresidentChoice,
		ReviewStatus:    string(ballot.ReviewStatus),
		ReviewedBy:      ballot.ReviewedBy,
		ReviewReason:    ballot.ReviewReason,
		SubmittedAt:     ballot.SubmittedAt.UTC().Format(time.RFC3339),
	}
}

func officeResultsResponse(electionID string, result entities.OfficeResult) httptransport.OfficeResultsResponse {
	tallies := make([]httptransport.CandidateTallyItem, 0, len(result.Tallies))
	for _, tally := range result.Tallies {
		tallies = append(tallies, httptransport.CandidateTallyItem{
			CandidateID: tally.CandidateID,
			Label:       tally.Label,
			Votes:       tally.Votes,
			Percentage:  tally.Percentage,
		})
	}
	return httptransport.OfficeResultsResponse{
		ElectionID: electionID,
		Office:     string(result.Office),
		TotalVotes: result.TotalVotes,
		Tallies:    tallies,
	}
}

func certificationResponse(record entities.CertificationRecord) httptransport.CertificationResponse {
	results := make([]httptransport.OfficeResultsResponse, 0, len(record.Results))
	for _, result := range record.Results {
		results = append(results, officeResultsResponse(record.ElectionID, result))
	}
	return httptransport.CertificationResponse{
		ElectionID:       record.ElectionID,
		CertifiedBy:      record.CertifiedBy,
		Notes:            record.Notes,
		SubmittedBallots: record.SubmittedBallots,
		AcceptedBallots:  record.AcceptedBallots,
		Results:          results,
		CertifiedAt:      record.CertifiedAt.UTC().Format(time.RFC3339),
	}
}
