package queries

import (
	"context"
	"strings"

	application "madison/contexts/election-commission/election-engine/application"
	"madison/contexts/election-commission/election-engine/domain/entities"
	domainerrors "madison/contexts/election-commission/election-engine/domain/errors"
	"madison/contexts/election-commission/election-engine/ports"
)

// ResultsUseCase serves tabulation reads. Only ACCEPTED ballots contribute;
// output ordering is deterministic across repeated calls over the same data.
type ResultsUseCase struct {
	Elections      ports.ElectionRepository
	Candidates     ports.CandidateRepository
	Ballots        ports.BallotRepository
	Certifications ports.CertificationRepository
}

func (uc ResultsUseCase) OfficeResults(ctx context.Context, electionID string, office entities.Office) (entities.OfficeResult, error) {
	electionID = strings.TrimSpace(electionID)
	if !entities.ValidOffice(office) {
		return entities.OfficeResult{}, domainerrors.ErrValidation
	}
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.OfficeResult{}, err
	}
	if !election.IncludesOffice(office) {
		return entities.OfficeResult{}, domainerrors.ErrValidation
	}

	candidates, err := uc.Candidates.ListCandidates(ctx, electionID, office)
	if err != nil {
		return entities.OfficeResult{}, err
	}
	accepted, err := uc.Ballots.ListAcceptedBallots(ctx, electionID)
	if err != nil {
		return entities.OfficeResult{}, err
	}
	return application.TabulateOffice(office, candidates, accepted), nil
}

func (uc ResultsUseCase) ReportingStats(ctx context.Context, electionID string) (entities.ReportingStats, error) {
	submitted, accepted, err := uc.Ballots.CountBallots(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return entities.ReportingStats{}, err
	}
	stats := entities.ReportingStats{
		Submitted: submitted,
		Accepted:  accepted,
	}
	if submitted > 0 {
		stats.AcceptedPercent = float64(accepted) / float64(submitted) * 100
	}
	return stats, nil
}

// OfficeInclusion tells the calling UI layer which ballot sections to
// present for an election.
func (uc ResultsUseCase) OfficeInclusion(ctx context.Context, electionID string) ([]entities.Office, error) {
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return nil, err
	}
	return election.IncludedOffices(), nil
}

// Certification returns the live snapshot for an election, if one exists.
func (uc ResultsUseCase) Certification(ctx context.Context, electionID string) (entities.CertificationRecord, error) {
	record, found, err := uc.Certifications.GetCertification(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return entities.CertificationRecord{}, err
	}
	if !found {
		return entities.CertificationRecord{}, domainerrors.ErrCertificationNotFound
	}
	return record, nil
}

// LiveReport assembles the throttle-gated public report payload: intake
// stats plus the current results for every included office.
func (uc ResultsUseCase) LiveReport(ctx context.Context, electionID string) (entities.LiveReport, error) {
	electionID = strings.TrimSpace(electionID)
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.LiveReport{}, err
	}
	stats, err := uc.ReportingStats(ctx, electionID)
	if err != nil {
		return entities.LiveReport{}, err
	}
	accepted, err := uc.Ballots.ListAcceptedBallots(ctx, electionID)
	if err != nil {
		return entities.LiveReport{}, err
	}
	results := make([]entities.OfficeResult, 0, 3)
	for _, office := range election.IncludedOffices() {
		candidates, err := uc.Candidates.ListCandidates(ctx, electionID, office)
		if err != nil {
			return entities.LiveReport{}, err
		}
		results = append(results, application.TabulateOffice(office, candidates, accepted))
	}
	return entities.LiveReport{
		ElectionID: electionID,
		Status:     election.Status,
		Stats:      stats,
		Results:    results,
	}, nil
}
