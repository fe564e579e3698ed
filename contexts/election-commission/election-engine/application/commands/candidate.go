package commands

import (
	"context"
	"log/slog"
	"strings"

	application "madison/contexts/election-commission/election-engine/application"
	"madison/contexts/election-commission/election-engine/domain/entities"
	domainerrors "madison/contexts/election-commission/election-engine/domain/errors"
	"madison/contexts/election-commission/election-engine/ports"
)

// RegisterCandidateCommand is the write-model input for candidate
// registration. State is required for House and Senate; District only for
// House and is cleared for every other office.
type RegisterCandidateCommand struct {
	ElectionID string
	Office     entities.Office
	Name       string
	Party      string
	State      string
	District   int
}

// CandidateUseCase validates and stores per-office candidate records.
type CandidateUseCase struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Config     application.Config
	Logger     *slog.Logger
}

func (uc CandidateUseCase) Register(ctx context.Context, cmd RegisterCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	cfg := uc.Config.Normalized()
	electionID := strings.TrimSpace(cmd.ElectionID)
	name := strings.TrimSpace(cmd.Name)
	party := strings.TrimSpace(cmd.Party)
	state := strings.ToUpper(strings.TrimSpace(cmd.State))

	logger.Info("candidate register started",
		"event", "candidate_register_started",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", electionID,
		"office", string(cmd.Office),
		"candidate_name", name,
	)

	if name == "" || party == "" || !entities.ValidOffice(cmd.Office) {
		return entities.Candidate{}, domainerrors.ErrValidation
	}

	district := cmd.District
	switch cmd.Office {
	case entities.OfficeHouse:
		if !cfg.RecognizedState(state) {
			return entities.Candidate{}, domainerrors.ErrValidation
		}
		if district < 1 {
			return entities.Candidate{}, domainerrors.ErrValidation
		}
	case entities.OfficeSenate:
		if !cfg.RecognizedState(state) {
			return entities.Candidate{}, domainerrors.ErrValidation
		}
		district = 0
	default:
		state = ""
		district = 0
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Candidate{}, err
	}
	if election.Status == entities.ElectionStatusCertified {
		return entities.Candidate{}, domainerrors.ErrLocked
	}

	candidateID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	candidate := entities.Candidate{
		CandidateID: candidateID,
		ElectionID:  electionID,
		Office:      cmd.Office,
		Name:        name,
		Party:       party,
		State:       state,
		District:    district,
		CreatedAt:   resolveNow(uc.Clock),
	}
	if err := uc.Candidates.InsertCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}

	logger.Info("candidate registered",
		"event", "candidate_registered",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", electionID,
		"candidate_id", candidate.CandidateID,
		"office", string(candidate.Office),
		"label", candidate.Label(),
	)
	return candidate, nil
}
