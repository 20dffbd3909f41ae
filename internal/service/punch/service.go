package punch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/presencehq/presence-backend-go/internal/domain/punch"
	"github.com/presencehq/presence-backend-go/internal/domain/user"
	"github.com/presencehq/presence-backend-go/internal/service/compliance"
)

type PunchServiceImpl struct {
	punches punch.Repository
	users   user.Directory
	engine  *compliance.Engine
}

func NewPunchService(punches punch.Repository, users user.Directory, engine *compliance.Engine) punch.Service {
	return &PunchServiceImpl{
		punches: punches,
		users:   users,
		engine:  engine,
	}
}

// RecordPunch implements punch.Service.
func (s *PunchServiceImpl) RecordPunch(ctx context.Context, actorID string, req punch.RecordPunchRequest) (punch.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.PunchResponse{}, err
	}

	targetID := actorID
	if req.UserID != "" {
		targetID = req.UserID
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return punch.PunchResponse{}, fmt.Errorf("failed to resolve punch target: %w", err)
	}

	kind := punch.Kind(req.Kind)

	// Alternation check against the most recent punch. This is
	// check-then-act; the rule-key uniqueness downstream is the
	// correctness backstop under concurrent punches.
	latest, err := s.punches.GetLatestByUser(ctx, targetID)
	if err != nil && !errors.Is(err, punch.ErrPunchNotFound) {
		return punch.PunchResponse{}, fmt.Errorf("failed to read latest punch: %w", err)
	}
	if err == nil && latest.Kind == kind {
		return punch.PunchResponse{}, punch.ErrSamePunchTwice
	}

	ts := time.Now()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}

	created, err := s.punches.Create(ctx, punch.Punch{
		UserID:    targetID,
		Kind:      kind,
		Timestamp: ts,
	})
	if err != nil {
		return punch.PunchResponse{}, fmt.Errorf("failed to record punch: %w", err)
	}

	// Synchronous rule evaluation over the punch's local calendar day.
	dayStart := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	dayPunches, err := s.punches.ListByUserBetween(ctx, targetID, dayStart, dayEnd)
	if err != nil {
		return punch.PunchResponse{}, fmt.Errorf("failed to load day punches: %w", err)
	}
	if err := s.engine.Evaluate(ctx, targetID, created.Kind, created.Timestamp, dayPunches); err != nil {
		return punch.PunchResponse{}, fmt.Errorf("rule evaluation failed: %w", err)
	}

	return mapPunchToResponse(created), nil
}

// ListPunches implements punch.Service.
func (s *PunchServiceImpl) ListPunches(ctx context.Context, filter punch.ListPunchesFilter) (punch.ListPunchesResponse, error) {
	var (
		punches []punch.Punch
		err     error
	)

	// Unbounded listings are newest first; bounded ones oldest first.
	// Day-window slicing downstream depends on the bounded ordering.
	if filter.From == nil && filter.To == nil {
		punches, err = s.punches.ListByUser(ctx, filter.UserID)
	} else {
		from := time.Time{}
		if filter.From != nil {
			from = *filter.From
		}
		to := time.Now()
		if filter.To != nil {
			to = *filter.To
		}
		punches, err = s.punches.ListByUserBetween(ctx, filter.UserID, from, to)
	}
	if err != nil {
		return punch.ListPunchesResponse{}, fmt.Errorf("failed to list punches: %w", err)
	}

	responses := make([]punch.PunchResponse, 0, len(punches))
	for _, p := range punches {
		responses = append(responses, mapPunchToResponse(p))
	}

	return punch.ListPunchesResponse{
		TotalCount: len(responses),
		Punches:    responses,
	}, nil
}

func mapPunchToResponse(p punch.Punch) punch.PunchResponse {
	return punch.PunchResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Kind:      string(p.Kind),
		Timestamp: p.Timestamp.Format("2006-01-02 15:04:05"),
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
