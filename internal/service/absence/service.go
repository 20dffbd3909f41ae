package absence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/presencehq/presence-backend-go/internal/domain/absence"
	"github.com/presencehq/presence-backend-go/internal/domain/leave"
	"github.com/presencehq/presence-backend-go/internal/domain/team"
	"github.com/presencehq/presence-backend-go/internal/domain/user"
)

type AbsenceServiceImpl struct {
	absences absence.Repository
	users    user.Directory
	teams    team.Directory
	ledger   leave.LedgerService
}

func NewAbsenceService(absences absence.Repository, users user.Directory, teams team.Directory, ledger leave.LedgerService) absence.Service {
	return &AbsenceServiceImpl{
		absences: absences,
		users:    users,
		teams:    teams,
		ledger:   ledger,
	}
}

// CreateAbsence implements absence.Service.
func (s *AbsenceServiceImpl) CreateAbsence(ctx context.Context, actorID string, req absence.CreateAbsenceRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to resolve actor: %w", err)
	}

	subjectID := actorID
	if req.UserID != "" && req.UserID != actorID {
		if !actor.IsAdmin() {
			return absence.AbsenceResponse{}, absence.ErrForbidden
		}
		subjectID = req.UserID
		if _, err := s.users.GetByID(ctx, subjectID); err != nil {
			return absence.AbsenceResponse{}, fmt.Errorf("failed to resolve absence subject: %w", err)
		}
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	created, err := s.absences.Create(ctx, absence.Absence{
		UserID:                subjectID,
		StartDate:             startDate,
		EndDate:               endDate,
		Category:              absence.Category(req.Category),
		Status:                absence.StatusPending,
		Reason:                req.Reason,
		SupportingDocumentURL: req.SupportingDocumentURL,
	})
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to create absence: %w", err)
	}

	days := generateDays(created, req.Days)
	if err := s.absences.ReplaceDays(ctx, created.ID, days); err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to generate absence days: %w", err)
	}

	return mapAbsenceToResponse(created, days), nil
}

// GetAbsence implements absence.Service.
func (s *AbsenceServiceImpl) GetAbsence(ctx context.Context, actorID string, id string) (absence.AbsenceResponse, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to resolve actor: %w", err)
	}

	a, err := s.absences.GetByID(ctx, id)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if a.UserID != actorID && !actor.IsAdmin() && !actor.IsManager() {
		return absence.AbsenceResponse{}, absence.ErrForbidden
	}

	days, err := s.absences.GetDays(ctx, id)
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to load absence days: %w", err)
	}

	return mapAbsenceToResponse(a, days), nil
}

// ListAbsences implements absence.Service.
func (s *AbsenceServiceImpl) ListAbsences(ctx context.Context, actorID string, userID string) (absence.ListAbsencesResponse, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return absence.ListAbsencesResponse{}, fmt.Errorf("failed to resolve actor: %w", err)
	}

	targetID := actorID
	if userID != "" && userID != actorID {
		if !actor.IsAdmin() {
			return absence.ListAbsencesResponse{}, absence.ErrForbidden
		}
		targetID = userID
	}

	absences, err := s.absences.ListByUser(ctx, targetID)
	if err != nil {
		return absence.ListAbsencesResponse{}, fmt.Errorf("failed to list absences: %w", err)
	}

	responses := make([]absence.AbsenceResponse, 0, len(absences))
	for _, a := range absences {
		days, err := s.absences.GetDays(ctx, a.ID)
		if err != nil {
			return absence.ListAbsencesResponse{}, fmt.Errorf("failed to load absence days: %w", err)
		}
		responses = append(responses, mapAbsenceToResponse(a, days))
	}

	return absence.ListAbsencesResponse{
		TotalCount: len(responses),
		Absences:   responses,
	}, nil
}

// UpdateAbsence implements absence.Service.
func (s *AbsenceServiceImpl) UpdateAbsence(ctx context.Context, actorID string, req absence.UpdateAbsenceRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to resolve actor: %w", err)
	}

	a, err := s.absences.GetByID(ctx, req.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	// Admin can edit any time; the owner only while PENDING.
	if !actor.IsAdmin() && !(a.UserID == actorID && a.IsPending()) {
		return absence.AbsenceResponse{}, absence.ErrForbidden
	}

	regenerate := false
	if req.StartDate != nil {
		start, _ := time.Parse("2006-01-02", *req.StartDate)
		a.StartDate = start
		regenerate = true
	}
	if req.EndDate != nil {
		end, _ := time.Parse("2006-01-02", *req.EndDate)
		a.EndDate = end
		regenerate = true
	}
	if req.Category != nil {
		a.Category = absence.Category(*req.Category)
	}
	if req.Reason != nil {
		a.Reason = req.Reason
	}
	if req.SupportingDocumentURL != nil {
		a.SupportingDocumentURL = req.SupportingDocumentURL
	}

	if a.EndDate.Before(a.StartDate) {
		return absence.AbsenceResponse{}, fmt.Errorf("end date precedes start date")
	}

	if err := s.absences.Update(ctx, a); err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to update absence: %w", err)
	}

	var overrides []absence.DayOverride
	if req.Days != nil {
		overrides = *req.Days
		regenerate = true
	}

	var days []absence.Day
	if regenerate {
		days = generateDays(a, overrides)
		if err := s.absences.ReplaceDays(ctx, a.ID, days); err != nil {
			return absence.AbsenceResponse{}, fmt.Errorf("failed to regenerate absence days: %w", err)
		}
	} else {
		days, err = s.absences.GetDays(ctx, a.ID)
		if err != nil {
			return absence.AbsenceResponse{}, fmt.Errorf("failed to load absence days: %w", err)
		}
	}

	return mapAbsenceToResponse(a, days), nil
}

// TransitionStatus implements absence.Service.
func (s *AbsenceServiceImpl) TransitionStatus(ctx context.Context, actorID string, req absence.TransitionStatusRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to resolve actor: %w", err)
	}

	a, err := s.absences.GetByID(ctx, req.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if !a.IsPending() {
		return absence.AbsenceResponse{}, absence.ErrAlreadyProcessed
	}

	allowed, err := s.canDecide(ctx, actor, a.UserID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	if !allowed {
		return absence.AbsenceResponse{}, absence.ErrForbidden
	}

	now := time.Now()
	a.Status = absence.Status(req.Status)
	a.ApprovedBy = &actor.ID
	a.ApprovedAt = &now

	if err := s.absences.Update(ctx, a); err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to update absence status: %w", err)
	}

	switch a.Status {
	case absence.StatusApproved:
		if err := s.ledger.EnsureDebitForApprovedAbsence(ctx, a); err != nil {
			return absence.AbsenceResponse{}, err
		}
	case absence.StatusRejected:
		if err := s.ledger.RemoveDebitForAbsence(ctx, a.ID); err != nil {
			return absence.AbsenceResponse{}, err
		}
	}

	days, err := s.absences.GetDays(ctx, a.ID)
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to load absence days: %w", err)
	}

	return mapAbsenceToResponse(a, days), nil
}

// DeleteAbsence implements absence.Service.
func (s *AbsenceServiceImpl) DeleteAbsence(ctx context.Context, actorID string, id string) error {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to resolve actor: %w", err)
	}

	a, err := s.absences.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Admin can delete any time; the owner only while PENDING.
	if !actor.IsAdmin() && !(a.UserID == actorID && a.IsPending()) {
		return absence.ErrForbidden
	}

	// Reverse any ledger debit before the absence disappears.
	if err := s.ledger.RemoveDebitForAbsence(ctx, id); err != nil {
		return err
	}

	if err := s.absences.Delete(ctx, id); err != nil {
		if errors.Is(err, absence.ErrAbsenceNotFound) {
			return absence.ErrAbsenceNotFound
		}
		return fmt.Errorf("failed to delete absence: %w", err)
	}

	return nil
}

// canDecide gates status transitions: admins always; managers only when
// they share a team with the subject.
func (s *AbsenceServiceImpl) canDecide(ctx context.Context, actor user.User, subjectID string) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}
	if !actor.IsManager() {
		return false, nil
	}

	actorTeams, err := s.teams.TeamsOfUser(ctx, actor.ID)
	if err != nil {
		return false, fmt.Errorf("failed to list actor teams: %w", err)
	}
	subjectTeams, err := s.teams.TeamsOfUser(ctx, subjectID)
	if err != nil {
		return false, fmt.Errorf("failed to list subject teams: %w", err)
	}

	subjectSet := make(map[string]bool, len(subjectTeams))
	for _, t := range subjectTeams {
		subjectSet[t.ID] = true
	}
	for _, t := range actorTeams {
		if subjectSet[t.ID] {
			return true, nil
		}
	}
	return false, nil
}

// generateDays produces one row per calendar day in the absence range,
// defaulting to FULL_DAY unless an override names the date.
func generateDays(a absence.Absence, overrides []absence.DayOverride) []absence.Day {
	byDate := make(map[string]absence.DayOverride, len(overrides))
	for _, o := range overrides {
		byDate[o.Date] = o
	}

	var days []absence.Day
	for d := a.StartDate; !d.After(a.EndDate); d = d.AddDate(0, 0, 1) {
		day := absence.Day{
			AbsenceID: a.ID,
			Date:      d,
			Period:    absence.DayPeriodFullDay,
		}
		if o, ok := byDate[d.Format("2006-01-02")]; ok {
			day.Period = absence.DayPeriod(o.Period)
			if t, err := time.Parse("15:04", o.StartTime); err == nil && o.StartTime != "" {
				start := t
				day.StartTime = &start
			}
			if t, err := time.Parse("15:04", o.EndTime); err == nil && o.EndTime != "" {
				end := t
				day.EndTime = &end
			}
		}
		days = append(days, day)
	}
	return days
}

func mapAbsenceToResponse(a absence.Absence, days []absence.Day) absence.AbsenceResponse {
	dayResponses := make([]absence.DayResponse, 0, len(days))
	for _, d := range days {
		dr := absence.DayResponse{
			Date:   d.Date.Format("2006-01-02"),
			Period: string(d.Period),
		}
		if d.StartTime != nil {
			formatted := d.StartTime.Format("15:04")
			dr.StartTime = &formatted
		}
		if d.EndTime != nil {
			formatted := d.EndTime.Format("15:04")
			dr.EndTime = &formatted
		}
		dayResponses = append(dayResponses, dr)
	}

	resp := absence.AbsenceResponse{
		ID:                    a.ID,
		UserID:                a.UserID,
		StartDate:             a.StartDate.Format("2006-01-02"),
		EndDate:               a.EndDate.Format("2006-01-02"),
		Category:              string(a.Category),
		Status:                string(a.Status),
		ApprovedBy:            a.ApprovedBy,
		Reason:                a.Reason,
		SupportingDocumentURL: a.SupportingDocumentURL,
		Days:                  dayResponses,
		CreatedAt:             a.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:             a.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if a.ApprovedAt != nil {
		formatted := a.ApprovedAt.Format("2006-01-02 15:04:05")
		resp.ApprovedAt = &formatted
	}
	return resp
}
