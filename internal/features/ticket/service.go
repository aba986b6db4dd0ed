package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"

	common_models "go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/internal/features/permission"
	"go-helpdesk/internal/features/role"
	"go-helpdesk/internal/features/system"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrAlreadyClaimed = errors.New("ticket is already claimed")

// Viewer identifies the acting user for visibility decisions.
type Viewer struct {
	Email string
	Roles []string
}

type TicketService interface {
	// ListTickets applies the viewer's visibility: all tickets with
	// VIEW_ALL_TICKETS, otherwise assigned tickets with
	// VIEW_ASSIGNED_TICKETS plus the viewer's own submissions.
	ListTickets(ctx context.Context, viewer Viewer) ([]Ticket, error)
	GetTicket(ctx context.Context, id string) (*Ticket, error)
	SubmitTicket(ctx context.Context, viewer Viewer, t Ticket) (*Ticket, error)
	ClaimTicket(ctx context.Context, viewer Viewer, id string) (*Ticket, error)
	UpdateStatus(ctx context.Context, viewer Viewer, id, status string) (*Ticket, error)
	AddComment(ctx context.Context, viewer Viewer, id, text string) (*Ticket, error)
}

type TicketServiceImpl struct {
	Repo         TicketRepository
	RoleService  role.RoleService
	AuditService audit.AuditService
	Hub          *system.Hub
	Logger       *zap.Logger
}

func NewTicketService(
	repo TicketRepository,
	roleService role.RoleService,
	auditService audit.AuditService,
	hub *system.Hub,
	logger *zap.Logger,
) TicketService {
	return &TicketServiceImpl{
		Repo:         repo,
		RoleService:  roleService,
		AuditService: auditService,
		Hub:          hub,
		Logger:       logger,
	}
}

func (s *TicketServiceImpl) ListTickets(ctx context.Context, viewer Viewer) ([]Ticket, error) {
	tickets, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.RoleService.HasPermission(ctx, viewer.Roles, permission.ViewAllTickets) {
		return tickets, nil
	}

	seeAssigned := s.RoleService.HasPermission(ctx, viewer.Roles, permission.ViewAssignedTickets)
	seeOwn := s.RoleService.HasPermission(ctx, viewer.Roles, permission.SubmitTickets)

	visible := []Ticket{}
	for _, t := range tickets {
		if seeAssigned && strings.EqualFold(t.Assignee, viewer.Email) {
			visible = append(visible, t)
			continue
		}
		if seeOwn && strings.EqualFold(t.Submitter, viewer.Email) {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

func (s *TicketServiceImpl) GetTicket(ctx context.Context, id string) (*Ticket, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *TicketServiceImpl) SubmitTicket(ctx context.Context, viewer Viewer, t Ticket) (*Ticket, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, errors.New("ticket title is required")
	}

	t.ID = "TKT-" + strings.ToUpper(uuid.NewString()[:8])
	t.Status = StatusOpen
	t.Submitter = viewer.Email
	t.Assignee = ""
	t.Created = now()
	t.Updated = t.Created

	if err := s.Repo.Append(ctx, t); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "ticket", t.ID, map[string]common_models.Change{
		"title": {New: t.Title},
	})
	s.Hub.Publish("ticket.submitted", t.ID)

	return &t, nil
}

func (s *TicketServiceImpl) ClaimTicket(ctx context.Context, viewer Viewer, id string) (*Ticket, error) {
	t, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Assignee != "" {
		return nil, fmt.Errorf("%w: assigned to %s", ErrAlreadyClaimed, t.Assignee)
	}

	t.Assignee = viewer.Email
	t.Status = StatusClaimed
	t.Updated = now()

	if err := s.Repo.Update(ctx, *t); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionClaim, "ticket", t.ID, map[string]common_models.Change{
		"assignee": {New: viewer.Email},
	})
	s.Hub.Publish("ticket.claimed", t.ID)

	return t, nil
}

func (s *TicketServiceImpl) UpdateStatus(ctx context.Context, viewer Viewer, id, status string) (*Ticket, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	t, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	old := t.Status
	t.Status = status
	t.Updated = now()

	if err := s.Repo.Update(ctx, *t); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "ticket", t.ID, map[string]common_models.Change{
		"status": {Old: old, New: status},
	})
	s.Hub.Publish("ticket.updated", t.ID)

	return t, nil
}

func (s *TicketServiceImpl) AddComment(ctx context.Context, viewer Viewer, id, text string) (*Ticket, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("comment text is required")
	}

	t, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Comments = append(t.Comments, Comment{
		At:     now(),
		Author: viewer.Email,
		Text:   text,
	})
	t.Updated = now()

	if err := s.Repo.Update(ctx, *t); err != nil {
		return nil, err
	}

	s.Hub.Publish("ticket.commented", t.ID)
	return t, nil
}
