package ticket

import (
	"context"
	"fmt"

	"go-helpdesk/internal/bridge"
	"go-helpdesk/internal/features/mapping"
)

type TicketRepository interface {
	List(ctx context.Context) ([]Ticket, error)
	FindByID(ctx context.Context, id string) (*Ticket, error)
	Append(ctx context.Context, t Ticket) error
	Update(ctx context.Context, t Ticket) error
}

type TicketRepositoryImpl struct {
	Store       bridge.Store
	MappingRepo mapping.MappingRepository
}

func NewTicketRepository(store bridge.Store, mappingRepo mapping.MappingRepository) TicketRepository {
	return &TicketRepositoryImpl{
		Store:       store,
		MappingRepo: mappingRepo,
	}
}

// headers resolves the ticket field bindings. ticket.id must be mapped: it is
// the row key every update hangs off, which is why it is on the critical
// list.
func (r *TicketRepositoryImpl) headers(ctx context.Context) (fieldHeaders, error) {
	mappings, err := r.MappingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	headers := fieldHeaders{}
	for _, m := range mappings {
		if m.SheetName == TicketsSheet {
			headers[m.AppFieldID] = m.SheetHeader
		}
	}
	if headers["ticket.id"] == "" {
		return nil, fmt.Errorf("ticket.id is not mapped for sheet %q", TicketsSheet)
	}
	return headers, nil
}

func (r *TicketRepositoryImpl) List(ctx context.Context) ([]Ticket, error) {
	headers, err := r.headers(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.Store.ReadRows(ctx, TicketsSheet)
	if err != nil {
		return nil, err
	}

	var tickets []Ticket
	for _, row := range rows {
		t := rowToTicket(row, headers)
		if t.ID == "" {
			continue
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id string) (*Ticket, error) {
	tickets, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if t.ID == id {
			copied := t
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: ticket %s", bridge.ErrNotFound, id)
}

func (r *TicketRepositoryImpl) Append(ctx context.Context, t Ticket) error {
	headers, err := r.headers(ctx)
	if err != nil {
		return err
	}
	return r.Store.AppendRow(ctx, TicketsSheet, ticketToRow(t, headers))
}

func (r *TicketRepositoryImpl) Update(ctx context.Context, t Ticket) error {
	headers, err := r.headers(ctx)
	if err != nil {
		return err
	}
	return r.Store.UpdateRow(ctx, TicketsSheet, headers["ticket.id"], t.ID, ticketToRow(t, headers))
}
