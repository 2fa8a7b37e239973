package models

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in-progress"
	TicketResolved   TicketStatus = "resolved"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Ticket is a support ticket. Status transitions are decided by the server.
type Ticket struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Priority      Priority     `json:"priority"`
	Status        TicketStatus `json:"status"`
	CreatedDate   string       `json:"created_date"`
	ResolvedDate  *string      `json:"resolved_date"`
	AdminResponse *string      `json:"admin_response"`
	User          string       `json:"user"`
}

func (t Ticket) Resolved() bool {
	return t.Status == TicketResolved
}
