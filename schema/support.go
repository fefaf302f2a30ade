package schema

// SupportTicket is a ticket raised through the support endpoint
type SupportTicket struct {
	TicketID  string   `json:"ticket_id"`
	Reason    string   `json:"reason"`
	Status    string   `json:"status"`
	Files     []string `json:"files"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}
