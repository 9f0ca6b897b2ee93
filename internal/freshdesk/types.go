package freshdesk

// Freshdesk ticket field codes. The API takes numeric enums for status,
// priority and source; see the v2 ticket schema.
const (
	StatusOpen   = 2
	SourcePortal = 2

	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

// Contact is a Freshdesk contact as returned by the contacts API. Only the
// fields the relay reads are mapped.
type Contact struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// ContactFields is the write payload for contact create/update calls. Empty
// fields are omitted entirely; Freshdesk treats an explicit empty string as a
// value to store.
type ContactFields struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

// Ticket is the write payload for ticket creation. The requester is
// referenced either by RequesterID (preferred, set after a contact upsert) or
// by the raw Email/Name/Phone fields.
type Ticket struct {
	RequesterID int64  `json:"requester_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`

	Subject     string `json:"subject"`
	Description string `json:"description"`
	Status      int    `json:"status"`
	Priority    int    `json:"priority"`
	Source      int    `json:"source"`

	Type         string            `json:"type,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
}
