// Package frontdoor handles inbound form submissions: honeypot gating,
// validation, contact upsert, ticket composition and submission. One
// configurable handler serves every form type.
package frontdoor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/intalkconnect/sendform/internal/domain"
	"github.com/intalkconnect/sendform/internal/forms"
	"github.com/intalkconnect/sendform/internal/freshdesk"
	"github.com/intalkconnect/sendform/internal/server"
	"github.com/intalkconnect/sendform/internal/ticket"
)

// TicketAPI is the slice of the Freshdesk client the handler submits through.
type TicketAPI interface {
	CreateTicket(ctx context.Context, t freshdesk.Ticket) error
}

// ContactUpserter reconciles the submitted identity into a contact record.
type ContactUpserter interface {
	Upsert(ctx context.Context, name, email, phone string) (*freshdesk.Contact, error)
}

// Composer builds the ticket payload for one form type.
type Composer func(sub *forms.Submission, requesterID int64) freshdesk.Ticket

// Handler processes one form type end to end.
type Handler struct {
	kind     string
	tickets  TicketAPI
	contacts ContactUpserter
	policy   forms.Policy
	compose  Composer
	logger   *slog.Logger
}

// NewCommercial creates the handler for commercial-demo submissions.
func NewCommercial(tickets TicketAPI, contacts ContactUpserter, logger *slog.Logger) *Handler {
	return New("commercial", tickets, contacts, forms.CommercialPolicy, ticket.ComposeCommercial, logger)
}

// NewIncident creates the handler for incident-report submissions.
func NewIncident(tickets TicketAPI, contacts ContactUpserter, logger *slog.Logger) *Handler {
	return New("incident", tickets, contacts, forms.IncidentPolicy, ticket.ComposeIncident, logger)
}

// New creates a handler for an arbitrary form kind, policy and composer.
func New(kind string, tickets TicketAPI, contacts ContactUpserter, policy forms.Policy, compose Composer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		kind:     kind,
		tickets:  tickets,
		contacts: contacts,
		policy:   policy,
		compose:  compose,
		logger:   logger,
	}
}

// ServeHTTP runs the submission through honeypot, validation, contact
// resolution, composition and upstream submit, mapping each outcome to the
// response contract.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := server.GetRequestID(r.Context())
	server.AddLogField(r.Context(), "form", h.kind)

	sub, err := forms.Parse(r)
	if err != nil {
		server.AddError(r.Context(), err)
		domain.ErrMissingFields(nil).WriteJSON(w)
		return
	}

	// Honeypot: answer exactly like a success so automated submitters cannot
	// tell rejection from acceptance. Nothing reaches Freshdesk.
	if sub.Website != "" {
		server.AddLogField(r.Context(), "honeypot", "tripped")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if missing := h.policy.Validate(sub); len(missing) > 0 {
		server.AddLogField(r.Context(), "validation", "failed")
		domain.ErrMissingFields(missing).WriteJSON(w)
		return
	}
	if h.policy.RequireConsent && !sub.Consent {
		server.AddLogField(r.Context(), "validation", "consent")
		domain.ErrConsentRequired().WriteJSON(w)
		return
	}

	name := sub.Name
	if name == "" {
		name = "Contato do site"
	}

	contact, err := h.contacts.Upsert(r.Context(), name, sub.Email, sub.Phone)
	if err != nil {
		h.respondError(w, r, requestID, "contact upsert failed", err)
		return
	}
	server.AddLogField(r.Context(), "contact_id", formatID(contact.ID))

	payload := h.compose(sub, contact.ID)

	if err := h.tickets.CreateTicket(r.Context(), payload); err != nil {
		h.respondError(w, r, requestID, "ticket create failed", err)
		return
	}

	// Empty success body: the landing page renders its own confirmation.
	w.WriteHeader(http.StatusNoContent)
}

// respondError maps upstream write failures to the propagated Freshdesk
// status and everything else to a generic 500. Detail only goes to the log.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, requestID, msg string, err error) {
	server.AddError(r.Context(), err)
	h.logger.Error(msg,
		slog.String("request_id", requestID),
		slog.String("form", h.kind),
		slog.String("error", err.Error()),
	)

	var apiErr *freshdesk.APIError
	if errors.As(err, &apiErr) {
		domain.ErrUpstream(apiErr.StatusCode, apiErr.Body).WriteJSON(w)
		return
	}
	domain.ErrServer(err.Error()).WriteJSON(w)
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Register mounts the form endpoints and the health check on the router.
func Register(r chi.Router, commercial, incident *Handler) {
	r.Post("/api/commercial-demo", commercial.ServeHTTP)
	r.Post("/api/incident-report", incident.ServeHTTP)
	r.Get("/health", Health)
	r.Get("/", Health)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
