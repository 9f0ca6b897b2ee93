package freshdesk

import (
	"context"
	"log/slog"
)

// ContactAPI is the slice of the client the contact service needs. Narrowed
// so tests can substitute a fake.
type ContactAPI interface {
	SearchContactsByEmail(ctx context.Context, email string) ([]Contact, error)
	SearchContactsByPhone(ctx context.Context, phone string) ([]Contact, error)
	CreateContact(ctx context.Context, fields ContactFields) (*Contact, error)
	UpdateContact(ctx context.Context, id int64, fields ContactFields) (*Contact, error)
}

// ContactService resolves and reconciles contacts against the submission
// data of one request. It holds no state between requests; contacts live in
// Freshdesk.
type ContactService struct {
	api    ContactAPI
	logger *slog.Logger
}

// NewContactService creates a contact service on top of the given API.
func NewContactService(api ContactAPI, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{api: api, logger: logger}
}

// Resolve finds at most one existing contact, querying by email first and by
// phone only when the email lookup misses. The second lookup is skipped on a
// hit, so the common case (known email) costs one call. Returns nil when
// neither lookup matches or both inputs are empty.
func (s *ContactService) Resolve(ctx context.Context, email, phone string) (*Contact, error) {
	if email != "" {
		contacts, err := s.api.SearchContactsByEmail(ctx, email)
		if err != nil {
			// Lookup failures are treated as absence; the ticket still goes out.
			s.logger.Warn("contact email lookup failed", slog.String("error", err.Error()))
		} else if len(contacts) > 0 {
			return &contacts[0], nil
		}
	}

	if phone != "" {
		contacts, err := s.api.SearchContactsByPhone(ctx, phone)
		if err != nil {
			s.logger.Warn("contact phone lookup failed", slog.String("error", err.Error()))
		} else if len(contacts) > 0 {
			return &contacts[0], nil
		}
	}

	return nil, nil
}

// Upsert reconciles the submitted identity against Freshdesk and returns the
// contact the ticket should reference.
//
// When no contact matches, one is created; a create failure is fatal because
// there is nothing to reference. When a contact matches and every non-empty
// submitted field already agrees with it, no write is issued. When fields
// differ the contact is updated; an update failure degrades to the existing
// record so the ticket is not lost over a cosmetic write.
func (s *ContactService) Upsert(ctx context.Context, name, email, phone string) (*Contact, error) {
	existing, err := s.Resolve(ctx, email, phone)
	if err != nil {
		return nil, err
	}

	fields := ContactFields{Name: name, Email: email, Mobile: phone}

	if existing == nil {
		created, err := s.api.CreateContact(ctx, fields)
		if err != nil {
			return nil, err
		}
		return created, nil
	}

	needsUpdate := (fields.Name != "" && fields.Name != existing.Name) ||
		(fields.Email != "" && fields.Email != existing.Email) ||
		(fields.Mobile != "" && fields.Mobile != existing.Mobile)
	if !needsUpdate {
		return existing, nil
	}

	updated, err := s.api.UpdateContact(ctx, existing.ID, fields)
	if err != nil {
		s.logger.Warn("contact update failed, using existing record",
			slog.Int64("contact_id", existing.ID),
			slog.String("error", err.Error()),
		)
		return existing, nil
	}
	return updated, nil
}
