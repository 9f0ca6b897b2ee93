package freshdesk

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("example", "test-key", WithBaseURL(srv.URL))
}

func TestClientSetsBasicAuthAndAccept(t *testing.T) {
	var gotAuth, gotAccept string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		json.NewEncoder(w).Encode([]Contact{})
	})

	if _, err := client.SearchContactsByEmail(context.Background(), "a@b.c"); err != nil {
		t.Fatalf("SearchContactsByEmail() error = %v", err)
	}

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("test-key:X"))
	if gotAuth != wantAuth {
		t.Errorf("Authorization = %q, want %q", gotAuth, wantAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

func TestSearchContactsByEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("email"); got != "ana@acme.com.br" {
			t.Errorf("email query = %q", got)
		}
		json.NewEncoder(w).Encode([]Contact{{ID: 101, Name: "Ana", Email: "ana@acme.com.br"}})
	})

	contacts, err := client.SearchContactsByEmail(context.Background(), "ana@acme.com.br")
	if err != nil {
		t.Fatalf("SearchContactsByEmail() error = %v", err)
	}
	if len(contacts) != 1 || contacts[0].ID != 101 {
		t.Fatalf("contacts = %+v, want one contact with ID 101", contacts)
	}
}

func TestSearchContactsByPhoneUsesMobileParam(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("mobile"); got != "+5511999999999" {
			t.Errorf("mobile query = %q", got)
		}
		json.NewEncoder(w).Encode([]Contact{})
	})

	if _, err := client.SearchContactsByPhone(context.Background(), "+5511999999999"); err != nil {
		t.Fatalf("SearchContactsByPhone() error = %v", err)
	}
}

func TestSearchNonSuccessIsNoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"throttled"}`, http.StatusTooManyRequests)
	})

	contacts, err := client.SearchContactsByEmail(context.Background(), "a@b.c")
	if err != nil {
		t.Fatalf("non-success search should not error, got %v", err)
	}
	if len(contacts) != 0 {
		t.Fatalf("contacts = %+v, want empty", contacts)
	}
}

func TestCreateContact(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v2/contacts" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var fields map[string]any
		json.NewDecoder(r.Body).Decode(&fields)
		if _, present := fields["mobile"]; present {
			t.Error("empty mobile must be omitted from the payload")
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Contact{ID: 7, Name: "Ana", Email: "a@b.c"})
	})

	contact, err := client.CreateContact(context.Background(), ContactFields{Name: "Ana", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("CreateContact() error = %v", err)
	}
	if contact.ID != 7 {
		t.Errorf("contact.ID = %d, want 7", contact.ID)
	}
}

func TestCreateContactFailureCarriesStatusAndBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"description":"duplicate email"}`))
	})

	_, err := client.CreateContact(context.Background(), ContactFields{Email: "a@b.c"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("StatusCode = %d, want 409", apiErr.StatusCode)
	}
	if apiErr.Body != `{"description":"duplicate email"}` {
		t.Errorf("Body = %q", apiErr.Body)
	}
}

func TestUpdateContact(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/v2/contacts/42" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(Contact{ID: 42, Name: "New Name"})
	})

	contact, err := client.UpdateContact(context.Background(), 42, ContactFields{Name: "New Name"})
	if err != nil {
		t.Fatalf("UpdateContact() error = %v", err)
	}
	if contact.Name != "New Name" {
		t.Errorf("contact.Name = %q", contact.Name)
	}
}

func TestCreateTicket(t *testing.T) {
	var got Ticket
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v2/tickets" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
	})

	ticket := Ticket{
		RequesterID: 7,
		Subject:     "Comercial - Ana | Acme",
		Description: "<div>ok</div>",
		Status:      StatusOpen,
		Priority:    PriorityMedium,
		Source:      SourcePortal,
	}
	if err := client.CreateTicket(context.Background(), ticket); err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	if got.RequesterID != 7 || got.Status != StatusOpen {
		t.Errorf("submitted ticket = %+v", got)
	}
}

func TestCreateTicketFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":[{"field":"email","message":"invalid"}]}`))
	})

	err := client.CreateTicket(context.Background(), Ticket{Subject: "x"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want 422", apiErr.StatusCode)
	}
}
