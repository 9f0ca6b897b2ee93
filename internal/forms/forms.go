// Package forms models inbound form submissions and their validation
// policies. Bodies arrive either JSON- or form-encoded from the landing
// pages; both decode into the same Submission.
package forms

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/intalkconnect/sendform/internal/sanitize"
)

// StringList accepts either a single string or an array of strings. The
// interest checkboxes post one value or many depending on the page.
type StringList []string

// UnmarshalJSON implements the string-or-array union.
func (l *StringList) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}

	return fmt.Errorf("value must be a string or array of strings")
}

// Submission is one inbound form post. Both form types share the struct;
// fields a form does not carry stay empty.
type Submission struct {
	// Website is the honeypot. Hidden on the page; any value means a bot.
	Website string `json:"website"`

	Name        string `json:"name"`
	Company     string `json:"company"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanySize string `json:"company_size"`
	Message     string `json:"message"`

	// Incident-only fields.
	Service             string `json:"service"`
	Severity            string `json:"severity"`
	Impact              string `json:"impact"`
	StartTime           string `json:"start_time"`
	Environment         string `json:"environment"`
	Summary             string `json:"summary"`
	DetailedDescription string `json:"detailed_description"`
	Evidence            string `json:"evidence"`

	Origin    string     `json:"origin"`
	Channel   string     `json:"channel"`
	Consent   bool       `json:"consent"`
	Interests StringList `json:"interests"`
}

// normalize trims every free-text field and drops empty interest entries.
func (s *Submission) normalize() {
	for _, p := range []*string{
		&s.Website, &s.Name, &s.Company, &s.Email, &s.Phone, &s.CompanySize,
		&s.Message, &s.Service, &s.Severity, &s.Impact, &s.StartTime,
		&s.Environment, &s.Summary, &s.DetailedDescription, &s.Evidence,
		&s.Origin, &s.Channel,
	} {
		*p = sanitize.Normalize(*p)
	}

	interests := s.Interests[:0]
	for _, v := range s.Interests {
		if v = sanitize.Normalize(v); v != "" {
			interests = append(interests, v)
		}
	}
	s.Interests = interests
}

// Parse decodes the request body into a normalized Submission. JSON and
// urlencoded bodies are both accepted, selected by Content-Type.
func Parse(r *http.Request) (*Submission, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var sub Submission
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("failed to parse form body: %w", err)
		}
		sub = fromValues(r.PostForm)
	default:
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			return nil, fmt.Errorf("failed to decode JSON body: %w", err)
		}
	}

	sub.normalize()
	return &sub, nil
}

func fromValues(values map[string][]string) Submission {
	get := func(key string) string {
		if vs := values[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	// The legacy pages post repeated "interests[]" keys; newer ones use
	// "interests".
	interests := append(StringList{}, values["interests"]...)
	interests = append(interests, values["interests[]"]...)

	return Submission{
		Website:             get("website"),
		Name:                get("name"),
		Company:             get("company"),
		Email:               get("email"),
		Phone:               get("phone"),
		CompanySize:         get("company_size"),
		Message:             get("message"),
		Service:             get("service"),
		Severity:            get("severity"),
		Impact:              get("impact"),
		StartTime:           get("start_time"),
		Environment:         get("environment"),
		Summary:             get("summary"),
		DetailedDescription: get("detailed_description"),
		Evidence:            get("evidence"),
		Origin:              get("origin"),
		Channel:             get("channel"),
		Consent:             isAffirmative(get("consent")),
		Interests:           interests,
	}
}

func isAffirmative(v string) bool {
	switch strings.ToLower(sanitize.Normalize(v)) {
	case "true", "1", "on", "yes", "sim":
		return true
	}
	return false
}
