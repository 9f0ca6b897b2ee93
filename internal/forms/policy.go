package forms

// Policy is an enumerated required-field set for one endpoint. The historical
// deployments disagreed on what was mandatory; each endpoint now binds to
// exactly one policy.
type Policy struct {
	// Required maps field names (as they appear on the wire) to accessors.
	required []requiredField

	// RequireConsent rejects submissions without an affirmative consent flag.
	RequireConsent bool
}

type requiredField struct {
	name string
	get  func(*Submission) string
}

// CommercialPolicy validates commercial-demo submissions: company and email
// are mandatory, everything else is optional and rendered as-is.
var CommercialPolicy = Policy{
	required: []requiredField{
		{"company", func(s *Submission) string { return s.Company }},
		{"email", func(s *Submission) string { return s.Email }},
	},
}

// IncidentPolicy validates incident-report submissions: a reachable reporter
// and a one-line summary are the minimum for a ticket an operator can act on.
var IncidentPolicy = Policy{
	required: []requiredField{
		{"email", func(s *Submission) string { return s.Email }},
		{"summary", func(s *Submission) string { return s.Summary }},
	},
}

// Validate returns the names of violated required fields, in declaration
// order. An empty slice means the submission passes.
func (p Policy) Validate(s *Submission) []string {
	var missing []string
	for _, f := range p.required {
		if f.get(s) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
