// Package ticket composes Freshdesk ticket payloads from validated form
// submissions. Subjects, priorities and the HTML description layout follow
// the landing-page conventions; every interpolated value is escaped.
package ticket

import (
	"regexp"
	"strings"

	"github.com/intalkconnect/sendform/internal/forms"
	"github.com/intalkconnect/sendform/internal/freshdesk"
	"github.com/intalkconnect/sendform/internal/sanitize"
)

const (
	fallbackName    = "Contato do site"
	fallbackCompany = "Empresa não informada"

	// placeholder renders omitted fields in the description list.
	placeholder = "—"

	descStyle   = `font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;font-size:14px;line-height:1.5;color:#0B1220`
	headerStyle = `margin:0 0 6px 0;font-size:18px`
	listStyle   = `padding-left:18px;margin:0 0 12px`
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// severityLadder maps severity keywords to Freshdesk priorities. Matching is
// case-insensitive substring, first hit wins; the forms post Portuguese
// labels but API clients send English ones, so both sets are recognized.
var severityLadder = []struct {
	keyword  string
	priority int
}{
	{"crít", freshdesk.PriorityUrgent},
	{"critical", freshdesk.PriorityUrgent},
	{"alta", freshdesk.PriorityHigh},
	{"high", freshdesk.PriorityHigh},
	{"méd", freshdesk.PriorityMedium},
	{"medium", freshdesk.PriorityMedium},
}

// PriorityFromSeverity derives a ticket priority from the severity keyword.
// Unknown or empty severities land on the lowest tier.
func PriorityFromSeverity(severity string) int {
	sev := strings.ToLower(sanitize.Normalize(severity))
	for _, rung := range severityLadder {
		if strings.Contains(sev, rung.keyword) {
			return rung.priority
		}
	}
	return freshdesk.PriorityLow
}

// Slug lower-cases s and collapses whitespace runs into hyphens, for use as
// a ticket tag.
func Slug(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(sanitize.Normalize(s)), "-")
}

// ComposeCommercial builds the ticket for a commercial-demo submission,
// addressed to the upserted contact. Priority is fixed at medium: sales
// follow-ups are never incidents.
func ComposeCommercial(sub *forms.Submission, requesterID int64) freshdesk.Ticket {
	name := sub.Name
	if name == "" {
		name = fallbackName
	}
	company := sub.Company
	if company == "" {
		company = fallbackCompany
	}

	var b descriptionBuilder
	b.open("Novo contato comercial", "")
	b.item("Solicitante", name)
	b.item("Empresa", company)
	b.item("E-mail", sub.Email)
	b.item("Telefone", sub.Phone)
	b.item("Tamanho", sub.CompanySize)
	b.item("Interesse(s)", strings.Join(sub.Interests, ", "))
	b.item("Origem", defaultTo(sub.Origin, "LP"))
	b.item("Consentimento LGPD", yesNo(sub.Consent))
	b.closeList()
	b.textBlock("Observações", sub.Message)

	return freshdesk.Ticket{
		RequesterID: requesterID,
		Subject:     "Comercial - " + name + " | " + company,
		Description: b.html(),
		Status:      freshdesk.StatusOpen,
		Priority:    freshdesk.PriorityMedium,
		Source:      freshdesk.SourcePortal,
	}
}

// ComposeIncident builds the ticket for an incident report, typed and tagged
// so the service desk can triage it.
func ComposeIncident(sub *forms.Submission, requesterID int64) freshdesk.Ticket {
	title := sub.Summary
	if title == "" {
		title = sub.Service
	}
	if title == "" {
		title = "Sem título"
	}
	subject := "Incidente - " + title
	if sub.Company != "" {
		subject += " - " + sub.Company
	}

	var b descriptionBuilder
	b.open("Incidente reportado", "Criado automaticamente pelo formulário de incidentes.")
	b.item("Solicitante", sub.Name)
	b.item("Empresa", sub.Company)
	b.item("E-mail", sub.Email)
	b.item("Telefone", sub.Phone)
	b.item("Serviço afetado", sub.Service)
	b.item("Severidade", sub.Severity)
	b.item("Impacto", sub.Impact)
	b.item("Início", sub.StartTime)
	b.item("Ambiente", sub.Environment)
	b.item("Origem", defaultTo(sub.Origin, "Site - Abrir Incidente"))
	b.item("Canal", defaultTo(sub.Channel, "Web"))
	b.item("Consentimento LGPD", yesNo(sub.Consent))
	b.closeList()
	b.textBlock("Descrição detalhada", sub.DetailedDescription)
	b.textBlock("Evidências", sub.Evidence)

	tags := []string{"incidente"}
	if slug := Slug(sub.Service); slug != "" {
		tags = append(tags, slug)
	}

	return freshdesk.Ticket{
		RequesterID: requesterID,
		Subject:     subject,
		Description: b.html(),
		Status:      freshdesk.StatusOpen,
		Priority:    PriorityFromSeverity(sub.Severity),
		Source:      freshdesk.SourcePortal,
		Type:        "Incident",
		Tags:        tags,
	}
}

// descriptionBuilder assembles the styled HTML fragment Freshdesk renders as
// the ticket body.
type descriptionBuilder struct {
	b strings.Builder
}

func (d *descriptionBuilder) open(title, lede string) {
	d.b.WriteString(`<div style="` + descStyle + `">`)
	d.b.WriteString(`<h2 style="` + headerStyle + `">` + title + `</h2>`)
	if lede != "" {
		d.b.WriteString(`<p style="margin:0 0 12px;color:#4B5563">` + lede + `</p>`)
	}
	d.b.WriteString(`<ul style="` + listStyle + `">`)
}

// item appends one list entry; the value is escaped here, empty values show
// the placeholder.
func (d *descriptionBuilder) item(label, value string) {
	v := sanitize.Escape(value)
	if v == "" {
		v = placeholder
	}
	d.b.WriteString(`<li><b>` + label + `:</b> ` + v + `</li>`)
}

func (d *descriptionBuilder) closeList() {
	d.b.WriteString(`</ul>`)
}

// textBlock appends a free-text section with line breaks preserved. Empty
// values render nothing.
func (d *descriptionBuilder) textBlock(label, value string) {
	v := sanitize.Escape(value)
	if v == "" {
		return
	}
	d.b.WriteString(`<div style="margin-top:8px"><b>` + label + `:</b><br>` +
		`<div style="white-space:pre-line">` + v + `</div></div>`)
}

func (d *descriptionBuilder) html() string {
	return d.b.String() + `</div>`
}

func defaultTo(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func yesNo(v bool) string {
	if v {
		return "sim"
	}
	return "não"
}
