package legal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrUnknownFormType is returned for form types without a template.
var ErrUnknownFormType = errors.New("unknown form type")

const (
	formRule       = "================================================================================"
	formWidth      = 80
	formTimeLayout = "January 02, 2006 at 03:04 PM"
	blankField     = "_________________"
)

var formNotes = []string{
	"This is a computer-generated form for reference purposes",
	"Please verify all information before submission",
	"Consult with a legal professional for final review",
	"Keep copies of all supporting documents",
}

// Field is one fillable line of a form.
type Field struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Example string `json:"example,omitempty"`
}

// Section groups related fields under a heading.
type Section struct {
	Name   string  `json:"name"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// FormTemplate describes one form type.
type FormTemplate struct {
	Type     string    `json:"form_type"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// RenderedForm is a generated form and the fields left blank.
type RenderedForm struct {
	Type    string
	Title   string
	Content string
	Missing []string
}

type formDef struct {
	title    string
	sections []string
}

var formDefs = map[string]formDef{
	"FIR": {
		title:    "First Information Report",
		sections: []string{"complainant_details", "incident_details", "accused_details", "witness_details", "evidence_details"},
	},
	"RTI": {
		title:    "Right to Information Application",
		sections: []string{"applicant_details", "information_requested", "public_authority", "grounds_for_request"},
	},
	"COMPLAINT": {
		title:    "General Complaint Form",
		sections: []string{"complainant_details", "complaint_details", "relief_sought", "supporting_documents"},
	},
	"APPEAL": {
		title:    "Legal Appeal Application",
		sections: []string{"appellant_details", "original_order_details", "grounds_for_appeal", "relief_sought"},
	},
}

// sectionFields keeps field order, which the rendered form follows.
var sectionFields = map[string][][2]string{
	"complainant_details": {
		{"name", "Full Name"}, {"address", "Complete Address"}, {"phone", "Phone Number"},
		{"email", "Email Address"}, {"id_proof", "ID Proof Type and Number"},
	},
	"incident_details": {
		{"date_time", "Date and Time of Incident"}, {"location", "Location of Incident"},
		{"description", "Detailed Description of Incident"}, {"loss_damage", "Loss or Damage Suffered"},
	},
	"accused_details": {
		{"name", "Name of Accused"}, {"address", "Address of Accused"}, {"description", "Description of Accused"},
	},
	"witness_details": {
		{"witness_names", "Names of Witnesses"}, {"witness_addresses", "Addresses of Witnesses"},
		{"witness_phones", "Phone Numbers of Witnesses"},
	},
	"evidence_details": {
		{"documents", "Supporting Documents"}, {"physical_evidence", "Physical Evidence"},
		{"digital_evidence", "Digital Evidence"},
	},
	"applicant_details": {
		{"name", "Full Name"}, {"address", "Complete Address"}, {"phone", "Phone Number"},
		{"email", "Email Address"}, {"citizenship", "Citizenship"},
	},
	"information_requested": {
		{"subject", "Subject of Information"}, {"details", "Detailed Description of Information Required"},
		{"period", "Time Period for Information"}, {"format", "Preferred Format of Information"},
	},
	"public_authority": {
		{"authority_name", "Name of Public Authority"}, {"officer_name", "Name of Public Information Officer"},
		{"address", "Address of Public Authority"},
	},
	"grounds_for_request": {
		{"reason", "Reason for Requesting Information"}, {"public_interest", "Public Interest Justification"},
	},
	"complaint_details": {
		{"subject", "Subject of Complaint"}, {"description", "Detailed Description of Complaint"},
		{"date_occurred", "Date When Issue Occurred"}, {"previous_actions", "Previous Actions Taken"},
	},
	"relief_sought": {
		{"compensation", "Compensation Sought"}, {"action_required", "Action Required from Authority"},
		{"timeframe", "Expected Timeframe for Resolution"},
	},
	"supporting_documents": {
		{"documents", "List of Supporting Documents"}, {"photographs", "Photographs (if any)"},
		{"correspondence", "Previous Correspondence"},
	},
	"appellant_details": {
		{"name", "Full Name of Appellant"}, {"address", "Complete Address"}, {"phone", "Phone Number"},
		{"email", "Email Address"}, {"representative", "Legal Representative (if any)"},
	},
	"original_order_details": {
		{"order_number", "Original Order Number"}, {"order_date", "Date of Original Order"},
		{"issuing_authority", "Authority that Issued Order"}, {"order_summary", "Summary of Original Order"},
	},
	"grounds_for_appeal": {
		{"legal_grounds", "Legal Grounds for Appeal"}, {"errors", "Errors in Original Order"},
		{"new_evidence", "New Evidence Available"},
	},
}

// fieldExamples are short hints shown next to blank fields.
var fieldExamples = map[string]string{
	"name":              "e.g., Ramesh Kumar",
	"address":           "e.g., House No. 12, Ward 4, Jaipur, Rajasthan",
	"phone":             "e.g., 9876543210",
	"email":             "e.g., yourname@example.com",
	"id_proof":          "e.g., Aadhaar 1234-5678-9012",
	"date_time":         "e.g., 15 Aug 2025, 8:30 PM",
	"location":          "e.g., Near Bus Stand, Alwar",
	"description":       "e.g., Briefly describe what happened in simple words",
	"loss_damage":       "e.g., Broken phone, injury to hand",
	"witness_names":     "e.g., Sita Devi, Mohan Lal",
	"witness_addresses": "e.g., Village Rampur, Tehsil Kotputli",
	"witness_phones":    "e.g., 9812345678, 9801234567",
	"documents":         "e.g., Bills, photos, FIR copy",
	"physical_evidence": "e.g., Damaged item, clothes",
	"digital_evidence":  "e.g., WhatsApp chats, call recordings",
	"citizenship":       "e.g., Indian",
	"subject":           "e.g., Information about village road repair",
	"details":           "e.g., Copy of tender and progress reports",
	"period":            "e.g., Jan 2023 to Dec 2023",
	"format":            "e.g., Photocopy or PDF via email",
	"authority_name":    "e.g., Public Works Department, Jaipur",
	"officer_name":      "e.g., PIO Mr. Sharma",
	"reason":            "e.g., To ensure proper use of public money",
	"public_interest":   "e.g., Road is unsafe for villagers",
	"date_occurred":     "e.g., 10 July 2025",
	"previous_actions":  "e.g., Spoke to manager on 12 July 2025",
	"compensation":      "e.g., Refund of Rs. 1500",
	"action_required":   "e.g., Inspect shop and take action",
	"timeframe":         "e.g., Within 15 days",
	"photographs":       "e.g., Photo of the damaged road",
	"correspondence":    "e.g., Previous emails/letters to authority",
	"representative":    "e.g., Advocate Meena (optional)",
	"order_number":      "e.g., Order No. 123/2025",
	"order_date":        "e.g., 05 June 2025",
	"issuing_authority": "e.g., SDM, Jaipur",
	"order_summary":     "e.g., Brief summary of the original order",
	"legal_grounds":     "e.g., Section 420 IPC not considered",
	"errors":            "e.g., Evidence was ignored",
	"new_evidence":      "e.g., New witness statement dated 01 Aug 2025",
}

// FormTypes lists the known form types in sorted order.
func FormTypes() []string {
	types := make([]string, 0, len(formDefs))
	for t := range formDefs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// NormalizeFormType upper-cases and trims a form type.
func NormalizeFormType(formType string) string {
	return strings.ToUpper(strings.TrimSpace(formType))
}

// Template describes the sections and fields of formType (case-insensitive).
func Template(formType string) (*FormTemplate, error) {
	key := NormalizeFormType(formType)
	def, ok := formDefs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormType, formType)
	}

	tmpl := &FormTemplate{Type: key, Title: def.title}
	for _, name := range def.sections {
		section := Section{Name: name, Title: sectionTitle(name)}
		for _, f := range sectionFields[name] {
			section.Fields = append(section.Fields, Field{Key: f[0], Label: f[1], Example: fieldExamples[f[0]]})
		}
		tmpl.Sections = append(tmpl.Sections, section)
	}
	return tmpl, nil
}

// GenerateForm renders formType as plain text. Responses are keyed by field
// key; a key shared by several sections fills all of them. Blank fields are
// printed as a line with an example and reported in Missing.
func GenerateForm(formType string, responses map[string]string, now time.Time) (*RenderedForm, error) {
	tmpl, err := Template(formType)
	if err != nil {
		return nil, err
	}

	var (
		lines   []string
		missing []string
		seen    = make(map[string]bool)
	)

	lines = append(lines, formRule, center(tmpl.Title, formWidth), formRule,
		"Generated on: "+now.Format(formTimeLayout), "")

	for _, section := range tmpl.Sections {
		lines = append(lines, "--- "+section.Title+" ---", "")
		for _, f := range section.Fields {
			value := strings.TrimSpace(responses[f.Key])
			switch {
			case value != "":
				lines = append(lines, f.Label+": "+value)
			case f.Example != "":
				lines = append(lines, f.Label+": "+blankField+" ("+f.Example+")")
			default:
				lines = append(lines, f.Label+": "+blankField)
			}
			lines = append(lines, "")

			if value == "" && !seen[f.Key] {
				seen[f.Key] = true
				missing = append(missing, f.Key)
			}
		}
	}

	lines = append(lines, "", formRule, "IMPORTANT NOTES:")
	for _, note := range formNotes {
		lines = append(lines, "• "+note)
	}
	lines = append(lines, formRule)

	return &RenderedForm{
		Type:    tmpl.Type,
		Title:   tmpl.Title,
		Content: strings.Join(lines, "\n"),
		Missing: missing,
	}, nil
}

// sectionTitle turns "complainant_details" into "Complainant Details".
func sectionTitle(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// center pads s with spaces to width, extra space going to the right.
func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	pad := width - n
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
