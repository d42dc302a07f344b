package legal

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestFormTypes(t *testing.T) {
	t.Parallel()

	want := []string{"APPEAL", "COMPLAINT", "FIR", "RTI"}
	if got := FormTypes(); !reflect.DeepEqual(got, want) {
		t.Errorf("FormTypes() = %v, want %v", got, want)
	}
}

func TestTemplate(t *testing.T) {
	t.Parallel()

	tmpl, err := Template(" rti ")
	if err != nil {
		t.Fatalf("Template failed: %v", err)
	}
	if tmpl.Type != "RTI" || tmpl.Title != "Right to Information Application" {
		t.Errorf("unexpected template header: %+v", tmpl)
	}
	if len(tmpl.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(tmpl.Sections))
	}

	first := tmpl.Sections[0]
	if first.Title != "Applicant Details" {
		t.Errorf("section title = %q", first.Title)
	}
	if first.Fields[0] != (Field{Key: "name", Label: "Full Name", Example: "e.g., Ramesh Kumar"}) {
		t.Errorf("first field = %+v", first.Fields[0])
	}
}

func TestTemplate_Unknown(t *testing.T) {
	t.Parallel()

	_, err := Template("WILL")
	if !errors.Is(err, ErrUnknownFormType) {
		t.Fatalf("expected ErrUnknownFormType, got %v", err)
	}
}

func TestGenerateForm(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 14, 5, 0, 0, time.UTC)
	form, err := GenerateForm("fir", map[string]string{
		"name":     "Ramesh Kumar",
		"location": "  Near Bus Stand, Alwar ",
		"phone":    "   ",
	}, now)
	if err != nil {
		t.Fatalf("GenerateForm failed: %v", err)
	}

	lines := strings.Split(form.Content, "\n")
	if lines[0] != formRule || lines[2] != formRule {
		t.Error("header rules missing")
	}
	if len(lines[1]) != formWidth || strings.TrimSpace(lines[1]) != "First Information Report" {
		t.Errorf("title not centered: %q", lines[1])
	}
	if lines[3] != "Generated on: June 01, 2025 at 02:05 PM" {
		t.Errorf("timestamp line = %q", lines[3])
	}
	if lines[len(lines)-1] != formRule {
		t.Error("footer rule missing")
	}

	for _, want := range []string{
		"--- Complainant Details ---",
		"Full Name: Ramesh Kumar",
		"Name of Accused: Ramesh Kumar",
		"Location of Incident: Near Bus Stand, Alwar",
		"Phone Number: _________________ (e.g., 9876543210)",
		"IMPORTANT NOTES:",
		"• Keep copies of all supporting documents",
	} {
		if !strings.Contains(form.Content, want) {
			t.Errorf("content missing %q", want)
		}
	}

	counts := make(map[string]int)
	for _, key := range form.Missing {
		counts[key]++
	}
	if counts["name"] != 0 || counts["location"] != 0 {
		t.Errorf("filled fields reported missing: %v", form.Missing)
	}
	if counts["address"] != 1 || counts["phone"] != 1 {
		t.Errorf("shared keys should be reported once: %v", form.Missing)
	}
}

func TestGenerateForm_Unknown(t *testing.T) {
	t.Parallel()

	_, err := GenerateForm("AFFIDAVIT", nil, time.Now())
	if !errors.Is(err, ErrUnknownFormType) {
		t.Fatalf("expected ErrUnknownFormType, got %v", err)
	}
}

func TestCenter(t *testing.T) {
	t.Parallel()

	got := center("abc", 80)
	if len(got) != 80 || !strings.HasPrefix(got, strings.Repeat(" ", 38)+"abc") {
		t.Errorf("center = %q", got)
	}
	if center(strings.Repeat("x", 90), 80) != strings.Repeat("x", 90) {
		t.Error("long strings are returned unchanged")
	}
}
