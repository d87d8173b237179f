package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

const (
	TemplateBookingCreated   = "booking_created"
	TemplateBookingCompleted = "booking_completed"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render executes a named template. A "subject" key in data overrides the
// template's default subject.
func Render(templateName string, data map[string]any) (string, string, error) {
	t := templates.Lookup(templateName + ".html")
	if t == nil {
		return "", "", fmt.Errorf("unknown email template %q", templateName)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template: %w", err)
	}
	return subjectFor(templateName, data), body.String(), nil
}

func subjectFor(templateName string, data map[string]any) string {
	if subj, ok := data["subject"].(string); ok && subj != "" {
		return subj
	}
	business, _ := data["business_name"].(string)
	if business == "" {
		business = "ReservasPro"
	}
	switch templateName {
	case TemplateBookingCreated:
		return fmt.Sprintf("Your booking with %s", business)
	case TemplateBookingCompleted:
		if level, ok := data["new_level"].(string); ok && level != "" {
			return fmt.Sprintf("You reached %s at %s", level, business)
		}
		return fmt.Sprintf("Thanks for visiting %s", business)
	default:
		return fmt.Sprintf("Notification from %s", business)
	}
}
