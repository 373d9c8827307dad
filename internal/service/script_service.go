// internal/service/script_service.go
package service

import (
	"strings"

	"github.com/realtycall/realtycall-backend/internal/model"
)

const defaultCallScript = "Hi {name}, I'm calling about {project} in {location}. Do you have a minute to talk?"

// RenderCallScript fills the campaign's call script with the lead's and
// project's details before handing it to the voice backend.
func RenderCallScript(script string, lead model.Lead, project *model.Project) string {
	if strings.TrimSpace(script) == "" {
		script = defaultCallScript
	}
	placeholders := map[string]string{
		"name":     lead.Name,
		"phone":    lead.Phone,
		"project":  project.Name,
		"location": project.Location,
	}
	for k, v := range placeholders {
		if v == "" {
			v = "N/A"
		}
		script = strings.ReplaceAll(script, "{"+k+"}", v)
	}
	return script
}
