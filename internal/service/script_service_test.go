package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/realtycall/realtycall-backend/internal/model"
	"github.com/realtycall/realtycall-backend/internal/service"
)

func TestRenderCallScript(t *testing.T) {
	lead := model.Lead{Name: "Ankit", Phone: "+919876543210"}
	project := &model.Project{Name: "Sunrise Heights", Location: "Whitefield"}

	got := service.RenderCallScript("Hi {name}, interested in {project} at {location}?", lead, project)

	assert.Equal(t, "Hi Ankit, interested in Sunrise Heights at Whitefield?", got)
}

func TestRenderCallScriptEmptyFieldsBecomeNA(t *testing.T) {
	lead := model.Lead{Name: "Ankit", Phone: "+919876543210"}
	project := &model.Project{Name: "Sunrise Heights"}

	got := service.RenderCallScript("{project} in {location}", lead, project)

	assert.Equal(t, "Sunrise Heights in N/A", got)
}

func TestRenderCallScriptFallsBackToDefault(t *testing.T) {
	lead := model.Lead{Name: "Ankit"}
	project := &model.Project{Name: "Sunrise Heights", Location: "Whitefield"}

	got := service.RenderCallScript("   ", lead, project)

	assert.Contains(t, got, "Ankit")
	assert.Contains(t, got, "Sunrise Heights")
}
