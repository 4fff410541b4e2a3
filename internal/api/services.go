package api

import (
	"github.com/ichigoapp/ichigo-server/internal/media"
	"github.com/ichigoapp/ichigo-server/internal/search"
	"github.com/ichigoapp/ichigo-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth     *service.AuthService
	Settings *service.SettingsService
	Question *service.QuestionService
	Message  *service.MessageService
	Tag      *service.TagService
	Triage   *service.TriageService
	Admin    *service.AdminService
	Profile  *service.ProfileService
	Media    *media.Service       // nil when media uploads are disabled
	Search   *search.MessageIndex // nil when search is disabled
}
