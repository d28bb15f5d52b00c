package cli

import (
	"time"

	"github.com/stagehandhq/stagehand/internal/app"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

var application *app.Container

// SetApp installs the wired application container for command handlers.
func SetApp(a *app.Container) {
	application = a
}

// GetApp returns the wired application container.
func GetApp() *app.Container {
	return application
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, sharedDomain.NewValidationError("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}
