package provisioning

import (
	"errors"

	"github.com/imamik/hostkit/internal/config"
)

// validateOptions checks ctx.Options against the task schema. Unknown keys are
// logged as warnings; missing required keys fail with a *config.ConfigurationError
// naming every one of them.
func validateOptions(ctx *Context, t Task) ([]config.ValidationError, error) {
	ctx.Observer.Printf("[Validation] Checking %d required options for %s...", len(t.Schema.Required), t.Name)

	warnings := t.Schema.Warnings(ctx.Options)
	for _, w := range warnings {
		ctx.Observer.Event(Event{
			Type:    EventValidationWarning,
			Message: w.Message,
			Fields:  map[string]string{"field": w.Field},
		})
	}

	if err := t.Schema.Validate(ctx.Options); err != nil {
		var cerr *config.ConfigurationError
		if errors.As(err, &cerr) {
			cerr.Task = t.Name
			for _, key := range cerr.Missing {
				ctx.Observer.Event(Event{
					Type:    EventValidationError,
					Message: "required option is missing",
					Fields:  map[string]string{"field": key},
				})
			}
		}
		return warnings, err
	}

	ctx.Observer.Printf("[Validation] Validation passed")
	return warnings, nil
}
