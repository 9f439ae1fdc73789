package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errProjectNameRequired = errors.New("project name is required")
	errProjectNameInvalid  = errors.New("project name must be 1-32 lowercase alphanumeric characters, hyphens or underscores, starting with a letter")
	errAbsolutePath        = errors.New("path must be absolute")
	errValueRequired       = errors.New("value is required")
	errPortInvalid         = errors.New("port must be a number between 1024 and 65535")
	errModuleInvalid       = errors.New("expected a dotted python path such as shop.wsgi:application")
)
