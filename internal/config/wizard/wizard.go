package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Project
	ProjectName    string
	ProjectRoot    string
	ProjectVCS     string
	WSGIModule     string
	SettingsModule string

	// Web
	ServerName     string
	ServerAlias    string
	GunicornPort   string
	GunicornWorker int
	TemplateSource string

	// Database
	PGUser   string
	PGDBName string

	// TLS
	CertPattern   string
	RemoteCertDir string

	// System
	AppUser   string
	AppGroup  string
	ExtraDebs []string
}

// RunWizard runs the interactive options wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{}

	if err := runProjectGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	if err := runWebGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}

	if err := runDatabaseGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	if err := runTLSGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("tls: %w", err)
	}

	if err := runSystemGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("system: %w", err)
	}

	return result, nil
}
