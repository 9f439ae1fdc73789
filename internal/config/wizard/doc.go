// Package wizard provides the interactive `hostkit init` wizard.
//
// It uses charmbracelet/huh forms to collect the answers needed for a Django
// deployment and writes them as a YAML options file. Secrets (SECRET_KEY,
// pg_password) are never asked for; they belong in the dotenv file passed
// with --env-file.
//
// The main entry point is RunWizard, which returns a WizardResult. Use
// BuildOptions to convert results to config.Options and WriteOptions to
// generate the YAML output file.
package wizard
