package wizard

import (
	"context"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// projectNameRegex validates project names: they become database, user and
// supervisor program names.
var projectNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)

// wsgiModuleRegex accepts module paths with an optional :callable suffix.
var wsgiModuleRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*(:[A-Za-z_][A-Za-z0-9_]*)?$`)

// runProjectGroup prompts for the project identity and source.
func runProjectGroup(ctx context.Context, result *WizardResult) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project Name").
				Description("Used for the database, the supervisor program and the nginx site").
				Placeholder("shop").
				Value(&result.ProjectName).
				Validate(validateProjectName),
			huh.NewInput().
				Title("Repository").
				Description("Git URL the host can clone").
				Placeholder("git@github.com:acme/shop.git").
				Value(&result.ProjectVCS).
				Validate(validateRequired),
		).Title("Project"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.ProjectRoot = "/srv/" + result.ProjectName
	result.WSGIModule = result.ProjectName + ".wsgi:application"
	result.SettingsModule = result.ProjectName + ".settings"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project Root").
				Description("Checkout directory on the host").
				Value(&result.ProjectRoot).
				Validate(validateAbsolutePath),
			huh.NewInput().
				Title("WSGI Module").
				Value(&result.WSGIModule).
				Validate(validateModule),
			huh.NewInput().
				Title("Settings Module").
				Description("DJANGO_SETTINGS_MODULE").
				Value(&result.SettingsModule).
				Validate(validateModule),
		).Title("Django"),
	).RunWithContext(ctx)
}

// runWebGroup prompts for nginx and gunicorn settings.
func runWebGroup(ctx context.Context, result *WizardResult) error {
	var alias string
	result.GunicornPort = "8000"
	result.GunicornWorker = 3
	result.TemplateSource = BuiltinTemplate

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server Name").
				Placeholder("shop.example.com").
				Value(&result.ServerName).
				Validate(validateRequired),
			huh.NewInput().
				Title("Server Aliases (Optional)").
				Description("Comma-separated additional host names").
				Placeholder("www.shop.example.com").
				Value(&alias),
			huh.NewInput().
				Title("Gunicorn Port").
				Value(&result.GunicornPort).
				Validate(validatePort),
			huh.NewSelect[int]().
				Title("Gunicorn Workers").
				Options(WorkerCountOptions...).
				Value(&result.GunicornWorker),
			huh.NewSelect[string]().
				Title("Nginx Template").
				Options(ToOptions(TemplateSources)...).
				Value(&result.TemplateSource),
		).Title("Web"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}
	result.ServerAlias = strings.Join(splitList(alias), " ")

	if result.TemplateSource == BuiltinTemplate {
		return nil
	}
	result.TemplateSource = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Template Path").
				Description("text/template file rendered with the deployment options").
				Value(&result.TemplateSource).
				Validate(validateRequired),
		).Title("Nginx Template"),
	).RunWithContext(ctx)
}

// runDatabaseGroup prompts for PostgreSQL names. The password goes in the env file.
func runDatabaseGroup(ctx context.Context, result *WizardResult) error {
	result.PGUser = result.ProjectName
	result.PGDBName = result.ProjectName

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Database User").
				Value(&result.PGUser).
				Validate(validateRequired),
			huh.NewInput().
				Title("Database Name").
				Value(&result.PGDBName).
				Validate(validateRequired),
		).Title("PostgreSQL"),
	).RunWithContext(ctx)
}

// runTLSGroup prompts for where certificates come from and go to.
func runTLSGroup(ctx context.Context, result *WizardResult) error {
	result.RemoteCertDir = "/etc/ssl/" + result.ProjectName

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Certificate Source").
				Description("Local glob such as certs/*.pem, or s3://bucket/prefix").
				Placeholder("certs/*.pem").
				Value(&result.CertPattern).
				Validate(validateRequired),
			huh.NewInput().
				Title("Remote Certificate Directory").
				Value(&result.RemoteCertDir).
				Validate(validateAbsolutePath),
		).Title("TLS"),
	).RunWithContext(ctx)
}

// runSystemGroup prompts for the service account and extra packages.
func runSystemGroup(ctx context.Context, result *WizardResult) error {
	result.AppUser = "www-data"
	result.AppGroup = "www-data"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Application User").
				Value(&result.AppUser).
				Validate(validateRequired),
			huh.NewInput().
				Title("Application Group").
				Value(&result.AppGroup).
				Validate(validateRequired),
			huh.NewMultiSelect[string]().
				Title("Extra Packages").
				Description("Installed after the base package set").
				Options(ToOptions(CommonExtraDebs)...).
				Value(&result.ExtraDebs),
		).Title("System"),
	).RunWithContext(ctx)
}

func validateProjectName(s string) error {
	if s == "" {
		return errProjectNameRequired
	}
	if !projectNameRegex.MatchString(s) {
		return errProjectNameInvalid
	}
	return nil
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errValueRequired
	}
	return nil
}

func validateAbsolutePath(s string) error {
	if !path.IsAbs(s) {
		return errAbsolutePath
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1024 || n > 65535 {
		return errPortInvalid
	}
	return nil
}

func validateModule(s string) error {
	if !wsgiModuleRegex.MatchString(s) {
		return errModuleInvalid
	}
	return nil
}

// splitList splits comma or whitespace separated input.
func splitList(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
