package wizard

import (
	"strconv"

	"github.com/imamik/hostkit/internal/config"
)

// BuildOptions creates deploy options from the wizard result. Secrets are
// left out.
func BuildOptions(result *WizardResult) config.Options {
	opts := config.Options{
		"project_name":           result.ProjectName,
		"project_root":           result.ProjectRoot,
		"project_vcs":            result.ProjectVCS,
		"wsgi_module":            result.WSGIModule,
		"DJANGO_SETTINGS_MODULE": result.SettingsModule,
		"nginx_server_name":      result.ServerName,
		"nginx_server_alias":     result.ServerAlias,
		"nginx_template_source":  result.TemplateSource,
		"pg_user":                result.PGUser,
		"pg_db_name":             result.PGDBName,
		"local_cert_pattern":     result.CertPattern,
		"remote_cert_dir":        result.RemoteCertDir,
		"app_user":               result.AppUser,
		"app_group":              result.AppGroup,
	}

	if port, err := strconv.Atoi(result.GunicornPort); err == nil {
		opts["gunicorn_port"] = port
	} else {
		opts["gunicorn_port"] = result.GunicornPort
	}

	if result.GunicornWorker > 0 {
		opts["gunicorn_workers"] = result.GunicornWorker
	}

	if len(result.ExtraDebs) > 0 {
		debs := make([]any, 0, len(result.ExtraDebs))
		for _, d := range result.ExtraDebs {
			debs = append(debs, d)
		}
		opts["server_debs_extra"] = debs
	}

	return opts
}

// SecretKeys are the deploy options the wizard does not write.
var SecretKeys = []string{"SECRET_KEY", "pg_password"}
