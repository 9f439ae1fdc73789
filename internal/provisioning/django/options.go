package django

import (
	"fmt"
	"strings"

	"github.com/imamik/hostkit/internal/config"
)

// Option keys read by the django tasks.
const (
	KeyProjectName     = "project_name"
	KeyProjectRoot     = "project_root"
	KeyProjectVCS      = "project_vcs"
	KeyProjectBranch   = "project_branch"
	KeyWSGIModule      = "wsgi_module"
	KeyServerName      = "nginx_server_name"
	KeyServerAlias     = "nginx_server_alias"
	KeyTemplateSource  = "nginx_template_source"
	KeyExtraServerConf = "nginx_extra_server_conf"
	KeyMaxBodySize     = "nginx_max_body_size"
	KeyPGUser          = "pg_user"
	KeyPGPassword      = "pg_password"
	KeyPGDBName        = "pg_db_name"
	KeySettingsModule  = "DJANGO_SETTINGS_MODULE"
	KeySecretKey       = "SECRET_KEY"
	KeyGunicornPort    = "gunicorn_port"
	KeyGunicornWorkers = "gunicorn_workers"
	KeyCertPattern     = "local_cert_pattern"
	KeyRemoteCertDir   = "remote_cert_dir"
	KeyAppUser         = "app_user"
	KeyAppGroup        = "app_group"
	KeyExtraDebs       = "server_debs_extra"

	KeyRedisDB        = "redis_db"
	KeyRedisNamespace = "redis_namespace"
	KeyRedisPort      = "redis_port"
	KeyRedisTunnel    = "redis_tunnel"
	KeyRedisPassword  = "redis_password"
)

const defaultGunicornWorkers = 5

// DeploySchema lists the options of the full deployment.
var DeploySchema = config.Schema{
	Required: []string{
		KeyProjectName,
		KeyProjectRoot,
		KeyProjectVCS,
		KeyWSGIModule,
		KeyServerName,
		KeyServerAlias,
		KeyTemplateSource,
		KeyPGUser,
		KeyPGPassword,
		KeyPGDBName,
		KeySettingsModule,
		KeySecretKey,
		KeyGunicornPort,
		KeyCertPattern,
		KeyRemoteCertDir,
		KeyAppUser,
		KeyAppGroup,
	},
	Optional: []string{
		KeyExtraServerConf,
		KeyExtraDebs,
		KeyGunicornWorkers,
		KeyProjectBranch,
		KeyMaxBodySize,
	},
}

// UpdateSchema lists the options of the update task.
var UpdateSchema = config.Schema{
	Required: []string{KeyProjectName, KeyProjectVCS, KeyProjectRoot, KeyAppUser},
	Optional: []string{KeyProjectBranch, KeyAppGroup},
}

// FlushSchema lists the options of the cache flush task.
var FlushSchema = config.Schema{
	Required: []string{KeyRedisDB, KeyRedisNamespace},
	Optional: []string{KeyRedisPort, KeyRedisTunnel, KeyRedisPassword},
}

// ManageSchema lists the options of the management command task.
var ManageSchema = config.Schema{
	Required: []string{KeyProjectRoot, KeySettingsModule},
	Optional: []string{KeyAppUser},
}

// serverAlias returns the alias list as nginx expects it: space separated.
func serverAlias(opts config.Options) string {
	return strings.Join(opts.Strings(KeyServerAlias), " ")
}

// port reads a TCP port option.
func port(opts config.Options, key string) (int, error) {
	p, err := opts.Int(key)
	if err != nil {
		return 0, err
	}
	if p < 1 || p > 65535 {
		return 0, fmt.Errorf("option %s: port %d out of range", key, p)
	}
	return p, nil
}
