package django

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/imamik/hostkit/internal/ensure"
	"github.com/imamik/hostkit/internal/platform/s3"
	"github.com/imamik/hostkit/internal/provisioning"
	"github.com/imamik/hostkit/internal/provisioning/server"
	"github.com/imamik/hostkit/internal/remote"
)

const (
	gunicornLogDir   = "/var/log/gunicorn"
	supervisorLogDir = "/var/log/supervisor"
)

// serverDebs are the Debian packages every application host gets.
var serverDebs = []string{
	"build-essential",
	"git",
	"libpq-dev",
	"nginx",
	"postgresql-client",
	"supervisor",
}

// certSource resolves local_cert_pattern into a certificate source. A
// pattern of the form s3://bucket/prefix reads from object storage.
var certSource = func(ctx context.Context, pattern string) (ensure.CertSource, error) {
	if !s3.IsURL(pattern) {
		return ensure.LocalGlob(pattern), nil
	}
	client, err := s3.NewClientFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewCertSource(client, pattern)
}

// Deploy returns the full deployment task.
func Deploy() provisioning.Task {
	return provisioning.Task{
		Name:        "deploy",
		Description: "Provision the host and deploy the application behind nginx and supervisor",
		Schema:      DeploySchema,
		Steps: []provisioning.Step{
			server.PrepareHost(),
			provisioning.NewStep("packages", installPackages),
			provisioning.NewStep("toolchains", installToolchains),
			provisioning.NewStep("environment", exportSecretKey),
			provisioning.NewStep("database", ensureDatabase),
			provisioning.NewStep("checkout", checkout),
			provisioning.NewStep("dependencies", installDependencies),
			provisioning.NewStep("virtualenv", locateVirtualenv),
			provisioning.NewStep("certificates", installCertificates),
			provisioning.NewStep("nginx", configureNginx),
			provisioning.NewStep("supervisor", configureSupervisor),
			restartStep(),
		},
	}
}

func installPackages(ctx *provisioning.Context) error {
	if err := ctx.Host.UpdateIndex(ctx); err != nil {
		return err
	}
	pkgs := append(append([]string{}, serverDebs...), ctx.Options.Strings(KeyExtraDebs)...)
	return ctx.Host.Packages(ctx, pkgs...)
}

func installToolchains(ctx *provisioning.Context) error {
	if err := ctx.Host.PostgresServer(ctx); err != nil {
		return err
	}
	if err := ctx.Host.Pip(ctx); err != nil {
		return err
	}
	return ctx.Host.Poetry(ctx)
}

func exportSecretKey(ctx *provisioning.Context) error {
	return ctx.Host.AppendLine(ctx, "/etc/environment", KeySecretKey+"="+ctx.Options.String(KeySecretKey))
}

func ensureDatabase(ctx *provisioning.Context) error {
	user := ctx.Options.String(KeyPGUser)
	if err := ctx.Host.PostgresUser(ctx, user, ctx.Options.String(KeyPGPassword)); err != nil {
		return err
	}
	return ctx.Host.PostgresDatabase(ctx, ctx.Options.String(KeyPGDBName), user)
}

func checkout(ctx *provisioning.Context) error {
	return ctx.Host.GitWorkingCopy(ctx, ensure.GitCheckout{
		URL:    ctx.Options.String(KeyProjectVCS),
		Path:   ctx.Options.String(KeyProjectRoot),
		Branch: ctx.Options.String(KeyProjectBranch),
		User:   ctx.Options.String(KeyAppUser),
		Group:  ctx.Options.String(KeyAppGroup),
	})
}

func installDependencies(ctx *provisioning.Context) error {
	root := ctx.Options.String(KeyProjectRoot)
	_, err := ctx.Session.Run(ctx, remote.Cmd("poetry", "install", "--no-interaction", "--no-root"),
		remote.AsUser(ctx.Options.String(KeyAppUser)), remote.InDir(root))
	if err != nil {
		return fmt.Errorf("failed to install dependencies in %s: %w", root, err)
	}
	return nil
}

func locateVirtualenv(ctx *provisioning.Context) error {
	venv, err := ctx.Host.VirtualenvDir(ctx, ctx.Options.String(KeyProjectRoot), ctx.Options.String(KeyAppUser))
	if err != nil {
		return err
	}
	ctx.State.VirtualenvDir = venv
	ctx.State.GunicornBin = path.Join(venv, "bin", "gunicorn")
	ctx.Observer.Printf("[virtualenv] Using %s", venv)
	return nil
}

func installCertificates(ctx *provisioning.Context) error {
	src, err := certSource(ctx, ctx.Options.String(KeyCertPattern))
	if err != nil {
		return fmt.Errorf("failed to open certificate source: %w", err)
	}
	paths, err := ctx.Host.Certificates(ctx, src, ctx.Options.String(KeyRemoteCertDir), ctx.Options.String(KeyProjectName))
	if err != nil {
		return err
	}
	ctx.State.Certificates = paths
	ctx.Observer.Printf("[certificates] Installed %d file(s) into %s", len(paths.All), ctx.Options.String(KeyRemoteCertDir))
	return nil
}

func configureNginx(ctx *provisioning.Context) error {
	appPort, err := port(ctx.Options, KeyGunicornPort)
	if err != nil {
		return err
	}
	if ctx.State.Certificates.Certificate == "" {
		return fmt.Errorf("no certificate installed")
	}

	name := ctx.Options.String(KeyProjectName)
	site := ensure.NginxSite{
		Name:            name,
		ServerName:      ctx.Options.String(KeyServerName),
		ServerAlias:     serverAlias(ctx.Options),
		ProxyPort:       appPort,
		Certificate:     ctx.State.Certificates.Certificate,
		Key:             ctx.State.Certificates.Key,
		ProjectRoot:     ctx.Options.String(KeyProjectRoot),
		MaxBodySize:     ctx.Options.String(KeyMaxBodySize),
		ExtraServerConf: ctx.Options.String(KeyExtraServerConf),
		Options:         ctx.Options,
	}
	if err := ctx.Host.NginxSiteConfig(ctx, site, ctx.Options.String(KeyTemplateSource)); err != nil {
		return err
	}
	provisioning.LogResourceChanged(ctx.Observer, "nginx", "site", name)
	return nil
}

func configureSupervisor(ctx *provisioning.Context) error {
	cmd, err := gunicornCommand(ctx)
	if err != nil {
		return err
	}

	user := ctx.Options.String(KeyAppUser)
	if err := ctx.Host.Directory(ctx, gunicornLogDir, user, ctx.Options.String(KeyAppGroup), 0o755); err != nil {
		return err
	}

	name := ctx.Options.String(KeyProjectName)
	program := ensure.SupervisorProgram{
		Name:        name,
		Command:     cmd.String(),
		Directory:   ctx.Options.String(KeyProjectRoot),
		User:        user,
		Autostart:   true,
		Autorestart: true,
		StdoutLog:   path.Join(supervisorLogDir, name+".log"),
		StderrLog:   path.Join(supervisorLogDir, name+".log"),
		Environment: map[string]string{
			KeySettingsModule: ctx.Options.String(KeySettingsModule),
			KeySecretKey:      ctx.Options.String(KeySecretKey),
		},
	}
	if err := ctx.Host.SupervisorProgramConfig(ctx, program); err != nil {
		return err
	}
	provisioning.LogResourceChanged(ctx.Observer, "supervisor", "program", name)
	return nil
}

// gunicornCommand builds the command line supervisord runs.
func gunicornCommand(ctx *provisioning.Context) (remote.Command, error) {
	if ctx.State.GunicornBin == "" {
		return remote.Command{}, fmt.Errorf("virtualenv has not been located")
	}
	appPort, err := port(ctx.Options, KeyGunicornPort)
	if err != nil {
		return remote.Command{}, err
	}
	workers, err := ctx.Options.IntOr(KeyGunicornWorkers, defaultGunicornWorkers)
	if err != nil {
		return remote.Command{}, err
	}
	if workers < 1 {
		return remote.Command{}, fmt.Errorf("option %s must be positive, got %d", KeyGunicornWorkers, workers)
	}

	name := ctx.Options.String(KeyProjectName)
	return remote.Cmd(ctx.State.GunicornBin,
		"--workers="+strconv.Itoa(workers),
		"--max-requests=5",
		"--max-requests-jitter=2",
		"--bind", "127.0.0.1:"+strconv.Itoa(appPort),
		"--chdir", ctx.Options.String(KeyProjectRoot),
		"--error-logfile", path.Join(gunicornLogDir, name+"-error.log"),
		"--access-logfile", path.Join(gunicornLogDir, name+"-access.log"),
		ctx.Options.String(KeyWSGIModule),
	), nil
}

func restartStep() provisioning.Step {
	return provisioning.NewStep("restart", func(ctx *provisioning.Context) error {
		name := ctx.Options.String(KeyProjectName)
		if err := ctx.Host.RestartProcess(ctx, name); err != nil {
			return err
		}
		ctx.Observer.Printf("[restart] %s restarted", name)
		return nil
	})
}
