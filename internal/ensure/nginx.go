package ensure

import (
	"context"
	"fmt"
	"path"

	"github.com/imamik/hostkit/internal/remote"
)

const (
	nginxSitesAvailable = "/etc/nginx/sites-available"
	nginxSitesEnabled   = "/etc/nginx/sites-enabled"
	nginxSiteTemplate   = "nginx-site.conf.tmpl"
)

// NginxSite is the data a site template is rendered with.
type NginxSite struct {
	Name            string
	ServerName      string
	ServerAlias     string
	ProxyPort       int
	Certificate     string
	Key             string
	ProjectRoot     string
	MaxBodySize     string
	ExtraServerConf string

	// Options exposes every deployment option to custom templates.
	Options map[string]any
}

// RenderNginxSite renders site with the template at source, or the built-in
// template when source is empty or BuiltinTemplate.
func RenderNginxSite(site NginxSite, source string) ([]byte, error) {
	content, err := loadTemplate(nginxSiteTemplate, source)
	if err != nil {
		return nil, err
	}
	return renderTemplate(nginxSiteTemplate, content, site)
}

// NginxSiteConfig installs and enables the site, validates the nginx
// configuration and reloads nginx when the site changed.
func (h *Host) NginxSiteConfig(ctx context.Context, site NginxSite, source string) error {
	rendered, err := RenderNginxSite(site, source)
	if err != nil {
		return err
	}

	available := path.Join(nginxSitesAvailable, site.Name+".conf")
	enabled := path.Join(nginxSitesEnabled, site.Name+".conf")

	changed, err := h.File(ctx, available, rendered, "root", 0o644)
	if err != nil {
		return err
	}

	link := remote.Cmd("ln", "-sfn", available, enabled)
	if _, err := h.sess.Run(ctx, link, remote.Sudo()); err != nil {
		return fmt.Errorf("failed to enable site %s: %w", site.Name, err)
	}

	if _, err := h.sess.Run(ctx, remote.Cmd("nginx", "-t", "-q"), remote.Sudo()); err != nil {
		return fmt.Errorf("nginx rejected the configuration for %s: %w", site.Name, err)
	}

	if !changed {
		return nil
	}
	reload := remote.Cmd("systemctl", "reload", "nginx").Or(remote.Cmd("systemctl", "restart", "nginx"))
	if _, err := h.sess.Run(ctx, reload, remote.Sudo()); err != nil {
		return fmt.Errorf("failed to reload nginx: %w", err)
	}
	return nil
}
