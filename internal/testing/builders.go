package testing

import (
	"maps"

	"github.com/imamik/hostkit/internal/config"
)

// OptionsBuilder provides a fluent interface for constructing task options.
// Each method returns a new builder (immutable) for chaining.
type OptionsBuilder struct {
	opts config.Options
}

// NewOptionsBuilder creates a builder holding every deploy option with
// sensible values.
func NewOptionsBuilder() *OptionsBuilder {
	return &OptionsBuilder{opts: DeployOptions()}
}

// EmptyOptions creates a builder with no options set.
func EmptyOptions() *OptionsBuilder {
	return &OptionsBuilder{opts: config.Options{}}
}

// With sets key to value.
func (b *OptionsBuilder) With(key string, value any) *OptionsBuilder {
	newBuilder := b.clone()
	newBuilder.opts[key] = value
	return newBuilder
}

// Without removes keys.
func (b *OptionsBuilder) Without(keys ...string) *OptionsBuilder {
	newBuilder := b.clone()
	for _, k := range keys {
		delete(newBuilder.opts, k)
	}
	return newBuilder
}

// Build returns a copy of the options.
func (b *OptionsBuilder) Build() config.Options {
	return maps.Clone(b.opts)
}

func (b *OptionsBuilder) clone() *OptionsBuilder {
	return &OptionsBuilder{opts: maps.Clone(b.opts)}
}

// DeployOptions returns a complete option set for the deploy task.
func DeployOptions() config.Options {
	return config.Options{
		"project_name":           "shop",
		"project_root":           "/srv/shop",
		"project_vcs":            "https://git.example.com/acme/shop.git",
		"wsgi_module":            "shop.wsgi:application",
		"nginx_server_name":      "shop.example.com",
		"nginx_server_alias":     "www.shop.example.com",
		"nginx_template_source":  "builtin",
		"pg_user":                "shop",
		"pg_password":            "s3cret",
		"pg_db_name":             "shop",
		"DJANGO_SETTINGS_MODULE": "shop.settings.production",
		"SECRET_KEY":             "not-so-secret",
		"gunicorn_port":          8001,
		"local_cert_pattern":     "/etc/letsencrypt/live/shop/*",
		"remote_cert_dir":        "/etc/ssl/shop",
		"app_user":               "shop",
		"app_group":              "www-data",
	}
}

// FlushOptions returns a complete option set for the cache flush task.
func FlushOptions() config.Options {
	return config.Options{
		"redis_db":        0,
		"redis_namespace": "sessions",
	}
}
