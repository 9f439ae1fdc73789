package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/config/wizard"
)

func sampleWizardResult() *wizard.WizardResult {
	return &wizard.WizardResult{
		ProjectName:    "shop",
		ProjectRoot:    "/srv/shop",
		ProjectVCS:     "https://git.example.com/acme/shop.git",
		WSGIModule:     "shop.wsgi:application",
		SettingsModule: "shop.settings.production",
		ServerName:     "shop.example.com",
		GunicornPort:   "8001",
		TemplateSource: "builtin",
		PGUser:         "shop",
		PGDBName:       "shop",
		CertPattern:    "/etc/letsencrypt/live/shop/*",
		RemoteCertDir:  "/etc/ssl/shop",
		AppUser:        "shop",
		AppGroup:       "www-data",
	}
}

func TestInit_WritesOptions(t *testing.T) {
	_, out := saveAndRestoreFactories(t)
	fileExists = func(string) bool { return false }
	runWizard = func(context.Context) (*wizard.WizardResult, error) {
		return sampleWizardResult(), nil
	}
	var written config.Options
	var writtenPath string
	writeOptions = func(opts config.Options, path string) error {
		written, writtenPath = opts, path
		return nil
	}

	require.NoError(t, Init(context.Background(), "hostkit.yaml", false))

	assert.Equal(t, "hostkit.yaml", writtenPath)
	assert.Equal(t, "shop", written.String("project_name"))
	assert.Equal(t, 8001, written["gunicorn_port"])
	assert.Contains(t, out.String(), "Options saved!")
	assert.Contains(t, out.String(), "SECRET_KEY=...")
	assert.Contains(t, out.String(), "hostkit deploy --host <server> -o hostkit.yaml")
}

func TestInit_ExistingFile(t *testing.T) {
	saveAndRestoreFactories(t)
	fileExists = func(string) bool { return true }
	runWizard = func(context.Context) (*wizard.WizardResult, error) {
		return sampleWizardResult(), nil
	}
	writes := 0
	writeOptions = func(config.Options, string) error {
		writes++
		return nil
	}

	t.Run("declined", func(t *testing.T) {
		confirmOverwrite = func(string) (bool, error) { return false, nil }
		err := Init(context.Background(), "hostkit.yaml", false)
		assert.ErrorIs(t, err, errInitAborted)
		assert.Equal(t, 0, writes)
	})

	t.Run("confirmed", func(t *testing.T) {
		confirmOverwrite = func(string) (bool, error) { return true, nil }
		require.NoError(t, Init(context.Background(), "hostkit.yaml", false))
		assert.Equal(t, 1, writes)
	})

	t.Run("forced", func(t *testing.T) {
		confirmOverwrite = func(string) (bool, error) {
			t.Fatal("prompted despite --force")
			return false, nil
		}
		require.NoError(t, Init(context.Background(), "hostkit.yaml", true))
		assert.Equal(t, 2, writes)
	})
}

func TestInit_Errors(t *testing.T) {
	saveAndRestoreFactories(t)
	fileExists = func(string) bool { return false }

	runWizard = func(context.Context) (*wizard.WizardResult, error) {
		return nil, errors.New("user aborted")
	}
	assert.ErrorContains(t, Init(context.Background(), "hostkit.yaml", false), "wizard canceled: user aborted")

	runWizard = func(context.Context) (*wizard.WizardResult, error) {
		return sampleWizardResult(), nil
	}
	writeOptions = func(config.Options, string) error { return errors.New("permission denied") }
	assert.ErrorContains(t, Init(context.Background(), "hostkit.yaml", false), "failed to write options: permission denied")
}
