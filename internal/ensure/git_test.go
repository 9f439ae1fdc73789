package ensure

import (
	"testing"

	"github.com/stretchr/testify/require"

	hktesting "github.com/imamik/hostkit/internal/testing"
)

func TestGitWorkingCopy_Clone(t *testing.T) {
	t.Parallel()
	fake := hktesting.NewFakeExecutor().
		On("dpkg-query", hktesting.OK("install ok installed")).
		On("test -d", hktesting.Fail(1, ""))
	h := newTestHost(t, fake, "root")

	err := h.GitWorkingCopy(hktesting.TestContext(t), GitCheckout{
		URL:   "git@github.com:acme/shop.git",
		Path:  "/srv/shop",
		User:  "www-data",
		Group: "www-data",
	})
	require.NoError(t, err)

	hktesting.AssertCommandOrder(t, fake.Commands(),
		"test -d /srv/shop/.git",
		"mkdir -p /srv/shop && chmod 0755 /srv/shop && chown www-data:www-data /srv/shop",
		"sudo -H -u www-data sh -c 'git clone --quiet git@github.com:acme/shop.git /srv/shop'",
	)
	hktesting.AssertNoCommand(t, fake.Commands(), "pull")
}

func TestGitWorkingCopy_Pull(t *testing.T) {
	t.Parallel()
	fake := hktesting.NewFakeExecutor().On("dpkg-query", hktesting.OK("install ok installed"))
	h := newTestHost(t, fake, "root")

	err := h.GitWorkingCopy(hktesting.TestContext(t), GitCheckout{
		URL:    "git@github.com:acme/shop.git",
		Path:   "/srv/shop",
		Branch: "main",
		User:   "www-data",
	})
	require.NoError(t, err)

	hktesting.AssertCommandOrder(t, fake.Commands(),
		"test -d /srv/shop/.git",
		"git -C /srv/shop fetch --quiet origin && git -C /srv/shop checkout --quiet main && git -C /srv/shop pull --quiet --ff-only",
	)
	hktesting.AssertNoCommand(t, fake.Commands(), "git clone")
}
