package django

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/ensure"
	"github.com/imamik/hostkit/internal/provisioning"
	hktesting "github.com/imamik/hostkit/internal/testing"
)

var _ = Describe("Deploy", func() {
	var (
		fake *hktesting.FakeExecutor
		opts config.Options
	)

	BeforeEach(func() {
		prev := certSource
		certSource = func(context.Context, string) (ensure.CertSource, error) { return testCerts, nil }
		DeferCleanup(func() { certSource = prev })

		fake = deployExecutor()
		opts = hktesting.DeployOptions()
	})

	run := func() (*provisioning.Context, *provisioning.Report, error) {
		ctx := newContext(context.Background(), fake, opts)
		report, err := Deploy().Run(ctx)
		return ctx, report, err
	}

	Context("when pg_db_name is missing", func() {
		BeforeEach(func() {
			delete(opts, KeyPGDBName)
		})

		It("aborts before any remote command", func() {
			_, report, err := run()
			Expect(err).To(MatchError(ContainSubstring("pg_db_name")))
			Expect(report.State).To(Equal(provisioning.StateFailed))
			Expect(fake.Commands()).To(BeEmpty())
		})
	})

	Context("with a complete configuration", func() {
		It("runs every step and restarts the application last", func() {
			ctx, report, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Completed).To(Equal(Deploy().StepNames()))
			Expect(ctx.State.GunicornBin).To(HaveSuffix("/bin/gunicorn"))

			cmds := fake.Commands()
			Expect(cmds[len(cmds)-1]).To(Equal("supervisorctl restart shop"))
		})

		It("installs the application server behind nginx", func() {
			_, _, err := run()
			Expect(err).NotTo(HaveOccurred())

			site, ok := fake.UploadTo("shop.conf")
			Expect(ok).To(BeTrue())
			Expect(site.Path).To(Equal("/etc/supervisor/conf.d/shop.conf"))

			nginx, ok := fake.UploadTo("sites-available/shop.conf")
			Expect(ok).To(BeTrue())
			Expect(nginx.Content).To(ContainSubstring("server 127.0.0.1:8001"))
		})
	})

	Context("when the checkout fails", func() {
		BeforeEach(func() {
			fake.On("git -C /srv/shop", hktesting.Fail(128, "fatal: could not read from remote repository"))
		})

		It("stops at the checkout step", func() {
			_, report, err := run()
			Expect(err).To(HaveOccurred())
			Expect(provisioning.IsStepError(err)).To(BeTrue())
			Expect(report.Failed).To(Equal("checkout"))
			Expect(report.Completed).To(HaveLen(5))
			for _, c := range fake.Commands() {
				Expect(strings.Contains(c, "poetry install")).To(BeFalse())
			}
		})
	})
})

var _ = Describe("FlushCache", func() {
	It("deletes only the keys of the namespace in the selected database", func() {
		fake := hktesting.NewFakeExecutor().
			On("--pattern 'sessions:*'", hktesting.OK("sessions:1\nsessions:2\nsessions:3\n")).
			On(" DEL ", hktesting.OK("3\n"))
		ctx := newContext(context.Background(), fake, hktesting.FlushOptions())

		_, err := FlushCache().Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(ctx.State.KeysDeleted).To(Equal(3))

		Expect(fake.Commands()).To(HaveLen(2))
		for _, cmd := range fake.Commands() {
			Expect(cmd).To(ContainSubstring("-n 0"))
			Expect(cmd).NotTo(ContainSubstring("FLUSHDB"))
		}
		Expect(fake.Commands()[0]).To(ContainSubstring("--pattern 'sessions:*'"))
	})

	It("fails when redis-cli answers with an error instead of keys", func() {
		fake := hktesting.NewFakeExecutor().
			On("--scan", hktesting.OK("NOAUTH Authentication required.\n"))
		ctx := newContext(context.Background(), fake, hktesting.FlushOptions())

		_, err := FlushCache().Run(ctx)
		Expect(err).To(MatchError(ContainSubstring("NOAUTH Authentication required.")))
		Expect(fake.Commands()).To(HaveLen(1))
	})

	DescribeTable("escapes namespaces containing glob characters",
		func(namespace, pattern string) {
			fake := hktesting.NewFakeExecutor()
			opts := config.Options{KeyRedisDB: 1, KeyRedisNamespace: namespace}

			_, err := FlushCache().Run(newContext(context.Background(), fake, opts))
			Expect(err).NotTo(HaveOccurred())
			Expect(fake.Commands()[0]).To(ContainSubstring(pattern))
		},
		Entry("star", "user*", `'user\*:*'`),
		Entry("question mark", "a?b", `'a\?b:*'`),
		Entry("plain", "views", `'views:*'`),
	)
})

var _ = Describe("Update", func() {
	It("requires the application user", func() {
		fake := hktesting.NewFakeExecutor()
		opts := config.Options{
			KeyProjectName: "shop",
			KeyProjectVCS:  "https://git.example.com/acme/shop.git",
			KeyProjectRoot: "/srv/shop",
		}

		_, err := Update().Run(newContext(context.Background(), fake, opts))
		Expect(err).To(MatchError(ContainSubstring(KeyAppUser)))
		Expect(fake.Commands()).To(BeEmpty())
	})
})
