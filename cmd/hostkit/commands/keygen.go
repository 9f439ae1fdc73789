package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostkit/cmd/hostkit/handlers"
)

// Keygen returns the command that creates an SSH key pair.
func Keygen() *cobra.Command {
	var p handlers.KeygenParams

	cmd := &cobra.Command{
		Use:   "keygen <path>",
		Short: "Generate an SSH key pair for host access or git deploy keys",
		Long: `Generate an SSH key pair.

Writes the private key to <path> (mode 0600) and the public key to
<path>.pub. Existing files are never overwritten.

Examples:
  hostkit keygen ~/.ssh/hostkit_deploy --comment deploy@shop
  hostkit keygen ./legacy_key --rsa 4096`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p.Path = args[0]
			return handlers.Keygen(p)
		},
	}

	cmd.Flags().StringVar(&p.Comment, "comment", "hostkit", "Comment appended to the Ed25519 public key")
	cmd.Flags().IntVar(&p.RSABits, "rsa", 0, "Generate an RSA key with this many bits instead of Ed25519")

	return cmd
}
