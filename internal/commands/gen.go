package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/webup/internal/version"
)

// GenCompletion writes the completion script for shell.
func GenCompletion(root *cobra.Command, w io.Writer, shell string) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unknown shell: %s (supported: bash, zsh, fish, powershell)", shell)
	}
}

// GenMan writes the man page of root.
func GenMan(root *cobra.Command, w io.Writer) error {
	header := &doc.GenManHeader{
		Title:   "WEBUP",
		Section: "1",
		Source:  "webup " + version.Version,
		Manual:  "webup manual",
	}
	return doc.GenMan(root, header, w)
}
