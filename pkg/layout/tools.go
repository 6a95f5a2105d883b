package layout

import (
	"path/filepath"
)

// Tool is a tunnel binary installed into the bin dir.
type Tool struct {
	Name string
	URL  string
	// Bin is the final executable path
	Bin string
	// Archive tools are gzipped tarballs unpacked into the bin dir
	Archive bool
}

// Tools returns the tunnel tools installed into binDir.
func Tools(binDir string) []Tool {
	return []Tool{
		{
			Name: "cloudflared",
			URL:  "https://github.com/cloudflare/cloudflared/releases/latest/download/cloudflared-linux-amd64",
			Bin:  filepath.Join(binDir, "cl"),
		},
		{
			Name:    "zrok",
			URL:     "https://github.com/openziti/zrok/releases/download/v1.0.2/zrok_1.0.2_linux_amd64.tar.gz",
			Bin:     filepath.Join(binDir, "zrok"),
			Archive: true,
		},
		{
			Name:    "ngrok",
			URL:     "https://bin.equinox.io/c/bNyj1mQVY4c/ngrok-v3-stable-linux-amd64.tgz",
			Bin:     filepath.Join(binDir, "ngrok"),
			Archive: true,
		},
	}
}
