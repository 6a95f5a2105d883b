package layout

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/types"
)

const (
	SupportRepoURL = "https://github.com/gutris1/segsmaker"

	// SupportDir is created in the install dir by the support overlay
	SupportDir = "asd"

	DotnetInstallURL    = "https://dot.net/v1/dotnet-install.sh"
	DotnetInstallScript = "dotnet-install.sh"
	DotnetChannel       = "8.0"

	EmbeddingsArchive   = "embeddings.zip"
	EmbeddingsXLArchive = "embeddingsXL.zip"

	PreviewCardDir = "html"
)

const (
	scriptsBase = "https://github.com/gutris1/segsmaker/raw/main/script"
	miscBase    = "https://huggingface.co/gutris1/webui/resolve/main/misc"
)

var upscalerURLs = []string{
	miscBase + "/4x-UltraSharp.pth",
	miscBase + "/4x-AnimeSharp.pth",
	miscBase + "/4x_NMKD-Superscale-SP_178000_G.pth",
	"https://huggingface.co/uwg/upscaler/resolve/main/ESRGAN/8x_NMKD-Superscale_150000_G.pth",
	miscBase + "/4x_RealisticRescaler_100000_G.pth",
	miscBase + "/8x_RealESRGAN.pth",
	miscBase + "/4x_foolhardy_Remacri.pth",
	"https://huggingface.co/subby2006/NMKD-YandereNeoXL/resolve/main/4x_NMKD-YandereNeoXL_200k.pth",
	"https://huggingface.co/subby2006/NMKD-UltraYandere/resolve/main/4x_NMKD-UltraYandere_300k.pth",
}

var faceRestoreURLs = []string{
	"https://github.com/sczhou/CodeFormer/releases/download/v0.1.0/codeformer.pth",
	"https://github.com/TencentARC/GFPGAN/releases/download/v1.3.4/GFPGANv1.4.pth",
}

// SupportRepo returns the overlay branch merged into the install dir. It
// provides the asd/ folder with the extension lists. SwarmUI has none.
func SupportRepo(t types.Target, env types.Environment) (types.RepoItem, bool) {
	if !lookup(t).supportBranch {
		return types.RepoItem{}, false
	}
	return types.RepoItem{
		URL:     SupportRepoURL,
		DestDir: env.InstallDir(t),
		Ref:     strings.ToLower(t.String()),
	}, true
}

// RequiredAssets are fetched right after the core repository. A failure of
// any of them fails the install.
func RequiredAssets(plan types.InstallPlan) []types.DownloadItem {
	return []types.DownloadItem{
		{URL: miscBase + "/" + EmbeddingsArchive, DestDir: plan.InstallDir, Required: true},
		{URL: "https://huggingface.co/stabilityai/sd-vae-ft-mse-original/resolve/main/vae-ft-mse-840000-ema-pruned.safetensors", DestDir: plan.VAEDir, Required: true},
		{URL: miscBase + "/" + EmbeddingsXLArchive, DestDir: plan.InstallDir, Required: true},
		{URL: "https://huggingface.co/madebyollin/sdxl-vae-fp16-fix/resolve/main/sdxl.vae.safetensors", DestDir: plan.VAEDir, Rename: "sdxl_vae.safetensors", Required: true},
	}
}

// EmbeddingArchives lists the archives unpacked into the embeddings dir.
func EmbeddingArchives(plan types.InstallPlan) []string {
	return []string{
		filepath.Join(plan.InstallDir, EmbeddingsArchive),
		filepath.Join(plan.InstallDir, EmbeddingsXLArchive),
	}
}

// SupplementaryAssets are helper scripts, upscalers and the preview card.
// Failures are logged and skipped.
func SupplementaryAssets(plan types.InstallPlan) []types.DownloadItem {
	items := []types.DownloadItem{
		{URL: scriptsBase + "/controlnet.py", DestDir: filepath.Join(plan.InstallDir, SupportDir)},
		{URL: scriptsBase + "/KC/segsmaker.py", DestDir: plan.InstallDir},
	}
	for _, u := range upscalerURLs {
		items = append(items, types.DownloadItem{URL: u, DestDir: plan.UpscalersDir})
	}
	if plan.Target.IsA1111Family() {
		items = append(items, types.DownloadItem{
			URL:     miscBase + "/card-no-preview.png",
			DestDir: filepath.Join(plan.InstallDir, PreviewCardDir),
		})
	}
	return items
}

// ExtensionListFile is the overlay file listing the extension repositories
// of the target, one per line.
func ExtensionListFile(plan types.InstallPlan) string {
	name := "extension.txt"
	if plan.Target == types.TargetComfyUI {
		name = "custom_nodes.txt"
	}
	return filepath.Join(plan.InstallDir, SupportDir, name)
}

// BrowserExtension is the CivitAI browser extension for A1111 family
// targets. Kaggle gets a fork.
func BrowserExtension(plan types.InstallPlan, env types.Environment) (types.RepoItem, bool) {
	if !plan.Target.IsA1111Family() {
		return types.RepoItem{}, false
	}
	url := "https://github.com/BlafKing/sd-civitai-browser-plus"
	if env.Name == types.EnvKaggle {
		url = "https://github.com/gutris1/sd-civitai-browser-plus-plus"
	}
	return types.RepoItem{URL: url, DestDir: filepath.Join(plan.ExtensionsDir, types.RepoName(url))}, true
}

// FaceRestoreModels are fetched for ComfyUI alongside its custom nodes.
func FaceRestoreModels(plan types.InstallPlan) []types.DownloadItem {
	if plan.Target != types.TargetComfyUI {
		return nil
	}
	dir := filepath.Join(plan.ModelsDir, "facerestore_models")
	items := make([]types.DownloadItem, 0, len(faceRestoreURLs))
	for _, u := range faceRestoreURLs {
		items = append(items, types.DownloadItem{URL: u, DestDir: dir})
	}
	return items
}

// ParseExtensionList reads an extension list. Each non-empty line that
// does not start with # is "url [dirname]". A dirname that is not a plain
// directory name is ignored in favor of the repository name.
func ParseExtensionList(data []byte, extensionsDir string) []types.RepoItem {
	var repos []types.RepoItem
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		name := types.RepoName(fields[0])
		if len(fields) > 1 {
			if plainName(fields[1]) {
				name = fields[1]
			} else {
				logger := logging.GetLogger("layout")
				logger.Warn().Str("dirname", fields[1]).Str("url", fields[0]).
					Msg("Ignoring extension dirname outside the extensions directory")
			}
		}
		repos = append(repos, types.RepoItem{URL: fields[0], DestDir: filepath.Join(extensionsDir, name)})
	}
	return repos
}

func plainName(name string) bool {
	return name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
