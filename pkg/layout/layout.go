package layout

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/webup/pkg/types"
)

const (
	BranchMaster = "master"
	BranchMain   = "main"
)

// linkSpec is one cache subdirectory and where it appears under the
// target's models directory.
type linkSpec struct {
	source string
	dest   string
}

type targetLayout struct {
	repoURL    string
	pullBranch string

	// relative to the install dir
	modelsDir     string
	embeddingsDir string
	vaeDir        string
	extensionsDir string

	// relative to the models dir
	upscalersDir string
	ensureDirs   []string
	links        []linkSpec

	extensions    bool
	supportBranch bool
}

var a1111Links = []linkSpec{
	{"ckpt", "Stable-diffusion/tmp_ckpt"},
	{"lora", "Lora/tmp_lora"},
	{"controlnet", "ControlNet"},
}

var reforgeLinks = append(append([]linkSpec{}, a1111Links...),
	linkSpec{"z123", "z123"},
	linkSpec{"svd", "svd"},
)

var forgeLinks = append(append([]linkSpec{}, reforgeLinks...),
	linkSpec{"clip", "clip"},
	linkSpec{"clip_vision", "clip_vision"},
	linkSpec{"diffusers", "diffusers"},
	linkSpec{"diffusion_models", "diffusion_models"},
	linkSpec{"text_encoders", "text_encoder"},
	linkSpec{"unet", "unet"},
)

var table = [types.NumTargets]*targetLayout{
	types.TargetA1111: {
		repoURL:       "https://github.com/AUTOMATIC1111/stable-diffusion-webui",
		pullBranch:    BranchMaster,
		modelsDir:     "models",
		embeddingsDir: "embeddings",
		vaeDir:        "models/VAE",
		extensionsDir: "extensions",
		upscalersDir:  "ESRGAN",
		ensureDirs:    []string{"Lora", "ESRGAN"},
		links:         a1111Links,
		extensions:    true,
		supportBranch: true,
	},
	types.TargetReForge: {
		repoURL:       "https://github.com/Panchovix/stable-diffusion-webui-reForge",
		pullBranch:    BranchMain,
		modelsDir:     "models",
		embeddingsDir: "embeddings",
		vaeDir:        "models/VAE",
		extensionsDir: "extensions",
		upscalersDir:  "ESRGAN",
		ensureDirs:    []string{"Lora", "ESRGAN"},
		links:         reforgeLinks,
		extensions:    true,
		supportBranch: true,
	},
	types.TargetForge: {
		repoURL:       "https://github.com/lllyasviel/stable-diffusion-webui-forge",
		pullBranch:    BranchMain,
		modelsDir:     "models",
		embeddingsDir: "embeddings",
		vaeDir:        "models/VAE",
		extensionsDir: "extensions",
		upscalersDir:  "ESRGAN",
		ensureDirs:    []string{"Lora", "ESRGAN"},
		links:         forgeLinks,
		extensions:    true,
		supportBranch: true,
	},
	types.TargetComfyUI: {
		repoURL:       "https://github.com/comfyanonymous/ComfyUI",
		pullBranch:    BranchMaster,
		modelsDir:     "models",
		embeddingsDir: "models/embeddings",
		vaeDir:        "models/vae",
		extensionsDir: "custom_nodes",
		upscalersDir:  "upscale_models",
		links: []linkSpec{
			{"ckpt", "checkpoints/tmp_ckpt"},
			{"lora", "loras/tmp_lora"},
			{"controlnet", "controlnet"},
			{"clip", "clip"},
			{"clip_vision", "clip_vision"},
			{"diffusers", "diffusers"},
			{"diffusion_models", "diffusion_models"},
			{"text_encoders", "text_encoders"},
			{"unet", "unet"},
		},
		extensions:    true,
		supportBranch: true,
	},
	types.TargetSwarmUI: {
		repoURL:       "https://github.com/mcmonkeyprojects/SwarmUI",
		pullBranch:    BranchMaster,
		modelsDir:     "Models",
		embeddingsDir: "Models/Embeddings",
		vaeDir:        "Models/VAE",
		extensionsDir: "extensions",
		upscalersDir:  "upscale_models",
		ensureDirs:    []string{"Stable-Diffusion", "Lora", "Embeddings", "VAE", "upscale_models"},
		links: []linkSpec{
			{"ckpt", "Stable-Diffusion/tmp_ckpt"},
			{"lora", "Lora/tmp_lora"},
			{"controlnet", "controlnet"},
			{"clip", "clip"},
			{"unet", "unet"},
		},
	},
}

func lookup(t types.Target) *targetLayout {
	if !t.Valid() || table[t] == nil {
		panic(fmt.Sprintf("layout: no layout for target %s", t))
	}
	return table[t]
}

// Plan derives the install plan for target in env. It is pure; an unknown
// target is a programming error and panics.
func Plan(t types.Target, env types.Environment) types.InstallPlan {
	l := lookup(t)

	install := env.InstallDir(t)
	models := filepath.Join(install, l.modelsDir)
	cache := env.CachePath()

	plan := types.InstallPlan{
		Target:        t,
		InstallDir:    install,
		ModelsDir:     models,
		EmbeddingsDir: filepath.Join(install, l.embeddingsDir),
		VAEDir:        filepath.Join(install, l.vaeDir),
		ExtensionsDir: filepath.Join(install, l.extensionsDir),
		UpscalersDir:  filepath.Join(models, l.upscalersDir),
		CacheRoot:     cache,
	}

	for _, ls := range l.links {
		plan.Links = append(plan.Links, types.Link{
			Source: filepath.Join(cache, ls.source),
			Dest:   filepath.Join(models, ls.dest),
		})
	}

	// destinations first, then the cache dirs this target links to
	for _, link := range plan.Links {
		plan.Cleanup = append(plan.Cleanup, types.CleanupOp{Kind: types.CleanupRemovePath, Path: link.Dest})
	}
	for _, link := range plan.Links {
		plan.Cleanup = append(plan.Cleanup, types.CleanupOp{Kind: types.CleanupClearDir, Path: link.Source})
	}

	for _, d := range l.ensureDirs {
		plan.EnsureDirs = append(plan.EnsureDirs, filepath.Join(models, d))
	}

	return plan
}

// RepoURL returns the upstream repository of the target.
func RepoURL(t types.Target) string {
	return lookup(t).repoURL
}

// PullBranch is the branch pulled when updating an existing install.
func PullBranch(t types.Target) string {
	return lookup(t).pullBranch
}

// ExtensionsEnabled reports whether extensions are installed for t.
func ExtensionsEnabled(t types.Target) bool {
	return lookup(t).extensions
}

// CoreRepo is the primary repository item cloned into the install dir.
func CoreRepo(t types.Target, env types.Environment) types.RepoItem {
	return types.RepoItem{URL: RepoURL(t), DestDir: env.InstallDir(t)}
}
