package types_test

import (
	"testing"

	"github.com/arthur-debert/webup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallPlanValidate(t *testing.T) {
	base := types.InstallPlan{
		InstallDir: "/home/A1111",
		CacheRoot:  "/base/temp",
	}

	t.Run("valid", func(t *testing.T) {
		p := base
		p.Links = []types.Link{
			{Source: "/base/temp/ckpt", Dest: "/home/A1111/models/Stable-diffusion/tmp_ckpt"},
			{Source: "/base/temp/lora", Dest: "/home/A1111/models/Lora/tmp_lora"},
		}
		require.NoError(t, p.Validate())
	})

	t.Run("duplicate destination", func(t *testing.T) {
		p := base
		p.Links = []types.Link{
			{Source: "/base/temp/ckpt", Dest: "/home/A1111/models/x"},
			{Source: "/base/temp/lora", Dest: "/home/A1111/models/x/"},
		}
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "link conflict")
	})

	t.Run("source outside cache", func(t *testing.T) {
		p := base
		p.Links = []types.Link{{Source: "/home/A1111/ckpt", Dest: "/home/A1111/models/x"}}
		assert.Error(t, p.Validate())
	})
}
