// Package credentials validates and normalizes the user supplied target
// selector and secrets before anything touches the filesystem.
package credentials

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/types"
)

const (
	// MinAPIKeyLength is the shortest CivitAI key accepted
	MinAPIKeyLength = 32

	// DefaultBGM is the background video used when none (or a malformed
	// one) is given
	DefaultBGM = "dQw4w9WgXcQ"
)

// Input is the raw CLI surface.
type Input struct {
	Target string
	APIKey string
	Token  string
	BGM    string
}

// Validated holds normalized values plus the resolved target.
type Validated struct {
	Target types.Target
	APIKey string
	Token  string
	BGM    string
}

// BGMEmbedURL returns the autoplaying embed URL for the background video.
func (v Validated) BGMEmbedURL() string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=1", v.BGM)
}

// Credentials returns the secrets in their persisted form.
func (v Validated) Credentials() types.Credentials {
	return types.Credentials{CivitaiKey: v.APIKey, HFReadToken: v.Token}
}

// Validate applies the rules in order; the first failure short-circuits.
// It has no side effects.
func Validate(in Input) (Validated, error) {
	name := strings.TrimSpace(in.Target)
	apiKey := strings.TrimSpace(in.APIKey)
	token := strings.TrimSpace(in.Token)
	bgm := strings.TrimSpace(in.BGM)

	target, ok := types.ParseTarget(name)
	if !ok {
		return Validated{}, errors.Newf(errors.ErrInvalidTarget,
			"invalid webui option %q, available options: %s",
			in.Target, strings.Join(types.TargetNames(), ", ")).
			WithDetail("target", in.Target)
	}

	switch {
	case apiKey == "":
		return Validated{}, errors.New(errors.ErrAPIKeyMissing, "CivitAI API key is missing")
	case containsSpace(apiKey):
		return Validated{}, errors.New(errors.ErrAPIKeySpaces, "CivitAI API key contains spaces, not allowed")
	case len(apiKey) < MinAPIKeyLength:
		return Validated{}, errors.Newf(errors.ErrAPIKeyTooShort,
			"CivitAI API key must be at least %d characters long", MinAPIKeyLength)
	}

	if token == "" || containsSpace(token) {
		token = ""
	}
	if bgm == "" || containsSpace(bgm) {
		bgm = DefaultBGM
	}

	return Validated{
		Target: target,
		APIKey: apiKey,
		Token:  token,
		BGM:    bgm,
	}, nil
}

func containsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
