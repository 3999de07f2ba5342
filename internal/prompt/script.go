package prompt

import (
	"fmt"
	"strings"
)

type Platform struct {
	Name        string
	AspectRatio string
	Notes       []string
}

var platforms = map[string]Platform{
	"tiktok": {
		Name:        "TikTok",
		AspectRatio: "9:16",
		Notes: []string{
			"Hook in the first second; assume sound-on viewing.",
			"Fast cuts, native hand-held energy, no corporate polish.",
			"On-screen product moments must read even at thumbnail size.",
		},
	},
	"reels": {
		Name:        "Instagram Reels",
		AspectRatio: "9:16",
		Notes: []string{
			"Polished lifestyle aesthetic; aspirational but authentic.",
			"Lead with a strong visual, not a title card.",
			"Keep branding subtle until the closing scene.",
		},
	},
	"shorts": {
		Name:        "YouTube Shorts",
		AspectRatio: "9:16",
		Notes: []string{
			"Slightly longer attention window; one clear narrative arc.",
			"Voiceover carries the story; visuals support it.",
			"End with a direct call to action.",
		},
	},
	"stories": {
		Name:        "Instagram Stories",
		AspectRatio: "9:16",
		Notes: []string{
			"Casual, diary-like tone; direct address to camera works.",
			"Leave safe margins top and bottom for UI overlays.",
		},
	},
}

// Platforms lists the selectable target platforms in menu order.
func Platforms() []string {
	return []string{"tiktok", "reels", "shorts", "stories"}
}

// PlatformByKey resolves a platform key, falling back to TikTok.
func PlatformByKey(key string) Platform {
	if p, ok := platforms[strings.ToLower(strings.TrimSpace(key))]; ok {
		return p
	}
	return platforms["tiktok"]
}

type ScriptOptions struct {
	Platform      string
	Product       string
	TotalDuration int
	TimeStep      int
	SceneCount    int
	Custom        string
}

// BuildScriptPrompt composes the structured-output instruction for the
// script generation stage.
func BuildScriptPrompt(opts ScriptOptions) string {
	platform := PlatformByKey(opts.Platform)

	var b strings.Builder
	b.Grow(2048)

	b.WriteString("TASK: Write a short-form marketing video script as strict JSON.\n\n")

	b.WriteString(fmt.Sprintf("PRODUCT: %s\n", strings.TrimSpace(opts.Product)))
	b.WriteString(fmt.Sprintf("PLATFORM: %s (aspect ratio %s)\n", platform.Name, platform.AspectRatio))
	b.WriteString(fmt.Sprintf("TOTAL DURATION: %d seconds, split into exactly %d scenes of %d seconds each.\n\n",
		opts.TotalDuration, opts.SceneCount, opts.TimeStep))

	b.WriteString("PLATFORM DIRECTION:\n")
	for _, line := range platform.Notes {
		b.WriteString("- " + line + "\n")
	}
	b.WriteString("\n")

	b.WriteString("SCENE RULES:\n")
	b.WriteString("- Scenes run in sequence; later scenes may reference continuity with the previous one (e.g. \"match cut from previous scene\").\n")
	b.WriteString("- visualDirection describes only what the camera sees. No audio cues there.\n")
	b.WriteString("- audioDirection contains sound cues in [brackets] and spoken lines prefixed with \"VO:\".\n")
	b.WriteString("- If reference images are attached, the product shown must match them exactly.\n\n")

	if custom := strings.TrimSpace(opts.Custom); custom != "" {
		b.WriteString("ADDITIONAL NOTES:\n- " + custom + "\n\n")
	}

	b.WriteString("OUTPUT: a JSON array only, no prose, no markdown. Each element:\n")
	b.WriteString(`{"sequence": 1, "timeRange": "0:00-0:08", "duration": 8, "visualDirection": "...", "audioDirection": "..."}`)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Return exactly %d elements whose duration fields sum to %d.\n", opts.SceneCount, opts.TotalDuration))

	return strings.TrimSpace(b.String())
}
