package script

import (
	"regexp"
	"strings"
)

var (
	spokenPrefixRegex = regexp.MustCompile(`(?i)^\s*(vo|voiceover|voice-over|narrator)\s*:\s*`)
	quotedRegex       = regexp.MustCompile(`"([^"]+)"`)
	cueRegex          = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
)

var audioKeywords = []string{
	"voiceover", "voice-over", "vo:", "narrator",
	"music", "sfx", "sound effect", "sound:", "audio:",
}

// SpokenLines isolates the spoken-word portion of a mixed audio direction.
// Explicit narrator prefixes win, then quoted lines; as a last resort,
// bracketed sound cues are stripped and the remainder is treated as speech.
func SpokenLines(audioDirection string) string {
	var spoken []string
	for _, line := range strings.Split(audioDirection, "\n") {
		if loc := spokenPrefixRegex.FindStringIndex(line); loc != nil {
			if text := strings.TrimSpace(line[loc[1]:]); text != "" {
				spoken = append(spoken, text)
			}
		}
	}
	if len(spoken) > 0 {
		return strings.Join(spoken, " ")
	}

	for _, m := range quotedRegex.FindAllStringSubmatch(audioDirection, -1) {
		if text := strings.TrimSpace(m[1]); text != "" {
			spoken = append(spoken, text)
		}
	}
	if len(spoken) > 0 {
		return strings.Join(spoken, " ")
	}

	stripped := strings.TrimSpace(cueRegex.ReplaceAllString(audioDirection, ""))
	return stripped
}

// VisualOnly strips audio and voiceover cues from a scene's visual
// direction so only the visual description reaches video synthesis.
func VisualOnly(visualDirection string) string {
	var kept []string
	for _, line := range strings.Split(visualDirection, "\n") {
		clean := strings.TrimSpace(cueRegex.ReplaceAllString(line, ""))
		if clean == "" {
			continue
		}
		lower := strings.ToLower(clean)
		audio := false
		for _, kw := range audioKeywords {
			if strings.Contains(lower, kw) {
				audio = true
				break
			}
		}
		if audio {
			continue
		}
		kept = append(kept, clean)
	}
	out := strings.Join(kept, "\n")
	if strings.TrimSpace(out) == "" {
		// Never submit an empty prompt; fall back to the raw direction.
		return strings.TrimSpace(visualDirection)
	}
	return out
}
