package prompt

import "strings"

type Voice struct {
	Name      string
	VoiceName string
}

var voices = map[string]Voice{
	"narrator":   {Name: "Warm Narrator", VoiceName: "Kore"},
	"energetic":  {Name: "Energetic Host", VoiceName: "Puck"},
	"calm":       {Name: "Calm Storyteller", VoiceName: "Charon"},
	"bright":     {Name: "Bright Promoter", VoiceName: "Aoede"},
}

// Voices lists selectable voice keys in menu order.
func Voices() []string {
	return []string{"narrator", "energetic", "calm", "bright"}
}

// VoiceByKey resolves a voice key to its prebuilt synthesis voice name,
// falling back to the narrator voice.
func VoiceByKey(key string) string {
	if v, ok := voices[strings.ToLower(strings.TrimSpace(key))]; ok {
		return v.VoiceName
	}
	return voices["narrator"].VoiceName
}
