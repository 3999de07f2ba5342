package script

import (
	"strings"
	"testing"
)

func TestSpokenLinesPrefixed(t *testing.T) {
	in := "[upbeat music]\nVO: Meet the tee.\nnarrator: Built to last.\n[whoosh]"
	got := SpokenLines(in)
	if got != "Meet the tee. Built to last." {
		t.Errorf("SpokenLines = %q", got)
	}
}

func TestSpokenLinesQuoted(t *testing.T) {
	in := `[music swells] A voice says "This changes everything" over the beat.`
	got := SpokenLines(in)
	if got != "This changes everything" {
		t.Errorf("SpokenLines = %q", got)
	}
}

func TestSpokenLinesFallbackStripsCues(t *testing.T) {
	in := "[snare hit] Fresh drops every friday (beat pause) only here"
	got := SpokenLines(in)
	if strings.Contains(got, "[") || strings.Contains(got, "(") {
		t.Errorf("cues survived: %q", got)
	}
	if !strings.Contains(got, "Fresh drops every friday") {
		t.Errorf("speech lost: %q", got)
	}
}

func TestVisualOnlyDropsAudioLines(t *testing.T) {
	in := "Wide shot of the shirt on a rack.\nVoiceover describes the fabric.\n[camera dolly] Close-up on stitching.\nSFX: register cha-ching."
	got := VisualOnly(in)
	if strings.Contains(strings.ToLower(got), "voiceover") {
		t.Errorf("voiceover line survived: %q", got)
	}
	if strings.Contains(strings.ToLower(got), "sfx") {
		t.Errorf("sfx line survived: %q", got)
	}
	if !strings.Contains(got, "Close-up on stitching.") {
		t.Errorf("visual line lost: %q", got)
	}
	if strings.Contains(got, "[camera dolly]") {
		t.Errorf("bracketed cue survived: %q", got)
	}
}

func TestVisualOnlyNeverEmpty(t *testing.T) {
	in := "[music only]"
	got := VisualOnly(in)
	if strings.TrimSpace(got) == "" {
		t.Error("VisualOnly returned empty prompt")
	}
}
