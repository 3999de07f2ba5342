package script

import (
	"path/filepath"
	"testing"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")

	in := &Script{
		Platform:       "tiktok",
		Product:        "graphic tee",
		TargetDuration: 16,
		TimeStep:       8,
		VideoModel:     "veo-3.0-generate-001",
		Scenes: []Scene{
			{ID: "a", Sequence: 1, Duration: 8, VisualDirection: "wide shot", AudioDirection: "VO: hi", Status: StatusCompleted, VideoURI: "https://example.com/v1.mp4"},
			{ID: "b", Sequence: 2, Duration: 8, VisualDirection: "close-up", AudioDirection: "VO: bye", Status: StatusFailed, Err: "quota"},
		},
	}

	if err := Save(in, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if out.Platform != in.Platform || out.VideoModel != in.VideoModel {
		t.Errorf("header mismatch: %+v", out)
	}
	if len(out.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(out.Scenes))
	}
	if out.Scenes[0].Status != StatusCompleted || out.Scenes[0].VideoURI == "" {
		t.Errorf("completed scene not preserved: %+v", out.Scenes[0])
	}
	if out.Scenes[1].Status != StatusFailed || out.Scenes[1].Err != "quota" {
		t.Errorf("failed scene not preserved: %+v", out.Scenes[1])
	}
	if out.Remaining() != 1 {
		t.Errorf("Remaining = %d, want 1", out.Remaining())
	}
}
