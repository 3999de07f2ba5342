package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"merch-studio-kit/internal/genai"
	"merch-studio-kit/internal/poll"
	"merch-studio-kit/internal/script"
)

// fakeGenerator scripts remote behavior per scene prompt.
type fakeGenerator struct {
	mu sync.Mutex

	jsonResponse string
	jsonErr      error

	speechPCM []byte
	speechErr error

	startCalls []string
	failPrompt string
	pollsLeft  map[string]int
	neverDone  bool
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, prompt string, images []genai.ImageInput) (string, error) {
	return f.jsonResponse, f.jsonErr
}

func (f *fakeGenerator) GenerateSpeech(ctx context.Context, req genai.SpeechRequest) ([]byte, error) {
	return f.speechPCM, f.speechErr
}

func (f *fakeGenerator) StartVideo(ctx context.Context, req genai.VideoRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPrompt != "" && strings.Contains(req.Prompt, f.failPrompt) {
		return "", &genai.APIError{Status: 500, Message: "backend exploded"}
	}
	name := fmt.Sprintf("operations/op-%d", len(f.startCalls))
	f.startCalls = append(f.startCalls, req.Prompt)
	if f.pollsLeft == nil {
		f.pollsLeft = make(map[string]int)
	}
	f.pollsLeft[name] = 2
	return name, nil
}

func (f *fakeGenerator) PollVideo(ctx context.Context, name string) (genai.VideoOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.neverDone {
		return genai.VideoOperation{Name: name, Done: false}, nil
	}
	f.pollsLeft[name]--
	if f.pollsLeft[name] > 0 {
		return genai.VideoOperation{Name: name, Done: false}, nil
	}
	return genai.VideoOperation{
		Name:     name,
		Done:     true,
		VideoURI: "https://example.com/" + name + ".mp4",
	}, nil
}

func testProducer(t *testing.T, gen Generator) *Producer {
	t.Helper()
	p, err := New(Options{
		Generator: gen,
		Poller:    poll.Poller{Interval: time.Millisecond, MaxAttempts: 5},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func threeSceneScript() *script.Script {
	return &script.Script{
		Platform:       "tiktok",
		Product:        "graphic tee",
		TargetDuration: 24,
		TimeStep:       8,
		VideoModel:     "veo-3.0-generate-001",
		Scenes: []script.Scene{
			{ID: "a", Sequence: 1, Duration: 8, VisualDirection: "scene one shot", AudioDirection: "VO: one", Status: script.StatusPending},
			{ID: "b", Sequence: 2, Duration: 8, VisualDirection: "scene two shot", AudioDirection: "VO: two", Status: script.StatusPending},
			{ID: "c", Sequence: 3, Duration: 8, VisualDirection: "scene three shot", AudioDirection: "VO: three", Status: script.StatusPending},
		},
	}
}

func TestGenerateScript(t *testing.T) {
	gen := &fakeGenerator{jsonResponse: `[
		{"sequence": 1, "duration": 8, "visualDirection": "a", "audioDirection": "VO: a"},
		{"sequence": 2, "duration": 8, "visualDirection": "b", "audioDirection": "VO: b"}
	]`}
	p := testProducer(t, gen)

	scr, err := p.GenerateScript(context.Background(), Brief{
		Platform:      "tiktok",
		Product:       "graphic tee",
		TotalDuration: 16,
		VideoModel:    "veo-3.0-generate-001",
	})
	if err != nil {
		t.Fatalf("GenerateScript: %v", err)
	}
	if len(scr.Scenes) != 2 {
		t.Errorf("expected 2 scenes, got %d", len(scr.Scenes))
	}
	if scr.TimeStep != 8 {
		t.Errorf("TimeStep = %d, want 8", scr.TimeStep)
	}
}

func TestGenerateScriptValidation(t *testing.T) {
	p := testProducer(t, &fakeGenerator{})

	if _, err := p.GenerateScript(context.Background(), Brief{TotalDuration: 16, VideoModel: "veo-3.0-generate-001"}); err == nil {
		t.Error("expected error for missing product")
	}
	if _, err := p.GenerateScript(context.Background(), Brief{Product: "tee", VideoModel: "veo-3.0-generate-001"}); err == nil {
		t.Error("expected error for missing duration")
	}
	if _, err := p.GenerateScript(context.Background(), Brief{Product: "tee", TotalDuration: 16, VideoModel: "dall-e"}); err == nil {
		t.Error("expected error for disallowed model")
	}
}

func TestGenerateScriptBadResponse(t *testing.T) {
	gen := &fakeGenerator{jsonResponse: "sorry, I cannot do that"}
	p := testProducer(t, gen)

	_, err := p.GenerateScript(context.Background(), Brief{
		Product: "tee", TotalDuration: 16, VideoModel: "veo-3.0-generate-001",
	})
	if err == nil {
		t.Error("expected atomic parse failure")
	}
}

func TestProduceAllScenes(t *testing.T) {
	gen := &fakeGenerator{}
	p := testProducer(t, gen)
	scr := threeSceneScript()

	if err := p.Produce(context.Background(), scr, RunOptions{}); err != nil {
		t.Fatalf("Produce: %v", err)
	}
	for i, sc := range scr.Scenes {
		if sc.Status != script.StatusCompleted {
			t.Errorf("scene %d status = %q, want completed", i+1, sc.Status)
		}
		if sc.VideoURI == "" {
			t.Errorf("scene %d has no video URI", i+1)
		}
	}
}

func TestProducePartialFailure(t *testing.T) {
	gen := &fakeGenerator{failPrompt: "scene two"}
	p := testProducer(t, gen)
	scr := threeSceneScript()

	if err := p.Produce(context.Background(), scr, RunOptions{}); err != nil {
		t.Fatalf("Produce: %v", err)
	}

	if scr.Scenes[0].Status != script.StatusCompleted || scr.Scenes[2].Status != script.StatusCompleted {
		t.Errorf("surrounding scenes should complete: %q, %q", scr.Scenes[0].Status, scr.Scenes[2].Status)
	}
	if scr.Scenes[1].Status != script.StatusFailed {
		t.Errorf("scene 2 status = %q, want failed", scr.Scenes[1].Status)
	}
	if scr.Scenes[1].Err == "" {
		t.Error("failed scene has no error text")
	}

	// Re-run retries only the failed scene.
	startsBefore := len(gen.startCalls)
	gen.failPrompt = ""
	if err := p.Produce(context.Background(), scr, RunOptions{}); err != nil {
		t.Fatalf("Produce retry: %v", err)
	}
	if got := len(gen.startCalls) - startsBefore; got != 1 {
		t.Errorf("retry submitted %d scenes, want 1", got)
	}
	if scr.Scenes[1].Status != script.StatusCompleted {
		t.Errorf("scene 2 status after retry = %q, want completed", scr.Scenes[1].Status)
	}
	if scr.Scenes[1].Err != "" {
		t.Errorf("error text not cleared after retry: %q", scr.Scenes[1].Err)
	}
}

func TestProduceSequenceOrder(t *testing.T) {
	gen := &fakeGenerator{}
	p := testProducer(t, gen)

	scr := threeSceneScript()
	// Shuffle storage order; processing must still follow Sequence.
	scr.Scenes[0], scr.Scenes[2] = scr.Scenes[2], scr.Scenes[0]

	if err := p.Produce(context.Background(), scr, RunOptions{}); err != nil {
		t.Fatalf("Produce: %v", err)
	}
	want := []string{"scene one shot", "scene two shot", "scene three shot"}
	for i, prompt := range gen.startCalls {
		if prompt != want[i] {
			t.Errorf("submission %d = %q, want %q", i, prompt, want[i])
		}
	}
}

func TestProduceTimeout(t *testing.T) {
	gen := &fakeGenerator{neverDone: true}
	p := testProducer(t, gen)
	scr := threeSceneScript()
	scr.Scenes = scr.Scenes[:1]

	if err := p.Produce(context.Background(), scr, RunOptions{}); err != nil {
		t.Fatalf("Produce: %v", err)
	}
	sc := scr.Scenes[0]
	if sc.Status != script.StatusFailed {
		t.Fatalf("status = %q, want failed", sc.Status)
	}
	if !strings.Contains(sc.Err, "timed out") {
		t.Errorf("timeout failure should be distinct, got %q", sc.Err)
	}
}

func TestProduceDisallowedModel(t *testing.T) {
	p := testProducer(t, &fakeGenerator{})
	scr := threeSceneScript()
	scr.VideoModel = "sora-2"

	if err := p.Produce(context.Background(), scr, RunOptions{}); err == nil {
		t.Error("expected error for disallowed model")
	}
}

func TestProduceNotifies(t *testing.T) {
	gen := &fakeGenerator{}
	var mu sync.Mutex
	var seen []script.Status
	p, err := New(Options{
		Generator: gen,
		Poller:    poll.Poller{Interval: time.Millisecond, MaxAttempts: 5},
		OnSceneUpdate: func(sc script.Scene) {
			mu.Lock()
			seen = append(seen, sc.Status)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	scr := threeSceneScript()
	scr.Scenes = scr.Scenes[:1]
	if err := p.Produce(context.Background(), scr, RunOptions{}); err != nil {
		t.Fatal(err)
	}
	if len(seen) < 2 || seen[0] != script.StatusGenerating || seen[len(seen)-1] != script.StatusCompleted {
		t.Errorf("status updates = %v, want generating then completed", seen)
	}
}

func TestProduceRunScopedNotify(t *testing.T) {
	gen := &fakeGenerator{}
	p := testProducer(t, gen)

	scr := threeSceneScript()
	scr.Scenes = scr.Scenes[:1]

	var mu sync.Mutex
	var seen []script.Status
	err := p.Produce(context.Background(), scr, RunOptions{
		OnSceneUpdate: func(sc script.Scene) {
			mu.Lock()
			seen = append(seen, sc.Status)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) < 2 || seen[len(seen)-1] != script.StatusCompleted {
		t.Errorf("run-scoped updates = %v, want generating then completed", seen)
	}
}

func TestProduceVoice(t *testing.T) {
	gen := &fakeGenerator{speechPCM: []byte{1, 2, 3, 4}}
	p := testProducer(t, gen)

	sc := &script.Scene{Sequence: 1, AudioDirection: "VO: buy the tee"}
	if err := p.ProduceVoice(context.Background(), sc, "narrator"); err != nil {
		t.Fatalf("ProduceVoice: %v", err)
	}
	if !strings.HasPrefix(sc.AudioURI, "data:audio/wav;base64,") {
		t.Errorf("AudioURI = %q, want WAV data URL", sc.AudioURI)
	}
}

func TestProduceVoiceNoSpokenLines(t *testing.T) {
	p := testProducer(t, &fakeGenerator{speechPCM: []byte{1}})
	sc := &script.Scene{Sequence: 1, AudioDirection: "[instrumental music throughout]"}

	if err := p.ProduceVoice(context.Background(), sc, "narrator"); err == nil {
		t.Error("expected error for scene with no spoken lines")
	}
	if sc.AudioURI != "" {
		t.Error("AudioURI set despite failure")
	}
}

func TestProduceVoiceRemoteError(t *testing.T) {
	p := testProducer(t, &fakeGenerator{speechErr: errors.New("tts down")})
	sc := &script.Scene{Sequence: 2, AudioDirection: "VO: hello"}

	err := p.ProduceVoice(context.Background(), sc, "narrator")
	if err == nil || !strings.Contains(err.Error(), "scene 2") {
		t.Errorf("error should name the scene, got %v", err)
	}
}

func TestPickSeed(t *testing.T) {
	product := &genai.ImageInput{DataBase64: "p"}
	model := &genai.ImageInput{DataBase64: "m"}

	p := testProducer(t, &fakeGenerator{})
	if got := p.pickSeed(SeedImages{Product: product, Model: model}); got != product {
		t.Error("product preference should pick the product seed")
	}
	if got := p.pickSeed(SeedImages{Model: model}); got != model {
		t.Error("product preference should fall back to the model seed")
	}

	pm, err := New(Options{
		Generator:      &fakeGenerator{},
		SeedPreference: SeedPreferModel,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := pm.pickSeed(SeedImages{Product: product, Model: model}); got != model {
		t.Error("model preference should pick the model seed")
	}
	if got := pm.pickSeed(SeedImages{Product: product}); got != product {
		t.Error("model preference should fall back to the product seed")
	}
}
