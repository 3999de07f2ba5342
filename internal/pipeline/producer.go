// Package pipeline runs the script -> voice -> video production stages
// against the remote generation service.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"merch-studio-kit/internal/genai"
	"merch-studio-kit/internal/media"
	"merch-studio-kit/internal/poll"
	"merch-studio-kit/internal/prompt"
	"merch-studio-kit/internal/script"
)

// Generator is the slice of the remote client the pipeline needs.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, images []genai.ImageInput) (string, error)
	GenerateSpeech(ctx context.Context, req genai.SpeechRequest) ([]byte, error)
	StartVideo(ctx context.Context, req genai.VideoRequest) (string, error)
	PollVideo(ctx context.Context, name string) (genai.VideoOperation, error)
}

// SeedPreference picks which reference image seeds video generation when
// both a product shot and an on-model shot are available.
type SeedPreference string

const (
	SeedPreferProduct SeedPreference = "product"
	SeedPreferModel   SeedPreference = "model"
)

// SeedImages are the optional reference images for video scenes.
type SeedImages struct {
	Product *genai.ImageInput
	Model   *genai.ImageInput
}

// Brief is the user input to script generation.
type Brief struct {
	Platform        string
	Product         string
	TotalDuration   int
	VideoModel      string
	ReferenceImages []genai.ImageInput
	Custom          string
}

// RunOptions control one video production run.
type RunOptions struct {
	Seeds       SeedImages
	AspectRatio string

	// OnSceneUpdate, when set, receives a copy of every scene whose
	// status changes during this run, in addition to the producer-wide
	// callback.
	OnSceneUpdate func(script.Scene)
}

type Options struct {
	Generator      Generator
	Poller         poll.Poller
	Logger         *slog.Logger
	SeedPreference SeedPreference

	// OnSceneUpdate, when set, receives a copy of every scene whose
	// status changes during a run.
	OnSceneUpdate func(script.Scene)
}

type Producer struct {
	gen      Generator
	poller   poll.Poller
	logger   *slog.Logger
	seedPref SeedPreference
	onUpdate func(script.Scene)
}

func New(opts Options) (*Producer, error) {
	if opts.Generator == nil {
		return nil, errors.New("pipeline: generator is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pref := opts.SeedPreference
	if pref != SeedPreferModel {
		pref = SeedPreferProduct
	}
	return &Producer{
		gen:      opts.Generator,
		poller:   opts.Poller,
		logger:   logger,
		seedPref: pref,
		onUpdate: opts.OnSceneUpdate,
	}, nil
}

// GenerateScript runs the script stage: build the structured prompt, call
// the model once, and parse the whole scene list atomically.
func (p *Producer) GenerateScript(ctx context.Context, brief Brief) (*script.Script, error) {
	product := brief.Product
	if product == "" {
		return nil, errors.New("pipeline: product description is required")
	}
	if brief.TotalDuration <= 0 {
		return nil, fmt.Errorf("pipeline: total duration must be positive, got %d", brief.TotalDuration)
	}
	step, ok := script.TimeStep(brief.VideoModel)
	if !ok {
		return nil, fmt.Errorf("pipeline: video model %q is not allowed", brief.VideoModel)
	}
	count := script.SceneCount(brief.TotalDuration, step)

	promptText := prompt.BuildScriptPrompt(prompt.ScriptOptions{
		Platform:      brief.Platform,
		Product:       product,
		TotalDuration: brief.TotalDuration,
		TimeStep:      step,
		SceneCount:    count,
		Custom:        brief.Custom,
	})

	p.logger.Info("generating script",
		"platform", brief.Platform,
		"scenes", count,
		"duration", brief.TotalDuration)

	raw, err := p.gen.GenerateJSON(ctx, promptText, brief.ReferenceImages)
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}
	scenes, err := script.Parse(raw, brief.TotalDuration, step)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	return &script.Script{
		Platform:       brief.Platform,
		Product:        product,
		TargetDuration: brief.TotalDuration,
		TimeStep:       step,
		VideoModel:     brief.VideoModel,
		Scenes:         scenes,
	}, nil
}

// ProduceVoice synthesizes the spoken lines of one scene and stores the
// result on the scene as a WAV data URL. Scenes with no spoken material
// are rejected before any remote call.
func (p *Producer) ProduceVoice(ctx context.Context, sc *script.Scene, voiceKey string) error {
	spoken := script.SpokenLines(sc.AudioDirection)
	if spoken == "" {
		return fmt.Errorf("scene %d has no spoken lines", sc.Sequence)
	}

	pcm, err := p.gen.GenerateSpeech(ctx, genai.SpeechRequest{
		Text:  spoken,
		Voice: prompt.VoiceByKey(voiceKey),
	})
	if err != nil {
		return fmt.Errorf("voice for scene %d: %w", sc.Sequence, err)
	}

	sc.AudioURI = media.EncodeDataURL("audio/wav", media.WrapSpeechPCM(pcm))
	p.notify(sc)
	return nil
}

// Produce runs the video stage over every scene that has not completed
// yet, strictly in sequence order. A scene failure is recorded on that
// scene and the run moves on; only context cancellation aborts the run.
func (p *Producer) Produce(ctx context.Context, scr *script.Script, opts RunOptions) error {
	if !script.AllowedModel(scr.VideoModel) {
		return fmt.Errorf("pipeline: video model %q is not allowed", scr.VideoModel)
	}
	aspect := opts.AspectRatio
	if aspect == "" {
		aspect = prompt.PlatformByKey(scr.Platform).AspectRatio
	}
	seed := p.pickSeed(opts.Seeds)

	order := make([]int, len(scr.Scenes))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scr.Scenes[order[a]].Sequence < scr.Scenes[order[b]].Sequence
	})

	notify := p.notify
	if opts.OnSceneUpdate != nil {
		notify = func(sc *script.Scene) {
			p.notify(sc)
			opts.OnSceneUpdate(*sc)
		}
	}

	for _, idx := range order {
		sc := &scr.Scenes[idx]
		if sc.Status == script.StatusCompleted {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		sc.Status = script.StatusGenerating
		notify(sc)
		p.produceScene(ctx, scr, sc, seed, aspect, notify)

		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Producer) produceScene(ctx context.Context, scr *script.Script, sc *script.Scene, seed *genai.ImageInput, aspect string, notify func(*script.Scene)) {
	visual := script.VisualOnly(sc.VisualDirection)

	opName, err := p.gen.StartVideo(ctx, genai.VideoRequest{
		Model:           scr.VideoModel,
		Prompt:          visual,
		Seed:            seed,
		AspectRatio:     aspect,
		DurationSeconds: sc.Duration,
	})
	if err != nil {
		p.fail(sc, fmt.Errorf("start video: %w", err), notify)
		return
	}
	p.logger.Info("video operation started", "scene", sc.Sequence, "operation", opName)

	var last genai.VideoOperation
	res := p.poller.Wait(ctx, func(ctx context.Context) (bool, error) {
		op, err := p.gen.PollVideo(ctx, opName)
		if err != nil {
			return false, err
		}
		if op.Done && op.ErrText != "" {
			return false, errors.New(op.ErrText)
		}
		last = op
		return op.Done, nil
	})

	switch res.Status {
	case poll.Completed:
		if last.VideoURI == "" {
			p.fail(sc, errors.New("operation completed without a video URI"), notify)
			return
		}
		sc.VideoURI = last.VideoURI
		sc.Err = ""
		sc.Status = script.StatusCompleted
		notify(sc)
		p.logger.Info("scene completed", "scene", sc.Sequence)
	case poll.TimedOut:
		p.fail(sc, fmt.Errorf("video generation timed out: %w", res.Err), notify)
	default:
		p.fail(sc, res.Err, notify)
	}
}

func (p *Producer) pickSeed(seeds SeedImages) *genai.ImageInput {
	if p.seedPref == SeedPreferModel {
		if seeds.Model != nil {
			return seeds.Model
		}
		return seeds.Product
	}
	if seeds.Product != nil {
		return seeds.Product
	}
	return seeds.Model
}

func (p *Producer) fail(sc *script.Scene, err error, notify func(*script.Scene)) {
	sc.Err = err.Error()
	sc.Status = script.StatusFailed
	notify(sc)
	p.logger.Warn("scene failed", "scene", sc.Sequence, "error", err)
}

func (p *Producer) notify(sc *script.Scene) {
	if p.onUpdate != nil {
		p.onUpdate(*sc)
	}
}
