// Package server exposes the studio over HTTP: mockup editing and
// rendering on one side, script and video production on the other.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"merch-studio-kit/internal/angles"
	"merch-studio-kit/internal/compositor"
	"merch-studio-kit/internal/genai"
	"merch-studio-kit/internal/media"
	"merch-studio-kit/internal/pipeline"
	"merch-studio-kit/internal/prompt"
	"merch-studio-kit/internal/script"
	"merch-studio-kit/internal/studio"
)

type Options struct {
	Logger            *slog.Logger
	Store             *studio.Store
	Renderer          *compositor.Renderer
	Client            *genai.Client
	Producer          *pipeline.Producer
	Series            *angles.Series
	RequestTimeout    time.Duration
	RenderDebounce    time.Duration
	DefaultVoice      string
	DefaultVideoModel string

	// ScriptDir, when set, is where production scripts are saved as YAML
	// after each run and read back by the restore endpoint.
	ScriptDir string
}

type Server struct {
	logger            *slog.Logger
	store             *studio.Store
	renderer          *compositor.Renderer
	client            *genai.Client
	producer          *pipeline.Producer
	series            *angles.Series
	debouncer         *studio.Debouncer
	requestTimeout    time.Duration
	defaultVoice      string
	defaultVideoModel string
	scriptDir         string

	cacheMu sync.Mutex
	cache   map[string]cachedRender
}

type cachedRender struct {
	revision uint64
	png      []byte
}

type apiError struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 180 * time.Second
	}
	voice := opts.DefaultVoice
	if voice == "" {
		voice = "narrator"
	}
	videoModel := opts.DefaultVideoModel
	if videoModel == "" {
		videoModel = "veo-3.0-generate-001"
	}

	s := &Server{
		logger:            logger,
		store:             opts.Store,
		renderer:          opts.Renderer,
		client:            opts.Client,
		producer:          opts.Producer,
		series:            opts.Series,
		requestTimeout:    requestTimeout,
		defaultVoice:      voice,
		defaultVideoModel: videoModel,
		scriptDir:         opts.ScriptDir,
		cache:             make(map[string]cachedRender),
	}
	s.debouncer = studio.NewDebouncer(studio.DebouncerOptions{
		Quiet:   opts.RenderDebounce,
		OnFlush: s.renderJob,
	})
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/options", s.handleOptions)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /api/sessions/{id}/reset", s.handleResetSession)
	mux.HandleFunc("POST /api/sessions/{id}/base", s.handleUploadBase)
	mux.HandleFunc("POST /api/sessions/{id}/layer", s.handleUploadLayer)
	mux.HandleFunc("POST /api/sessions/{id}/transform", s.handleTransform)
	mux.HandleFunc("POST /api/sessions/{id}/tint", s.handleTint)
	mux.HandleFunc("GET /api/sessions/{id}/palette", s.handlePalette)
	mux.HandleFunc("GET /api/sessions/{id}/render", s.handleRender)
	mux.HandleFunc("POST /api/sessions/{id}/mockup", s.handleMockup)
	mux.HandleFunc("POST /api/sessions/{id}/angles", s.handleAngles)

	mux.HandleFunc("POST /api/sessions/{id}/script", s.handleScript)
	mux.HandleFunc("POST /api/sessions/{id}/script/restore", s.handleRestoreScript)
	mux.HandleFunc("POST /api/sessions/{id}/voice", s.handleVoice)
	mux.HandleFunc("POST /api/sessions/{id}/produce", s.handleProduce)

	return withLogging(mux, s.logger)
}

// --- session state ---

type transformView struct {
	Slot     string  `json:"slot"`
	HasImage bool    `json:"hasImage"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

type sideView struct {
	HasBase bool            `json:"hasBase"`
	Layers  []transformView `json:"layers"`
}

type sessionView struct {
	ID       string         `json:"id"`
	Revision uint64         `json:"revision"`
	Tint     string         `json:"tint,omitempty"`
	Front    sideView       `json:"front"`
	Back     sideView       `json:"back"`
	Script   *script.Script `json:"script,omitempty"`
}

func viewSession(sess studio.Session) sessionView {
	return sessionView{
		ID:       sess.ID,
		Revision: sess.Revision,
		Tint:     sess.Tint,
		Front:    viewSide(sess.Front),
		Back:     viewSide(sess.Back),
		Script:   sess.Script,
	}
}

func viewSide(side compositor.Side) sideView {
	out := sideView{HasBase: side.Base != nil}
	for _, layer := range side.Layers {
		out.Layers = append(out.Layers, transformView{
			Slot:     string(layer.Slot),
			HasImage: layer.Image != nil,
			X:        layer.Transform.X,
			Y:        layer.Transform.Y,
			Scale:    layer.Transform.Scale,
			Rotation: layer.Transform.Rotation,
		})
	}
	return out
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Create()
	writeJSON(w, http.StatusOK, viewSession(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, viewSession(sess))
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Reset(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, viewSession(sess))
}

// --- uploads and edits ---

func (s *Server) handleUploadBase(w http.ResponseWriter, r *http.Request) {
	img, ok := s.readImageUpload(w, r)
	if !ok {
		return
	}
	side := sideKey(r.FormValue("side"))

	sess, err := s.store.Update(r.PathValue("id"), func(sess *studio.Session) {
		sess.Side(side).Base = img
	})
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	s.debouncer.Touch(sess.ID, side, sess.Revision)

	writeJSON(w, http.StatusOK, struct {
		sessionView
		SuggestedTints []string `json:"suggestedTints,omitempty"`
	}{viewSession(sess), compositor.SuggestTints(img, 6)})
}

func (s *Server) handleUploadLayer(w http.ResponseWriter, r *http.Request) {
	img, ok := s.readImageUpload(w, r)
	if !ok {
		return
	}
	side := sideKey(r.FormValue("side"))
	slot := compositor.Slot(strings.TrimSpace(r.FormValue("slot")))
	if slot == "" {
		slot = compositor.SlotDesign
	}

	var applied bool
	sess, err := s.store.Update(r.PathValue("id"), func(sess *studio.Session) {
		applied = sess.Side(side).SetLayerImage(slot, img)
	})
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	if !applied {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "unknown layer slot"})
		return
	}
	s.debouncer.Touch(sess.ID, side, sess.Revision)
	writeJSON(w, http.StatusOK, viewSession(sess))
}

type transformRequest struct {
	Side     string  `json:"side"`
	Slot     string  `json:"slot"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}
	side := sideKey(req.Side)
	slot := compositor.Slot(req.Slot)
	if slot == "" {
		slot = compositor.SlotDesign
	}

	var applied bool
	sess, err := s.store.Update(r.PathValue("id"), func(sess *studio.Session) {
		applied = sess.Side(side).SetTransform(slot, compositor.Transform{
			X: req.X, Y: req.Y, Scale: req.Scale, Rotation: req.Rotation,
		})
	})
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	if !applied {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "unknown layer slot"})
		return
	}
	s.debouncer.Touch(sess.ID, side, sess.Revision)
	writeJSON(w, http.StatusOK, viewSession(sess))
}

func (s *Server) handleTint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tint string `json:"tint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	sess, err := s.store.Update(r.PathValue("id"), func(sess *studio.Session) {
		sess.Tint = strings.TrimSpace(req.Tint)
	})
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	s.debouncer.Touch(sess.ID, studio.SideFront, sess.Revision)
	s.debouncer.Touch(sess.ID, studio.SideBack, sess.Revision)
	writeJSON(w, http.StatusOK, viewSession(sess))
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	base := sess.Side(sideKey(r.URL.Query().Get("side"))).Base
	if base == nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "no base image uploaded"})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Tints []string `json:"tints"`
	}{compositor.SuggestTints(base, 6)})
}

// --- rendering ---

// renderJob runs after the debounce quiet period. Jobs that lost the race
// against a newer edit are dropped unrendered.
func (s *Server) renderJob(job studio.RenderJob) {
	if !s.store.Fresh(job.SessionID, job.Revision) {
		return
	}
	if _, err := s.renderSide(job.SessionID, job.Side); err != nil {
		s.logger.Warn("background render failed", "session", job.SessionID, "error", err)
	}
}

// renderSide renders a snapshot and caches the PNG keyed by revision. A
// render that finishes after the session moved on is discarded.
func (s *Server) renderSide(sessionID string, side studio.SideKey) ([]byte, error) {
	for attempt := 0; attempt < 3; attempt++ {
		sess, err := s.store.Get(sessionID)
		if err != nil {
			return nil, err
		}

		key := sessionID + ":" + string(side)
		s.cacheMu.Lock()
		if cached, ok := s.cache[key]; ok && cached.revision == sess.Revision {
			s.cacheMu.Unlock()
			return cached.png, nil
		}
		s.cacheMu.Unlock()

		composite, err := s.renderer.Render(*sess.Side(side), sess.Tint)
		if err != nil {
			return nil, err
		}
		png, err := composite.PNG()
		if err != nil {
			return nil, err
		}

		if !s.store.Fresh(sessionID, sess.Revision) {
			continue
		}
		s.cacheMu.Lock()
		s.cache[key] = cachedRender{revision: sess.Revision, png: png}
		s.cacheMu.Unlock()
		return png, nil
	}
	return nil, errors.New("session kept changing during render")
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	png, err := s.renderSide(r.PathValue("id"), sideKey(r.URL.Query().Get("side")))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, studio.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, apiError{Error: err.Error()})
		return
	}
	w.Header().Set("content-type", "image/png")
	_, _ = w.Write(png)
}

// --- generation ---

type mockupRequest struct {
	Side    string `json:"side"`
	Garment string `json:"garment"`
	Scene   string `json:"scene"`
	Custom  string `json:"custom"`
}

func (s *Server) handleMockup(w http.ResponseWriter, r *http.Request) {
	var req mockupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	id := r.PathValue("id")
	sess, err := s.store.Get(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	png, err := s.renderSide(id, sideKey(req.Side))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}

	promptText := prompt.BuildMockupPrompt(prompt.MockupOptions{
		Garment: req.Garment,
		Scene:   req.Scene,
		Tint:    sess.Tint,
		Custom:  req.Custom,
	})

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	resp, err := s.client.GenerateImage(ctx, genai.ImageRequest{
		Prompt: promptText,
		Images: []genai.ImageInput{{
			DataBase64: base64.StdEncoding.EncodeToString(png),
			MimeType:   "image/png",
		}},
		AspectRatio: "1:1",
	})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, apiError{Error: err.Error(), Hint: genai.Advice(err)})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Images []string `json:"images"`
	}{resp.Images})
}

type anglesRequest struct {
	Seed   string   `json:"seed"`
	Base   string   `json:"base"`
	Angles []string `json:"angles"`
}

func (s *Server) handleAngles(w http.ResponseWriter, r *http.Request) {
	var req anglesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}
	mime, raw, err := media.ParseDataURL(req.Seed, "image/png")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "seed must be a base64 image"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	seed := genai.ImageInput{
		DataBase64: base64.StdEncoding.EncodeToString(raw),
		MimeType:   mime,
	}
	results, err := s.series.Generate(ctx, seed, req.Base, req.Angles)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, apiError{Error: err.Error(), Hint: genai.Advice(err)})
		return
	}

	type angleView struct {
		Angle string `json:"angle"`
		Image string `json:"image,omitempty"`
		Error string `json:"error,omitempty"`
	}
	out := make([]angleView, 0, len(results))
	for _, res := range results {
		v := angleView{Angle: res.Angle, Image: res.Image}
		if res.Err != nil {
			v.Error = res.Err.Error()
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, struct {
		Angles []angleView `json:"angles"`
	}{out})
}

// --- video production ---

type scriptRequest struct {
	Platform        string   `json:"platform"`
	Product         string   `json:"product"`
	TotalDuration   int      `json:"totalDuration"`
	VideoModel      string   `json:"videoModel"`
	Custom          string   `json:"custom"`
	ReferenceImages []string `json:"referenceImages"`
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}
	id := r.PathValue("id")
	if _, err := s.store.Get(id); err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}

	refs := make([]genai.ImageInput, 0, len(req.ReferenceImages))
	for _, ref := range req.ReferenceImages {
		mime, raw, err := media.ParseDataURL(ref, "image/png")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "reference images must be base64 images"})
			return
		}
		refs = append(refs, genai.ImageInput{
			DataBase64: base64.StdEncoding.EncodeToString(raw),
			MimeType:   mime,
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	videoModel := req.VideoModel
	if videoModel == "" {
		videoModel = s.defaultVideoModel
	}

	scr, err := s.producer.GenerateScript(ctx, pipeline.Brief{
		Platform:        req.Platform,
		Product:         req.Product,
		TotalDuration:   req.TotalDuration,
		VideoModel:      videoModel,
		Custom:          req.Custom,
		ReferenceImages: refs,
	})
	if err != nil {
		status := http.StatusBadRequest
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, apiError{Error: err.Error(), Hint: genai.Advice(err)})
		return
	}

	sess, err := s.store.Update(id, func(sess *studio.Session) {
		sess.Script = scr
	})
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, viewSession(sess))
}

// handleRestoreScript reloads a previously saved production script so a
// run can resume after a restart.
func (s *Server) handleRestoreScript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.scriptDir == "" {
		writeJSON(w, http.StatusNotFound, apiError{Error: "script persistence is disabled"})
		return
	}
	scr, err := script.Load(s.scriptPath(id))
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "no saved script for this session"})
		return
	}
	sess, err := s.store.Update(id, func(live *studio.Session) {
		live.Script = scr
	})
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, viewSession(sess))
}

func (s *Server) scriptPath(id string) string {
	return filepath.Join(s.scriptDir, id+".yaml")
}

func (s *Server) saveScript(id string, scr *script.Script) {
	if s.scriptDir == "" {
		return
	}
	if err := os.MkdirAll(s.scriptDir, 0755); err != nil {
		s.logger.Warn("create script dir", "error", err)
		return
	}
	if err := script.Save(scr, s.scriptPath(id)); err != nil {
		s.logger.Warn("save script", "session", id, "error", err)
	}
}

type voiceRequest struct {
	SceneID string `json:"sceneId"`
	Voice   string `json:"voice"`
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}
	id := r.PathValue("id")
	sess, err := s.store.Get(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	if sess.Script == nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "no script generated yet"})
		return
	}
	voice := req.Voice
	if voice == "" {
		voice = s.defaultVoice
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	var voiceErrs []string
	audio := make(map[string]string)
	for i := range sess.Script.Scenes {
		sc := &sess.Script.Scenes[i]
		if req.SceneID != "" && sc.ID != req.SceneID {
			continue
		}
		if err := s.producer.ProduceVoice(ctx, sc, voice); err != nil {
			voiceErrs = append(voiceErrs, err.Error())
			continue
		}
		audio[sc.ID] = sc.AudioURI
	}

	// Merge only the synthesized audio; a production run may have moved
	// scene statuses while the voice calls were in flight.
	updated, err := s.store.Update(id, func(live *studio.Session) {
		if live.Script == nil {
			return
		}
		for i := range live.Script.Scenes {
			if uri, ok := audio[live.Script.Scenes[i].ID]; ok {
				live.Script.Scenes[i].AudioURI = uri
			}
		}
	})
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		sessionView
		Errors []string `json:"errors,omitempty"`
	}{viewSession(updated), voiceErrs})
}

type produceRequest struct {
	AspectRatio string `json:"aspectRatio"`
	SeedProduct string `json:"seedProduct"`
	SeedModel   string `json:"seedModel"`
}

// handleProduce kicks off the video stage in the background and returns
// immediately; progress lands on the session as scenes change status.
func (s *Server) handleProduce(w http.ResponseWriter, r *http.Request) {
	var req produceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}
	id := r.PathValue("id")
	sess, err := s.store.Get(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	if sess.Script == nil || len(sess.Script.Scenes) == 0 {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "no script generated yet"})
		return
	}

	seeds, err := parseSeeds(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}

	scr := sess.Script
	go func() {
		err := s.producer.Produce(context.Background(), scr, pipeline.RunOptions{
			Seeds:       seeds,
			AspectRatio: req.AspectRatio,
			OnSceneUpdate: func(sc script.Scene) {
				// Mirror progress onto the live session so polling
				// clients see per-scene status mid-run.
				if _, err := s.store.Update(id, func(live *studio.Session) {
					if live.Script == nil {
						return
					}
					for i := range live.Script.Scenes {
						if live.Script.Scenes[i].ID == sc.ID {
							if sc.AudioURI == "" {
								sc.AudioURI = live.Script.Scenes[i].AudioURI
							}
							live.Script.Scenes[i] = sc
							return
						}
					}
				}); err != nil {
					s.logger.Warn("session gone during production", "session", id)
				}
			},
		})
		if err != nil {
			s.logger.Warn("production run aborted", "session", id, "error", err)
		}
		s.saveScript(id, scr)
	}()

	writeJSON(w, http.StatusAccepted, struct {
		Status string `json:"status"`
		Scenes int    `json:"scenes"`
	}{"started", scr.Remaining()})
}

func parseSeeds(req produceRequest) (pipeline.SeedImages, error) {
	var seeds pipeline.SeedImages
	if req.SeedProduct != "" {
		mime, raw, err := media.ParseDataURL(req.SeedProduct, "image/png")
		if err != nil {
			return seeds, errors.New("seedProduct must be a base64 image")
		}
		seeds.Product = &genai.ImageInput{
			DataBase64: base64.StdEncoding.EncodeToString(raw),
			MimeType:   mime,
		}
	}
	if req.SeedModel != "" {
		mime, raw, err := media.ParseDataURL(req.SeedModel, "image/png")
		if err != nil {
			return seeds, errors.New("seedModel must be a base64 image")
		}
		seeds.Model = &genai.ImageInput{
			DataBase64: base64.StdEncoding.EncodeToString(raw),
			MimeType:   mime,
		}
	}
	return seeds, nil
}

// --- menus ---

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Garments  []string `json:"garments"`
		Scenes    []string `json:"scenes"`
		Angles    []string `json:"angles"`
		Platforms []string `json:"platforms"`
		Voices    []string `json:"voices"`
	}{
		Garments:  prompt.GarmentTypes(),
		Scenes:    prompt.ScenePresets(),
		Angles:    prompt.Angles(),
		Platforms: prompt.Platforms(),
		Voices:    prompt.Voices(),
	})
}

// --- helpers ---

// readImageUpload pulls the "image" file out of a multipart form and
// decodes it. Errors are written to the response; ok is false on failure.
func (s *Server) readImageUpload(w http.ResponseWriter, r *http.Request) (image.Image, bool) {
	const maxUploadBytes = 25 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid multipart form"})
		return nil, false
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "missing image"})
		return nil, false
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "failed to read image"})
		return nil, false
	}
	img, err := compositor.DecodeImage(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "unsupported image format"})
		return nil, false
	}
	return img, true
}

func sideKey(value string) studio.SideKey {
	if strings.EqualFold(strings.TrimSpace(value), "back") {
		return studio.SideBack
	}
	return studio.SideFront
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withLogging(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("http", "method", r.Method, "path", r.URL.Path, "dur_ms", time.Since(start).Milliseconds())
	})
}
