package script

// Status tracks one scene through a production run. Transitions are
// monotonic within a run: pending -> generating -> completed | failed.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the scene reached a final state for this run.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Scene is one independently retryable unit of the video script. Remote
// artifacts are referenced by URI; the bytes stay with the remote service.
type Scene struct {
	ID              string `yaml:"id" json:"id"`
	Sequence        int    `yaml:"sequence" json:"sequence"`
	TimeRange       string `yaml:"timeRange" json:"timeRange"`
	Duration        int    `yaml:"duration" json:"duration"`
	VisualDirection string `yaml:"visualDirection" json:"visualDirection"`
	AudioDirection  string `yaml:"audioDirection" json:"audioDirection"`
	Status          Status `yaml:"status" json:"status"`
	VideoURI        string `yaml:"videoURI,omitempty" json:"videoURI,omitempty"`
	AudioURI        string `yaml:"audioURI,omitempty" json:"audioURI,omitempty"`
	Err             string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Script is an ordered list of scenes produced atomically by one
// generation call.
type Script struct {
	Platform       string  `yaml:"platform" json:"platform"`
	Product        string  `yaml:"product" json:"product"`
	TargetDuration int     `yaml:"targetDuration" json:"targetDuration"`
	TimeStep       int     `yaml:"timeStep" json:"timeStep"`
	VideoModel     string  `yaml:"videoModel" json:"videoModel"`
	Scenes         []Scene `yaml:"scenes" json:"scenes"`
}

// Remaining counts scenes that have not completed yet.
func (s *Script) Remaining() int {
	n := 0
	for i := range s.Scenes {
		if s.Scenes[i].Status != StatusCompleted {
			n++
		}
	}
	return n
}

// TotalDuration sums the per-scene durations.
func (s *Script) TotalDuration() int {
	total := 0
	for i := range s.Scenes {
		total += s.Scenes[i].Duration
	}
	return total
}
