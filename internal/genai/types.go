package genai

// ImageInput is one inline image attached to a generation request. The
// payload may be a bare base64 string or a full data URL.
type ImageInput struct {
	DataBase64 string
	MimeType   string
}

// ImageRequest asks for one or more generated images.
type ImageRequest struct {
	Prompt      string
	Images      []ImageInput
	AspectRatio string
}

// ImageResult holds generated images as data URLs plus any text the model
// returned alongside them.
type ImageResult struct {
	Images []string
	Text   string
}

// SpeechRequest asks for synthesized speech for a block of spoken text.
type SpeechRequest struct {
	Text  string
	Voice string
}

// VideoRequest submits a long-running video generation operation.
type VideoRequest struct {
	Model           string
	Prompt          string
	Seed            *ImageInput
	AspectRatio     string
	DurationSeconds int
}

// VideoOperation is the polled state of a long-running video operation.
type VideoOperation struct {
	Name     string
	Done     bool
	VideoURI string
	ErrText  string
}
