package audio

// Feedback clip filenames served from the static audio directory. The
// client plays these between attempts and reports back when playback ends.
const (
	ClipFileSuccess      = "feedback_success.mp3"
	ClipFileFailure      = "feedback_failure.mp3"
	ClipFileGrandSuccess = "feedback_grand_success.mp3"
)

// FeedbackClips maps a clip name to its file under the static audio path.
var FeedbackClips = map[string]string{
	"success":       ClipFileSuccess,
	"fail":          ClipFileFailure,
	"grand-success": ClipFileGrandSuccess,
}
