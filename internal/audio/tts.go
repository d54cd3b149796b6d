package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Voice identifies a TTS accent variant.
type Voice string

const (
	VoiceUS Voice = "en-US"
	VoiceGB Voice = "en-GB"
)

// langParam maps a voice onto the Google Translate TTS language parameter.
func langParam(voice Voice) string {
	if voice == VoiceGB {
		return "en-gb"
	}
	return "en"
}

// TTSService provides text-to-speech clips for lesson content. Generated
// MP3s are cached on disk keyed by text and voice.
type TTSService struct {
	audioDir string
}

const ttsRequestTimeout = 10 * time.Second

// NewTTSService creates a new TTS service
func NewTTSService(audioDir string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
	}
}

// GenerateClip converts text to speech in the given voice and saves it as
// an MP3. Returns the filename (not full path) on success.
func (s *TTSService) GenerateClip(text string, voice Voice) (string, error) {
	filename := clipFilename(text, voice)
	path := filepath.Join(s.audioDir, filename)

	// Cached clip from a previous request
	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := s.generateUsingGoogleTTS(text, langParam(voice), path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}

	return filename, nil
}

// clipFilename derives a stable cache filename from text and voice.
func clipFilename(text string, voice Voice) string {
	sanitized := strings.ToLower(strings.TrimSpace(text))
	sanitized = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		}
		return -1
	}, sanitized)
	if len(sanitized) > 60 {
		sanitized = sanitized[:60]
	}
	return fmt.Sprintf("%s_%s.mp3", sanitized, strings.ToLower(string(voice)))
}

// generateUsingGoogleTTS uses Google Translate's text-to-speech endpoint.
// Free and keyless, which keeps local setups working out of the box.
func (s *TTSService) generateUsingGoogleTTS(text, lang, outputPath string) error {
	baseURL := "https://translate.google.com/translate_tts"

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", lang)
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	fullURL := baseURL + "?" + params.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Google rejects requests without a browser user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	client := &http.Client{Timeout: ttsRequestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	return nil
}

// BatchGenerateClips generates clips for several content items in one voice
func (s *TTSService) BatchGenerateClips(texts []string, voice Voice) (map[string]string, error) {
	results := make(map[string]string)

	for _, text := range texts {
		filename, err := s.GenerateClip(text, voice)
		if err != nil {
			return results, fmt.Errorf("failed to generate audio for %q: %w", text, err)
		}
		results[text] = filename
	}

	return results, nil
}

// DeleteClip removes a cached audio file
func (s *TTSService) DeleteClip(filename string) error {
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(path)
}

// ListClips returns all cached MP3 files in the audio directory
func (s *TTSService) ListClips() ([]string, error) {
	files, err := os.ReadDir(s.audioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio directory: %w", err)
	}

	var audioFiles []string
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".mp3" {
			audioFiles = append(audioFiles, file.Name())
		}
	}

	return audioFiles, nil
}
