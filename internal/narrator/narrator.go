// internal/narrator/narrator.go
package narrator

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	ttsRequestTimeout = 10 * time.Second
	ttsEndpoint       = "https://translate.google.com/translate_tts"
)

// TTS narrates text by fetching speech audio from Google Translate's
// text-to-speech endpoint into a local cache directory. Speak is
// fire-and-forget: fetch and playback failures are logged, never
// surfaced to the caller.
type TTS struct {
	cacheDir string
	lang     string
	endpoint string
	client   *http.Client
	log      *logrus.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewTTS builds a narrator caching audio under cacheDir, speaking lang
// (a BCP-47-ish code such as "es" or "en").
func NewTTS(cacheDir, lang string, log *logrus.Logger) *TTS {
	if log == nil {
		log = logrus.New()
	}
	if lang == "" {
		lang = "es"
	}
	return &TTS{
		cacheDir: cacheDir,
		lang:     lang,
		endpoint: ttsEndpoint,
		client:   &http.Client{Timeout: ttsRequestTimeout},
		log:      log,
	}
}

// Speak fetches (or reuses) the audio for text in the background. Any
// in-flight narration is cancelled first.
func (t *TTS) Speak(text string) {
	if text == "" {
		return
	}

	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.mu.Unlock()

	go func() {
		defer cancel()
		if _, err := t.fetch(ctx, text); err != nil {
			t.log.WithError(err).Debug("narration failed")
		}
	}()
}

// Stop cancels any in-flight narration. Idempotent.
func (t *TTS) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// fetch returns the path of the cached MP3 for text, downloading it on a
// cache miss.
func (t *TTS) fetch(ctx context.Context, text string) (string, error) {
	name := fmt.Sprintf("%s_%x.mp3", t.lang, sha1.Sum([]byte(text)))
	path := filepath.Join(t.cacheDir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", t.lang)
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))
	fullURL := t.endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(t.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}
	outFile, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return path, nil
}

// Muted is a no-op narrator for installs with audio disabled.
type Muted struct{}

func (Muted) Speak(string) {}
func (Muted) Stop()        {}
