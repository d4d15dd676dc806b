package surface

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/blacktop/go-termimg"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// maxBodyBytes caps how much of a remote document is read. Signage pages
// beyond this render truncated rather than exhausting memory.
const maxBodyBytes = 2 << 20

var (
	titleRe  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	scriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	spaceRe  = regexp.MustCompile(`[ \t]+`)
)

// HTTPSurface loads documents over HTTP (or from file:// paths) and renders
// either extracted text or, for image content types, terminal graphics.
type HTTPSurface struct {
	client *http.Client

	mu     sync.Mutex
	url    string
	status Status
	title  string
	lines  []string
	img    image.Image
}

// NewHTTP creates an HTTPSurface. A nil client gets a 15-second-timeout
// default.
func NewHTTP(client *http.Client) *HTTPSurface {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPSurface{client: client}
}

// Load fetches rawURL. On failure the previously loaded content is kept and
// the surface status becomes StatusError.
func (s *HTTPSurface) Load(ctx context.Context, rawURL string) error {
	s.mu.Lock()
	s.url = rawURL
	s.status = StatusLoading
	s.mu.Unlock()

	body, contentType, err := s.fetch(ctx, rawURL)
	if err != nil {
		s.setStatus(StatusError)
		return fmt.Errorf("surface: load %s: %w", rawURL, err)
	}

	if strings.HasPrefix(contentType, "image/") || looksLikeImage(rawURL) {
		img, _, decErr := image.Decode(strings.NewReader(string(body)))
		if decErr != nil {
			s.setStatus(StatusError)
			return fmt.Errorf("surface: decode image %s: %w", rawURL, decErr)
		}
		s.mu.Lock()
		s.img, s.title, s.lines = img, "", nil
		s.status = StatusLoaded
		s.mu.Unlock()
		return nil
	}

	title, lines := extractText(string(body))
	s.mu.Lock()
	s.img = nil
	s.title, s.lines = title, lines
	s.status = StatusLoaded
	s.mu.Unlock()
	return nil
}

func (s *HTTPSurface) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse URL: %w", err)
	}
	if u.Scheme == "file" {
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return nil, "", err
		}
		return data, contentTypeForPath(u.Path), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", "signpost-kiosk/1.0")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// Render draws the loaded content. Text pages show the title and body
// lines, ANSI-truncated to the surface width; image pages render through
// go-termimg scaled to fit.
func (s *HTTPSurface) Render(width, height int) string {
	s.mu.Lock()
	img := s.img
	title := s.title
	lines := s.lines
	status := s.status
	rawURL := s.url
	s.mu.Unlock()

	if width <= 0 || height <= 0 {
		return ""
	}

	switch status {
	case StatusIdle, StatusLoading:
		return centered(width, height, "loading "+rawURL+" ...")
	case StatusError:
		if img == nil && len(lines) == 0 {
			return centered(width, height, "unable to load "+rawURL)
		}
		// Stale content stays up; the host shows the error elsewhere.
	}

	if img != nil {
		out, err := renderImage(img, width, height)
		if err == nil {
			return out
		}
		return centered(width, height, "image render failed")
	}

	titleStyle := lipgloss.NewStyle().Bold(true)
	var b strings.Builder
	row := 0
	if title != "" {
		b.WriteString(titleStyle.Render(ansi.Truncate(title, width, "…")))
		b.WriteString("\n\n")
		row += 2
	}
	for _, line := range lines {
		if row >= height {
			break
		}
		b.WriteString(ansi.Truncate(line, width, "…"))
		b.WriteString("\n")
		row++
	}
	return strings.TrimRight(b.String(), "\n")
}

// URL returns the most recently requested URL.
func (s *HTTPSurface) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Status returns the current load state.
func (s *HTTPSurface) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Destroy drops the loaded content.
func (s *HTTPSurface) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = nil
	s.lines = nil
	s.title = ""
	s.status = StatusIdle
}

func (s *HTTPSurface) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// renderImage scales img to the cell budget and emits terminal graphics.
// Protocol selection mirrors what the terminal advertises; Sixel is the
// conservative default.
func renderImage(img image.Image, widthCells, heightCells int) (string, error) {
	scaled := scaleToFit(img, widthCells*8, heightCells*16)
	ti := termimg.New(scaled)
	if ti == nil {
		return "", fmt.Errorf("surface: termimg wrapper failed")
	}
	ti.Protocol(detectProtocol()).Size(widthCells, heightCells).Scale(termimg.ScaleFit)
	return ti.Render()
}

func detectProtocol() termimg.Protocol {
	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "" || strings.Contains(os.Getenv("TERM"), "kitty"):
		return termimg.Kitty
	case strings.Contains(os.Getenv("TERM_PROGRAM"), "iTerm"):
		return termimg.ITerm2
	default:
		return termimg.Sixel
	}
}

// scaleToFit downscales img to fit within maxW x maxH pixels, preserving
// aspect ratio. Images that already fit are returned unchanged.
func scaleToFit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return img
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// extractText pulls the document title and readable lines out of an HTML
// (or plain text) body. This is deliberately crude: signage pages are
// simple, and full layout is out of scope.
func extractText(body string) (string, []string) {
	title := ""
	if m := titleRe.FindStringSubmatch(body); m != nil {
		title = strings.TrimSpace(m[1])
	}
	stripped := scriptRe.ReplaceAllString(body, " ")
	stripped = tagRe.ReplaceAllString(stripped, " ")
	stripped = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&nbsp;", " ", "&quot;", `"`, "&#39;", "'").Replace(stripped)

	var lines []string
	for _, raw := range strings.Split(stripped, "\n") {
		line := strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return title, lines
}

func looksLikeImage(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func contentTypeForPath(path string) string {
	if looksLikeImage(path) {
		return "image/*"
	}
	return "text/html"
}

func centered(width, height int, msg string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		ansi.Truncate(msg, width, "…"))
}
