package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/signpost/pkg/components"
	"gitlab.com/tinyland/lab/signpost/pkg/facts"
)

// FactsBrowser is the "this day in Bitcoin history" modal. It pages
// through today's records one at a time; long descriptions scroll inside
// a viewport.
type FactsBrowser struct {
	records []facts.Fact
	index   int
	vp      viewport.Model
	width   int
	height  int
}

// NewFactsBrowser creates an empty browser. Call SetSize and SetFacts
// before rendering.
func NewFactsBrowser() *FactsBrowser {
	return &FactsBrowser{vp: viewport.New(0, 0)}
}

// SetFacts replaces the record set and rewinds to the first record.
func (b *FactsBrowser) SetFacts(records []facts.Fact) {
	b.records = records
	b.index = 0
	b.refreshContent()
}

// SetSize sets the outer modal dimensions in cells.
func (b *FactsBrowser) SetSize(width, height int) {
	b.width = width
	b.height = height
	b.vp.Width = b.interiorWidth()
	b.vp.Height = b.interiorHeight()
	b.refreshContent()
}

// Count returns the number of loaded records.
func (b *FactsBrowser) Count() int { return len(b.records) }

// Index returns the zero-based position of the visible record.
func (b *FactsBrowser) Index() int { return b.index }

// Next advances to the following record, wrapping at the end.
func (b *FactsBrowser) Next() {
	if len(b.records) == 0 {
		return
	}
	b.index = (b.index + 1) % len(b.records)
	b.refreshContent()
}

// Previous steps back one record, wrapping at the start.
func (b *FactsBrowser) Previous() {
	if len(b.records) == 0 {
		return
	}
	b.index = (b.index - 1 + len(b.records)) % len(b.records)
	b.refreshContent()
}

// HandleKey routes keys while the modal is open: left/right page between
// records, everything else scrolls the viewport.
func (b *FactsBrowser) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		b.Previous()
		return nil
	case "right", "l":
		b.Next()
		return nil
	}
	var cmd tea.Cmd
	b.vp, cmd = b.vp.Update(msg)
	return cmd
}

// View renders the boxed modal.
func (b *FactsBrowser) View() string {
	if b.width < 10 || b.height < 6 {
		return ""
	}

	title := "This Day in Bitcoin History"
	if len(b.records) > 1 {
		title = fmt.Sprintf("%s (%d/%d)", title, b.index+1, len(b.records))
	}

	var body string
	if len(b.records) == 0 {
		body = components.Dim("Nothing happened on this day. Yet.")
	} else {
		f := b.records[b.index]
		header := components.Bold(fmt.Sprintf("%d — %s", f.Year, f.Title))
		var meta string
		if f.Category != "" {
			meta = components.Dim("[" + f.Category + "]")
		}
		body = header
		if meta != "" {
			body += "\n" + meta
		}
		body += "\n\n" + b.vp.View()
		if f.SourceURL != "" {
			body += "\n" + components.Dim(f.SourceURL)
		}
	}
	footer := components.Dim("←/→ browse  ↑/↓ scroll  esc close")
	body += "\n" + footer

	return components.RenderBox(body, b.width, b.height, components.BoxStyle{
		Title:      title,
		TitleAlign: components.AlignCenter,
		FG:         ColorBorder,
		Rounded:    true,
	})
}

func (b *FactsBrowser) interiorWidth() int {
	w := b.width - 4
	if w < 1 {
		w = 1
	}
	return w
}

func (b *FactsBrowser) interiorHeight() int {
	// Border rows, record header, blank line, source line, footer.
	h := b.height - 8
	if h < 1 {
		h = 1
	}
	return h
}

func (b *FactsBrowser) refreshContent() {
	if len(b.records) == 0 {
		b.vp.SetContent("")
		return
	}
	f := b.records[b.index]
	wrapped := components.Wrap(f.Description, b.interiorWidth())
	b.vp.SetContent(strings.Join(wrapped, "\n"))
	b.vp.GotoTop()
}
