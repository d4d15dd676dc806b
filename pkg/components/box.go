package components

import (
	"strings"
)

// BoxStyle controls the appearance of a rendered box.
type BoxStyle struct {
	Title      string
	TitleAlign Align
	FG         string // hex border color, e.g. "#A78BFA"
	Rounded    bool
}

// RenderBox draws content inside a single-line border. width and height
// are the outer dimensions including the border. Content lines are
// truncated or padded to the interior width; missing lines render empty.
// Boxes smaller than 2x2 render as nothing.
func RenderBox(content string, width, height int, style BoxStyle) string {
	if width < 2 || height < 2 {
		return ""
	}

	tl, tr, bl, br := "┌", "┐", "└", "┘"
	if style.Rounded {
		tl, tr, bl, br = "╭", "╮", "╰", "╯"
	}
	const h, v = "─", "│"

	pre, suf := "", ""
	if style.FG != "" {
		pre, suf = Color(style.FG), Reset()
	}

	interior := width - 2
	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}

	var buf strings.Builder

	buf.WriteString(pre + tl)
	buf.WriteString(titleBar(style.Title, style.TitleAlign, interior, h, pre, suf))
	buf.WriteString(pre + tr + suf + "\n")

	for i := 0; i < height-2; i++ {
		buf.WriteString(pre + v + suf)
		if i < len(lines) {
			buf.WriteString(fitLine(lines[i], interior))
		} else {
			buf.WriteString(strings.Repeat(" ", interior))
		}
		buf.WriteString(pre + v + suf + "\n")
	}

	buf.WriteString(pre + bl + strings.Repeat(h, interior) + br + suf)
	return buf.String()
}

// fitLine truncates or right-pads line to exactly width visible cells.
func fitLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	vis := VisibleLen(line)
	switch {
	case vis > width:
		return Truncate(line, width)
	case vis < width:
		return PadRight(line, width)
	default:
		return line
	}
}

// titleBar fills barWidth cells with horizontal border characters, embedding
// the title (with one space either side) when there is room.
func titleBar(title string, align Align, barWidth int, h, pre, suf string) string {
	if title == "" || barWidth < 5 {
		return pre + strings.Repeat(h, barWidth) + suf
	}

	maxTitle := barWidth - 4
	if VisibleLen(title) > maxTitle {
		title = TruncateWithTail(title, maxTitle, "…")
	}
	seg := " " + title + " "
	remaining := barWidth - VisibleLen(seg)

	var left int
	switch align {
	case AlignCenter:
		left = remaining / 2
	case AlignRight:
		left = remaining - 1
	default:
		left = 1
	}
	if left < 0 {
		left = 0
	}
	right := remaining - left
	if right < 0 {
		right = 0
	}
	return pre + strings.Repeat(h, left) + suf + seg + pre + strings.Repeat(h, right) + suf
}
