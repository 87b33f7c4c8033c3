// Package view is a terminal viewer showing an English file next to its
// Picture file, scrolled together line by line.
package view

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// pane identifies which side has keyboard focus.
type pane int

const (
	paneEnglish pane = iota
	panePicture
)

// tabWidth is the column width English tabs are expanded to.
const tabWidth = 8

// Model is the viewer state.
type Model struct {
	title    string
	english  viewport.Model
	picture  viewport.Model
	engLines []string
	picLines []string
	focus    pane
	width    int
	height   int
	ready    bool
}

// New returns a viewer over the given English and Picture text.
func New(title, english, picture string) Model {
	m := Model{
		title:    title,
		engLines: splitLines(english),
		picLines: splitLines(picture),
		english:  viewport.New(0, 0),
		picture:  viewport.New(0, 0),
	}
	m.english.SetContent(m.renderEnglish())
	m.picture.SetContent(m.renderPicture())
	return m
}

// Load reads the English and Picture files and returns a viewer over them.
func Load(title, engPath, picPath string) (Model, error) {
	eng, err := os.ReadFile(engPath)
	if err != nil {
		return Model{}, fmt.Errorf("failed to read english file: %w", err)
	}
	pic, err := os.ReadFile(picPath)
	if err != nil {
		return Model{}, fmt.Errorf("failed to read picture file: %w", err)
	}
	return New(title, string(eng), string(pic)), nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// expandTabs replaces each tab with spaces up to the next multiple of width.
func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}

func (m Model) gutterWidth() int {
	return len(fmt.Sprint(len(m.engLines)))
}

func (m Model) renderEnglish() string {
	w := m.gutterWidth()
	var sb strings.Builder
	for i, line := range m.engLines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(lineNoStyle.Render(fmt.Sprintf("%*d ", w, i+1)))
		line = expandTabs(line, tabWidth)
		kw, rest, found := strings.Cut(line, " ")
		switch kw {
		case "DIAG":
			sb.WriteString(diagStyle.Render(line))
		case "NOTA", "PRINT":
			sb.WriteString(dimStyle.Render(line))
		case "":
			sb.WriteString(line)
		default:
			sb.WriteString(keywordStyle.Render(kw))
			if found {
				sb.WriteString(" " + rest)
			}
		}
	}
	return sb.String()
}

func (m Model) renderPicture() string {
	return strings.Join(m.picLines, "\n")
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Scrolling the focused pane scrolls the other
// one to the same line.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "tab", "shift+tab":
			if m.focus == paneEnglish {
				m.focus = panePicture
			} else {
				m.focus = paneEnglish
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == paneEnglish {
		m.english, cmd = m.english.Update(msg)
		m.picture.SetYOffset(m.english.YOffset)
	} else {
		m.picture, cmd = m.picture.Update(msg)
		m.english.SetYOffset(m.picture.YOffset)
	}
	return m, cmd
}

func (m *Model) resize() {
	paneW := max(m.width/2-paneFrameW, 10)
	paneH := max(m.height-2-paneFrameH, 3)
	m.english.Width = paneW
	m.english.Height = paneH
	m.picture.Width = paneW
	m.picture.Height = paneH
	// content is re-set so the viewports re-clamp their offsets
	m.english.SetContent(m.renderEnglish())
	m.picture.SetContent(m.renderPicture())
	m.picture.SetYOffset(m.english.YOffset)
}

// Offset returns the first visible line, counted from 0.
func (m Model) Offset() int {
	return m.english.YOffset
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	engStyle, picStyle := englishFocusStyle, paneStyle
	if m.focus == panePicture {
		engStyle, picStyle = paneStyle, pictureFocusStyle
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		engStyle.Render(m.english.View()),
		picStyle.Render(m.picture.View()),
	)

	header := titleStyle.Render(m.title)
	total := max(len(m.engLines), len(m.picLines))
	last := min(m.english.YOffset+m.english.Height, total)
	footer := dimStyle.Render(fmt.Sprintf("lines %d-%d of %d  ↑↓ scroll  tab switch  q quit",
		min(m.english.YOffset+1, total), last, total))
	if len(m.engLines) != len(m.picLines) {
		footer += diagStyle.Render(fmt.Sprintf("  english has %d lines, picture %d",
			len(m.engLines), len(m.picLines)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, panes, footer)
}
