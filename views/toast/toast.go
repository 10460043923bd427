package toast

import (
	"strings"
	"time"

	"charm-dblog-tui/blog"
	"charm-dblog-tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Lifetime is how long a toast stays on screen
const Lifetime = 3500 * time.Millisecond

// MaxVisible caps the stack
const MaxVisible = 4

type Toast struct {
	ID      string
	Level   blog.Level
	Message string
	At      time.Time
}

// Msg delivers a new toast to the program
type Msg struct {
	Toast Toast
}

// ExpiredMsg removes a toast
type ExpiredMsg struct {
	ID string
}

// Queue is a blog.Notifier backed by a buffered channel. Controllers call
// Notify from command goroutines; the program drains it with Listen.
type Queue struct {
	ch chan Toast
}

func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan Toast, size)}
}

// Notify enqueues a toast. When the buffer is full the oldest pending
// toast is dropped.
func (q *Queue) Notify(level blog.Level, message string) {
	t := Toast{ID: uuid.NewString(), Level: level, Message: message, At: time.Now()}
	for {
		select {
		case q.ch <- t:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// Listen waits for the next toast
func (q *Queue) Listen() tea.Cmd {
	return func() tea.Msg {
		return Msg{Toast: <-q.ch}
	}
}

// Expire schedules removal of a toast
func Expire(id string) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ExpiredMsg{ID: id}
	})
}

// Push appends t and keeps at most MaxVisible toasts
func Push(list []Toast, t Toast) []Toast {
	list = append(list, t)
	if len(list) > MaxVisible {
		list = list[len(list)-MaxVisible:]
	}
	return list
}

// Remove drops the toast with id
func Remove(list []Toast, id string) []Toast {
	out := list[:0]
	for _, t := range list {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func icon(l blog.Level) string {
	switch l {
	case blog.LevelSuccess:
		return "✓"
	case blog.LevelWarning:
		return "!"
	case blog.LevelError:
		return "✗"
	default:
		return "i"
	}
}

func color(l blog.Level) lipgloss.Color {
	switch l {
	case blog.LevelSuccess:
		return styles.CAccent
	case blog.LevelWarning:
		return styles.CWarn
	case blog.LevelError:
		return styles.CError
	default:
		return styles.CAccent2
	}
}

// Render stacks the toasts right-aligned within width
func Render(list []Toast, width int) string {
	if len(list) == 0 {
		return ""
	}
	var lines []string
	for _, t := range list {
		c := color(t.Level)
		box := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Foreground(styles.CText).
			Padding(0, 1).
			MaxWidth(56).
			Render(lipgloss.NewStyle().Foreground(c).Bold(true).Render(icon(t.Level)) + " " + t.Message)
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Right, box))
	}
	return strings.Join(lines, "\n")
}
