package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/runoshun/todo/internal/domain"
)

type taskItem struct {
	task domain.Task
}

func (t taskItem) FilterValue() string {
	return t.task.Title
}

// escapeNewlines replaces newline characters with spaces for single-line display.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

type taskDelegate struct {
	styles Styles
}

func newTaskDelegate(styles Styles) taskDelegate {
	return taskDelegate{styles: styles}
}

func (d taskDelegate) Height() int {
	return 1
}

func (d taskDelegate) Spacing() int {
	return 0
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// prefixWidth is the display width of "  > ✓ ★ " before the title.
const prefixWidth = 8

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	task := ti.task
	selected := index == m.Index()

	indicatorChar := " "
	if selected {
		indicatorChar = ">"
	}

	idStr := task.ShortID()
	maxTitleLen := m.Width() - prefixWidth - runewidth.StringWidth(idStr) - 2
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}

	title := escapeNewlines(task.Title)
	if runewidth.StringWidth(title) > maxTitleLen {
		title = runewidth.Truncate(title, maxTitleLen-3, "...")
	}
	padding := max(maxTitleLen-runewidth.StringWidth(title), 0)

	check := d.styles.CheckOpen.Render(CheckIcon(false))
	if task.Completed {
		check = d.styles.CheckDone.Render(CheckIcon(true))
	}
	star := d.styles.TaskID.Render(FavoriteIcon(false))
	if task.IsFavorite {
		star = d.styles.Favorite.Render(FavoriteIcon(true))
	}

	titleStyle := d.styles.TaskTitle
	switch {
	case task.Completed:
		titleStyle = d.styles.TaskTitleDone
	case selected:
		titleStyle = d.styles.TaskTitleSelected
	}

	line := "  " + d.styles.SelectionIndicator.Render(indicatorChar) + " " +
		check + " " + star + " " +
		titleStyle.Render(title) + strings.Repeat(" ", padding) + "  " +
		d.styles.TaskID.Render(idStr)
	_, _ = fmt.Fprint(w, line)
}
