// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// DocumentList displays the upload history in a navigable list.
type DocumentList struct {
	records  []domain.DocumentRecord
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocumentList{
		records:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the document list.
func (d *DocumentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (d *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			d.MoveUp()
		case "down", "j":
			d.MoveDown()
		}
	}
	return d, nil
}

// View renders the document list.
func (d *DocumentList) View() string {
	if len(d.records) == 0 {
		return d.styles.Muted.Render("No documents uploaded yet")
	}

	lines := make([]string, 0, len(d.records)+2)

	header := d.styles.Subtitle.Render(fmt.Sprintf("Documents (%d)", len(d.records)))
	lines = append(lines, header, "")

	visibleCount := d.height - 4
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if d.selected >= visibleCount {
		start = d.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(d.records) {
		end = len(d.records)
	}

	for i := start; i < end; i++ {
		lines = append(lines, d.renderRecord(i, &d.records[i]))
	}

	return strings.Join(lines, "\n")
}

// renderRecord formats a single document entry.
func (d *DocumentList) renderRecord(index int, record *domain.DocumentRecord) string {
	indicator := "  "
	if index == d.selected {
		indicator = "> "
	}

	name := record.Filename
	if name == "" {
		name = "(unnamed)"
	}

	maxNameLen := d.width - 24
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	uploaded := record.UploadedAt.Format("2006-01-02 15:04")

	if index == d.selected {
		return d.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, uploaded))
	}
	return d.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
		d.styles.Muted.Render(uploaded)
}

// SetRecords updates the document list.
func (d *DocumentList) SetRecords(records []domain.DocumentRecord) {
	d.records = records
	if d.selected >= len(records) {
		d.selected = 0
	}
}

// Records returns the current records.
func (d *DocumentList) Records() []domain.DocumentRecord {
	return d.records
}

// Selected returns the index of the selected record.
func (d *DocumentList) Selected() int {
	return d.selected
}

// SelectedRecord returns the currently selected record, or nil if none.
func (d *DocumentList) SelectedRecord() *domain.DocumentRecord {
	if len(d.records) == 0 || d.selected < 0 || d.selected >= len(d.records) {
		return nil
	}
	return &d.records[d.selected]
}

// MoveUp moves selection up.
func (d *DocumentList) MoveUp() {
	if d.selected > 0 {
		d.selected--
	}
}

// MoveDown moves selection down.
func (d *DocumentList) MoveDown() {
	if d.selected < len(d.records)-1 {
		d.selected++
	}
}

// SetDimensions sets the component dimensions.
func (d *DocumentList) SetDimensions(width, height int) {
	d.width = width
	d.height = height
}

// Count returns the number of records.
func (d *DocumentList) Count() int {
	return len(d.records)
}

// IsEmpty returns whether the list is empty.
func (d *DocumentList) IsEmpty() bool {
	return len(d.records) == 0
}
