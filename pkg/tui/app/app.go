// Package teaui hosts the Bubble Tea program for the tierit board.
package teaui

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/tierit/pkg/app"
	"tableflip.dev/tierit/pkg/board"
	"tableflip.dev/tierit/pkg/drag"
	"tableflip.dev/tierit/pkg/item"
	"tableflip.dev/tierit/pkg/store"
	"tableflip.dev/tierit/pkg/tui/components/prompt"
	"tableflip.dev/tierit/pkg/tui/theme"
)

const (
	purposeAdd    = "add"
	purposeRename = "rename"
	purposeColor  = "color"
)

type updateMsg struct {
	update app.Update
}

// Model is the board screen. Rows are the tiers in order followed by the
// library; the cursor picks an item when idle and an insertion slot while an
// item is being dragged.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	theme theme.Theme
	keys  keyMap

	board board.Board
	drag  drag.Snapshot

	row int
	col int

	prompt   *prompt.Model
	promptOn string
	showHelp bool
	confirm  string
	status   string
	isErr    bool

	width  int
	height int

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New constructs the board model over svc.
func New(ctx context.Context, svc *app.Service) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		ctx:    ctx,
		svc:    svc,
		theme:  theme.Default(),
		keys:   defaultKeys(),
		status: "Space picks up, arrows move, space drops, esc cancels. ? for help.",
	}
	m.sync()
	return m
}

// Run launches the Bubble Tea program and keeps it in step with svc.
func Run(ctx context.Context, svc *app.Service) error {
	p := tea.NewProgram(New(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	// Updates are published from inside Update, so never block on Send.
	cancel := svc.Subscribe(func(u app.Update) {
		go p.Send(updateMsg{update: u})
	})
	defer cancel()
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return startWatchCmd(m.ctx, m.svc)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
	case updateMsg:
		m.sync()
	case prompt.SubmitMsg:
		m.prompt = nil
		m.handleSubmit(v)
	case prompt.CancelMsg:
		m.prompt = nil
		m.setStatus("Cancelled")
	case watchStartedMsg:
		if v.err != nil {
			m.setError(fmt.Errorf("watch: %w", v.err))
			break
		}
		m.stopWatch()
		m.watchCh = v.ch
		m.watchCancel = v.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		m.handleWatchEvent(v.event)
		cmds = append(cmds, m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
	case tea.KeyPressMsg:
		if m.prompt != nil {
			p, cmd := m.prompt.Update(v)
			m.prompt = p
			return m, cmd
		}
		if cmd := m.handleKey(v); cmd != nil {
			cmds = append(cmds, cmd)
		}
	default:
		if m.prompt != nil {
			p, cmd := m.prompt.Update(msg)
			m.prompt = p
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	pending := m.confirm
	m.confirm = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.svc.EndDrag()
		m.stopWatch()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Grab):
		if m.drag.Active() {
			m.drop()
		} else {
			m.pickUp()
		}
	case key.Matches(msg, m.keys.Cancel):
		if m.svc.EndDrag() {
			m.setStatus("Drag cancelled")
		}
		m.sync()
	case key.Matches(msg, m.keys.Eject):
		m.eject()
	case key.Matches(msg, m.keys.Delete):
		m.delete(pending)
	case key.Matches(msg, m.keys.Add):
		return m.openPrompt(purposeAdd, "New tier name", "")
	case key.Matches(msg, m.keys.Rename):
		if t, ok := m.currentTier(); ok {
			return m.openPrompt(purposeRename, "Rename tier "+t.Name, t.Name)
		}
	case key.Matches(msg, m.keys.Color):
		if t, ok := m.currentTier(); ok {
			return m.openPrompt(purposeColor, "Color for tier "+t.Name+" (#rgb or #rrggbb)", t.Color)
		}
	case key.Matches(msg, m.keys.Reload):
		if err := m.svc.Reload(m.ctx); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Reloaded")
		}
		m.sync()
	}
	return nil
}

// sync pulls the latest board and drag state from the service and keeps the
// cursor inside it.
func (m *Model) sync() {
	m.board = m.svc.Board()
	m.drag = m.svc.Drag()
	m.clampCursor()
}

func (m *Model) rows() int {
	return len(m.board.Tiers()) + 1
}

func (m *Model) onLibrary() bool {
	return m.row == m.rows()-1
}

func (m *Model) currentTier() (board.Tier, bool) {
	tiers := m.board.Tiers()
	if m.row < 0 || m.row >= len(tiers) {
		return board.Tier{}, false
	}
	return tiers[m.row], true
}

func (m *Model) rowItems() []item.Item {
	if t, ok := m.currentTier(); ok {
		return t.Items
	}
	return m.board.Library()
}

// clampCursor keeps the cursor on an item when idle. While dragging over a
// tier it may also sit on the slot after the last item.
func (m *Model) clampCursor() {
	if m.row >= m.rows() {
		m.row = m.rows() - 1
	}
	if m.row < 0 {
		m.row = 0
	}
	limit := len(m.rowItems()) - 1
	if m.drag.Active() && !m.onLibrary() {
		limit++
	}
	if m.col > limit {
		m.col = limit
	}
	if m.col < 0 {
		m.col = 0
	}
}

func (m *Model) moveCursor(dRow, dCol int) {
	m.row += dRow
	m.col += dCol
	m.clampCursor()
	if m.drag.Active() {
		m.retarget()
	}
}

// retarget points the drag at the cursor. Tier slots go through the pointer
// resolver as if the pointer were centred on the cursor cell.
func (m *Model) retarget() {
	if m.onLibrary() {
		lib := drag.Library()
		m.svc.Retarget(&lib)
	} else if t, ok := m.currentTier(); ok {
		w := drag.DefaultItemWidth
		m.svc.PointerOver(t.ID, drag.Pointer{X: (float64(m.col) + 0.5) * w, ItemWidth: w})
	}
	m.sync()
}

func (m *Model) pickUp() {
	items := m.rowItems()
	if m.col < 0 || m.col >= len(items) {
		m.setStatus("Nothing to pick up here")
		return
	}
	it := items[m.col]
	source := drag.Library()
	if t, ok := m.currentTier(); ok {
		source = drag.Tier(t.ID, m.col)
	}
	if _, err := m.svc.StartDrag(it.ID, source); err != nil {
		m.setError(err)
		return
	}
	m.sync()
	m.retarget()
	m.setStatus("Dragging " + it.Label())
}

func (m *Model) drop() {
	dragged := m.drag.DraggedID()
	err := m.svc.Drop(m.ctx)
	m.sync()
	switch {
	case errors.Is(err, board.ErrCancelled):
		m.setStatus("Dropped outside any tier")
	case err != nil:
		m.setError(err)
	default:
		m.setStatus("Moved")
		m.focusItem(dragged)
	}
}

// focusItem moves the cursor onto the item with id, wherever it is now.
func (m *Model) focusItem(id string) {
	loc, _, ok := m.board.Find(id)
	if !ok {
		return
	}
	if loc.IsLibrary() {
		m.row = m.rows() - 1
		for i, it := range m.board.Library() {
			if it.ID == id {
				m.col = i
			}
		}
	} else {
		for i, t := range m.board.Tiers() {
			if t.ID == loc.TierID {
				m.row = i
			}
		}
		m.col = loc.Index
	}
	m.clampCursor()
}

func (m *Model) eject() {
	t, ok := m.currentTier()
	if !ok || m.drag.Active() {
		return
	}
	if m.col >= len(t.Items) {
		return
	}
	it := t.Items[m.col]
	if err := m.svc.ReturnToLibrary(m.ctx, it.ID, t.ID); err != nil {
		m.setError(err)
		return
	}
	m.sync()
	m.setStatus(it.Label() + " returned to library")
}

// delete removes the tier or library item under the cursor. The first press
// asks for confirmation.
func (m *Model) delete(pending string) {
	if m.drag.Active() {
		return
	}
	var target, label string
	if t, ok := m.currentTier(); ok {
		target, label = "tier:"+t.ID, "tier "+t.Name
	} else {
		lib := m.board.Library()
		if m.col >= len(lib) {
			return
		}
		target, label = "item:"+lib[m.col].ID, lib[m.col].Label()
	}
	if pending != target {
		m.confirm = target
		m.setStatus("Press D again to delete " + label)
		return
	}

	var err error
	if t, ok := m.currentTier(); ok {
		err = m.svc.DeleteTier(m.ctx, t.ID)
	} else {
		err = m.svc.DeleteLibraryItem(m.ctx, m.board.Library()[m.col].ID)
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.sync()
	m.setStatus("Deleted " + label)
}

func (m *Model) openPrompt(purpose, title, initial string) tea.Cmd {
	if m.drag.Active() {
		return nil
	}
	limit := board.MaxNameLength
	validate := func(v string) error {
		if utf8.RuneCountInString(v) > board.MaxNameLength {
			return fmt.Errorf("at most %d characters", board.MaxNameLength)
		}
		return nil
	}
	if purpose == purposeColor {
		limit = 7
		validate = func(v string) error {
			if _, err := board.NewTier("check", "check", v); err != nil {
				return fmt.Errorf("%q is not a color", v)
			}
			return nil
		}
	}
	m.prompt = prompt.New(purpose, title, initial, limit, validate)
	if t, ok := m.currentTier(); ok {
		m.promptOn = t.ID
	}
	return m.prompt.Init()
}

func (m *Model) handleSubmit(msg prompt.SubmitMsg) {
	var err error
	switch msg.Purpose {
	case purposeAdd:
		var t board.Tier
		t, err = m.svc.AddTier(m.ctx, msg.Value, "")
		if err == nil {
			m.sync()
			m.row = len(m.board.Tiers()) - 1
			m.col = 0
			m.setStatus("Added tier " + t.Name)
		}
	case purposeRename:
		err = m.svc.RenameTier(m.ctx, m.promptOn, msg.Value, "")
		if err == nil {
			m.setStatus("Renamed tier")
		}
	case purposeColor:
		t, ok := m.board.Tier(m.promptOn)
		if !ok {
			err = fmt.Errorf("tier %q: %w", m.promptOn, board.ErrNotFound)
			break
		}
		err = m.svc.RenameTier(m.ctx, m.promptOn, t.Name, msg.Value)
		if err == nil {
			m.setStatus("Recolored tier")
		}
	}
	if err != nil {
		m.setError(err)
	}
	m.sync()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.isErr = false
}

func (m *Model) setError(err error) {
	m.status = "ERR: " + err.Error()
	m.isErr = true
}
