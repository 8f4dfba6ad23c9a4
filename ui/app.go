// Package ui is a terminal host shell for the input bar: a tab strip, the
// bar itself, the context chip, and either the suggestion list or the
// conversation below it.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"smartbar/config"
	"smartbar/contextset"
	"smartbar/intent"
	"smartbar/model"
	"smartbar/session"
	"smartbar/suggest"
)

// Core is the part of session.Controller the shell drives.
type Core interface {
	OnInputChanged(text string)
	Down() int
	Up() int
	Hover(i int) int
	MouseLeave() int
	Escape() suggest.EscapeResult
	Select(ctx context.Context, index int) error
	OnDocumentSwitched(ctx context.Context, doc contextset.Document) error
	ContextAdd(ctx context.Context, doc contextset.Document) error
	ContextRemove(ctx context.Context, id string) error
}

// Visits records page loads and the open tabs for autocomplete.
// autocomplete.History implements it.
type Visits interface {
	RecordVisit(ctx context.Context, url, title, icon string) error
	SetOpenTabs(tabs []contextset.Document)
}

// listTop is the first screen row of the suggestion list.
const listTop = 4

type actionDoneMsg struct {
	err error
}

// App is the bubbletea model of the shell.
type App struct {
	core   Core
	bridge *Bridge
	visits Visits
	tabs   *Tabs
	keys   config.KeyBindings

	input   textinput.Model
	spinner spinner.Model
	convo   viewport.Model

	width  int
	height int

	intent       intent.Type
	items        []suggest.Suggestion
	index        int
	view         contextset.View
	presentation model.Presentation
	transcript   model.Transcript
	streaming    bool
	status       string
	showHelp     bool
}

// NewApp creates the shell. visits may be nil.
func NewApp(core Core, bridge *Bridge, visits Visits, tabs *Tabs, keys config.KeyBindings) App {
	ti := textinput.New()
	ti.Placeholder = "Ask, search, or type a URL"
	ti.Prompt = "› "
	ti.CharLimit = 2048
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	return App{
		core:    core,
		bridge:  bridge,
		visits:  visits,
		tabs:    tabs,
		keys:    keys,
		input:   ti,
		spinner: sp,
		convo:   viewport.New(0, 0),
		index:   -1,
	}
}

// WithStatus starts the shell with msg in the footer, until the first edit.
func (a App) WithStatus(msg string) App {
	a.status = msg
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.bridge.Wait(),
		a.switchTo(a.tabs.Active()),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.input.Width = max(msg.Width-12, 10)
		a.convo.Width = msg.Width
		a.convo.Height = max(msg.Height-listTop-2, 1)
		a.renderConversation()
		return a, nil

	case hostEventsMsg:
		var cmds []tea.Cmd
		for _, ev := range msg {
			var cmd tea.Cmd
			a, cmd = a.handleHostEvent(ev)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, a.bridge.Wait())
		return a, tea.Batch(cmds...)

	case actionDoneMsg:
		if msg.err != nil {
			a.status = msg.err.Error()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.streaming {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) handleHostEvent(ev tea.Msg) (App, tea.Cmd) {
	switch ev := ev.(type) {
	case intentMsg:
		a.intent = ev.t
	case suggestionsMsg:
		a.items, a.index = ev.items, ev.index
	case contextMsg:
		a.view = ev.view
	case presentationMsg:
		a.presentation = ev.p
		a.transcript = ev.transcript
		a.renderConversation()
	case conversationMsg:
		a.transcript = ev.transcript
		started := ev.streaming && !a.streaming
		a.streaming = ev.streaming
		a.renderConversation()
		a.convo.GotoBottom()
		if started {
			return a, a.spinner.Tick
		}
	case executeMsg:
		return a.execute(ev.req)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	action := a.keys.Action(key)

	if a.showHelp {
		switch {
		case action == "help" || key == "esc":
			a.showHelp = false
		case action == "quit" || key == "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	switch action {
	case "quit":
		return a, tea.Quit
	case "help":
		a.showHelp = true
		return a, nil
	case "next_tab":
		return a, a.switchTo(a.tabs.Next())
	case "prev_tab":
		return a, a.switchTo(a.tabs.Prev())
	case "new_tab":
		return a, a.switchTo(a.tabs.Open(""))
	case "close_tab":
		if doc, ok := a.tabs.Close(); ok {
			return a, a.switchTo(doc)
		}
		return a, nil
	case "context_add":
		return a, a.addNextToContext()
	case "context_remove":
		return a, a.removeLastFromContext()
	case "yank":
		a.yank()
		return a, nil
	}

	switch key {
	case "ctrl+c":
		return a, tea.Quit
	case "down":
		a.index = a.core.Down()
		return a, nil
	case "up":
		a.index = a.core.Up()
		return a, nil
	case "enter":
		index := a.index
		return a, a.run(func(ctx context.Context) error { return a.core.Select(ctx, index) })
	case "esc":
		if a.presentation == model.PresentationConversation && strings.TrimSpace(a.input.Value()) == "" {
			a.presentation = model.PresentationResults
			return a, nil
		}
		if a.core.Escape() == suggest.EscapeClearInput {
			a.input.SetValue("")
		}
		return a, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.convo, cmd = a.convo.Update(msg)
		return a, cmd
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if after := a.input.Value(); after != before {
		a.status = ""
		if strings.TrimSpace(after) != "" {
			a.presentation = model.PresentationResults
		}
		a.core.OnInputChanged(after)
	}
	return a, cmd
}

func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	row := msg.Y - listTop
	inList := a.presentation == model.PresentationResults && row >= 0 && row < len(a.items)

	switch {
	case msg.Action == tea.MouseActionMotion && inList:
		a.index = a.core.Hover(row)
	case msg.Action == tea.MouseActionMotion && a.index >= 0:
		a.index = a.core.MouseLeave()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inList:
		a.index = a.core.Hover(row)
		return a, a.run(func(ctx context.Context) error { return a.core.Select(ctx, row) })
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		a.convo, cmd = a.convo.Update(msg)
		return a, cmd
	}
	return a, nil
}

// execute carries out a navigation, search or tab action.
func (a App) execute(req session.Request) (App, tea.Cmd) {
	config.Log.Debug("executing request",
		zap.Stringer("kind", req.Kind),
		zap.String("text", req.Text))

	var doc contextset.Document
	switch req.Kind {
	case session.RequestNavigate:
		doc = a.tabs.Navigate(req.Text)
	case session.RequestSearch:
		doc = a.tabs.Search(req.Text)
	case session.RequestAction:
		switch {
		case req.Text == suggest.NextTab:
			doc = a.tabs.Next()
		case strings.HasPrefix(req.Text, suggest.TabSwitchPrefix):
			d, ok := a.tabs.SwitchTo(strings.TrimPrefix(req.Text, suggest.TabSwitchPrefix))
			if !ok {
				a.status = "no such tab"
				return a, nil
			}
			doc = d
		case req.Text == "tab close":
			d, ok := a.tabs.Close()
			if !ok {
				a.status = "cannot close the last tab"
				return a, nil
			}
			doc = d
		default:
			a.status = fmt.Sprintf("unsupported action %q", req.Text)
			return a, nil
		}
	}

	a.input.SetValue("")
	a.core.OnInputChanged("")
	a.presentation = model.PresentationResults

	visit := req.Kind != session.RequestAction
	return a, tea.Batch(a.switchTo(doc), a.recordVisit(doc, visit))
}

func (a App) switchTo(doc contextset.Document) tea.Cmd {
	if a.visits != nil {
		a.visits.SetOpenTabs(a.tabs.All())
	}
	return a.run(func(ctx context.Context) error {
		return a.core.OnDocumentSwitched(ctx, doc)
	})
}

func (a App) recordVisit(doc contextset.Document, visit bool) tea.Cmd {
	if a.visits == nil || !visit || !contextset.Eligible(doc) {
		return nil
	}
	return a.run(func(ctx context.Context) error {
		return a.visits.RecordVisit(ctx, doc.URL, doc.Title, doc.Favicon)
	})
}

// addNextToContext adds the first open tab that is not yet in the set.
func (a App) addNextToContext() tea.Cmd {
	for _, doc := range a.tabs.Others() {
		if !memberOf(a.view, doc.ID) && contextset.Eligible(doc) {
			return a.run(func(ctx context.Context) error { return a.core.ContextAdd(ctx, doc) })
		}
	}
	return nil
}

// removeLastFromContext drops the most recently added non-primary member.
func (a App) removeLastFromContext() tea.Cmd {
	for i := len(a.view.Members) - 1; i >= 0; i-- {
		id := a.view.Members[i].ID
		if a.view.HasPrimary && id == a.view.Primary.ID {
			continue
		}
		return a.run(func(ctx context.Context) error { return a.core.ContextRemove(ctx, id) })
	}
	return nil
}

func memberOf(v contextset.View, id string) bool {
	for _, d := range v.Members {
		if d.ID == id {
			return true
		}
	}
	return false
}

func (a *App) yank() {
	text := a.input.Value()
	if a.index >= 0 && a.index < len(a.items) {
		text = a.items[a.index].Text
	}
	if text == "" {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		a.status = "clipboard unavailable"
		return
	}
	a.status = "copied"
}

// run executes fn off the update loop.
func (a App) run(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: fn(context.Background())}
	}
}
