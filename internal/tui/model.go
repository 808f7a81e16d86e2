// Package tui is the terminal front end of the wallet: it renders the deck
// and feeds mouse, keyboard and wheel input to the interaction controller.
package tui

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/cardwallet/internal/core/action"
	"github.com/colonyops/cardwallet/internal/core/config"
	"github.com/colonyops/cardwallet/internal/core/deck"
	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/interact"
	"github.com/colonyops/cardwallet/internal/core/logging"
	"github.com/colonyops/cardwallet/internal/core/notify"
	"github.com/colonyops/cardwallet/internal/core/popup"
	"github.com/colonyops/cardwallet/internal/core/styles"
	tuinotify "github.com/colonyops/cardwallet/internal/tui/notify"
	"github.com/colonyops/cardwallet/internal/wallet"
)

// UI state constants.
type UIState int

const (
	stateDeck UIState = iota
	stateHelp
	stateNotifications
)

// Options configures the TUI.
type Options struct {
	App      *wallet.App
	Snapshot wallet.Snapshot
	// Context bounds task action handlers. Defaults to context.Background.
	Context context.Context
}

// Model is the main Bubble Tea model for the wallet.
type Model struct {
	ctx context.Context
	app *wallet.App
	cfg *config.Config
	log zerolog.Logger
	now func() time.Time

	nav      *deck.Navigator
	resolver *action.Resolver
	popups   *popup.Controller
	scrim    *popup.Scrim
	focus    *popup.FocusTrap
	ctrl     *interact.Controller

	notifyBus         *tuinotify.Bus
	notifyBuffer      *NotificationBuffer
	toastController   *ToastController
	toastView         *ToastView
	notificationModal *NotificationModal
	popupView         *PopupView
	markdown          *MarkdownRenderer
	watcher           *ConfigWatcher

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	width  int
	height int
	state  UIState

	// executing maps running task sessions to their card.
	executing     map[uint64]string
	settleTicking bool
	historyCount  int
	quitting      bool
}

// New wires the interaction engine to the app and returns the model.
func New(opts Options) Model {
	cfg := opts.App.Config
	log := logging.Component("tui")

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if palette, ok := styles.GetPalette(cfg.TUI.Theme); ok {
		styles.SetTheme(palette)
	}

	bus := tuinotify.NewBus(opts.App.Notifications)
	buffer := NewNotificationBuffer(maxBufferedNotifications)
	bus.Subscribe(buffer.Push)

	nav := deck.New(deckConfig(cfg))
	nav.Load(opts.Snapshot.Cards)

	resolver := action.NewResolver(bus, action.Options{Timeout: cfg.HandlerTimeout()})

	scrim := &popup.Scrim{}
	focus := popup.NewFocusTrap("deck")
	popups := popup.NewController(
		popup.ProviderFunc(popupContent),
		bus,
		scrim,
		popup.ScrollLock(nav),
		focus,
	)

	bridge := gesture.NewKeyBridge()
	bindDirectionKeys(bridge, nil, cfg)
	ctrl := interact.New(interactConfig(cfg), nav, resolver, popups, bridge)

	toastController := NewToastController(cfg.TUI.ToastDuration)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TextPrimaryStyle

	var watcher *ConfigWatcher
	if !cfg.TUI.DisableLiveReload && opts.App.ConfigPath != "" {
		w, err := NewConfigWatcher(opts.App.ConfigPath, cfg.DataDir)
		if err != nil {
			log.Warn().Err(err).Str("path", opts.App.ConfigPath).Msg("config live reload disabled")
		} else {
			watcher = w
		}
	}

	return Model{
		ctx:             ctx,
		app:             opts.App,
		cfg:             cfg,
		log:             log,
		now:             time.Now,
		nav:             nav,
		resolver:        resolver,
		popups:          popups,
		scrim:           scrim,
		focus:           focus,
		ctrl:            ctrl,
		notifyBus:       bus,
		notifyBuffer:    buffer,
		toastController: toastController,
		toastView:       NewToastView(toastController),
		popupView:       NewPopupView(),
		markdown:        NewMarkdownRenderer(),
		watcher:         watcher,
		keys:            NewKeyMap(cfg),
		help:            help.New(),
		spinner:         s,
		state:           stateDeck,
		executing:       make(map[uint64]string),
		historyCount:    len(opts.Snapshot.History),
	}
}

// interactConfig maps the file config onto the controller.
func interactConfig(cfg *config.Config) interact.Config {
	return interact.Config{
		Swipe:          cfg.Swipe(),
		NavigationAxis: cfg.NavigationAxis(),
		ReverseWheel:   cfg.Gesture.ReverseScrollWheel,
		NextKeys:       orDefault(cfg.Keys.Next, "tab"),
		PrevKeys:       orDefault(cfg.Keys.Prev, "shift+tab"),
		FailureTTL:     cfg.TUI.FailureTTL,
	}
}

// deckConfig sizes the scroll axis in cells along the navigation axis.
func deckConfig(cfg *config.Config) deck.Config {
	extent := cfg.Gesture.CardWidth
	if cfg.NavigationAxis() == gesture.Vertical {
		extent = cfg.Gesture.CardHeight
	}
	return deck.Config{
		Extent: float64(extent),
		Gap:    float64(cfg.Deck.Gap),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.notifyBuffer.WaitForSignal(m.ctx)}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	// Input
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)
	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)
	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)
	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	// Action results
	case actionDoneMsg:
		cmd := m.handleOutcome(m.ctrl.Complete(msg.result))
		return m, cmd

	// Ticks
	case settleTickMsg:
		return m.handleSettleTick(msg)
	case toastTickMsg:
		return m.handleToastTick()
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	// Notifications
	case drainNotificationsMsg:
		return m.handleDrainNotifications()

	case configReloadedMsg:
		return m.handleConfigReloaded(msg)
	}

	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.SetWidth(msg.Width)
	if m.popupView.Visible() {
		m.popupView.Open(m.popupView.Popup(), m.markdown, m.width, m.height)
	}
	if m.notificationModal != nil {
		m.notificationModal = NewNotificationModal(m.app.Notifications, m.cardTitle, m.width, m.height)
	}
	return m, nil
}

// handleOutcome reacts to what an input produced and returns the commands
// it needs.
func (m *Model) handleOutcome(out interact.Outcome) tea.Cmd {
	var cmds []tea.Cmd

	switch out.Kind {
	case interact.Popup:
		m.popupView.Open(out.Popup, m.markdown, m.width, m.height)
	case interact.Dismissed:
		m.popupView.Close()
	case interact.Invoke:
		cmds = append(cmds, m.runInvocation(out.Invocation))
	case interact.Settled:
		delete(m.executing, out.Result.SessionID)
		m.log.Debug().
			Str("card", out.Result.CardID).
			Str("status", out.Result.Status.String()).
			Dur("elapsed", out.Result.Elapsed).
			Msg("action settled")
		if out.Result.Status == action.StatusBusy {
			m.notifyBus.Warnf("%s: another action is still running on this card", out.Result.Label)
		}
	case interact.Noop:
		m.log.Debug().Str("card", out.Session.CardID).Msg("nothing bound to swipe")
	}

	// Popup content may close its own popup while opening.
	if m.popupView.Visible() && !m.popups.Blocking() {
		m.popupView.Close()
	}

	cmds = append(cmds, m.ensureSettleTick())
	return tea.Batch(cmds...)
}

// runInvocation runs a task action off the UI loop.
func (m *Model) runInvocation(inv interact.Invocation) tea.Cmd {
	first := len(m.executing) == 0
	m.executing[inv.SessionID] = inv.Card.ID

	ctrl, ctx := m.ctrl, logging.WithCardID(m.ctx, inv.Card.ID)
	ctx = logging.WithGesture(ctx, inv.SessionID)
	run := func() tea.Msg {
		return actionDoneMsg{result: ctrl.Run(ctx, inv)}
	}

	if first {
		return tea.Batch(run, m.spinner.Tick)
	}
	return run
}

func (m *Model) isExecuting(cardID string) bool {
	for _, id := range m.executing {
		if id == cardID {
			return true
		}
	}
	return false
}

// ensureSettleTick starts the settle tick chain while the controller has
// time-based work pending.
func (m *Model) ensureSettleTick() tea.Cmd {
	if m.settleTicking || !m.ctrl.Animating() {
		return nil
	}
	m.settleTicking = true
	return scheduleSettleTick()
}

func (m Model) handleSettleTick(msg settleTickMsg) (tea.Model, tea.Cmd) {
	m.settleTicking = false
	m.ctrl.Tick(time.Time(msg))
	cmd := m.ensureSettleTick()
	return m, cmd
}

func (m Model) handleToastTick() (tea.Model, tea.Cmd) {
	m.toastController.Tick(toastTickInterval)
	if m.toastController.HasToasts() {
		return m, scheduleToastTick()
	}
	m.toastController.SetTicking(false)
	return m, nil
}

// ensureToastTick returns a tick command when there are active toasts and
// no tick chain is running.
func (m *Model) ensureToastTick() tea.Cmd {
	if m.toastController.Ticking() || !m.toastController.HasToasts() {
		return nil
	}
	m.toastController.SetTicking(true)
	return scheduleToastTick()
}

func (m Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if len(m.executing) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m Model) handleDrainNotifications() (tea.Model, tea.Cmd) {
	pending, dropped := m.notifyBuffer.Drain()
	for _, n := range pending {
		m.toastController.Push(n)
		m.historyCount++
	}
	if dropped > 0 {
		m.toastController.Push(notify.Notification{
			Level:   notify.LevelWarning,
			Message: fmt.Sprintf("%d older notifications skipped", dropped),
		})
	}
	cmd := tea.Batch(m.notifyBuffer.WaitForSignal(m.ctx), m.ensureToastTick())
	return m, cmd
}

func (m Model) handleConfigReloaded(msg configReloadedMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.watcher != nil {
		cmd = m.watcher.Start()
	}

	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("config reload failed")
		m.notifyBus.Warnf("config reload failed: %v", msg.err)
		return m, cmd
	}

	m.applyConfig(msg.cfg)
	m.log.Info().Msg("config reloaded")
	m.notifyBus.Infof("config reloaded")
	return m, cmd
}

// applyConfig switches the running model to next. The deck owner is fixed
// for the session.
func (m *Model) applyConfig(next *config.Config) {
	prev := m.cfg
	next.User = prev.User

	bindDirectionKeys(m.ctrl.Keys(), prev, next)
	m.ctrl.SetConfig(interactConfig(next))
	m.nav.SetConfig(deckConfig(next))
	m.resolver.SetTimeout(next.HandlerTimeout())

	m.app.Cards.Registry().SetOverrides(next.Cards.Overrides)
	for _, c := range m.nav.Cards() {
		m.nav.Replace(m.app.Cards.Bind(c))
	}

	m.toastController.SetTTL(next.TUI.ToastDuration)
	m.keys = NewKeyMap(next)
	if next.TUI.Theme != prev.TUI.Theme {
		m.applyTheme(next.TUI.Theme)
	}

	m.cfg = next
	m.app.Config = next
}

// applyTheme switches the active theme at runtime.
func (m *Model) applyTheme(name string) {
	palette, ok := styles.GetPalette(name)
	if !ok {
		m.notifyBus.Errorf("unknown theme %q, available: %v", name, styles.ThemeNames())
		return
	}
	styles.SetTheme(palette)
	m.spinner.Style = styles.TextPrimaryStyle
	m.markdown.Reset()
}

// moveSelected shifts the selected card by delta places and persists the
// new order in the background.
func (m *Model) moveSelected(delta int) {
	if m.ctrl.Dragging() || m.ctrl.Engine().Locked() {
		return
	}
	sel, ok := m.nav.Selected()
	if !ok {
		return
	}

	before := m.nav.SelectedIndex()
	if _, err := m.nav.Move(sel.ID, delta); err != nil {
		m.notifyBus.Errorf("move card: %v", err)
		return
	}
	if m.nav.SelectedIndex() == before {
		return
	}
	m.app.Cards.SaveOrderAsync(m.nav.Cards())
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.ctrl.Cancel()
	m.popups.Close()
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	return m, tea.Quit
}
