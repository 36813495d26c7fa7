package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NuZard84/go-speedtype/internal/constants"
	"github.com/NuZard84/go-speedtype/internal/models"
	"github.com/NuZard84/go-speedtype/internal/view"
	"go.uber.org/zap"
)

var (
	ErrLoading = errors.New("text is still loading")
	ErrClosed  = errors.New("session is closed")
)

// TextProvider supplies reference text for new sessions.
type TextProvider interface {
	Acquire(ctx context.Context) models.TextResult
}

// Listener receives a snapshot after every state change.
type Listener func(models.Snapshot)

// Controller owns one typing session: its text, countdown and connected pages.
type Controller struct {
	ID string

	mu         sync.RWMutex
	session    Session
	loading    bool
	notice     string
	source     string
	theme      string
	closed     bool
	lastActive time.Time

	// countdown; generation invalidates callbacks from a cancelled run
	interval   time.Duration
	timer      *time.Timer
	generation uint64

	clients   map[*Client]struct{}
	listeners map[int]Listener
	nextID    int
	notifyMu  sync.Mutex

	provider TextProvider
	logger   *zap.SugaredLogger
}

func NewController(id string, provider TextProvider, interval time.Duration, logger *zap.SugaredLogger) *Controller {
	if interval <= 0 {
		interval = constants.TickInterval
	}
	return &Controller{
		ID:         id,
		session:    NewIdleSession(""),
		theme:      constants.ThemeLight,
		lastActive: time.Now(),
		interval:   interval,
		clients:    make(map[*Client]struct{}),
		listeners:  make(map[int]Listener),
		provider:   provider,
		logger:     logger.With("session", id),
	}
}

// Init loads the first reference text and leaves the session idle.
func (c *Controller) Init(ctx context.Context) error {
	return c.load(ctx, false)
}

// Start fetches new text, resets the countdown and clears the typed text.
// It may be called while a test is running to restart it.
func (c *Controller) Start(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *Controller) load(ctx context.Context, run bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.loading {
		c.mu.Unlock()
		return ErrLoading
	}
	c.stopTimerLocked()
	c.loading = true
	c.notice = ""
	c.session = NewIdleSession(c.session.ReferenceText)
	c.lastActive = time.Now()
	c.mu.Unlock()
	c.notify()

	res := c.provider.Acquire(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.loading = false
	c.source = res.Source
	if res.Offline {
		c.notice = res.Notice
	}
	if run {
		c.session = NewSession(res.Text)
		c.armTimerLocked()
	} else {
		c.session = NewIdleSession(res.Text)
	}
	c.mu.Unlock()

	c.logger.Infow("Session text loaded", "source", res.Source, "offline", res.Offline, "running", run)
	c.notify()
	return nil
}

func (c *Controller) armTimerLocked() {
	c.generation++
	gen := c.generation
	c.timer = time.AfterFunc(c.interval, func() { c.tick(gen) })
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}

	changed := c.session.Tick()
	expired := c.session.Status() == constants.StatusExpired
	if c.session.Running {
		c.timer = time.AfterFunc(c.interval, func() { c.tick(gen) })
	} else {
		c.timer = nil
	}
	c.mu.Unlock()

	if !changed {
		return
	}
	c.notify()
	if expired {
		c.handleExpired()
	}
}

func (c *Controller) handleExpired() {
	snap := c.Snapshot()
	c.logger.Infow("Session expired", "wpm", snap.WPM, "accuracy", snap.Accuracy)

	c.BroadcastMessage(models.Message{
		Type: constants.MessageExpired,
		Data: models.FinalStats{
			SessionID: c.ID,
			WPM:       snap.WPM,
			Accuracy:  snap.Accuracy,
			Typed:     len([]rune(snap.UserText)),
		},
	})
}

// Input replaces the typed text. It reports false when the session is not
// accepting input and leaves the state untouched.
func (c *Controller) Input(text string) bool {
	c.mu.Lock()
	accepted := c.session.Input(text)
	c.lastActive = time.Now()
	c.mu.Unlock()

	if accepted {
		c.notify()
	}
	return accepted
}

func (c *Controller) ToggleTheme() string {
	c.mu.Lock()
	if c.theme == constants.ThemeDark {
		c.theme = constants.ThemeLight
	} else {
		c.theme = constants.ThemeDark
	}
	theme := c.theme
	c.lastActive = time.Now()
	c.mu.Unlock()

	c.notify()
	return theme
}

// Snapshot returns the current state with speed and accuracy computed now.
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return models.Snapshot{
		SessionID:        c.ID,
		Status:           c.session.Status(),
		ReferenceText:    c.session.ReferenceText,
		UserText:         c.session.UserText,
		SecondsRemaining: c.session.SecondsRemaining,
		Running:          c.session.Running,
		Loading:          c.loading,
		Notice:           c.notice,
		Source:           c.source,
		Theme:            c.theme,
		WPM:              c.session.Speed(),
		Accuracy:         c.session.Accuracy(),
	}
}

func (c *Controller) LastActive() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastActive
}

// Subscribe registers fn for state changes and returns a function that removes it.
func (c *Controller) Subscribe(fn Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Close stops the countdown and disconnects every client.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTimerLocked()
	clients := make([]*Client, 0, len(c.clients))
	for client := range c.clients {
		clients = append(clients, client)
	}
	c.clients = make(map[*Client]struct{})
	c.listeners = make(map[int]Listener)
	c.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
	c.logger.Debugw("Session closed")
}

// CLIENT MANAGEMENT =>

func (c *Controller) AddClient(client *Client) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.clients[client] = struct{}{}
	c.lastActive = time.Now()
	c.mu.Unlock()

	return client.Send(c.stateMessage(c.Snapshot()))
}

// RemoveClient drops client and returns how many remain.
func (c *Controller) RemoveClient(client *Client) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.clients, client)
	c.lastActive = time.Now()
	return len(c.clients)
}

func (c *Controller) ClientCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clients)
}

// COMMUNICATIONS =>

func (c *Controller) stateMessage(snap models.Snapshot) models.Message {
	return models.Message{
		Type: constants.MessageSessionState,
		Data: view.NewPanel(snap),
	}
}

// notify sends the current snapshot to listeners and clients, one change at a time.
func (c *Controller) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	snap := c.Snapshot()

	c.mu.RLock()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
	c.BroadcastMessage(c.stateMessage(snap))
}

// BroadcastMessage sends a message to every connected client
func (c *Controller) BroadcastMessage(msg models.Message) {
	c.mu.RLock()
	clients := make([]*Client, 0, len(c.clients))
	for client := range c.clients {
		clients = append(clients, client)
	}
	c.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	var wg sync.WaitGroup
	errorsChan := make(chan error, len(clients))

	for _, client := range clients {
		wg.Add(1)
		go func(cl *Client) {
			defer wg.Done()
			if err := cl.Send(msg); err != nil {
				errorsChan <- fmt.Errorf("send %s: %w", msg.Type, err)
			}
		}(client)
	}

	wg.Wait()
	close(errorsChan)

	var errList []error
	for err := range errorsChan {
		errList = append(errList, err)
	}
	if len(errList) > 0 {
		c.logger.Warnw("Broadcast errors", "type", msg.Type, "error", errors.Join(errList...))
	}
}
