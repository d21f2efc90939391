package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/reelcraft-cli/reelcraft/editor"
	"github.com/reelcraft-cli/reelcraft/library"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/project"
	"github.com/reelcraft-cli/reelcraft/style"
	"github.com/reelcraft-cli/reelcraft/util"
	"github.com/samber/mo"
)

// statefulBubble holds the editor view state and the component models.
type statefulBubble struct {
	state     state
	prevState state

	keymap *statefulKeymap

	// components
	clipsC   list.Model
	libraryC list.Model
	helpC    help.Model

	session *editor.Session
	views   <-chan editor.View
	view    editor.View
	notices *notice.Buffer
	library *library.Library

	project   project.Project
	savedAt   uint64
	dirty     bool
	lastError error
	notifier  *notifier
	lastEnded mo.Option[string]
	width     int
	height    int
	options   *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}
	b.prevState = b.state
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	b.setState(b.prevState)
	b.prevState = timelineState
}

// timelineHeight is the number of rows the lanes and transport take.
const timelineHeight = 9

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	b.width = width - x
	b.height = height - y

	listHeight := util.Max(b.height-timelineHeight-2, 3)
	b.clipsC.SetSize(b.width, listHeight)
	b.libraryC.SetSize(b.width, b.height)
	b.helpC.Width = b.width
}

func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		state:     timelineState,
		keymap:    keymap,
		session:   options.Session,
		notices:   options.Notices,
		library:   options.Library,
		project:   options.Project,
		notifier:  &notifier{},
		lastEnded: mo.None[string](),
		options:   options,
	}
	if bubble.notices == nil {
		bubble.notices = &notice.Buffer{}
	}
	if bubble.library == nil {
		bubble.library = library.New(library.Defaults{})
	}

	makeList := func(title string, background lipgloss.Color) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = keymap.forList()
		listC.AdditionalShortHelpKeys = keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Surface).Background(background).Padding(0, 1)
		listC.StatusMessageLifetime = time.Second * 3
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)
		listC.SetShowHelp(false)
		return listC
	}

	bubble.clipsC = makeList("Clips", style.Peach)
	bubble.clipsC.SetFilteringEnabled(false)
	bubble.clipsC.SetStatusBarItemName("clip", "clips")

	bubble.libraryC = makeList("Media Library", style.Lavender)
	bubble.libraryC.Filter = libraryFilter
	bubble.libraryC.SetShowHelp(true)
	bubble.libraryC.SetStatusBarItemName("file", "files")
	bubble.libraryC.SetItems(libraryItems(bubble.library.Items()))

	bubble.helpC = help.New()

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
