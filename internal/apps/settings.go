package apps

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/1broseidon/fakeos/internal/store"
)

// Themes lists the selectable desktop themes.
var Themes = []string{"dark", "light", "blue"}

const (
	defaultTheme  = "dark"
	defaultVolume = 50
)

// Settings holds the user preferences shown in the Settings panel.
type Settings struct {
	store  store.Store
	notify Notify

	theme    string
	volume   int
	autosave bool
}

// NewSettings loads preferences from the store, falling back to a dark
// theme, volume 50 and autosave on.
func NewSettings(st store.Store, notify Notify) *Settings {
	s := &Settings{store: st, notify: notify}
	s.load()
	return s
}

func (s *Settings) load() {
	s.theme = store.GetDefault(s.store, store.KeyTheme, defaultTheme)
	s.volume = defaultVolume
	if v, err := strconv.Atoi(store.GetDefault(s.store, store.KeyVolume, "")); err == nil {
		s.volume = clampVolume(v)
	}
	s.autosave = store.GetDefault(s.store, store.KeyAutosave, "true") != "false"
}

func (s *Settings) Name() string { return "settings" }
func (s *Settings) Activate()    { s.load() }
func (s *Settings) Deactivate()  {}

func (s *Settings) Theme() string  { return s.theme }
func (s *Settings) Volume() int    { return s.volume }
func (s *Settings) Autosave() bool { return s.autosave }

// SetTheme switches the theme. Unknown names are rejected.
func (s *Settings) SetTheme(theme string) error {
	if !slices.Contains(Themes, theme) {
		return fmt.Errorf("unknown theme %q", theme)
	}
	if err := s.store.Set(store.KeyTheme, theme); err != nil {
		return err
	}
	s.theme = theme
	s.notify.send("Theme changed!")
	return nil
}

// CycleTheme moves to the next theme in Themes.
func (s *Settings) CycleTheme() error {
	i := slices.Index(Themes, s.theme)
	return s.SetTheme(Themes[(i+1)%len(Themes)])
}

// SetVolume stores a volume between 0 and 100. Volume changes are silent.
func (s *Settings) SetVolume(v int) error {
	v = clampVolume(v)
	if err := s.store.Set(store.KeyVolume, strconv.Itoa(v)); err != nil {
		return err
	}
	s.volume = v
	return nil
}

// SetAutosave toggles autosave.
func (s *Settings) SetAutosave(on bool) error {
	if err := s.store.Set(store.KeyAutosave, strconv.FormatBool(on)); err != nil {
		return err
	}
	s.autosave = on
	if on {
		s.notify.send("Auto-save enabled!")
	} else {
		s.notify.send("Auto-save disabled!")
	}
	return nil
}

// VolumeIcon returns the taskbar glyph for the current volume.
func (s *Settings) VolumeIcon() string {
	return VolumeIcon(s.volume)
}

// VolumeIcon returns the glyph for volume v.
func VolumeIcon(v int) string {
	switch {
	case v == 0:
		return "🔇"
	case v < 30:
		return "🔈"
	case v < 70:
		return "🔉"
	default:
		return "🔊"
	}
}

func clampVolume(v int) int {
	return max(0, min(v, 100))
}
