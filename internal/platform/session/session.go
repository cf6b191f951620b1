// Package session persists the operator's token and display preferences between CLI runs
package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Theme is the console color scheme
type Theme string

const (
	// ThemeLight is the default scheme
	ThemeLight Theme = "light"

	// ThemeDark is the dark scheme
	ThemeDark Theme = "dark"
)

// Supported display languages, Indonesian first as the lab default
var (
	supported = []language.Tag{language.Indonesian, language.English}
	matcher   = language.NewMatcher(supported)
)

// Prefs is the persisted document
type Prefs struct {
	Token    string `yaml:"token,omitempty"`
	Theme    Theme  `yaml:"theme"`
	Language string `yaml:"language"`
}

func defaults() Prefs { return Prefs{Theme: ThemeLight, Language: "id"} }

// Store is a yaml backed preferences provider
// it implements consoleapi.TokenSource and TokenClearer
type Store struct {
	path string

	mu    sync.RWMutex
	prefs Prefs
}

// Open loads path, a missing file yields defaults
func Open(path string) (*Store, error) {
	s := &Store{path: path, prefs: defaults()}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "read session %s", path)
	}
	var p Prefs
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "parse session %s", path)
	}
	if p.Theme != ThemeDark {
		p.Theme = ThemeLight
	}
	if tag, err := matchLanguage(p.Language); err == nil {
		p.Language = tag
	} else {
		p.Language = "id"
	}
	s.prefs = p
	return s, nil
}

// DefaultPath is $XDG_CONFIG_HOME/ergoquipt/session.yaml or the OS equivalent
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ergoquipt", "session.yaml")
}

// Path returns the backing file
func (s *Store) Path() string { return s.path }

// Prefs returns a copy of the current document
func (s *Store) Prefs() Prefs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Token implements consoleapi.TokenSource
func (s *Store) Token(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Token
}

// SetToken stores a token and persists
func (s *Store) SetToken(tok string) error {
	return s.update(func(p *Prefs) error {
		p.Token = strings.TrimSpace(tok)
		return nil
	})
}

// ClearToken implements consoleapi.TokenClearer
func (s *Store) ClearToken(context.Context) error {
	return s.update(func(p *Prefs) error {
		p.Token = ""
		return nil
	})
}

// SetTheme accepts light or dark
func (s *Store) SetTheme(t string) error {
	th := Theme(strings.ToLower(strings.TrimSpace(t)))
	if th != ThemeLight && th != ThemeDark {
		return perr.WithField(perr.Validationf("theme must be one of [light dark]"), "theme")
	}
	return s.update(func(p *Prefs) error {
		p.Theme = th
		return nil
	})
}

// SetLanguage accepts a BCP 47 tag matching id or en, such as "en-US" or "id"
func (s *Store) SetLanguage(tag string) error {
	base, err := matchLanguage(tag)
	if err != nil {
		return err
	}
	return s.update(func(p *Prefs) error {
		p.Language = base
		return nil
	})
}

func matchLanguage(tag string) (string, error) {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return "", perr.WithField(perr.Wrapf(err, perr.ErrorCodeValidation, "invalid language tag %q", tag), "language")
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return "", perr.WithField(perr.Validationf("language must be one of [id en]"), "language")
	}
	b, _ := supported[idx].Base()
	return b.String(), nil
}

func (s *Store) update(fn func(*Prefs) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.prefs
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.prefs = next
	return nil
}

func (s *Store) write(p Prefs) error {
	b, err := yaml.Marshal(p)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "encode session")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "create session dir %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "create session temp")
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "write session")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "close session")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "replace session")
	}
	return nil
}
