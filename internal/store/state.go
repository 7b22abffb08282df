package store

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const stateFileName = "presenter_state.json"

// PresenterState stores small per-deck UI state so a relaunch resumes where it left off.
//
// It is best effort: a missing or corrupted file reads as empty state.
type PresenterState struct {
	Version int                  `json:"version"`
	Decks   map[string]DeckState `json:"decks,omitempty"`
}

type DeckState struct {
	// Fields holds address fields (e.g. "slide") exactly as the presentation wrote them.
	Fields map[string]string `json:"fields,omitempty"`

	// Theme is the last theme toggled while presenting ("dark" or "light").
	Theme string `json:"theme,omitempty"`

	LastOpened string `json:"lastOpened,omitempty"`
}

func (s Store) statePath() string {
	return filepath.Join(s.Dir, stateFileName)
}

func (s Store) LoadState() (*PresenterState, error) {
	empty := &PresenterState{Version: 1, Decks: map[string]DeckState{}}
	if strings.TrimSpace(s.Dir) == "" {
		return empty, nil
	}
	b, err := os.ReadFile(s.statePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return empty, nil
		}
		return nil, err
	}
	var st PresenterState
	if err := json.Unmarshal(b, &st); err != nil {
		return empty, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	if st.Decks == nil {
		st.Decks = map[string]DeckState{}
	}
	return &st, nil
}

func (s Store) SaveState(st *PresenterState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.statePath(), b)
}

// UpdateDeck applies fn to one deck's state and saves the result.
func (s Store) UpdateDeck(deck string, fn func(*DeckState)) error {
	st, err := s.LoadState()
	if err != nil {
		return err
	}
	ds := st.Decks[deck]
	fn(&ds)
	ds.LastOpened = time.Now().UTC().Format(time.RFC3339)
	st.Decks[deck] = ds
	return s.SaveState(st)
}

// DeckAddress keeps a deck's address fields in the state file. Every replace
// overwrites the stored value; there is no history.
type DeckAddress struct {
	store Store
	deck  string
	log   *slog.Logger

	mu     sync.Mutex
	fields map[string]string
}

func NewDeckAddress(s Store, deck string, log *slog.Logger) *DeckAddress {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := &DeckAddress{store: s, deck: deck, log: log, fields: map[string]string{}}
	if st, err := s.LoadState(); err == nil {
		for k, v := range st.Decks[deck].Fields {
			a.fields[k] = v
		}
	} else {
		log.Warn("load presenter state", "error", err)
	}
	return a
}

func (a *DeckAddress) Get(field string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.fields[field]
	return v, ok
}

func (a *DeckAddress) Replace(field, value string) {
	a.mu.Lock()
	a.fields[field] = value
	a.mu.Unlock()

	err := a.store.UpdateDeck(a.deck, func(ds *DeckState) {
		if ds.Fields == nil {
			ds.Fields = map[string]string{}
		}
		ds.Fields[field] = value
	})
	if err != nil {
		a.log.Warn("save presenter state", "deck", a.deck, "error", err)
	}
}
