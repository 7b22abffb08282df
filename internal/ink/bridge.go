package ink

import (
	"image"
	"log/slog"
)

// Decoder turns a stored snapshot back into an image. done must be invoked on
// the caller's event loop, either inline or later.
type Decoder interface {
	Decode(snapshot []byte, done func(image.Image, error))
}

// SyncDecoder decodes inline.
type SyncDecoder struct{}

func (SyncDecoder) Decode(snapshot []byte, done func(image.Image, error)) {
	done(Decode(snapshot))
}

// AsyncDecoder decodes on a goroutine and hands the result to Dispatch.
type AsyncDecoder struct {
	Dispatch func(func())
}

func (d AsyncDecoder) Decode(snapshot []byte, done func(image.Image, error)) {
	go func() {
		img, err := Decode(snapshot)
		d.Dispatch(func() { done(img, err) })
	}()
}

type pendingRestore struct {
	index     int
	gen       uint64
	snapshot  []byte
	cancelled bool
}

// Bridge moves ink between the surface and the store around slide changes.
// It is the only writer of the store.
type Bridge struct {
	surface *Surface
	store   Store
	decoder Decoder
	current func() int
	log     *slog.Logger

	gen     uint64
	pending *pendingRestore
}

func NewBridge(surface *Surface, store Store, decoder Decoder, current func() int, log *slog.Logger) *Bridge {
	if decoder == nil {
		decoder = SyncDecoder{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Bridge{
		surface: surface,
		store:   store,
		decoder: decoder,
		current: current,
		log:     log,
	}
}

func (b *Bridge) Surface() *Surface { return b.surface }

// Pending reports whether a restore is still decoding.
func (b *Bridge) Pending() bool { return b.pending != nil }

// CaptureAndStore writes the current raster for index, replacing any previous snapshot.
// A restore still decoding for index is settled first, beneath any strokes
// drawn since.
func (b *Bridge) CaptureAndStore(index int) {
	if p := b.pending; p != nil && p.index == index {
		b.cancelPending()
		img, err := Decode(p.snapshot)
		if err != nil {
			b.log.Debug("ink restore decode failed", "slide", index, "error", err)
		} else {
			b.surface.Underlay(img)
		}
	}
	snap, err := Encode(b.surface.Image())
	if err != nil {
		b.log.Warn("ink capture failed", "slide", index, "error", err)
		return
	}
	b.store.Put(index, snap)
}

// Restore clears the surface and starts loading the snapshot for index, if any.
// The decoded image is drawn only if no later restore was issued and index is
// still the current slide when decoding finishes.
func (b *Bridge) Restore(index int) {
	b.cancelPending()
	b.surface.Clear()
	b.gen++

	snap, ok := b.store.Get(index)
	if !ok {
		return
	}
	p := &pendingRestore{index: index, gen: b.gen, snapshot: snap}
	b.pending = p
	b.decoder.Decode(snap, func(img image.Image, err error) {
		b.settle(p, img, err)
	})
}

// Clear blanks the surface and drops any restore still decoding into it.
func (b *Bridge) Clear() {
	b.cancelPending()
	b.gen++
	b.surface.Clear()
}

func (b *Bridge) cancelPending() {
	if b.pending != nil {
		b.pending.cancelled = true
		b.pending = nil
	}
}

func (b *Bridge) settle(p *pendingRestore, img image.Image, err error) {
	if b.pending == p {
		b.pending = nil
	}
	if p.cancelled || p.gen != b.gen || p.index != b.current() {
		b.log.Debug("ink restore discarded", "slide", p.index, "gen", p.gen)
		return
	}
	if err != nil {
		b.log.Debug("ink restore decode failed", "slide", p.index, "error", err)
		return
	}
	b.surface.DrawImage(img)
}
