// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpubridge

import (
	"errors"
	"fmt"

	"github.com/gogpu/batch"
	"github.com/gogpu/batch/atlas"
	"github.com/gogpu/batch/internal/logging"
	"github.com/gogpu/gpucontext"
)

// Common errors returned by Bridge operations.
var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("gpubridge: nil DeviceProvider")

	// ErrNilDrawer is returned when a nil drawer is passed.
	ErrNilDrawer = errors.New("gpubridge: nil drawer")

	// ErrNilAllocator is returned when a nil atlas allocator is passed.
	ErrNilAllocator = errors.New("gpubridge: nil atlas allocator")
)

// TextureDrawer is the subset of a gogpu draw context the bridge needs.
// The concrete type comes from the host's gogpu integration.
type TextureDrawer interface {
	// NewTextureFromRGBA creates a GPU texture from RGBA pixel data.
	NewTextureFromRGBA(width, height int, data []byte) (any, error)

	// DrawTexture draws a previously created texture at the position.
	DrawTexture(tex any, x, y float32) error
}

// textureDestroyer matches the gogpu texture Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// devicePoller is the capability interface for devices that support
// blocking on outstanding GPU work. gpucontext.Device is a type token;
// consumers needing the full API type-assert to a capability type.
type devicePoller interface {
	Poll(wait bool)
}

// Bridge satisfies the engine's graphics-context contract.
var _ batch.GraphicsContext = (*Bridge)(nil)

// pageTexture tracks the GPU mirror of one atlas page.
type pageTexture struct {
	tex     any
	version int
}

// Bridge implements batch.GraphicsContext by mirroring atlas pages to
// GPU textures and drawing them through a gogpu draw context.
type Bridge struct {
	provider gpucontext.DeviceProvider
	drawer   TextureDrawer
	alloc    *atlas.Allocator

	pages map[int]*pageTexture

	// Current submission state, set by Bind/Set calls.
	boundEntry *atlas.Entry
	blend      batch.BlendMode
	program    string

	draws  int
	closed bool
}

// New creates a bridge over the given device provider, draw context and
// atlas allocator.
func New(provider gpucontext.DeviceProvider, drawer TextureDrawer, alloc *atlas.Allocator) (*Bridge, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if drawer == nil {
		return nil, ErrNilDrawer
	}
	if alloc == nil {
		return nil, ErrNilAllocator
	}
	return &Bridge{
		provider: provider,
		drawer:   drawer,
		alloc:    alloc,
		pages:    make(map[int]*pageTexture),
	}, nil
}

// BindTexture resolves the texture id against the atlas and ensures the
// owning page has an up-to-date GPU mirror. Unknown ids clear the
// binding; subsequent submissions become no-ops.
func (b *Bridge) BindTexture(textureID string) {
	if b.closed {
		return
	}
	e := b.alloc.GetTexture(textureID)
	b.boundEntry = e
	if e == nil {
		return
	}
	if err := b.syncPage(e.AtlasID); err != nil {
		logging.Logger().Warn("gpubridge: page sync failed",
			"atlas", e.AtlasID, "texture", textureID, "error", err)
		b.boundEntry = nil
	}
}

// SetBlend records the blending equation for subsequent submissions.
func (b *Bridge) SetBlend(mode batch.BlendMode) {
	b.blend = mode
}

// SetProgram records the shader program for subsequent submissions.
func (b *Bridge) SetProgram(shaderID string) {
	b.program = shaderID
}

// SubmitElements draws the bound page texture once. Without a binding
// the submission is a no-op, matching the engine's degraded-collaborator
// policy.
func (b *Bridge) SubmitElements(count int) {
	b.submit()
}

// SubmitInstanced draws the bound page texture once for the whole
// instance group; the repeat count is carried by the draw context.
func (b *Bridge) SubmitInstanced(count, instances int) {
	b.submit()
}

// DrawCalls returns the number of draws submitted since creation.
func (b *Bridge) DrawCalls() int { return b.draws }

// Flush re-uploads every dirty atlas page and waits for the GPU to
// settle, so the next frame samples current pixels.
func (b *Bridge) Flush() error {
	if b.closed {
		return nil
	}
	for _, page := range b.alloc.Pages() {
		if err := b.syncPage(page.ID()); err != nil {
			return err
		}
	}
	// WriteTexture-style uploads complete before the device reports
	// idle; polling here keeps destroy-after-upload safe.
	if poller, ok := b.provider.Device().(devicePoller); ok {
		poller.Poll(true)
	}
	return nil
}

// Close destroys the GPU mirrors. The bridge must not be used after
// Close; Close is idempotent.
func (b *Bridge) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if poller, ok := b.provider.Device().(devicePoller); ok {
		poller.Poll(true)
	}
	for _, pt := range b.pages {
		if destroyer, ok := pt.tex.(textureDestroyer); ok {
			destroyer.Destroy()
		}
	}
	b.pages = nil
	b.boundEntry = nil
}

// syncPage creates or updates the GPU texture mirroring one atlas page.
func (b *Bridge) syncPage(atlasID int) error {
	page := b.alloc.Page(atlasID)
	if page == nil {
		return fmt.Errorf("gpubridge: unknown atlas page %d", atlasID)
	}

	pt := b.pages[atlasID]
	if pt != nil && pt.version == page.Version() {
		return nil
	}

	data := page.Surface().Pix
	if pt != nil {
		if updater, ok := pt.tex.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(data); err != nil {
				return fmt.Errorf("gpubridge: texture update failed: %w", err)
			}
			pt.version = page.Version()
			return nil
		}
		// No in-place update support: recreate below, destroying the
		// stale mirror after the new upload completes.
		defer func(old any) {
			if destroyer, ok := old.(textureDestroyer); ok {
				destroyer.Destroy()
			}
		}(pt.tex)
	}

	tex, err := b.drawer.NewTextureFromRGBA(page.Width(), page.Height(), data)
	if err != nil {
		return fmt.Errorf("gpubridge: NewTextureFromRGBA failed: %w", err)
	}
	b.pages[atlasID] = &pageTexture{tex: tex, version: page.Version()}

	logging.Logger().Debug("gpubridge: atlas page uploaded",
		"atlas", atlasID, "width", page.Width(), "height", page.Height())
	return nil
}

// submit draws the bound page texture at the bound entry's position.
func (b *Bridge) submit() {
	if b.closed || b.boundEntry == nil {
		return
	}
	pt := b.pages[b.boundEntry.AtlasID]
	if pt == nil {
		return
	}
	r := b.boundEntry.Region
	if err := b.drawer.DrawTexture(pt.tex, float32(r.X), float32(r.Y)); err != nil {
		logging.Logger().Warn("gpubridge: draw failed",
			"texture", b.boundEntry.TextureID, "error", err)
		return
	}
	b.draws++
}
