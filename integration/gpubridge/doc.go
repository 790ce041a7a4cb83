// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpubridge submits batched draws through the gogpu context
// abstraction.
//
// The Bridge implements batch.GraphicsContext on top of a texture-drawer
// collaborator (any gogpu draw context). Atlas pages are mirrored to GPU
// textures lazily: BindTexture resolves the bound id to its atlas page,
// uploads the page pixels on first use, and re-uploads whenever the page
// version changes (new placements, repacks). Submissions then draw the
// bound page texture.
//
// This is integration glue, not a platform adapter: the heavy context
// work (devices, swapchains, pipelines) stays in gogpu. The bridge only
// needs:
//   - gpucontext.DeviceProvider for device access and GPU sync
//   - a drawer exposing NewTextureFromRGBA and DrawTexture
//
// The bridge is not safe for concurrent use.
package gpubridge
