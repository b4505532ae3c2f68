// Package io provides the external collaborators of the Continuum93 CPU:
// the audio trigger (PLAY), the video buffer (VCL, VDL), the ROM image
// loaded at reset, and the packed color conversions.
package io

// Audio receives sounds triggered by the PLAY instruction.
type Audio interface {
	// Play a sound. Must not block.
	Play(sound Sound)
}

// Video is the frame buffer driven by VCL and VDL.
type Video interface {
	// Clear the back buffer when the low bit of mode is set.
	Clear(mode uint8)
	// Draw presents the back buffer when the low bit of mode is set.
	Draw(mode uint8)
	// Size of the screen, in pixels.
	Size() (width, height uint16)
}
