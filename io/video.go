package io

const (
	DEFAULT_SCREEN_WIDTH  = 480
	DEFAULT_SCREEN_HEIGHT = 270
)

// VideoBuffer is a headless double buffered screen of one byte per pixel.
type VideoBuffer struct {
	Width  uint16
	Height uint16
	Back   []byte // Buffer the program draws into.
	Front  []byte // Last presented frame.
	Frames int    // Frames presented.
}

var _ Video = (*VideoBuffer)(nil)

// NewVideoBuffer creates a video buffer.
func NewVideoBuffer(width, height uint16) (vb *VideoBuffer) {
	size := int(width) * int(height)
	vb = &VideoBuffer{
		Width:  width,
		Height: height,
		Back:   make([]byte, size),
		Front:  make([]byte, size),
	}
	return
}

func (vb *VideoBuffer) Size() (width, height uint16) {
	return vb.Width, vb.Height
}

func (vb *VideoBuffer) Clear(mode uint8) {
	if mode&1 == 0 {
		return
	}
	clear(vb.Back)
}

func (vb *VideoBuffer) Draw(mode uint8) {
	if mode&1 == 0 {
		return
	}
	copy(vb.Front, vb.Back)
	vb.Frames++
}

// GetVideoBuffer returns the back buffer.
func (vb *VideoBuffer) GetVideoBuffer() []byte {
	return vb.Back
}

// Reset blanks both buffers.
func (vb *VideoBuffer) Reset() {
	clear(vb.Back)
	clear(vb.Front)
	vb.Frames = 0
}
