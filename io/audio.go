package io

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SOUND_BLOCK_SIZE is the size of the PLAY parameter block in memory.
const SOUND_BLOCK_SIZE = 14

// Sound is the PLAY parameter block: waveform and flags bytes followed by
// the big-endian float32 frequency, sustain and volume.
type Sound struct {
	Waveform  uint8
	Flags     uint8
	Frequency float32
	Sustain   float32
	Volume    float32
}

// DecodeSound unpacks a PLAY parameter block.
func DecodeSound(block []byte) (sound Sound, err error) {
	if len(block) < SOUND_BLOCK_SIZE {
		err = ErrSoundBlock
		return
	}

	float := func(offset int) float32 {
		return math.Float32frombits(binary.BigEndian.Uint32(block[offset:]))
	}

	sound = Sound{
		Waveform:  block[0],
		Flags:     block[1],
		Frequency: float(2),
		Sustain:   float(6),
		Volume:    float(10),
	}
	return
}

// Encode packs the sound into a PLAY parameter block.
func (sound Sound) Encode() (block []byte) {
	block = make([]byte, 2, SOUND_BLOCK_SIZE)
	block[0] = sound.Waveform
	block[1] = sound.Flags
	block = binary.BigEndian.AppendUint32(block, math.Float32bits(sound.Frequency))
	block = binary.BigEndian.AppendUint32(block, math.Float32bits(sound.Sustain))
	block = binary.BigEndian.AppendUint32(block, math.Float32bits(sound.Volume))
	return
}

func (sound Sound) String() string {
	return fmt.Sprintf("wave %d flags 0x%02x %gHz sustain %g volume %g",
		sound.Waveform, sound.Flags, sound.Frequency, sound.Sustain, sound.Volume)
}

// SoundRecorder is a silent Audio that remembers what was played.
type SoundRecorder struct {
	Played []Sound
}

var _ Audio = (*SoundRecorder)(nil)

func (sr *SoundRecorder) Play(sound Sound) {
	sr.Played = append(sr.Played, sound)
}

// GetLastPlayedSound returns the most recent sound.
func (sr *SoundRecorder) GetLastPlayedSound() (sound Sound, ok bool) {
	if len(sr.Played) == 0 {
		return
	}
	return sr.Played[len(sr.Played)-1], true
}

// Reset forgets all played sounds.
func (sr *SoundRecorder) Reset() {
	sr.Played = sr.Played[:0]
}
