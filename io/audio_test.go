package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSound(t *testing.T) {
	assert := assert.New(t)

	sound := Sound{Waveform: 2, Flags: 0x81, Frequency: 440, Sustain: 0.5, Volume: 1}
	block := sound.Encode()
	assert.Equal(SOUND_BLOCK_SIZE, len(block))
	assert.Equal([]byte{0x02, 0x81, 0x43, 0xdc, 0x00, 0x00}, block[:6])

	decoded, err := DecodeSound(append(block, 0xee))
	assert.NoError(err)
	assert.Equal(sound, decoded)
	assert.Equal("wave 2 flags 0x81 440Hz sustain 0.5 volume 1", decoded.String())

	_, err = DecodeSound(block[:SOUND_BLOCK_SIZE-1])
	assert.ErrorIs(err, ErrSoundBlock)
}

func TestSoundRecorder(t *testing.T) {
	assert := assert.New(t)

	var audio Audio
	sr := &SoundRecorder{}
	audio = sr

	_, ok := sr.GetLastPlayedSound()
	assert.False(ok)

	audio.Play(Sound{Waveform: 1})
	audio.Play(Sound{Waveform: 2})

	last, ok := sr.GetLastPlayedSound()
	assert.True(ok)
	assert.Equal(uint8(2), last.Waveform)
	assert.Equal(2, len(sr.Played))

	sr.Reset()
	assert.Equal(0, len(sr.Played))
	_, ok = sr.GetLastPlayedSound()
	assert.False(ok)
}
