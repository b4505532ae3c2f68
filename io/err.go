package io

import (
	"errors"

	"github.com/ezrec/c93/translate"
)

var f = translate.From

var (
	ErrSegmentOverlap = errors.New(f("rom segments overlap"))
	ErrSoundBlock     = errors.New(f("sound block truncated"))
)
