package display

import (
	"github.com/faiface/pixel/pixelgl"
)

// Debugger commands and their keyboard binds
// Keyboard binds:
/*
	0: Pause            ---> Space
	1: Step instruction ---> N
	2: Step frame       ---> F
	3: Reset            ---> R
*/
const (
	keyPause int = iota
	keyStepInstruction
	keyStepFrame
	keyReset
)

var debuggerKeys = map[int]pixelgl.Button{
	keyPause:           pixelgl.KeySpace,
	keyStepInstruction: pixelgl.KeyN,
	keyStepFrame:       pixelgl.KeyF,
	keyReset:           pixelgl.KeyR,
}

type keyState struct {
	pressed []bool // Key press state for this window update
}

func newKeyState() *keyState {
	return &keyState{
		pressed: make([]bool, len(debuggerKeys)),
	}
}

func (k *keyState) update(win *pixelgl.Window) {
	for idx, key := range debuggerKeys {
		k.pressed[idx] = win.JustPressed(key)
	}
}

func (k *keyState) justPressed(cmd int) bool {
	return k.pressed[cmd]
}
