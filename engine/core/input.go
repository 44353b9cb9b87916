package core

import "sync"

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_A         KeyCode = 0x41
	KEY_D         KeyCode = 0x44
	KEY_Q         KeyCode = 0x51
	KEY_S         KeyCode = 0x53
	KEY_W         KeyCode = 0x57

	KEYS_MAX_KEYS KeyCode = 0xFF
)

type MouseState struct {
	X       uint16
	Y       uint16
	Buttons [BUTTON_MAX_BUTTONS]bool
}

type KeyboardState struct {
	Keys [KEYS_MAX_KEYS + 1]bool
}

// Input state structure that holds current and previous states for keyboard and mouse
type InputState struct {
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	MouseCurrent     MouseState
	MousePrevious    MouseState
}

var inputMutex sync.RWMutex
var inputState *InputState

func InputInitialize() error {
	inputMutex.Lock()
	inputState = &InputState{}
	inputMutex.Unlock()
	LogInfo("Input subsystem initialized.")
	return nil
}

func InputShutdown() error {
	inputMutex.Lock()
	inputState = nil
	inputMutex.Unlock()
	return nil
}

// InputUpdate copies the current state into the previous one. Call once per frame.
func InputUpdate(deltaTime float64) error {
	inputMutex.Lock()
	defer inputMutex.Unlock()
	if inputState == nil {
		return nil
	}
	inputState.KeyboardPrevious = inputState.KeyboardCurrent
	inputState.MousePrevious = inputState.MouseCurrent
	return nil
}

func InputIsKeyDown(key KeyCode) bool {
	inputMutex.RLock()
	defer inputMutex.RUnlock()
	if inputState == nil || key > KEYS_MAX_KEYS {
		return false
	}
	return inputState.KeyboardCurrent.Keys[key]
}

func InputWasKeyDown(key KeyCode) bool {
	inputMutex.RLock()
	defer inputMutex.RUnlock()
	if inputState == nil || key > KEYS_MAX_KEYS {
		return false
	}
	return inputState.KeyboardPrevious.Keys[key]
}

func InputProcessKey(key KeyCode, pressed bool) error {
	inputMutex.Lock()
	if inputState == nil || key > KEYS_MAX_KEYS || inputState.KeyboardCurrent.Keys[key] == pressed {
		inputMutex.Unlock()
		return nil
	}
	inputState.KeyboardCurrent.Keys[key] = pressed
	inputMutex.Unlock()

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	EventFire(EventContext{
		Type: code,
		Data: &KeyEvent{KeyCode: key},
	})
	return nil
}

func InputProcessButton(button Button, pressed bool) error {
	inputMutex.Lock()
	if inputState == nil || button >= BUTTON_MAX_BUTTONS || inputState.MouseCurrent.Buttons[button] == pressed {
		inputMutex.Unlock()
		return nil
	}
	inputState.MouseCurrent.Buttons[button] = pressed
	inputMutex.Unlock()

	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	EventFire(EventContext{
		Type: code,
		Data: &MouseEvent{Button: button},
	})
	return nil
}

func InputProcessMouseMove(x uint16, y uint16) error {
	inputMutex.Lock()
	if inputState == nil || (inputState.MouseCurrent.X == x && inputState.MouseCurrent.Y == y) {
		inputMutex.Unlock()
		return nil
	}
	inputState.MouseCurrent.X = x
	inputState.MouseCurrent.Y = y
	inputMutex.Unlock()

	EventFire(EventContext{
		Type: EVENT_CODE_MOUSE_MOVED,
		Data: &MouseEvent{PosX: x, PosY: y},
	})
	return nil
}
