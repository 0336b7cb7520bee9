package common

// Key codes delivered by the window's key callbacks. They are GLFW key codes,
// which equal the ASCII code for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace uint32 = 32

	KeyA uint32 = 65
	KeyD uint32 = 68
	KeyE uint32 = 69
	KeyQ uint32 = 81
	KeyS uint32 = 83
	KeyW uint32 = 87

	KeyEsc   uint32 = 256
	KeyRight uint32 = 262
	KeyLeft  uint32 = 263
	KeyDown  uint32 = 264
	KeyUp    uint32 = 265

	KeyLeftShift  uint32 = 340
	KeyRightShift uint32 = 344
)
