package graphics

// ResolveWindowSize returns the size a new window should use. Fullscreen
// ignores the requested size in favor of the display dimensions.
func ResolveWindowSize(reqWidth, reqHeight int, fullscreen bool, displayWidth, displayHeight int) (int, int) {
	if fullscreen {
		return displayWidth, displayHeight
	}
	return reqWidth, reqHeight
}
