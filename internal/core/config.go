package core

// RuntimeConfig describes the terminal a view renders into.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Animation frames per second
	Seed     int64 // RNG seed, 0 means use current time in platform layer
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// ArtArea returns the cell size reserved for artwork given the terminal
// size. The remaining columns and rows hold the side panel and status lines.
func (c RuntimeConfig) ArtArea() (int, int) {
	w := c.ScreenW * 3 / 5
	h := c.ScreenH - 6
	return Clamp(w, 10, 120), Clamp(h, 5, 60)
}
