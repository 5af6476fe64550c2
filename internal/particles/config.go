package particles

import "fmt"

// Theme selects between the light and dark particle colors.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Config holds the recognized field options. Zero values take defaults.
type Config struct {
	Quantity        int     `yaml:"quantity,omitempty"`          // Particle count
	Staticity       float64 `yaml:"staticity,omitempty"`         // Restoring divisor, higher is a weaker pull
	Ease            float64 `yaml:"ease,omitempty"`              // Velocity kept per frame, percent
	ParticleSize    float64 `yaml:"particle_size,omitempty"`     // Radius spread; radius is in [1, 1+size)
	Color           string  `yaml:"color,omitempty"`             // Overrides the theme colors when set
	LightThemeColor string  `yaml:"light_theme_color,omitempty"` // Used when Theme is light
	DarkThemeColor  string  `yaml:"dark_theme_color,omitempty"`  // Used otherwise
	Theme           Theme   `yaml:"theme,omitempty"`
}

// DefaultConfig returns the stock field settings.
func DefaultConfig() Config {
	return Config{
		Quantity:        100,
		Staticity:       50,
		Ease:            50,
		ParticleSize:    2,
		LightThemeColor: "rgba(124, 58, 237, 0.8)",
		DarkThemeColor:  "rgba(255, 255, 255, 0.3)",
		Theme:           ThemeDark,
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Quantity == 0 {
		c.Quantity = d.Quantity
	}
	if c.Staticity == 0 {
		c.Staticity = d.Staticity
	}
	if c.Ease == 0 {
		c.Ease = d.Ease
	}
	if c.ParticleSize == 0 {
		c.ParticleSize = d.ParticleSize
	}
	if c.LightThemeColor == "" {
		c.LightThemeColor = d.LightThemeColor
	}
	if c.DarkThemeColor == "" {
		c.DarkThemeColor = d.DarkThemeColor
	}
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	return c
}

// Validate checks ranges after defaults have been applied.
func (c Config) Validate() error {
	if c.Quantity < 0 || c.Quantity > 500 {
		return fmt.Errorf("quantity must be between 0 and 500, got %d", c.Quantity)
	}
	if c.Staticity <= 0 {
		return fmt.Errorf("staticity must be > 0, got %v", c.Staticity)
	}
	if c.Ease < 0 || c.Ease > 100 {
		return fmt.Errorf("ease must be between 0 and 100, got %v", c.Ease)
	}
	if c.ParticleSize < 0 {
		return fmt.Errorf("particle_size must be >= 0, got %v", c.ParticleSize)
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("invalid theme: %s (must be 'light' or 'dark')", c.Theme)
	}
	for _, color := range []string{c.Color, c.LightThemeColor, c.DarkThemeColor} {
		if color == "" {
			continue
		}
		if _, err := ParseColor(color); err != nil {
			return err
		}
	}
	return nil
}

// ParticleColor resolves the color particles are drawn with.
func (c Config) ParticleColor() string {
	if c.Color != "" {
		return c.Color
	}
	if c.Theme == ThemeLight {
		return c.LightThemeColor
	}
	return c.DarkThemeColor
}
