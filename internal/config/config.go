package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig возвращается Validate для недопустимых значений
var ErrInvalidConfig = errors.New("invalid config")

// Config корневая структура конфигурации движка
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Player  PlayerConfig  `yaml:"player"`
	Physics PhysicsConfig `yaml:"physics"`
	Raycast RaycastConfig `yaml:"raycast"`
	Input   InputConfig   `yaml:"input"`
	Window  WindowConfig  `yaml:"window"`
	Debug   DebugConfig   `yaml:"debug"`
	Events  EventsConfig  `yaml:"events"`
}

type WorldConfig struct {
	Seed        int64  `yaml:"seed"`
	Generator   string `yaml:"generator"` // layered | perlin | simplex
	SurfaceY    int    `yaml:"surface_y"`
	SpawnRadius int    `yaml:"spawn_radius"` // Радиус куба чанков, загружаемых при старте
}

type PlayerConfig struct {
	Width     float32    `yaml:"width"`
	Height    float32    `yaml:"height"`
	Spawn     [3]float32 `yaml:"spawn"`
	EyeOffset float32    `yaml:"eye_offset"` // Высота камеры над центром игрока
}

type PhysicsConfig struct {
	Gravity float32 `yaml:"gravity"`
	MaxStep float32 `yaml:"max_step"`
	Epsilon float32 `yaml:"epsilon"`
}

type RaycastConfig struct {
	Reach    float32 `yaml:"reach"`
	MaxSteps int     `yaml:"max_steps"`
}

type InputConfig struct {
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	MoveSpeed        float32 `yaml:"move_speed"`
	JumpStrength     float32 `yaml:"jump_strength"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type DebugConfig struct {
	APIAddr        string `yaml:"api_addr"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	Telemetry      bool   `yaml:"telemetry"`
	LogLevel       string `yaml:"log_level"`
}

// EventsConfig настраивает шину событий мира. Пустой NATSURL - шина в памяти процесса.
type EventsConfig struct {
	Enabled   bool          `yaml:"enabled"`
	NATSURL   string        `yaml:"nats_url"`
	Stream    string        `yaml:"stream"`
	Retention time.Duration `yaml:"retention"`
	Buffer    int           `yaml:"buffer"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Generator:   "layered",
			SurfaceY:    0,
			SpawnRadius: 0,
		},
		Player: PlayerConfig{
			Width:     0.5,
			Height:    1.8,
			Spawn:     [3]float32{0, 32, 16},
			EyeOffset: 0.8,
		},
		Physics: PhysicsConfig{
			Gravity: -9.81,
			MaxStep: 0.1,
			Epsilon: 0.001,
		},
		Raycast: RaycastConfig{
			Reach:    5,
			MaxSteps: 100,
		},
		Input: InputConfig{
			MouseSensitivity: 0.003,
			MoveSpeed:        10,
			JumpStrength:     7,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Voxel Engine",
			VSync:  true,
		},
		Debug: DebugConfig{
			MetricsEnabled: true,
			LogLevel:       "info",
		},
		Events: EventsConfig{
			Enabled:   true,
			Stream:    "VOXEL_EVENTS",
			Retention: time.Hour,
			Buffer:    256,
		},
	}
}

// GetSeed возвращает сид мира с поддержкой fallback значений
func (w *WorldConfig) GetSeed() int64 {
	if w.Seed != 0 {
		return w.Seed
	}
	if envVal := os.Getenv("VOXEL_SEED"); envVal != "" {
		if seed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return seed
		}
	}
	return 1
}

// GetAPIAddr возвращает адрес отладочного API; пустая строка - API выключен
func (d *DebugConfig) GetAPIAddr() string {
	return getStringWithEnvFallback(d.APIAddr, "VOXEL_DEBUG_ADDR", "")
}

// GetNATSURL возвращает адрес NATS; пустая строка - события остаются в памяти процесса
func (e *EventsConfig) GetNATSURL() string {
	return getStringWithEnvFallback(e.NATSURL, "VOXEL_NATS_URL", "")
}

// getStringWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getStringWithEnvFallback(configVal, envVar, defaultVal string) string {
	if configVal != "" {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultVal
}

// Validate проверяет значения, которые нельзя исправить молча
func (c *Config) Validate() error {
	switch {
	case c.Player.Width <= 0:
		return fmt.Errorf("%w: player.width must be positive", ErrInvalidConfig)
	case c.Player.Height <= 0:
		return fmt.Errorf("%w: player.height must be positive", ErrInvalidConfig)
	case c.Physics.MaxStep <= 0:
		return fmt.Errorf("%w: physics.max_step must be positive", ErrInvalidConfig)
	case c.Physics.Epsilon < 0:
		return fmt.Errorf("%w: physics.epsilon must not be negative", ErrInvalidConfig)
	case c.Raycast.Reach <= 0:
		return fmt.Errorf("%w: raycast.reach must be positive", ErrInvalidConfig)
	case c.Raycast.MaxSteps <= 0:
		return fmt.Errorf("%w: raycast.max_steps must be positive", ErrInvalidConfig)
	case c.World.SpawnRadius < 0:
		return fmt.Errorf("%w: world.spawn_radius must not be negative", ErrInvalidConfig)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size must be positive", ErrInvalidConfig)
	case c.Events.Buffer < 0:
		return fmt.Errorf("%w: events.buffer must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV VOXEL_CONFIG или возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан - использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
