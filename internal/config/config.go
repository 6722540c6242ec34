package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Server      ServerConfig      `mapstructure:"server"`
	UI          UIConfig          `mapstructure:"ui"`
	Colors      ColorsConfig      `mapstructure:"colors"`
	Store       StoreConfig       `mapstructure:"store"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// GameConfig holds game mechanics configuration
type GameConfig struct {
	Map       MapConfig     `mapstructure:"map"`
	Terrain   TerrainConfig `mapstructure:"terrain"`
	Units     UnitsConfig   `mapstructure:"units"`
	Economy   EconomyConfig `mapstructure:"economy"`
	Rules     RulesConfig   `mapstructure:"rules"`
	UndoDepth int           `mapstructure:"undo_depth"`
}

// MapConfig holds map generation settings
type MapConfig struct {
	Width          int         `mapstructure:"width"`
	Height         int         `mapstructure:"height"`
	Players        int         `mapstructure:"players"`
	Seed           int64       `mapstructure:"seed"`
	File           string      `mapstructure:"file"`
	MinTownSpacing int         `mapstructure:"min_town_spacing"`
	Noise          NoiseConfig `mapstructure:"noise"`
}

// NoiseConfig holds the simplex noise parameters used for terrain
type NoiseConfig struct {
	Scale   float64 `mapstructure:"scale"`
	Octaves int     `mapstructure:"octaves"`
}

// TerrainConfig holds terrain behaviour and generation thresholds
type TerrainConfig struct {
	ForestCost      int     `mapstructure:"forest_cost"`
	GroundBuildable bool    `mapstructure:"ground_buildable"`
	WaterLevel      float64 `mapstructure:"water_level"`
	ForestLevel     float64 `mapstructure:"forest_level"`
	GroundRatio     float64 `mapstructure:"ground_ratio"`
}

// UnitsConfig holds the stats of every element kind
type UnitsConfig struct {
	Town     UnitConfig `mapstructure:"town"`
	Castle   UnitConfig `mapstructure:"castle"`
	Camp     UnitConfig `mapstructure:"camp"`
	Villager UnitConfig `mapstructure:"villager"`
	Pikeman  UnitConfig `mapstructure:"pikeman"`
	Knight   UnitConfig `mapstructure:"knight"`
	Hero     UnitConfig `mapstructure:"hero"`
	Bandit   UnitConfig `mapstructure:"bandit"`
}

// UnitConfig holds the stats of one element kind
type UnitConfig struct {
	Strength int `mapstructure:"strength"`
	Cost     int `mapstructure:"cost"`
	Upkeep   int `mapstructure:"upkeep"`
	Range    int `mapstructure:"range"`
	Income   int `mapstructure:"income"`
}

// EconomyConfig holds treasury settings
type EconomyConfig struct {
	StartingTreasury int `mapstructure:"starting_treasury"`
	CellIncome       int `mapstructure:"cell_income"`
	CampTribute      int `mapstructure:"camp_tribute"`
}

// RulesConfig holds the rule expressions evaluated during play
type RulesConfig struct {
	Combat        string `mapstructure:"combat"`
	BanditsWander bool   `mapstructure:"bandits_wander"`
}

// ServerConfig holds headless server configuration
type ServerConfig struct {
	GameServer GameServerConfig `mapstructure:"game_server"`
}

// GameServerConfig holds game server specific configuration
type GameServerConfig struct {
	LogLevel  string     `mapstructure:"log_level"`
	LogFormat string     `mapstructure:"log_format"`
	Demo      DemoConfig `mapstructure:"demo"`
}

// DemoConfig holds demo mode configuration
type DemoConfig struct {
	MaxTurns          int `mapstructure:"max_turns"`
	TurnDelayMs       int `mapstructure:"turn_delay_ms"`
	Matches           int `mapstructure:"matches"`
	Parallel          int `mapstructure:"parallel"`
	MonitorIntervalMs int `mapstructure:"monitor_interval_ms"`
}

// UIConfig holds UI/client configuration
type UIConfig struct {
	Window   WindowConfig     `mapstructure:"window"`
	Game     UIGameConfig     `mapstructure:"game"`
	Defaults UIDefaultsConfig `mapstructure:"defaults"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// UIGameConfig holds UI game settings
type UIGameConfig struct {
	HexSize      int `mapstructure:"hex_size"`
	TurnInterval int `mapstructure:"turn_interval"`
}

// UIDefaultsConfig holds default game settings for UI
type UIDefaultsConfig struct {
	HumanPlayer int  `mapstructure:"human_player"`
	NumPlayers  int  `mapstructure:"num_players"`
	MapWidth    int  `mapstructure:"map_width"`
	MapHeight   int  `mapstructure:"map_height"`
	AIOnly      bool `mapstructure:"ai_only"`
}

// ColorsConfig holds all color configurations
type ColorsConfig struct {
	Players PlayerColorsConfig  `mapstructure:"players"`
	Terrain TerrainColorsConfig `mapstructure:"terrain"`
	UI      UIColorsConfig      `mapstructure:"ui"`
}

// PlayerColorsConfig holds player color settings
type PlayerColorsConfig struct {
	Neutral [3]int `mapstructure:"neutral"`
	Player0 [3]int `mapstructure:"player_0"`
	Player1 [3]int `mapstructure:"player_1"`
	Player2 [3]int `mapstructure:"player_2"`
	Player3 [3]int `mapstructure:"player_3"`
}

// TerrainColorsConfig holds terrain fill colors
type TerrainColorsConfig struct {
	Water  [3]int `mapstructure:"water"`
	Ground [3]int `mapstructure:"ground"`
	Forest [3]int `mapstructure:"forest"`
}

// UIColorsConfig holds UI color settings
type UIColorsConfig struct {
	Background [3]int `mapstructure:"background"`
	GridLines  [3]int `mapstructure:"grid_lines"`
	Highlight  [4]int `mapstructure:"highlight"`
	Text       [3]int `mapstructure:"text"`
}

// StoreConfig holds the game journal settings
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging  bool `mapstructure:"verbose_logging"`
	ShowCoordinates bool `mapstructure:"show_coordinates"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Map defaults
	v.SetDefault("game.map.width", 16)
	v.SetDefault("game.map.height", 12)
	v.SetDefault("game.map.players", 2)
	v.SetDefault("game.map.seed", 0)
	v.SetDefault("game.map.file", "")
	v.SetDefault("game.map.min_town_spacing", 5)
	v.SetDefault("game.map.noise.scale", 0.18)
	v.SetDefault("game.map.noise.octaves", 3)

	// Terrain defaults
	v.SetDefault("game.terrain.forest_cost", 2)
	v.SetDefault("game.terrain.ground_buildable", false)
	v.SetDefault("game.terrain.water_level", 0.3)
	v.SetDefault("game.terrain.forest_level", 0.72)
	v.SetDefault("game.terrain.ground_ratio", 0.05)

	// Unit defaults
	setUnitDefaults(v, "town", UnitConfig{Strength: 1, Income: 2})
	setUnitDefaults(v, "castle", UnitConfig{Strength: 2, Cost: 15})
	setUnitDefaults(v, "camp", UnitConfig{Strength: 1, Upkeep: 1})
	setUnitDefaults(v, "villager", UnitConfig{Strength: 1, Cost: 10, Upkeep: 2, Range: 2})
	setUnitDefaults(v, "pikeman", UnitConfig{Strength: 2, Cost: 20, Upkeep: 6, Range: 2})
	setUnitDefaults(v, "knight", UnitConfig{Strength: 3, Cost: 40, Upkeep: 18, Range: 3})
	setUnitDefaults(v, "hero", UnitConfig{Strength: 4, Cost: 80, Upkeep: 54, Range: 3})
	setUnitDefaults(v, "bandit", UnitConfig{Strength: 0, Upkeep: 1, Range: 1})

	// Economy defaults
	v.SetDefault("game.economy.starting_treasury", 10)
	v.SetDefault("game.economy.cell_income", 1)
	v.SetDefault("game.economy.camp_tribute", 1)

	// Rule defaults
	v.SetDefault("game.rules.combat", "Attacker.Strength > Shield")
	v.SetDefault("game.rules.bandits_wander", true)
	v.SetDefault("game.undo_depth", 16)

	// Server defaults
	v.SetDefault("server.game_server.log_level", "info")
	v.SetDefault("server.game_server.log_format", "console")
	v.SetDefault("server.game_server.demo.max_turns", 60)
	v.SetDefault("server.game_server.demo.turn_delay_ms", 0)
	v.SetDefault("server.game_server.demo.matches", 1)
	v.SetDefault("server.game_server.demo.parallel", 4)
	v.SetDefault("server.game_server.demo.monitor_interval_ms", 10000)

	// UI defaults
	v.SetDefault("ui.window.width", 960)
	v.SetDefault("ui.window.height", 720)
	v.SetDefault("ui.window.title", "HexConquest")
	v.SetDefault("ui.game.hex_size", 24)
	v.SetDefault("ui.game.turn_interval", 30)
	v.SetDefault("ui.defaults.human_player", 0)
	v.SetDefault("ui.defaults.num_players", 2)
	v.SetDefault("ui.defaults.map_width", 16)
	v.SetDefault("ui.defaults.map_height", 12)
	v.SetDefault("ui.defaults.ai_only", false)

	// Color defaults
	v.SetDefault("colors.players.neutral", []int{170, 190, 120})
	v.SetDefault("colors.players.player_0", []int{200, 50, 50})
	v.SetDefault("colors.players.player_1", []int{50, 100, 200})
	v.SetDefault("colors.players.player_2", []int{50, 170, 50})
	v.SetDefault("colors.players.player_3", []int{200, 200, 50})

	v.SetDefault("colors.terrain.water", []int{40, 80, 160})
	v.SetDefault("colors.terrain.ground", []int{150, 130, 90})
	v.SetDefault("colors.terrain.forest", []int{30, 90, 40})

	v.SetDefault("colors.ui.background", []int{0, 0, 0})
	v.SetDefault("colors.ui.grid_lines", []int{50, 50, 50})
	v.SetDefault("colors.ui.highlight", []int{255, 255, 255, 90})
	v.SetDefault("colors.ui.text", []int{255, 255, 255})

	// Store defaults
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "hexconquest.db")

	// Development defaults
	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.show_coordinates", false)
}

func setUnitDefaults(v *viper.Viper, kind string, u UnitConfig) {
	prefix := "game.units." + kind + "."
	v.SetDefault(prefix+"strength", u.Strength)
	v.SetDefault(prefix+"cost", u.Cost)
	v.SetDefault(prefix+"upkeep", u.Upkeep)
	v.SetDefault(prefix+"range", u.Range)
	v.SetDefault(prefix+"income", u.Income)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/hexconquest")
	}

	v.SetEnvPrefix("HEXCONQUEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults, same as a missing default file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath == "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig loads environment-specific config overlay
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)
	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}
	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file. Reloads that fail
// validation are dropped and the previous values stay in effect.
func WatchConfig(onChange func(*Config)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			return
		}
		if err := Validate(next); err != nil {
			return
		}
		cfg = next
		if onChange != nil {
			onChange(cfg)
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	m := c.Game.Map
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("game.map dimensions must be positive")
	}
	if m.Players < 2 || m.Players > 9 {
		return fmt.Errorf("game.map.players must be between 2 and 9")
	}
	if m.MinTownSpacing < 1 {
		return fmt.Errorf("game.map.min_town_spacing must be at least 1")
	}
	if m.Noise.Scale <= 0 {
		return fmt.Errorf("game.map.noise.scale must be positive")
	}
	if m.Noise.Octaves < 1 {
		return fmt.Errorf("game.map.noise.octaves must be at least 1")
	}

	t := c.Game.Terrain
	if t.ForestCost < 1 {
		return fmt.Errorf("game.terrain.forest_cost must be at least 1")
	}
	if t.WaterLevel < 0 || t.ForestLevel > 1 || t.WaterLevel >= t.ForestLevel {
		return fmt.Errorf("game.terrain levels must satisfy 0 <= water_level < forest_level <= 1")
	}
	if t.GroundRatio < 0 || t.GroundRatio > 1 {
		return fmt.Errorf("game.terrain.ground_ratio must be between 0 and 1")
	}

	units := map[string]UnitConfig{
		"town": c.Game.Units.Town, "castle": c.Game.Units.Castle, "camp": c.Game.Units.Camp,
		"villager": c.Game.Units.Villager, "pikeman": c.Game.Units.Pikeman,
		"knight": c.Game.Units.Knight, "hero": c.Game.Units.Hero, "bandit": c.Game.Units.Bandit,
	}
	for name, u := range units {
		if u.Strength < 0 || u.Cost < 0 || u.Upkeep < 0 || u.Range < 0 || u.Income < 0 {
			return fmt.Errorf("game.units.%s values must be non-negative", name)
		}
	}

	e := c.Game.Economy
	if e.StartingTreasury < 0 || e.CellIncome < 0 || e.CampTribute < 0 {
		return fmt.Errorf("game.economy values must be non-negative")
	}
	if strings.TrimSpace(c.Game.Rules.Combat) == "" {
		return fmt.Errorf("game.rules.combat must not be empty")
	}
	if c.Game.UndoDepth < 0 {
		return fmt.Errorf("game.undo_depth must be non-negative")
	}

	if c.Server.GameServer.Demo.MaxTurns <= 0 {
		return fmt.Errorf("server.game_server.demo.max_turns must be positive")
	}
	if c.Server.GameServer.Demo.Matches <= 0 || c.Server.GameServer.Demo.Parallel <= 0 {
		return fmt.Errorf("server.game_server.demo matches and parallel must be positive")
	}

	if c.UI.Window.Width <= 0 || c.UI.Window.Height <= 0 {
		return fmt.Errorf("ui.window dimensions must be positive")
	}
	if c.UI.Game.HexSize <= 0 {
		return fmt.Errorf("ui.game.hex_size must be positive")
	}
	if c.UI.Game.TurnInterval <= 0 {
		return fmt.Errorf("ui.game.turn_interval must be positive")
	}
	if c.UI.Defaults.NumPlayers < 2 || c.UI.Defaults.NumPlayers > 4 {
		return fmt.Errorf("ui.defaults.num_players must be between 2 and 4")
	}
	if c.UI.Defaults.HumanPlayer < -1 || c.UI.Defaults.HumanPlayer >= c.UI.Defaults.NumPlayers {
		return fmt.Errorf("ui.defaults.human_player must be -1 or valid player index")
	}

	validateRGB := func(rgb [3]int, name string) error {
		for i, v := range rgb {
			if v < 0 || v > 255 {
				return fmt.Errorf("%s[%d] must be between 0 and 255", name, i)
			}
		}
		return nil
	}
	colors := map[string][3]int{
		"colors.players.neutral":  c.Colors.Players.Neutral,
		"colors.players.player_0": c.Colors.Players.Player0,
		"colors.players.player_1": c.Colors.Players.Player1,
		"colors.players.player_2": c.Colors.Players.Player2,
		"colors.players.player_3": c.Colors.Players.Player3,
		"colors.terrain.water":    c.Colors.Terrain.Water,
		"colors.terrain.ground":   c.Colors.Terrain.Ground,
		"colors.terrain.forest":   c.Colors.Terrain.Forest,
	}
	for name, rgb := range colors {
		if err := validateRGB(rgb, name); err != nil {
			return err
		}
	}

	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("store.path is required when the store is enabled")
	}
	return nil
}
