package utils

import (
	"duel/world"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type ArenaConfig struct {
	Size, Obstacles int
}

type PlayerConfig struct {
	Radius, Speed float64
}

type BulletConfig struct {
	Radius, Speed float64
}

type RoundConfig struct {
	EndMillis int
	FrameRate int
}

type NetConfig struct {
	Address        string
	URL            string
	InputDelay     int
	CheckInterval  int
	OriginPatterns []string
}

type Config struct {
	Arena  ArenaConfig
	Player PlayerConfig
	Bullet BulletConfig
	Round  RoundConfig
	Net    NetConfig
}

func DefaultConfig() *Config {
	t := world.DefaultTuning()
	return &Config{
		Arena:  ArenaConfig{Size: t.ArenaSize, Obstacles: t.ObstacleCount},
		Player: PlayerConfig{Radius: t.PlayerRadius, Speed: t.PlayerSpeed},
		Bullet: BulletConfig{Radius: t.BulletRadius, Speed: t.BulletSpeed},
		Round: RoundConfig{
			EndMillis: int(t.RoundEndDuration / time.Millisecond),
			FrameRate: int(time.Second / t.FrameDuration),
		},
		Net: NetConfig{
			Address:       "localhost:4242",
			URL:           "ws://localhost:4242/arena",
			InputDelay:    2,
			CheckInterval: 60,
		},
	}
}

// ReadTOML reads fileName over the defaults, so a file only needs the keys it
// changes.
func ReadTOML(fileName string) (*Config, error) {
	file, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(file, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Tuning is the simulation's view of the config. Peers must agree on it.
func (c *Config) Tuning() world.Tuning {
	t := world.Tuning{
		ArenaSize:        c.Arena.Size,
		ObstacleCount:    c.Arena.Obstacles,
		PlayerRadius:     c.Player.Radius,
		PlayerSpeed:      c.Player.Speed,
		BulletRadius:     c.Bullet.Radius,
		BulletSpeed:      c.Bullet.Speed,
		RoundEndDuration: time.Duration(c.Round.EndMillis) * time.Millisecond,
	}
	if c.Round.FrameRate > 0 {
		t.FrameDuration = time.Second / time.Duration(c.Round.FrameRate)
	}
	return t
}
