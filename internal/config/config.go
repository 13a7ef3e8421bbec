package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// DefaultPath is where the engine looks for its configuration when neither
// the caller nor LIAPTUI_CONFIG names a file.
const DefaultPath = "data/engine_config.json"

// EngineConfig carries every tunable the engine reads at startup. Zero
// values fall back to the getter defaults, so a partial file is fine.
type EngineConfig struct {
	RedealTimeoutSeconds  int    `json:"redeal_timeout_seconds"`
	RedealWarningSeconds  int    `json:"redeal_warning_seconds"`
	DeclareTimeoutSeconds int    `json:"declare_timeout_seconds"`
	PlayTimeoutSeconds    int    `json:"play_timeout_seconds"`
	WinThreshold          int    `json:"win_threshold"`
	MaxRedeals            int    `json:"max_redeals"`
	BotMinDelayMillis     int    `json:"bot_min_delay_ms"`
	BotMaxDelayMillis     int    `json:"bot_max_delay_ms"`
	BotLevel              string `json:"bot_level"`
	BotIdentitiesPath     string `json:"bot_identities_path"`
	EventStorePath        string `json:"event_store_path"`
}

var (
	cfg      *EngineConfig
	loadOnce sync.Once
	loadErr  error
)

// Load reads the engine configuration once. An empty path falls back to
// LIAPTUI_CONFIG, then to DefaultPath. Environment overrides are applied
// after the file parses. A missing file leaves every getter at its default.
func Load(path string) error {
	loadOnce.Do(func() {
		if path == "" {
			path = os.Getenv("LIAPTUI_CONFIG")
		}
		if path == "" {
			path = DefaultPath
		}

		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read engine config: %w", err)
			return
		}

		var c EngineConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal engine config: %w", err)
			return
		}
		applyEnvOverrides(&c)
		cfg = &c
	})
	return loadErr
}

func applyEnvOverrides(c *EngineConfig) {
	overrideInt("LIAPTUI_REDEAL_TIMEOUT_SECONDS", &c.RedealTimeoutSeconds)
	overrideInt("LIAPTUI_REDEAL_WARNING_SECONDS", &c.RedealWarningSeconds)
	overrideInt("LIAPTUI_DECLARE_TIMEOUT_SECONDS", &c.DeclareTimeoutSeconds)
	overrideInt("LIAPTUI_PLAY_TIMEOUT_SECONDS", &c.PlayTimeoutSeconds)
	overrideInt("LIAPTUI_WIN_THRESHOLD", &c.WinThreshold)
	overrideInt("LIAPTUI_MAX_REDEALS", &c.MaxRedeals)
	overrideInt("LIAPTUI_BOT_MIN_DELAY_MS", &c.BotMinDelayMillis)
	overrideInt("LIAPTUI_BOT_MAX_DELAY_MS", &c.BotMaxDelayMillis)
	overrideString("LIAPTUI_BOT_LEVEL", &c.BotLevel)
	overrideString("LIAPTUI_BOT_IDENTITIES", &c.BotIdentitiesPath)
	overrideString("LIAPTUI_EVENT_STORE", &c.EventStorePath)
}

func overrideInt(name string, target *int) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return
	}
	*target = v
}

func overrideString(name string, target *string) {
	if raw := os.Getenv(name); raw != "" {
		*target = raw
	}
}

func get() EngineConfig {
	if cfg == nil {
		return EngineConfig{}
	}
	return *cfg
}

// RedealTimeout is the weak-hand decision window.
func RedealTimeout() time.Duration { return seconds(get().RedealTimeoutSeconds, 30) }

// RedealWarning is the elapsed time before the pending-decision warning.
func RedealWarning() time.Duration { return seconds(get().RedealWarningSeconds, 20) }

// DeclareTimeout is the per-player declaration window.
func DeclareTimeout() time.Duration { return seconds(get().DeclareTimeoutSeconds, 30) }

// PlayTimeout is the per-play window during tricks.
func PlayTimeout() time.Duration { return seconds(get().PlayTimeoutSeconds, 30) }

// WinThreshold is the cumulative score that ends the game.
func WinThreshold() int { return intOr(get().WinThreshold, 50) }

// MaxRedeals caps redeal waves per round.
func MaxRedeals() int { return intOr(get().MaxRedeals, 3) }

// BotMinDelay and BotMaxDelay bound the bot think pause.
func BotMinDelay() time.Duration { return millis(get().BotMinDelayMillis, 500) }

func BotMaxDelay() time.Duration { return millis(get().BotMaxDelayMillis, 2000) }

// BotLevel names the strategy level for machine-filled seats.
func BotLevel() string {
	if v := get().BotLevel; v != "" {
		return v
	}
	return "standard"
}

// BotIdentitiesPath points at the bot identity pool file.
func BotIdentitiesPath() string {
	if v := get().BotIdentitiesPath; v != "" {
		return v
	}
	return "data/bot_identities.json"
}

// EventStorePath points at the sqlite journal. Empty disables journaling.
func EventStorePath() string { return get().EventStorePath }

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}

func millis(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Millisecond
}

func intOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
