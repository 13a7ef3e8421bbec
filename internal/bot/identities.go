package bot

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Identity describes one bot profile: a stable player id, a display name and
// the strategy level the bot plays at.
type Identity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Level       string `json:"level"` // "standard", "greedy", "cautious", "master"
	AvatarIndex int    `json:"avatar_index"`
}

var (
	identityMu    sync.Mutex
	botIdentities []Identity
	botIDMap      map[string]bool
	botConfigMap  map[string]Identity
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profile pool from the given path. Without a
// pool the engine mints throwaway identities instead, so a missing file is
// reported but not fatal to callers that can live with generated bots.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var pool []Identity
		if err := json.Unmarshal(data, &pool); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		identityMu.Lock()
		defer identityMu.Unlock()
		for _, identity := range pool {
			if identity.ID == "" {
				continue
			}
			botIdentities = append(botIdentities, identity)
			registerLocked(identity)
		}
	})
	return loadErr
}

// IdentityForSeat returns a pooled identity by seat index, or mints a fresh
// one when no pool is loaded. Either way the id is registered as a bot.
func IdentityForSeat(seat int, level Level) Identity {
	identityMu.Lock()
	defer identityMu.Unlock()

	var identity Identity
	if len(botIdentities) > 0 {
		identity = botIdentities[seat%len(botIdentities)]
	} else {
		identity = Identity{
			ID:    "bot-" + uuid.NewString(),
			Name:  generateFriendlyName(),
			Level: level.String(),
		}
	}
	registerLocked(identity)
	return identity
}

func registerLocked(identity Identity) {
	if botIDMap == nil {
		botIDMap = make(map[string]bool)
		botConfigMap = make(map[string]Identity)
	}
	botIDMap[identity.ID] = true
	botConfigMap[identity.ID] = identity
}

// IsBot reports whether the given player id belongs to a registered bot.
func IsBot(playerID string) bool {
	identityMu.Lock()
	defer identityMu.Unlock()
	return botIDMap[playerID]
}

// GetBotConfig returns the full identity for a registered bot id.
func GetBotConfig(playerID string) (Identity, bool) {
	identityMu.Lock()
	defer identityMu.Unlock()
	config, ok := botConfigMap[playerID]
	return config, ok
}

// AllBotIDs returns the ids of every registered bot.
func AllBotIDs() []string {
	identityMu.Lock()
	defer identityMu.Unlock()
	ids := make([]string, 0, len(botIDMap))
	for id := range botIDMap {
		ids = append(ids, id)
	}
	return ids
}

func generateFriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}

	adj := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	num := rand.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
