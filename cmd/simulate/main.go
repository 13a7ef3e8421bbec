// Command simulate runs bot-vs-bot games in process and prints a summary.
// It soaks the engine and compares strategy levels without a Nakama server
// in the loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"liaptui/internal/app"
	"liaptui/internal/bot"
	"liaptui/internal/ports"
	"liaptui/internal/ports/sqlite"
)

type outcome struct {
	rounds  int
	actions uint64
	winners []string
	stalled bool
}

func main() {
	games := flag.Int("games", 10, "number of games to run")
	levelsCSV := flag.String("levels", "standard,greedy,cautious,master", "comma separated strategy levels, one per seat")
	win := flag.Int("win", 50, "cumulative score that ends a game")
	seed := flag.Int64("seed", 0, "rng seed, 0 uses the clock")
	journal := flag.String("journal", "", "sqlite event journal path, empty disables")
	stall := flag.Duration("stall", 30*time.Second, "per-game deadline before a run counts as stalled")
	verbose := flag.Bool("v", false, "log engine internals")
	flag.Parse()

	logLevel := zerolog.WarnLevel
	if *verbose {
		logLevel = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(logLevel).
		With().Timestamp().Logger()

	levels := parseLevels(*levelsCSV)
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	var store *sqlite.Store
	if *journal != "" {
		st, err := sqlite.New(*journal)
		if err != nil {
			log.Fatal().Err(err).Msg("journal open failed")
		}
		store = st
		defer store.Close()
	}

	levelByPlayer := make(map[string]bot.Level)
	winsByLevel := make(map[bot.Level]int)
	rooms := make([]string, 0, *games)

	start := time.Now()
	var outcomes []outcome
	for i := 0; i < *games; i++ {
		roomID := "sim-" + uuid.NewString()[:8]
		rooms = append(rooms, roomID)
		o := runGame(log, store, roomID, levels, *win, *seed+int64(i), *stall, levelByPlayer)
		outcomes = append(outcomes, o)
		for _, w := range o.winners {
			winsByLevel[levelByPlayer[w]]++
		}
		log.Info().
			Str("room", roomID).
			Int("rounds", o.rounds).
			Uint64("actions", o.actions).
			Strs("winners", o.winners).
			Bool("stalled", o.stalled).
			Msg("game finished")
	}
	elapsed := time.Since(start)

	printSummary(outcomes, winsByLevel, elapsed, store, *journal, rooms)
}

// runGame drives one room from lobby to game over on bot decisions alone.
// Timers are parked far out so a stalled bot trips the deadline instead of
// hiding behind the timeout fallback.
func runGame(log zerolog.Logger, store *sqlite.Store, roomID string, levels []bot.Level, win int, seed int64, stall time.Duration, levelByPlayer map[string]bot.Level) outcome {
	var journal ports.EventStore
	if store != nil {
		journal = store
	}

	var coord *bot.Coordinator
	m := app.NewGameMachine(roomID, log, nil, journal, app.Options{
		RedealTimeout:  time.Hour,
		RedealWarning:  time.Minute,
		DeclareTimeout: time.Hour,
		PlayTimeout:    time.Hour,
		WinThreshold:   win,
		BotFeedSize:    4096,
		Rand:           rand.New(rand.NewSource(seed)),
		BotIdentity: func(seat int) (string, string) {
			level := levels[seat%len(levels)]
			identity := bot.IdentityForSeat(seat, level)
			strategy, err := bot.NewStrategy(level)
			if err != nil {
				strategy = &bot.StandardStrategy{}
			}
			coord.Register(bot.NewAgent(identity.ID, identity.Name, strategy))
			levelByPlayer[identity.ID] = level
			return identity.ID, identity.Name
		},
	})
	coord = bot.NewCoordinator(log, m, bot.CoordinatorOptions{
		MinThinkDelay: time.Millisecond,
		MaxThinkDelay: 5 * time.Millisecond,
		Rand:          rand.New(rand.NewSource(seed + 1)),
	})

	hostLevel := levels[0]
	hostID := "host-" + roomID
	strategy, err := bot.NewStrategy(hostLevel)
	if err != nil {
		strategy = &bot.StandardStrategy{}
	}
	coord.Register(bot.NewAgent(hostID, "Host", strategy))
	levelByPlayer[hostID] = hostLevel

	coord.Start()
	if err := m.Start(app.PhaseWaiting); err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("machine start failed")
		return outcome{stalled: true}
	}
	m.HandleAction(app.Action{Kind: app.ActionJoin, PlayerID: hostID, Name: "Host", IsBot: true, Source: app.SourceBot})
	m.HandleAction(app.Action{Kind: app.ActionStartGame, PlayerID: hostID, Source: app.SourceBot})

	deadline := time.Now().Add(stall)
	stalled := false
	for m.CurrentPhase() != app.PhaseGameOver {
		if time.Now().After(deadline) {
			snap := m.Snapshot()
			log.Error().
				Str("room", roomID).
				Str("phase", snap.Phase).
				Int("round", snap.Round).
				Msg("game stalled")
			stalled = true
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	snap := m.Snapshot()
	m.Stop()
	coord.Wait()

	return outcome{
		rounds:  snap.Round,
		actions: snap.Seq,
		winners: snap.Winners,
		stalled: stalled,
	}
}

func parseLevels(csv string) []bot.Level {
	parts := strings.Split(csv, ",")
	levels := make([]bot.Level, 0, len(parts))
	for _, p := range parts {
		levels = append(levels, bot.ParseLevel(strings.TrimSpace(p)))
	}
	if len(levels) == 0 {
		levels = []bot.Level{bot.LevelStandard}
	}
	return levels
}

func printSummary(outcomes []outcome, winsByLevel map[bot.Level]int, elapsed time.Duration, store *sqlite.Store, journalPath string, rooms []string) {
	var totalActions uint64
	minRounds, maxRounds, sumRounds, stalls := 0, 0, 0, 0
	for i, o := range outcomes {
		totalActions += o.actions
		sumRounds += o.rounds
		if i == 0 || o.rounds < minRounds {
			minRounds = o.rounds
		}
		if o.rounds > maxRounds {
			maxRounds = o.rounds
		}
		if o.stalled {
			stalls++
		}
	}

	fmt.Printf("games:    %s (%d stalled)\n", humanize.Comma(int64(len(outcomes))), stalls)
	fmt.Printf("actions:  %s total\n", humanize.Comma(int64(totalActions)))
	if n := len(outcomes); n > 0 {
		fmt.Printf("rounds:   min %d  avg %.1f  max %d\n", minRounds, float64(sumRounds)/float64(n), maxRounds)
		fmt.Printf("took:     %s (%s per game)\n", elapsed.Round(time.Millisecond), (elapsed / time.Duration(n)).Round(time.Millisecond))
	}

	fmt.Println("wins by level:")
	order := make([]bot.Level, 0, len(winsByLevel))
	for level := range winsByLevel {
		order = append(order, level)
	}
	sort.Slice(order, func(i, j int) bool { return winsByLevel[order[i]] > winsByLevel[order[j]] })
	for _, level := range order {
		fmt.Printf("  %-10s %d\n", level, winsByLevel[level])
	}

	if store != nil {
		total := 0
		for _, room := range rooms {
			n, err := store.CountForRoom(context.Background(), room)
			if err != nil {
				continue
			}
			total += n
		}
		size := ""
		if fi, err := os.Stat(journalPath); err == nil {
			size = " (" + humanize.Bytes(uint64(fi.Size())) + ")"
		}
		fmt.Printf("journal:  %s events in %s%s\n", humanize.Comma(int64(total)), journalPath, size)
	}
}
