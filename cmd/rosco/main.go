// cmd/rosco/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"roscointegra/internal/bank"
	"roscointegra/internal/config"
	"roscointegra/internal/game"
	"roscointegra/internal/models"
	"roscointegra/internal/narrator"
	"roscointegra/internal/scores"
	"roscointegra/internal/store"
	"roscointegra/internal/timer"
)

func main() {
	logger := logrus.New()
	if os.Getenv("DEBUG") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Load()
	bankPath := flag.String("bank", cfg.BankPath, "path to the question bank JSON file")
	player := flag.String("player", cfg.PlayerName, "player name for the score ledger")
	flag.Parse()
	cfg.BankPath = *bankPath
	cfg.PlayerName = *player

	ctx := context.Background()

	kv, err := openStore(cfg)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	keeper, closeKeeper, err := openKeeper(ctx, cfg, kv, logger)
	if err != nil {
		logger.Fatalf("open score ledger: %v", err)
	}
	defer closeKeeper()

	set, err := loadWheel(cfg, logger)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	clock := timer.New()
	session := game.NewSession(clock, logger)
	session.PlayerName = cfg.PlayerName
	session.PointsPerCorrect = cfg.PointsCorrect
	session.PenaltyPerWrong = cfg.PenaltyWrong
	session.TotalSeconds = cfg.TotalSeconds
	if cfg.AudioEnabled {
		session.Narrator = narrator.NewTTS(cfg.AudioCacheDir, cfg.AudioLang, logger)
	} else {
		session.Narrator = narrator.Muted{}
	}

	r := newRenderer(session)
	session.NotifyFn = r.handle

	// OnGameEnd fires on the countdown goroutine when time runs out, so
	// the shared summary needs its own guard.
	var latest summaryBox
	session.OnGameEnd = func(sum *game.Summary) {
		latest.set(sum)
		entry := models.ScoreEntry{
			ID:         uuid.New(),
			PlayerName: sum.PlayerName,
			Score:      sum.Score,
			Timestamp:  sum.Timestamp,
		}
		if err := keeper.Append(ctx, entry); err != nil {
			logger.WithError(err).Error("failed to persist score")
		}
		r.printSummary(sum)
		printTop(ctx, keeper)
	}

	if err := session.Start(set); err != nil {
		logger.Fatalf("start session: %v", err)
	}

	fmt.Println("commands: reveal, pass, ok, ko, prev, pause, resume, reset, new, scores, export, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "reveal", "r":
			session.Reveal()
		case "pass", "p":
			session.Pass()
		case "ok", "c":
			session.JudgeCorrect()
		case "ko", "w":
			session.JudgeWrong()
		case "prev":
			session.Previous()
		case "pause":
			session.PauseClock()
		case "resume":
			session.ResumeClock()
		case "reset":
			session.ResetClock()
		case "new":
			session.NewGame()
			set, err = loadWheel(cfg, logger)
			if err != nil {
				logger.Errorf("%v", err)
				continue
			}
			if err := session.Start(set); err != nil {
				logger.Errorf("start session: %v", err)
			}
		case "scores":
			printTop(ctx, keeper)
		case "export":
			exportResults(cfg, latest.get(), keeper, logger)
		case "status":
			r.printWheel()
		case "quit", "exit", "q":
			session.NewGame()
			return
		case "":
		default:
			fmt.Println("commands: reveal, pass, ok, ko, prev, pause, resume, reset, new, scores, export, quit")
		}
	}
}

// summaryBox holds the most recent finished-game summary. The session
// end hook writes it from the countdown goroutine while the command
// loop reads it, so access is serialized here.
type summaryBox struct {
	mu  sync.Mutex
	sum *game.Summary
}

func (b *summaryBox) set(sum *game.Summary) {
	b.mu.Lock()
	b.sum = sum
	b.mu.Unlock()
}

func (b *summaryBox) get() *game.Summary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sum
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "redis":
		return store.NewRedisStore(cfg.RedisAddr, cfg.RedisDB, "roscointegra")
	default:
		return store.NewFileStore(cfg.StorePath), nil
	}
}

func openKeeper(ctx context.Context, cfg *config.Config, kv store.Store, logger *logrus.Logger) (scores.Keeper, func(), error) {
	if cfg.ScoreBackend == "postgres" {
		pg, err := scores.NewPostgresLedger(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	}
	return scores.NewLedger(kv, logger), func() {}, nil
}

// loadWheel validates the bank, applies the configured filters and
// builds a fresh game set.
func loadWheel(cfg *config.Config, logger *logrus.Logger) (*game.GameSet, error) {
	raw, err := bank.Load(cfg.BankPath)
	if err != nil {
		return nil, err
	}
	b, summary, err := bank.Validate(raw)
	if err != nil {
		return nil, err
	}
	for _, line := range summary.Logs {
		logger.Info(line)
	}
	logger.WithFields(logrus.Fields{
		"questions":  summary.Total,
		"duplicates": summary.DuplicateCount,
		"missing":    strings.Join(summary.MissingLetters, ","),
	}).Info("bank loaded")

	f := bank.Filter{Cycle: cfg.FilterCycle, Module: cfg.FilterModule, Difficulty: cfg.FilterDifficulty}
	filtered := f.Apply(b.Questions)
	if len(filtered) == 0 {
		return nil, game.ErrNoQuestionsAfterFilter
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return game.BuildGameSet(b.LetterOrder, filtered, cfg.Shuffle, rng), nil
}

func printTop(ctx context.Context, keeper scores.Keeper) {
	entries, err := keeper.Top(ctx)
	if err != nil {
		color.Red("could not load top scores: %v", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("no scores yet")
		return
	}
	bold := color.New(color.Bold)
	bold.Println("top scores")
	for i, e := range entries {
		name := e.PlayerName
		if name == "" {
			name = "-"
		}
		fmt.Printf("%2d. %-20s %5d  %s\n", i+1, name, e.Score, e.Timestamp.Format("2006-01-02 15:04"))
	}
}

func exportResults(cfg *config.Config, sum *game.Summary, keeper scores.Keeper, logger *logrus.Logger) {
	if sum == nil {
		fmt.Println("nothing to export: finish a game first")
		return
	}
	payload := game.BuildExport(sum, game.ConfigSnapshot{
		PlayerName:    cfg.PlayerName,
		TotalSeconds:  cfg.TotalSeconds,
		PointsCorrect: cfg.PointsCorrect,
		PenaltyWrong:  cfg.PenaltyWrong,
		Shuffle:       cfg.Shuffle,
		Cycle:         cfg.FilterCycle,
		Module:        cfg.FilterModule,
		Difficulty:    cfg.FilterDifficulty,
		BankSource:    cfg.BankPath,
	})
	data, err := payload.MarshalIndent()
	if err != nil {
		logger.WithError(err).Error("marshal export payload")
		return
	}
	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		logger.WithError(err).Error("create export dir")
		return
	}
	path := filepath.Join(cfg.ExportDir, fmt.Sprintf("rosco_results_%d.json", time.Now().Unix()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.WithError(err).Error("write export file")
		return
	}
	fmt.Printf("results written to %s\n", path)

	entries, err := keeper.Top(context.Background())
	if err == nil && len(entries) > 0 {
		if csvData, err := scores.ExportCSV(entries); err == nil {
			csvPath := filepath.Join(cfg.ExportDir, "rosco_top_scores.csv")
			if err := os.WriteFile(csvPath, csvData, 0o644); err == nil {
				fmt.Printf("top scores written to %s\n", csvPath)
			}
		}
	}
}
