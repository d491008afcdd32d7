package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/cli"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", envOr("LIFTLOG_SERVER", "http://localhost:8080"), "LiftLog server URL")
	apiKey := flag.String("api-key", os.Getenv("LIFTLOG_API_KEY"), "API key (or LIFTLOG_API_KEY)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-cli", Version)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatal("failed to get home directory: %v", err)
	}
	state, err := cli.OpenStateDB(filepath.Join(homeDir, ".liftlog"))
	if err != nil {
		fatal("failed to open state database: %v", err)
	}
	defer state.Close()

	client := cli.NewClient(strings.TrimRight(*serverURL, "/"), *apiKey)
	app := &app{client: client, state: state, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := app.run(ctx, args[0], args[1:]); err != nil {
		fatal("%v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: liftlog-cli [flags] <command> [args]

Commands:
  start <category>       start a session in a category (e.g. Push)
  exercise <name>        add an exercise to the active session
  set <reps> <weight>    log a set on the current exercise
  status                 show the active session
  finish                 end the active session and print the summary
  abort                  delete the active session and its data
  recover                repair a lost active-session pointer from the server
  stats                  show week/month totals and streak
  sessions               list recent sessions

Flags:
`)
	flag.PrintDefaults()
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "liftlog-cli: "+format+"\n", args...)
	os.Exit(1)
}

type app struct {
	client *cli.Client
	state  *cli.StateDB
	log    *slog.Logger
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "start":
		return a.start(ctx, args)
	case "exercise":
		return a.exercise(ctx, args)
	case "set":
		return a.set(ctx, args)
	case "status":
		return a.status(ctx)
	case "finish":
		return a.finish(ctx)
	case "abort":
		return a.abort(ctx)
	case "recover":
		return a.recover(ctx)
	case "stats":
		return a.stats(ctx)
	case "sessions":
		return a.sessions(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) activeSession() (uuid.UUID, error) {
	id, err := a.state.ActiveSession()
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("no active session; run 'liftlog-cli start <category>' or 'recover'")
	}
	return id, nil
}

func (a *app) start(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: start <category>")
	}

	if existing, err := a.state.ActiveSession(); err == nil && existing != uuid.Nil {
		return fmt.Errorf("a session is already active (%s); finish or abort it first", existing)
	}

	category, err := a.client.FindCategory(ctx, args[0])
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("no category named %q", args[0])
	}

	session, err := a.client.StartSession(ctx, category.ID, nil)
	if err != nil {
		return err
	}
	if err := a.state.SetActiveSession(session.ID); err != nil {
		return err
	}

	fmt.Printf("Started %s session at %s\n", category.Name, session.StartedAt.Format("15:04"))
	return nil
}

func (a *app) exercise(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: exercise <name>")
	}
	name := strings.Join(args, " ")

	sessionID, err := a.activeSession()
	if err != nil {
		return err
	}

	exercise, err := a.client.FindExercise(ctx, name)
	if err != nil {
		return err
	}
	if exercise == nil {
		exercise, err = a.client.CreateExercise(ctx, name)
		if err != nil {
			return err
		}
		fmt.Printf("Created new exercise %q\n", exercise.Name)
	}

	entry, err := a.client.AddExercise(ctx, sessionID, exercise.ID)
	if err != nil {
		return err
	}
	if err := a.state.SetActiveExercise(entry.ID); err != nil {
		return err
	}

	fmt.Printf("Now logging %s\n", exercise.Name)
	return nil
}

func (a *app) set(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: set <reps> <weight>")
	}
	reps, err := strconv.Atoi(args[0])
	if err != nil || reps < 0 {
		return fmt.Errorf("bad reps %q", args[0])
	}
	weight, err := strconv.ParseFloat(args[1], 64)
	if err != nil || weight < 0 {
		return fmt.Errorf("bad weight %q", args[1])
	}

	if _, err := a.activeSession(); err != nil {
		return err
	}
	entryID, err := a.state.ActiveExercise()
	if err != nil {
		return err
	}
	if entryID == uuid.Nil {
		return fmt.Errorf("no active exercise; run 'liftlog-cli exercise <name>' first")
	}

	set, err := a.client.AddSet(ctx, entryID, reps, weight)
	if err != nil {
		return err
	}

	fmt.Printf("Set %d: %d x %.1f (volume %.0f)\n", set.Ordinal, set.Reps, set.Weight, float64(set.Reps)*set.Weight)
	return nil
}

func (a *app) status(ctx context.Context) error {
	sessionID, err := a.state.ActiveSession()
	if err != nil {
		return err
	}
	if sessionID == uuid.Nil {
		fmt.Println("No active session")
		return nil
	}

	detail, err := a.client.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	fmt.Printf("Active session since %s\n", detail.Session.StartedAt.Format("15:04"))
	for _, ex := range detail.Exercises {
		fmt.Printf("  %s: %d sets\n", ex.ExerciseName, len(ex.Sets))
	}
	return nil
}

func (a *app) finish(ctx context.Context) error {
	sessionID, err := a.activeSession()
	if err != nil {
		return err
	}

	summary, err := a.client.FinishSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := a.state.ClearSession(); err != nil {
		return err
	}

	fmt.Printf("%s session finished: %d min, %.0f total volume\n",
		summary.CategoryName, summary.DurationMins, summary.TotalVolume)
	for _, pr := range summary.PRs {
		fmt.Printf("  PR: %s\n", pr)
	}
	return nil
}

func (a *app) abort(ctx context.Context) error {
	sessionID, err := a.activeSession()
	if err != nil {
		return err
	}

	if err := a.client.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	if err := a.state.ClearSession(); err != nil {
		return err
	}

	fmt.Println("Session aborted")
	return nil
}

func (a *app) recover(ctx context.Context) error {
	open, err := a.client.OpenSessions(ctx)
	if err != nil {
		return err
	}
	if len(open) == 0 {
		if err := a.state.ClearSession(); err != nil {
			return err
		}
		fmt.Println("No open sessions on the server; local state cleared")
		return nil
	}

	// Adopt the most recent open session.
	session := open[len(open)-1]
	if err := a.state.SetActiveSession(session.ID); err != nil {
		return err
	}
	fmt.Printf("Recovered session started %s", session.StartedAt.Format("Mon 15:04"))
	if len(open) > 1 {
		fmt.Printf(" (%d other open sessions remain; finish or abort them via the API)", len(open)-1)
	}
	fmt.Println()
	return nil
}

func (a *app) stats(ctx context.Context) error {
	summary, err := a.client.StatsSummary(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("This week:  %d sessions, %.0f volume, %d min\n",
		summary.Week.Sessions, summary.Week.Volume, summary.Week.Minutes)
	fmt.Printf("This month: %d sessions, %.0f volume, %d min\n",
		summary.Month.Sessions, summary.Month.Volume, summary.Month.Minutes)
	fmt.Printf("Streak:     %d day(s)\n", summary.StreakDays)
	return nil
}

func (a *app) sessions(ctx context.Context) error {
	sessions, err := a.client.ListSessions(ctx, 10)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions logged yet")
		return nil
	}

	for _, s := range sessions {
		state := "open"
		if s.EndedAt != nil {
			state = fmt.Sprintf("%d min", int(s.EndedAt.Sub(s.StartedAt).Minutes()))
		}
		fmt.Printf("%s  %s  %s\n", s.StartedAt.Format("2006-01-02 15:04"), s.ID, state)
	}
	return nil
}
