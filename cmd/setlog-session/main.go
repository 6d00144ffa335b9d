// Command setlog-session runs an interactive workout session against a
// Setlog server: it fetches the workout's exercises, tracks sets, rest, and
// elapsed time, and submits the finished log. Submissions that fail are
// queued in a local outbox and can be retried with -flush.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/claude/setlog/internal/client"
	"github.com/claude/setlog/internal/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "Setlog server URL (e.g. https://setlog.tail1234.ts.net)")
	workoutID := flag.Int("workout", 0, "workout id to start a session for")
	email := flag.String("email", "", "account email (omit to log anonymously)")
	password := flag.String("password", "", "account password")
	flush := flag.Bool("flush", false, "retry queued submissions and exit")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("setlog-session", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: setlog-session -server <URL> -workout <id> [-email E -password P]\n")
		fmt.Fprintf(os.Stderr, "       setlog-session -server <URL> -flush [-email E -password P]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	api := client.New(*serverURL)
	ctx := context.Background()

	if *email != "" {
		if err := api.Login(ctx, *email, *password); err != nil {
			fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
			os.Exit(1)
		}
	}

	outbox, err := openOutbox()
	if err != nil {
		log.Error("opening outbox", "error", err)
		os.Exit(1)
	}
	defer outbox.Close()

	if *flush {
		flushed, err := outbox.Flush(ctx, api)
		fmt.Printf("flushed %d queued submission(s)\n", flushed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "some submissions still queued: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *workoutID <= 0 {
		fmt.Fprintf(os.Stderr, "Error: -workout is required\n")
		os.Exit(1)
	}

	tracker := session.New(*workoutID, session.TickerScheduler{})
	defer tracker.Stop()

	// Fetch the workout and its exercises. Either failing is non-fatal: the
	// session starts empty and the log can still be recorded.
	workout, err := api.GetWorkout(ctx, *workoutID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (starting empty session)\n", err)
	}
	exercises, err := api.GetWorkoutExercises(ctx, *workoutID)
	if err != nil && workout != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (starting empty session)\n", err)
	}
	tracker.Begin(workout, exercises)

	if workout != nil {
		fmt.Printf("Session started: %s\n", workout.Title)
	} else {
		fmt.Printf("Session started: workout %d\n", *workoutID)
	}
	printState(tracker)
	fmt.Println(`Commands: show | set <ex> <set> <reps> <weight> | done <ex> <set> | pause | rest +N|-N|skip | finish | quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println("\nsession abandoned")
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "show":
			printState(tracker)

		case "set":
			if len(fields) != 5 {
				fmt.Println("usage: set <exercise#> <set#> <reps> <weight>")
				continue
			}
			exIdx, setIdx, ok := parseIndexes(fields[1], fields[2])
			if !ok {
				fmt.Println("exercise# and set# must be numbers (1-based)")
				continue
			}
			if err := tracker.UpdateSet(exIdx, setIdx, fields[3], fields[4]); err != nil {
				fmt.Println(err)
			}

		case "done":
			if len(fields) != 3 {
				fmt.Println("usage: done <exercise#> <set#>")
				continue
			}
			exIdx, setIdx, ok := parseIndexes(fields[1], fields[2])
			if !ok {
				fmt.Println("exercise# and set# must be numbers (1-based)")
				continue
			}
			if err := tracker.ToggleSet(exIdx, setIdx); err != nil {
				fmt.Println(err)
			} else {
				printState(tracker)
			}

		case "pause":
			if tracker.TogglePause() {
				fmt.Println("paused")
			} else {
				fmt.Println("resumed")
			}

		case "rest":
			if len(fields) != 2 {
				fmt.Println("usage: rest +N | rest -N | rest skip")
				continue
			}
			if fields[1] == "skip" {
				tracker.SkipRest()
				continue
			}
			delta, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: rest +N | rest -N | rest skip")
				continue
			}
			tracker.AdjustRest(delta)

		case "finish":
			finish(ctx, tracker, api, outbox)
			return

		case "quit":
			fmt.Println("session abandoned")
			return

		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func openOutbox() (*client.Outbox, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return client.OpenOutbox(filepath.Join(homeDir, ".setlog"))
}

// parseIndexes converts 1-based user input to 0-based tracker indexes.
func parseIndexes(exStr, setStr string) (int, int, bool) {
	ex, err := strconv.Atoi(exStr)
	if err != nil {
		return 0, 0, false
	}
	set, err := strconv.Atoi(setStr)
	if err != nil {
		return 0, 0, false
	}
	return ex - 1, set - 1, true
}

func printState(t *session.Tracker) {
	fmt.Printf("elapsed %s", formatClock(t.Elapsed()))
	if t.Paused() {
		fmt.Print(" (paused)")
	}
	if resting, remaining := t.Resting(); resting {
		fmt.Printf("  rest %ds", remaining)
	}
	fmt.Println()

	for i, ex := range t.Exercises() {
		fmt.Printf("%d. %s\n", i+1, ex.Exercise.Name)
		for j, set := range ex.Sets {
			mark := " "
			if set.Completed {
				mark = "x"
			}
			fmt.Printf("   [%s] set %d: %s reps @ %s kg\n", mark, j+1, set.Reps, set.Weight)
		}
	}
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func finish(ctx context.Context, t *session.Tracker, api *client.Client, outbox *client.Outbox) {
	summary := t.Finish()

	fmt.Println("\n=== Session Summary ===")
	fmt.Printf("  Duration:       %s\n", formatClock(summary.DurationSeconds))
	fmt.Printf("  Sets completed: %d / %d\n", summary.SetsCompleted, summary.TotalSets)
	fmt.Printf("  Total volume:   %.1f kg\n", summary.TotalVolume)

	sub := t.Submission()

	submitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	id, err := api.SubmitLog(submitCtx, sub)
	if err != nil {
		fmt.Fprintf(os.Stderr, "submit failed: %v\n", err)
		if qid, qerr := outbox.Save(sub); qerr != nil {
			fmt.Fprintf(os.Stderr, "queueing failed too, log lost: %v\n", qerr)
			os.Exit(1)
		} else {
			fmt.Printf("log queued locally (%s); run with -flush to retry\n", qid)
		}
		return
	}
	fmt.Printf("log saved (id %d)\n", id)
}
