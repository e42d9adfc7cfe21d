package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/starshipfactory/memberctl/internal/api"
	"github.com/starshipfactory/memberctl/internal/db"
	"github.com/starshipfactory/memberctl/internal/ui"
)

const (
	defaultDBPath  = "memberctl.db"
	defaultLogPath = "memberctl.log"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	urlFlag := flag.String("url", "", "Base URL of the membership system")
	cookieFlag := flag.String("cookie", "", "Admin session cookie value")
	dbPath := flag.String("db", "", "Path to the local SQLite snapshot database (- disables it)")
	logPath := flag.String("log", "", "Path to the log file")
	applyFlag := flag.Bool("apply", false, "Fill in a membership request instead of opening the admin console")
	flag.Parse()

	logger, logFile, err := setupLogger(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	baseURL := *urlFlag
	if baseURL == "" {
		baseURL = os.Getenv("MEMBERSYS_URL")
	}
	if baseURL == "" {
		baseURL, err = ui.PromptForBaseURL()
		if err != nil {
			os.Exit(1)
		}
	}

	if *applyFlag {
		// The public membership request form needs no session.
		client := api.NewClient(baseURL, "", logger)
		if err := ui.RunApplicationForm(client); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	cookie := *cookieFlag
	if cookie == "" {
		cookie = os.Getenv("MEMBERSYS_COOKIE")
	}
	if cookie == "" {
		cookie, err = ui.PromptForSessionCookie()
		if err != nil {
			os.Exit(1)
		}
	}

	client := api.NewClient(baseURL, cookie, logger)

	var checkErr error
	err = ui.RunWithSpinner("Verbindung wird geprüft...", func() {
		_, checkErr = client.FetchMembers("")
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if checkErr != nil {
		fmt.Fprintf(os.Stderr, "Keine Verbindung zum Mitgliedersystem: %v\n", checkErr)
		fmt.Fprintln(os.Stderr, "Stimmen Adresse und Session-Cookie?")
		os.Exit(1)
	}

	store, err := openStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
		if n, err := store.CountMembers(); err == nil {
			logger.Info("snapshot database opened", "members", n)
		}
	} else {
		logger.Info("local snapshot database disabled")
	}

	if err := ui.RunConsole(client, store, logger); err != nil {
		logger.Error("console failed", "err", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// setupLogger writes structured logs to a file so they do not fight
// the console for the terminal.
func setupLogger(path string) (*log.Logger, *os.File, error) {
	if path == "" {
		path = os.Getenv("MEMBERCTL_LOG")
	}
	if path == "" {
		path = defaultLogPath
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
	})
	return logger, f, nil
}

// openStore opens the local snapshot database. Passing "-" disables
// it entirely.
func openStore(path string) (*db.DB, error) {
	if path == "" {
		path = os.Getenv("MEMBERCTL_DB")
	}
	if path == "" {
		path = defaultDBPath
	}
	if path == "-" {
		return nil, nil
	}
	return db.New(path)
}
