package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/arenalabs/quizarena-backend/internal/clientsession"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"golang.org/x/term"
)

// Minimal terminal test client. Logs in, starts a session, collects
// answers, and submits with the locally tracked elapsed time. The timer
// start time is persisted to disk so restarting the client resumes the
// same countdown.

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *client) do(method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Error != nil {
		return fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	}
	if out != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func main() {
	var serverURL, email string
	flag.StringVar(&serverURL, "server", "http://localhost:8080", "Backend base URL")
	flag.StringVar(&email, "email", "", "Participant email")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, _ := reader.ReadString('\n')
		email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		os.Exit(1)
	}
	fmt.Println()

	c := &client{baseURL: serverURL, http: &http.Client{Timeout: 15 * time.Second}}

	// ─── Login ─────────────────────────────────────────────────────────
	var loginResp struct {
		Token string `json:"token"`
	}
	err = c.do(http.MethodPost, "/api/v1/auth/participant/login", map[string]string{
		"email":    email,
		"password": string(bytePassword),
	}, &loginResp)
	if err != nil {
		fmt.Println("Login failed:", err)
		os.Exit(1)
	}
	c.token = loginResp.Token
	fmt.Println("Logged in.")

	// ─── Start Session ─────────────────────────────────────────────────
	var startResp struct {
		Round model.RoundPayload `json:"round"`
	}
	if err := c.do(http.MethodPost, "/api/v1/session/start", nil, &startResp); err != nil {
		fmt.Println("Could not start session:", err)
		os.Exit(1)
	}
	round := startResp.Round

	fmt.Printf("\n=== %s (round %d, %d minutes, %d questions) ===\n\n",
		round.Name, round.Seq, round.TimeLimitMinutes, len(round.Questions))

	// ─── Local Timer ───────────────────────────────────────────────────
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}
	store := clientsession.NewFileStore(filepath.Join(cacheDir, "quizarena", "timer.json"))
	timer := clientsession.NewTimer(round.RoundID.String(), round.TimeLimitMinutes, clientsession.SystemClock{}, store)
	if err := timer.Start(); err != nil {
		fmt.Println("Timer error:", err)
		os.Exit(1)
	}

	answers := make(map[int]string, len(round.Questions))
	submitCh := make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := clientsession.NewRunner(timer, clientsession.Callbacks{
		OnExpire: func() {
			fmt.Println("\n\nTime is up! Submitting automatically...")
			submitCh <- struct{}{}
		},
	})
	go runner.Run(ctx)

	// ─── Answer Loop ───────────────────────────────────────────────────
	fmt.Println("Commands: answer <n> <text> | show | time | submit | cancel")
	inputCh := make(chan string)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				close(inputCh)
				return
			}
			inputCh <- strings.TrimSpace(line)
		}
	}()

loop:
	for {
		fmt.Print("> ")
		select {
		case <-submitCh:
			break loop
		case line, ok := <-inputCh:
			if !ok {
				break loop
			}
			switch {
			case line == "submit":
				break loop
			case line == "cancel":
				// Abandon without grading: release the session claim so
				// the round can be retried, then drop local timer state.
				if err := c.do(http.MethodPost, "/api/v1/session/release", nil, nil); err != nil {
					fmt.Println("Cancel failed:", err)
					continue
				}
				_ = timer.Terminate()
				fmt.Println("Session cancelled.")
				return
			case line == "time":
				fmt.Printf("Remaining: %s\n", timer.Remaining().Round(time.Second))
			case line == "show":
				for i, q := range round.Questions {
					marker := " "
					if _, ok := answers[i]; ok {
						marker = "*"
					}
					fmt.Printf("%s %2d. [%s] %s\n", marker, i+1, q.QuestionType, q.Prompt)
					if len(q.Options) > 0 {
						var opts []string
						if json.Unmarshal(q.Options, &opts) == nil {
							for _, opt := range opts {
								fmt.Printf("       - %s\n", opt)
							}
						}
					}
				}
			case strings.HasPrefix(line, "answer "):
				parts := strings.SplitN(line, " ", 3)
				if len(parts) < 3 {
					fmt.Println("Usage: answer <n> <text>")
					continue
				}
				n, err := strconv.Atoi(parts[1])
				if err != nil || n < 1 || n > len(round.Questions) {
					fmt.Println("Invalid question number")
					continue
				}
				answers[n-1] = parts[2]
			default:
				if line != "" {
					fmt.Println("Unknown command")
				}
			}
		}
	}

	// ─── Submit ────────────────────────────────────────────────────────
	elapsed, err := timer.BeginSubmit()
	if err != nil {
		elapsed = int(timer.Elapsed().Seconds())
	}

	submitAnswers := make([]model.SubmitAnswer, 0, len(answers))
	for idx, text := range answers {
		submitAnswers = append(submitAnswers, model.SubmitAnswer{
			QuestionID: round.Questions[idx].ID,
			AnswerText: text,
		})
	}

	err = c.do(http.MethodPost, "/api/v1/session/submit", model.SubmitRequest{
		RoundID:        round.RoundID,
		ElapsedSeconds: elapsed,
		Answers:        submitAnswers,
	}, nil)
	if err != nil {
		fmt.Println("Submit failed:", err)
		os.Exit(1)
	}

	_ = timer.Terminate()
	fmt.Printf("Submitted %d answers in %ds. Good luck!\n", len(submitAnswers), elapsed)
}
