// Package shell is the interactive front end: a slash-command loop that
// mounts one screen controller at a time and renders its state as text.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"CareerNav/internal/api"
	"CareerNav/internal/auth"
	"CareerNav/internal/config"
	"CareerNav/internal/guidance"
	"CareerNav/internal/interview"
	"CareerNav/internal/screen"
	"CareerNav/internal/session"
)

const loginPrompt = "You are not logged in or your session has expired. Use /login <email> <password> or /signup."

// Shell represents the main application
type Shell struct {
	cfg      *config.Config
	client   *api.Client
	store    *session.Store
	auth     *auth.Service
	logger   *slog.Logger
	commands metric.Int64Counter

	in  io.Reader
	out io.Writer

	guidance  *guidance.Controller
	interview *interview.Controller
}

// New creates a Shell reading commands from in and writing to out. A nil
// meter falls back to the global one.
func New(cfg *config.Config, client *api.Client, store *session.Store, logger *slog.Logger, meter metric.Meter, in io.Reader, out io.Writer) (*Shell, error) {
	if meter == nil {
		meter = otel.Meter("careernav/shell")
	}
	commands, err := meter.Int64Counter("shell.commands", metric.WithDescription("Commands run in the shell"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}
	return &Shell{
		cfg:      cfg,
		client:   client,
		store:    store,
		auth:     auth.NewService(client, store, logger),
		logger:   logger,
		commands: commands,
		in:       in,
		out:      out,
	}, nil
}

// Run reads commands until /quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	defer s.closeScreen()

	fmt.Fprintln(s.out, "=== CareerNav ===")
	if sess, err := s.store.Load(); err == nil {
		fmt.Fprintf(s.out, "Logged in as %s\n", displayName(sess.User.Name, sess.User.Email))
	} else if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(s.out, "Not logged in. Use /login or /signup.")
	} else {
		return fmt.Errorf("failed to load session: %w", err)
	}
	fmt.Fprintln(s.out, "Type /help for commands, /quit to exit")
	fmt.Fprintln(s.out)

	scanner := bufio.NewScanner(s.in)
	for {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldQuit, err := s.handleCommand(ctx, input)
			if err != nil {
				s.report(err)
			}
			if shouldQuit {
				break
			}
			continue
		}

		if err := s.say(ctx, input); err != nil {
			s.report(err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Fprintln(s.out, "Goodbye!")
	return nil
}

// report prints a command failure. Auth failures drop the screen and ask for
// a login instead.
func (s *Shell) report(err error) {
	switch {
	case errors.Is(err, screen.ErrClosed):
		s.logger.Debug("dropped result for closed screen", "error", err)
		return
	case api.IsAuthError(err):
		if errors.Is(err, api.ErrUnauthorized) {
			if clearErr := s.store.Clear(); clearErr != nil {
				s.logger.Error("failed to clear rejected session", "error", clearErr)
			}
		}
		s.closeScreen()
		fmt.Fprintln(s.out, loginPrompt)
		s.logger.Info("redirecting to login", "error", err)
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
		s.logger.Error("command error", "error", err)
	}
}

// handleCommand handles slash commands
func (s *Shell) handleCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}
	name, args := parts[0], parts[1:]
	s.commands.Add(ctx, 1, metric.WithAttributes(attribute.String("command", name)))

	switch name {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		s.printHelp()
		return false, nil

	case "/login":
		return false, s.cmdLogin(ctx, args)
	case "/signup":
		return false, s.cmdSignup(ctx, args)
	case "/logout":
		return false, s.cmdLogout()
	case "/me":
		return false, s.cmdMe(ctx)
	case "/profile":
		return false, s.cmdProfile(ctx, args)
	case "/password":
		return false, s.cmdPassword(ctx, args)
	case "/health":
		return false, s.cmdHealth(ctx)

	case "/history":
		return false, s.cmdHistory(ctx)
	case "/analysis":
		return false, s.cmdAnalysis(ctx, args)
	case "/analyze":
		return false, s.cmdAnalyze(ctx, args)
	case "/preview":
		return false, s.cmdPreview(args)

	case "/guidance":
		return false, s.cmdGuidance(ctx)
	case "/generate":
		return false, s.cmdGenerate(ctx, args)
	case "/track":
		return false, s.cmdTrack(ctx)
	case "/continue":
		return false, s.cmdContinue()
	case "/back":
		return false, s.cmdBack()
	case "/roadmap":
		return false, s.cmdRoadmap()
	case "/step":
		return false, s.cmdStep(ctx, args)
	case "/details":
		return false, s.cmdDetails(ctx, args)
	case "/quiz":
		return false, s.cmdQuiz(ctx, args)
	case "/answer":
		return false, s.cmdAnswer(args)
	case "/submit":
		return false, s.cmdSubmit()
	case "/close":
		return false, s.cmdClose()

	case "/interview":
		return false, s.cmdInterview(ctx)
	case "/start":
		return false, s.cmdStart(ctx, args)
	case "/transcript":
		return false, s.cmdTranscript()
	case "/end":
		return false, s.cmdEnd()
	case "/past":
		return false, s.cmdPast(ctx)

	default:
		return false, fmt.Errorf("unknown command: %s (try /help)", name)
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `
Account:
  /login <email> <password> [--remember]   Log in (or /login <password> with a remembered email)
  /signup <email> <password> <confirm> <name...>
  /logout                                  Forget the stored session
  /me                                      Show your profile
  /profile name|email <value>              Update your profile
  /profile delete                          Delete your account
  /password <old> <new> <confirm>          Change your password
  /health                                  Check the backend

Resume:
  /history                                 List past analyses
  /analysis <id>                           Show one analysis
  /analyze <file.pdf>                      Upload a resume for analysis
  /preview <file.pdf|file.docx>            Show the text a resume yields

Guidance:
  /guidance                                Open the roadmap dashboard
  /generate <role|n>                       Generate a roadmap preview
  /track                                   Save the preview and start tracking it
  /continue                                Resume the active roadmap
  /back                                    Return to the dashboard
  /roadmap                                 Show the roadmap on screen
  /step <n> todo|in_progress|done          Update a tracked step
  /details <n|topic>                       Explain a step or topic
  /quiz <n|topic>                          Take a quiz on a step or topic
  /answer <question> <letter|option>       Answer a quiz question
  /submit                                  Score the quiz
  /close                                   Close details and quiz

Interview:
  /interview                               Open the interview screen
  /start <role|n>                          Start an interview
  <text>                                   Reply to the interviewer
  /transcript                              Show the conversation
  /end                                     End the interview
  /past                                    List previous interviews

  /help, /quit
`)
	fmt.Fprintln(s.out)
}

// closeScreen unmounts whichever screen is open. Late results for it are dropped.
func (s *Shell) closeScreen() {
	if s.guidance != nil {
		s.guidance.Close()
		s.guidance = nil
	}
	if s.interview != nil {
		s.interview.Close()
		s.interview = nil
	}
}

// requireSession stops before any request is issued when nobody is logged in.
func (s *Shell) requireSession() error {
	if _, err := s.store.Token(); err != nil {
		return api.ErrNotAuthenticated
	}
	return nil
}

// pick resolves a 1-based list position, or returns the joined args as text.
func pick(args []string, list []string) string {
	text := strings.Join(args, " ")
	if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(list) {
		return list[n-1]
	}
	return text
}

func displayName(name, email string) string {
	if name != "" {
		return fmt.Sprintf("%s <%s>", name, email)
	}
	return email
}
