package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"CareerNav/internal/api"
	"CareerNav/internal/career"
	"CareerNav/internal/guidance"
	"CareerNav/internal/interview"
)

var (
	errNoGuidance  = errors.New("open the guidance screen first with /guidance")
	errNoInterview = errors.New("open the interview screen first with /interview")
)

func (s *Shell) guidanceScreen() (*guidance.Controller, error) {
	if s.guidance == nil {
		return nil, errNoGuidance
	}
	return s.guidance, nil
}

func (s *Shell) cmdGuidance(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	s.closeScreen()
	c := guidance.New(s.client, s.logger)
	s.guidance = c

	if err := c.LoadDashboardData(ctx); err != nil {
		if api.IsAuthError(err) {
			return err
		}
		fmt.Fprintf(s.out, "Warning: %v\n", err)
	}
	renderDashboard(s.out, c.Roles(), c.Active())
	return nil
}

func (s *Shell) cmdGenerate(ctx context.Context, args []string) error {
	c, err := s.guidanceScreen()
	if err != nil {
		return err
	}
	role := pick(args, c.Roles())
	fmt.Fprintf(s.out, "Generating a roadmap for %s...\n", role)
	if err := c.Generate(ctx, role); err != nil {
		return err
	}
	renderRoadmap(s.out, c.Displayed())
	return nil
}

func (s *Shell) cmdTrack(ctx context.Context) error {
	c, err := s.guidanceScreen()
	if err != nil {
		return err
	}
	if err := c.StartTracking(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Roadmap saved. Tracking started.")
	renderRoadmap(s.out, c.Displayed())
	return nil
}

func (s *Shell) cmdContinue() error {
	c, err := s.guidanceScreen()
	if err != nil {
		return err
	}
	if err := c.ContinueJourney(); err != nil {
		return err
	}
	renderRoadmap(s.out, c.Displayed())
	return nil
}

func (s *Shell) cmdBack() error {
	c, err := s.guidanceScreen()
	if err != nil {
		return err
	}
	c.Back()
	renderDashboard(s.out, c.Roles(), c.Active())
	return nil
}

func (s *Shell) cmdRoadmap() error {
	c, err := s.guidanceScreen()
	if err != nil {
		return err
	}
	d := c.Displayed()
	if d.Roadmap == nil {
		renderDashboard(s.out, c.Roles(), c.Active())
		return nil
	}
	renderRoadmap(s.out, d)
	return nil
}

func (s *Shell) cmdStep(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: /step <n> todo|in_progress|done")
	}
	c, err := s.guidanceScreen()
	if err != nil {
		return err
	}
	d := c.Displayed()
	if d.View != guidance.Tracked {
		return errors.New("steps can only be updated on a tracked roadmap (/track or /continue)")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(d.Roadmap.Steps) {
		return fmt.Errorf("no step %s", args[0])
	}
	status, err := career.ParseStepStatus(args[1])
	if err != nil {
		return err
	}

	updateErr := c.UpdateStepStatus(ctx, d.Roadmap.Steps[n-1].ID, status)
	renderRoadmap(s.out, c.Displayed())
	return updateErr
}

// topic resolves a step number on the displayed roadmap to its title.
func topic(c *guidance.Controller, args []string) string {
	var titles []string
	if r := c.Displayed().Roadmap; r != nil {
		for _, st := range r.Steps {
			titles = append(titles, st.Title)
		}
	}
	return pick(args, titles)
}

func (s *Shell) cmdDetails(ctx context.Context, args []string) error {
	c, err := s.guidanceScreen()
	if err != nil {
		return err
	}
	t := topic(c, args)
	fmt.Fprintf(s.out, "Loading details for %s...\n", t)
	d, err := c.OpenDetails(ctx, t)
	if d.Open {
		renderDetails(s.out, d)
	}
	if err != nil && (!d.Open || api.IsAuthError(err)) {
		return err
	}
	return nil
}

func (s *Shell) cmdQuiz(ctx context.Context, args []string) error {
	c, err := s.guidanceScreen()
	if err != nil {
		return err
	}
	t := topic(c, args)
	fmt.Fprintf(s.out, "Loading quiz for %s...\n", t)
	q, err := c.OpenQuiz(ctx, t)
	if err != nil {
		return err
	}
	renderQuiz(s.out, q)
	return nil
}

func (s *Shell) cmdAnswer(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: /answer <question> <letter|option>")
	}
	c, err := s.guidanceScreen()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("usage: /answer <question> <letter|option>")
	}
	q := c.QuizState()
	option := strings.Join(args[1:], " ")
	if n >= 1 && n <= len(q.Questions) {
		option = resolveOption(q.Questions[n-1].Options, option)
	}
	if err := c.Answer(n-1, option); err != nil {
		return err
	}

	q = c.QuizState()
	fmt.Fprintf(s.out, "Answered %d of %d.", len(q.Answers), len(q.Questions))
	if c.CanSubmit() {
		fmt.Fprint(s.out, " Ready to /submit.")
	}
	fmt.Fprintln(s.out)
	return nil
}

// resolveOption maps a single letter to the option at that position.
func resolveOption(options []string, answer string) string {
	if len(answer) == 1 {
		i := int(strings.ToLower(answer)[0] - 'a')
		if i >= 0 && i < len(options) {
			return options[i]
		}
	}
	return answer
}

func (s *Shell) cmdSubmit() error {
	c, err := s.guidanceScreen()
	if err != nil {
		return err
	}
	score, err := c.SubmitQuiz()
	if err != nil {
		return err
	}
	renderScore(s.out, c.QuizState(), score)
	return nil
}

func (s *Shell) cmdClose() error {
	c, err := s.guidanceScreen()
	if err != nil {
		return err
	}
	c.CloseDetails()
	c.CloseQuiz()
	return nil
}

func (s *Shell) interviewScreen() (*interview.Controller, error) {
	if s.interview == nil {
		return nil, errNoInterview
	}
	return s.interview, nil
}

func (s *Shell) cmdInterview(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	s.closeScreen()
	c := interview.New(s.client, s.logger)
	s.interview = c

	roles, err := c.LoadRoles(ctx)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		fmt.Fprintln(s.out, "No roles yet. Analyze a resume first with /analyze <file.pdf>.")
		return nil
	}
	fmt.Fprintln(s.out, "Pick a role to practice for:")
	for i, r := range roles {
		fmt.Fprintf(s.out, "  %d. %s\n", i+1, r)
	}
	fmt.Fprintln(s.out, "Start with /start <role|n>.")
	return nil
}

func (s *Shell) cmdStart(ctx context.Context, args []string) error {
	c, err := s.interviewScreen()
	if err != nil {
		return err
	}
	_, err = c.StartSession(ctx, pick(args, c.Roles()))
	if errors.Is(err, interview.ErrNoRoles) {
		fmt.Fprintln(s.out, "No roles yet. Analyze a resume first with /analyze <file.pdf>.")
		return nil
	}
	if sess, ok := c.Session(); ok {
		fmt.Fprintf(s.out, "Interview for %s started. Type your answers; /end to finish.\n", sess.JobRole)
		renderMessages(s.out, c.Messages())
	}
	return err
}

// say sends free text to the running interview.
func (s *Shell) say(ctx context.Context, text string) error {
	c, err := s.interviewScreen()
	if err != nil {
		return errors.New("plain text is sent to the interviewer; open /interview and /start first")
	}
	reply, err := c.SendMessage(ctx, text)
	if err != nil {
		if errors.Is(err, interview.ErrNoSession) {
			return errors.New("no interview running; use /start <role>")
		}
		return fmt.Errorf("%w (your message is kept as failed; send it again to retry)", err)
	}
	renderMessages(s.out, []career.Message{reply})
	return nil
}

func (s *Shell) cmdTranscript() error {
	c, err := s.interviewScreen()
	if err != nil {
		return err
	}
	renderMessages(s.out, c.Messages())
	return nil
}

func (s *Shell) cmdEnd() error {
	c, err := s.interviewScreen()
	if err != nil {
		return err
	}
	if err := c.EndSession(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Interview ended.")
	return nil
}

func (s *Shell) cmdPast(ctx context.Context) error {
	c, err := s.interviewScreen()
	if err != nil {
		return err
	}
	sessions, err := c.PastSessions(ctx)
	if err != nil {
		return err
	}
	renderSessions(s.out, sessions)
	return nil
}
