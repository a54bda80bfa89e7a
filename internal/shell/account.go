package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"CareerNav/internal/auth"
	"CareerNav/internal/backend"
	"CareerNav/internal/resume"
)

const previewLimit = 2000

func (s *Shell) cmdLogin(ctx context.Context, args []string) error {
	remember := false
	var rest []string
	for _, a := range args {
		if a == "--remember" {
			remember = true
			continue
		}
		rest = append(rest, a)
	}

	var email, password string
	switch len(rest) {
	case 2:
		email, password = rest[0], rest[1]
	case 1:
		remembered, err := s.store.RememberedEmail()
		if err != nil {
			return err
		}
		if remembered == "" {
			return fmt.Errorf("usage: /login <email> <password> [--remember]")
		}
		email, password, remember = remembered, rest[0], true
	default:
		return fmt.Errorf("usage: /login <email> <password> [--remember]")
	}

	s.closeScreen()
	sess, err := s.auth.Login(ctx, email, password, remember)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Welcome, %s!\n", displayName(sess.User.Name, sess.User.Email))
	return nil
}

func (s *Shell) cmdSignup(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: /signup <email> <password> <confirm> <name...>")
	}
	s.closeScreen()
	sess, err := s.auth.Signup(ctx, strings.Join(args[3:], " "), args[0], args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Account created. Welcome, %s!\n", displayName(sess.User.Name, sess.User.Email))
	return nil
}

func (s *Shell) cmdLogout() error {
	s.closeScreen()
	if err := s.auth.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Logged out.")
	return nil
}

func (s *Shell) cmdMe(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	u, err := s.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s (id %s)\n", displayName(u.Name, u.Email), u.ID)
	return nil
}

func (s *Shell) cmdProfile(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "delete" {
		return s.cmdDeleteAccount(ctx)
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: /profile name|email <value> or /profile delete")
	}
	if err := s.requireSession(); err != nil {
		return err
	}
	value := strings.Join(args[1:], " ")
	var req backend.UserUpdateRequest
	switch args[0] {
	case "name":
		req.Name = &value
	case "email":
		req.Email = &value
	default:
		return fmt.Errorf("usage: /profile name|email <value> or /profile delete")
	}

	u, err := s.client.UpdateMe(ctx, req)
	if err != nil {
		return err
	}
	sess, err := s.store.Load()
	if err != nil {
		return err
	}
	sess.User = u
	if err := s.store.Save(*sess); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Profile updated: %s\n", displayName(u.Name, u.Email))
	return nil
}

func (s *Shell) cmdDeleteAccount(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	if err := s.client.DeleteMe(ctx); err != nil {
		return err
	}
	s.closeScreen()
	if err := s.auth.Logout(); err != nil {
		return err
	}
	if err := s.store.ForgetEmail(); err != nil {
		s.logger.Warn("failed to forget remembered email", "error", err)
	}
	fmt.Fprintln(s.out, "Account deleted.")
	return nil
}

func (s *Shell) cmdPassword(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: /password <old> <new> <confirm>")
	}
	if args[1] != args[2] {
		return auth.ErrPasswordMismatch
	}
	if err := auth.CheckPassword(args[1]); err != nil {
		return err
	}
	if err := s.requireSession(); err != nil {
		return err
	}
	if err := s.client.ChangePassword(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Password changed.")
	return nil
}

func (s *Shell) cmdHealth(ctx context.Context) error {
	if err := s.client.Health(ctx); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Backend at %s is up.\n", s.cfg.APIBaseURL)
	return nil
}

func (s *Shell) cmdHistory(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	history, err := s.client.History(ctx)
	if err != nil {
		return err
	}
	renderHistory(s.out, history)
	return nil
}

func (s *Shell) cmdAnalysis(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: /analysis <id>")
	}
	if err := s.requireSession(); err != nil {
		return err
	}
	a, err := s.client.AnalysisDetail(ctx, args[0])
	if err != nil {
		return err
	}
	renderAnalysis(s.out, a)
	return nil
}

func (s *Shell) cmdAnalyze(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: /analyze <file.pdf>")
	}
	path := strings.Join(args, " ")
	if err := resume.Validate(path, s.cfg.MaxUploadBytes); err != nil {
		return err
	}
	if err := s.requireSession(); err != nil {
		return err
	}

	text, err := resume.ExtractText(path)
	if err != nil || strings.TrimSpace(text) == "" {
		s.logger.Warn("no text extracted from resume", "path", path, "error", err)
		fmt.Fprintln(s.out, "Warning: no text could be extracted from this PDF; the analysis may be poor.")
	}

	fmt.Fprintln(s.out, "Analyzing...")
	a, err := s.client.Analyze(ctx, path)
	if err != nil {
		return err
	}
	renderAnalysis(s.out, a)
	if a.ID != "" {
		fmt.Fprintf(s.out, "Saved as analysis %s. Open /guidance or /interview to use it.\n", a.ID)
	}
	return nil
}

func (s *Shell) cmdPreview(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: /preview <file.pdf|file.docx>")
	}
	text, err := resume.ExtractText(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if text == "" {
		return errors.New("no text found in resume")
	}
	if r := []rune(text); len(r) > previewLimit {
		text = string(r[:previewLimit]) + "\n..."
	}
	fmt.Fprintln(s.out, text)
	return nil
}
