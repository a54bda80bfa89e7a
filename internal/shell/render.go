package shell

import (
	"fmt"
	"io"
	"strings"

	"CareerNav/internal/career"
	"CareerNav/internal/guidance"
)

const timeLayout = "2006-01-02 15:04"

func renderHistory(w io.Writer, history []career.HistoryEntry) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No analyses yet. Upload one with /analyze <file.pdf>.")
		return
	}
	fmt.Fprintln(w, "\nPast analyses:")
	for _, h := range history {
		fmt.Fprintf(w, "  %s  %s  score %3d  %-24s %s\n", h.ID, h.CreatedAt.Format(timeLayout), h.Score, h.Domain, h.Filename)
	}
	fmt.Fprintln(w)
}

func renderAnalysis(w io.Writer, a career.Analysis) {
	fmt.Fprintf(w, "\nDomain: %s\nScore: %d/100\n", a.Domain, a.Score)
	if len(a.Skills) > 0 {
		names := make([]string, len(a.Skills))
		for i, sk := range a.Skills {
			names[i] = sk.Name
		}
		fmt.Fprintf(w, "Skills: %s\n", strings.Join(names, ", "))
	}
	if len(a.MissingSkills) > 0 {
		fmt.Fprintf(w, "Missing skills: %s\n", strings.Join(a.MissingSkills, ", "))
	}
	if len(a.RecommendedCourses) > 0 {
		fmt.Fprintln(w, "Recommended courses:")
		for _, c := range a.RecommendedCourses {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	}
	fmt.Fprintln(w)
}

func renderDashboard(w io.Writer, roles []string, active *career.Roadmap) {
	fmt.Fprintln(w, "\n=== Career guidance ===")
	if active != nil {
		fmt.Fprintf(w, "Active roadmap: %s (%d%% complete). /continue to resume.\n", active.Role, active.Progress())
	}
	if len(roles) == 0 {
		fmt.Fprintln(w, "No roles found in your analyses. You can still /generate <role>.")
	} else {
		fmt.Fprintln(w, "Roles from your analyses:")
		for i, r := range roles {
			fmt.Fprintf(w, "  %d. %s\n", i+1, r)
		}
		fmt.Fprintln(w, "Generate a roadmap with /generate <role|n>.")
	}
	fmt.Fprintln(w)
}

func statusMark(s career.StepStatus) string {
	switch s {
	case career.StatusDone:
		return "[x]"
	case career.StatusInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

func renderRoadmap(w io.Writer, d guidance.Displayed) {
	r := d.Roadmap
	if r == nil {
		return
	}
	if d.View == guidance.Preview {
		fmt.Fprintln(w, "\n*** Preview Mode: this roadmap is not saved yet ***")
	}
	fmt.Fprintf(w, "\n%s roadmap (%s) - %d%% complete\n", r.Role, d.View, r.Progress())
	for i, st := range r.Steps {
		line := fmt.Sprintf("  %d. %s %s", i+1, statusMark(st.Status), st.Title)
		if st.EstimatedDuration != "" {
			line += fmt.Sprintf(" (%s)", st.EstimatedDuration)
		}
		fmt.Fprintln(w, line)
		if st.Description != "" {
			fmt.Fprintf(w, "     %s\n", st.Description)
		}
	}
	switch d.View {
	case guidance.Preview:
		fmt.Fprintln(w, "/track to start tracking, /back to discard.")
	case guidance.Tracked:
		fmt.Fprintln(w, "/step <n> <status>, /details <n>, /quiz <n>, /back.")
	}
	fmt.Fprintln(w)
}

func renderDetails(w io.Writer, d guidance.Details) {
	fmt.Fprintf(w, "\n--- %s (%s) ---\n%s\n\n", d.Topic, d.Role, d.Content)
}

func renderQuiz(w io.Writer, q guidance.Quiz) {
	fmt.Fprintf(w, "\n--- Quiz: %s ---\n", q.Topic)
	for i, qq := range q.Questions {
		fmt.Fprintf(w, "%d. %s\n", i+1, qq.Question)
		for j, opt := range qq.Options {
			fmt.Fprintf(w, "   %c) %s\n", 'a'+j, opt)
		}
	}
	fmt.Fprintln(w, "Answer with /answer <question> <letter>, then /submit.")
	fmt.Fprintln(w)
}

func renderScore(w io.Writer, q guidance.Quiz, score int) {
	fmt.Fprintf(w, "\nScore: %d/%d\n", score, len(q.Questions))
	for i, qq := range q.Questions {
		mark := "correct"
		if q.Answers[i] != qq.CorrectAnswer {
			mark = "wrong, answer: " + qq.CorrectAnswer
		}
		fmt.Fprintf(w, "  %d. %s\n", i+1, mark)
	}
	fmt.Fprintln(w)
}

func renderMessages(w io.Writer, msgs []career.Message) {
	for _, m := range msgs {
		who := "You"
		if m.Sender == career.SenderAI {
			who = "Interviewer"
		}
		suffix := ""
		if m.Delivery != career.Confirmed {
			suffix = fmt.Sprintf(" (%s)", m.Delivery)
		}
		fmt.Fprintf(w, "%s: %s%s\n", who, m.Content, suffix)
	}
	fmt.Fprintln(w)
}

func renderSessions(w io.Writer, sessions []career.InterviewSession) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No previous interviews.")
		return
	}
	for _, s := range sessions {
		state := "ended"
		if s.IsActive {
			state = "active"
		}
		fmt.Fprintf(w, "  #%d  %s  %s  %s\n", s.ID, s.CreatedAt.Format(timeLayout), s.JobRole, state)
	}
	fmt.Fprintln(w)
}
