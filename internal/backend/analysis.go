package backend

import (
	"math"

	"CareerNav/internal/career"
)

// HistoryEntry is one row of /career/history.
type HistoryEntry struct {
	ID        FlexID    `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt Timestamp `json:"created_at"`
	Score     float64   `json:"score"`
	Domain    string    `json:"domain"`
}

// ToHistory maps history rows. A missing domain becomes career.NoDomain.
func ToHistory(entries []HistoryEntry) []career.HistoryEntry {
	out := make([]career.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		domain := e.Domain
		if domain == "" {
			domain = career.NoDomain
		}
		out = append(out, career.HistoryEntry{
			ID:        string(e.ID),
			Filename:  e.Filename,
			CreatedAt: e.CreatedAt.Time,
			Score:     roundScore(e.Score),
			Domain:    domain,
		})
	}
	return out
}

// AnalysisDetail is the stored analysis document.
type AnalysisDetail struct {
	Analysis struct {
		IdentifiedDomain   string   `json:"identified_domain"`
		Score              float64  `json:"score"`
		MissingSkills      []string `json:"missing_skills"`
		RecommendedCourses []string `json:"recommended_courses"`
	} `json:"analysis"`
	ExtractedSkills struct {
		AllSkills []struct {
			SkillName string `json:"skill_name"`
			Type      string `json:"type"`
		} `json:"all_skills"`
	} `json:"extracted_skills"`
}

// AnalyzeResponse wraps a fresh analysis.
type AnalyzeResponse struct {
	Message string          `json:"message"`
	Data    *AnalysisDetail `json:"data"`
	ID      FlexID          `json:"id"`
}

// ToAnalysis validates and maps an analysis document.
func ToAnalysis(id string, d *AnalysisDetail) (career.Analysis, error) {
	if d == nil {
		return career.Analysis{}, malformed("analysis missing")
	}
	a := career.Analysis{
		ID:                 id,
		Domain:             d.Analysis.IdentifiedDomain,
		Score:              roundScore(d.Analysis.Score),
		MissingSkills:      d.Analysis.MissingSkills,
		RecommendedCourses: d.Analysis.RecommendedCourses,
	}
	if a.Domain == "" {
		a.Domain = career.NoDomain
	}
	for _, s := range d.ExtractedSkills.AllSkills {
		if s.SkillName == "" {
			continue
		}
		a.Skills = append(a.Skills, career.Skill{Name: s.SkillName, Type: s.Type})
	}
	return a, nil
}

// roundScore rounds a backend score to the nearest whole point.
func roundScore(f float64) int {
	return int(math.Round(f))
}
