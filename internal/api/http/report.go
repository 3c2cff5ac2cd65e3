package http

import (
	"github.com/nota10/academico/internal/academic"
	"github.com/nota10/academico/internal/gradecalc"
)

// subjectReport is one subject's scores plus everything derived from them.
// Average and status are never stored; they are recomputed on every read.
type subjectReport struct {
	Subject           string  `json:"subject"`
	NP1               float64 `json:"np1"`
	NP2               float64 `json:"np2"`
	PIM               float64 `json:"pim"`
	Average           float64 `json:"average"`
	Status            string  `json:"status"`
	RequiredExamScore float64 `json:"required_exam_score,omitempty"`
	Feedback          string  `json:"feedback"`
	StudyTip          string  `json:"study_tip,omitempty"`
}

func buildReport(rec academic.GradeRecord) subjectReport {
	rep := subjectReport{
		Subject: rec.Subject,
		NP1:     rec.NP1,
		NP2:     rec.NP2,
		PIM:     rec.PIM,
	}
	avg, status, err := gradecalc.ComputeAverage(rec.NP1, rec.NP2, rec.PIM)
	rep.Status = string(status)
	if err != nil {
		rep.Feedback = gradecalc.Feedback(0, status, rec.Subject)
		return rep
	}
	rep.Average = avg
	rep.Feedback = gradecalc.Feedback(avg, status, rec.Subject)
	if status == gradecalc.StatusFinalExam {
		rep.RequiredExamScore = gradecalc.RequiredExamScore(avg)
	}
	if status != gradecalc.StatusApproved {
		rep.StudyTip = academic.StudyTips[rec.Subject]
	}
	return rep
}
