package gradecalc

import "fmt"

// Feedback renders the standing of one subject as a short message for the
// student. For a final-exam standing the message embeds the minimum exam
// score needed.
func Feedback(avg float64, status Status, subject string) string {
	switch status {
	case StatusApproved:
		return fmt.Sprintf("Congratulations! Your average in %s is %.2f. Approved — keep it up.", subject, avg)
	case StatusFinalExam:
		return fmt.Sprintf("Attention: your average in %s is %.2f. You need at least %.2f on the final exam.", subject, avg, RequiredExamScore(avg))
	case StatusFailed:
		return fmt.Sprintf("Your average in %s is %.2f, below the exam threshold. Failed.", subject, avg)
	default:
		return "Could not evaluate standing. Check that the submitted scores are valid."
	}
}
