package service

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"

	"gorm.io/datatypes"
)

// Submission 学生提交的答卷，answers 为 question_id → 选项标签
type Submission struct {
	PaperID   string            `json:"paper_id" validate:"required"`
	Answers   map[string]string `json:"answers"`
	TimeTaken int               `json:"time_taken" validate:"gte=0"`
}

// ScoreSubmission 按试卷题目顺序逐题判分。
// 答案缺失或为空记为未作答；答案中不属于本卷的题号被忽略。
func ScoreSubmission(paper *model.Paper, sub Submission) *model.TestResult {
	breakdown := model.SubjectBreakdown{}
	var correct, wrong, unattempted int

	for _, q := range paper.Questions {
		subject := q.SubjectOr(paper.Subject)
		tally := breakdown[subject]
		tally.Total++

		answer := sub.Answers[q.QuestionID]
		switch {
		case answer == "":
			unattempted++
		case answer == q.CorrectAnswer:
			correct++
			tally.Correct++
		default:
			wrong++
			tally.Wrong++
		}
		breakdown[subject] = tally
	}

	return &model.TestResult{
		PaperID:        paper.ID,
		PaperTitle:     paper.Title,
		ExamType:       paper.ExamType,
		Subject:        paper.Subject,
		TotalQuestions: len(paper.Questions),
		CorrectAnswers: correct,
		WrongAnswers:   wrong,
		Unattempted:    unattempted,
		Score:          correct*model.MarksCorrect - wrong*model.MarksWrong,
		Accuracy:       util.Percent(correct, correct+wrong),
		TimeTaken:      sub.TimeTaken,
		SubjectWise:    datatypes.NewJSONType(breakdown),
	}
}
