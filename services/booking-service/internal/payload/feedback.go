package payload

import "github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"

type FeedbackQuestionRequest struct {
	QuestionID   string `json:"questionId"   validate:"required"`
	Question     string `json:"question"     validate:"required,max=500"`
	Response     string `json:"response"     validate:"max=5000"`
	Notes        string `json:"notes"        validate:"max=5000"`
	QuestionType string `json:"questionType" validate:"required,oneof=rating text multiple-choice"`
}

type SubmitFeedbackRequest struct {
	Questions []FeedbackQuestionRequest `json:"questions" validate:"required,min=1,max=50,dive"`
}

func (r *SubmitFeedbackRequest) ToModel() []model.FeedbackQuestion {
	questions := make([]model.FeedbackQuestion, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, model.FeedbackQuestion(q))
	}
	return questions
}

type FeedbackResponse struct {
	Success  bool            `json:"success"`
	Feedback *model.Feedback `json:"feedback"`
}

type ListFeedbackResponse struct {
	Success  bool             `json:"success"`
	Feedback []model.Feedback `json:"feedback"`
}
