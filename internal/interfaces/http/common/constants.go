package common

const (
	// MaxSurveyRequestBody limits JSON request bodies for survey endpoints.
	MaxSurveyRequestBody = 1 << 20
	// MaxQuestionCount limits how many questions one survey may carry.
	MaxQuestionCount = 100
	// MaxAnswerRunes limits a single free-form answer's length.
	MaxAnswerRunes = 4000
)
