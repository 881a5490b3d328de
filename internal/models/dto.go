package models

type UploadResponse struct {
	SessionToken string `json:"session_token"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Status       string `json:"status"`
}

type AnalyzeResponse struct {
	CVAnalysis    *CVAnalysis `json:"cv_analysis"`
	FirstQuestion string      `json:"first_question"`
	Status        string      `json:"status"`
}

type AnswerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type AnswerResponse struct {
	Completed      bool   `json:"completed"`
	Message        string `json:"message,omitempty"`
	NextQuestion   string `json:"next_question,omitempty"`
	QuestionNumber int    `json:"question_number,omitempty"`
}

type ReportResponse struct {
	Summary   string `json:"summary"`
	ReportURL string `json:"report_url"`
}

type SessionStatusResponse struct {
	SessionToken   string `json:"session_token"`
	Status         string `json:"status"`
	CVFilename     string `json:"cv_filename"`
	TotalQuestions int    `json:"total_questions"`
	HasCVAnalysis  bool   `json:"has_cv_analysis"`
}

type SynthesizeRequest struct {
	Text         string `json:"text"`
	SessionToken string `json:"session_token,omitempty"`
}

type SynthesizeResponse struct {
	AudioURL string `json:"audio_url"`
}

type TranscriptionResponse struct {
	Transcription string `json:"transcription"`
}
