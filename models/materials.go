package models

// StudyMaterials is the structured bundle returned by the content generation
// provider. Field names and JSON tags follow the provider's function schema.
type StudyMaterials struct {
	Summary       string          `json:"summary"`
	Notes         []Note          `json:"notes"`
	Flashcards    []Flashcard     `json:"flashcards"`
	Quizzes       []Quiz          `json:"quizzes"`
	KeyPoints     []string        `json:"keyPoints"`
	Glossary      []GlossaryEntry `json:"glossary"`
	ExamQuestions []ExamQuestion  `json:"examQuestions"`
}

type Note struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Quiz struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type ExamQuestion struct {
	Question    string `json:"question"`
	ModelAnswer string `json:"modelAnswer"`
}
