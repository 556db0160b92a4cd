package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/config"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"google.golang.org/api/option"
)

// Common AI errors.
var (
	ErrAIUnavailable = errors.New("ai service unavailable")
	ErrAIGeneration  = errors.New("ai generation failed")
)

// GeminiService wraps the Gemini API for question generation, study content,
// and the chatbot. When no API key is configured the service stays up but
// every call returns ErrAIUnavailable.
type GeminiService struct {
	model *genai.GenerativeModel
	log   zerolog.Logger
}

// NewGeminiService creates a new GeminiService.
func NewGeminiService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*GeminiService, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set, AI features are disabled")
		return &GeminiService{log: log}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &GeminiService{model: client.GenerativeModel(cfg.GeminiModel), log: log}, nil
}

// generatedQuestion mirrors the JSON shape the prompt asks the model for.
type generatedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Difficulty    string   `json:"difficulty"`
}

// GenerateQuestions asks Gemini for count multiple-choice questions and
// returns them as unsaved Question models.
func (s *GeminiService) GenerateQuestions(ctx context.Context, language string, kind model.AssessmentKind, count int, difficulty model.Difficulty) ([]model.Question, error) {
	if s.model == nil {
		return nil, ErrAIUnavailable
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a programming instructor preparing a %s assessment.\n", kind)
	fmt.Fprintf(&b, "Generate exactly %d multiple-choice questions about the %s programming language", count, language)
	if difficulty != "" {
		fmt.Fprintf(&b, " at %s difficulty", difficulty)
	}
	b.WriteString(".\n\n")
	b.WriteString("Respond with ONLY a JSON array, no markdown fences and no prose. Each element must have this exact shape:\n")
	b.WriteString(`{"question": "...", "options": ["...", "...", "...", "..."], "correctAnswer": "...", "difficulty": "Easy|Medium|Hard"}`)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- options must contain exactly 4 distinct answers.\n")
	b.WriteString("- correctAnswer must be copied verbatim from options.\n")
	b.WriteString("- Questions must test real language knowledge, not trivia.\n")

	raw, err := s.generateText(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &generated); err != nil {
		s.log.Warn().Err(err).Str("language", language).Msg("Gemini returned unparseable question JSON")
		return nil, fmt.Errorf("%w: %v", ErrAIGeneration, err)
	}

	questions := make([]model.Question, 0, len(generated))
	for _, g := range generated {
		if g.Question == "" || len(g.Options) != 4 || !containsOption(g.Options, g.CorrectAnswer) {
			s.log.Warn().Str("language", language).Msg("dropping malformed generated question")
			continue
		}
		difficulty := model.Difficulty(g.Difficulty)
		switch difficulty {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		default:
			difficulty = model.DifficultyMedium
		}
		questions = append(questions, model.Question{
			Language:      language,
			Kind:          kind,
			QuestionText:  g.Question,
			Options:       g.Options,
			CorrectAnswer: g.CorrectAnswer,
			Difficulty:    difficulty,
		})
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no usable questions in response", ErrAIGeneration)
	}
	return questions, nil
}

// GenerateStudyPlan produces a personalized study plan from a user's most
// recent quiz performance in a language.
func (s *GeminiService) GenerateStudyPlan(ctx context.Context, language string, score, total int) (string, error) {
	if s.model == nil {
		return "", ErrAIUnavailable
	}

	var b strings.Builder
	b.WriteString("You are a programming mentor.\n")
	fmt.Fprintf(&b, "A learner just scored %d out of %d on a %s quiz.\n", score, total, language)
	fmt.Fprintf(&b, "Write a structured 4-week study plan for improving their %s skills, calibrated to that result.\n", language)
	b.WriteString("Use markdown with a heading per week and concrete topics, exercises, and checkpoints. Keep it under 600 words.")

	return s.generateText(ctx, b.String())
}

// GenerateRoadmap produces a general learning roadmap for a language, not
// tied to any particular result.
func (s *GeminiService) GenerateRoadmap(ctx context.Context, language string) (string, error) {
	if s.model == nil {
		return "", ErrAIUnavailable
	}

	var b strings.Builder
	b.WriteString("You are a programming mentor.\n")
	fmt.Fprintf(&b, "Write a learning roadmap for mastering the %s programming language, from beginner to job-ready.\n", language)
	b.WriteString("Use markdown with ordered stages. For each stage list the core concepts, one project idea, and how to know the stage is done. Keep it under 700 words.")

	return s.generateText(ctx, b.String())
}

// Chat answers one chatbot message given the recent transcript for context.
func (s *GeminiService) Chat(ctx context.Context, history []model.ChatMessage, message string) (string, error) {
	if s.model == nil {
		return "", ErrAIUnavailable
	}

	var b strings.Builder
	b.WriteString("You are SkillTracker's assistant, a friendly programming tutor. Answer questions about programming languages, quizzes, and study strategy. Keep answers concise.\n\n")
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, m := range history {
			role := "Learner"
			if m.Sender == model.SenderBot {
				role = "Assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Learner: %s\nAssistant:", message)

	return s.generateText(ctx, b.String())
}

// generateText runs one prompt and concatenates the text parts of the first
// candidate.
func (s *GeminiService) generateText(ctx context.Context, prompt string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		s.log.Error().Err(err).Msg("Gemini API call failed")
		return "", fmt.Errorf("%w: %v", ErrAIGeneration, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", ErrAIGeneration)
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%w: no text content", ErrAIGeneration)
	}
	return strings.TrimSpace(out.String()), nil
}

// stripCodeFences removes a wrapping ```json fence when the model ignores
// the no-markdown instruction.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func containsOption(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
