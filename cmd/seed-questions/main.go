package main

import (
	"context"
	"fmt"
	"time"

	"github.com/skilltracker/skilltracker-backend/internal/config"
	"github.com/skilltracker/skilltracker-backend/internal/database"
	"github.com/skilltracker/skilltracker-backend/internal/logger"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	languageRepo := repository.NewLanguageRepository(pool)
	cardRepo := repository.NewCardRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	fmt.Println("=== Seeding Languages, Cards, and Starter Questions ===")

	languages := []string{"Go", "Python", "JavaScript", "Java", "C++"}

	for _, name := range languages {
		existing, err := languageRepo.GetByName(ctx, name)
		if err != nil {
			log.Fatal().Err(err).Str("language", name).Msg("Failed to check language")
		}
		if existing != nil {
			fmt.Printf("Language %s already present, skipping\n", name)
			continue
		}
		if err := languageRepo.Create(ctx, &model.Language{Name: name}); err != nil {
			log.Fatal().Err(err).Str("language", name).Msg("Failed to create language")
		}
		fmt.Printf("Created language %s\n", name)
	}

	// One quiz card and one mock card per language. Quizzes are short;
	// mocks mirror a real test sitting.
	for _, name := range languages {
		seedCard(ctx, cardRepo, name, model.KindQuiz, 10, 10)
		seedCard(ctx, cardRepo, name, model.KindMock, 25, 45)
	}

	questions := starterQuestions()
	if err := questionRepo.CreateBatch(ctx, questions); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed questions")
	}
	fmt.Printf("Seeded %d starter questions\n", len(questions))
	fmt.Println("Done.")
}

func seedCard(ctx context.Context, repo *repository.CardRepository, language string, kind model.AssessmentKind, count, minutes int) {
	existing, err := repo.GetByLanguage(ctx, kind, language)
	if err != nil {
		fmt.Printf("Failed to check %s %s card: %v\n", language, kind, err)
		return
	}
	if existing != nil {
		fmt.Printf("Card %s/%s already present, skipping\n", language, kind)
		return
	}

	card := &model.Card{
		Language:        language,
		Kind:            kind,
		QuestionCount:   count,
		DurationMinutes: minutes,
	}
	if err := repo.Create(ctx, card); err != nil {
		fmt.Printf("Failed to create %s %s card: %v\n", language, kind, err)
		return
	}
	fmt.Printf("Created card %s/%s (%d questions, %d minutes)\n", language, kind, count, minutes)
}

func starterQuestions() []model.Question {
	return []model.Question{
		{
			Language:      "Go",
			Kind:          model.KindQuiz,
			QuestionText:  "What does the `go` keyword do when placed before a function call?",
			Options:       []string{"Starts a new goroutine", "Imports a package", "Declares a global variable", "Defers execution until return"},
			CorrectAnswer: "Starts a new goroutine",
			Difficulty:    model.DifficultyEasy,
		},
		{
			Language:      "Go",
			Kind:          model.KindQuiz,
			QuestionText:  "Which statement about Go slices is correct?",
			Options:       []string{"A slice shares its backing array with sub-slices", "A slice always copies its elements on append", "Slices have a fixed length set at declaration", "Slices cannot contain struct values"},
			CorrectAnswer: "A slice shares its backing array with sub-slices",
			Difficulty:    model.DifficultyMedium,
		},
		{
			Language:      "Go",
			Kind:          model.KindMock,
			QuestionText:  "What happens when you send on a nil channel?",
			Options:       []string{"The send blocks forever", "The program panics", "The value is discarded", "The channel is lazily allocated"},
			CorrectAnswer: "The send blocks forever",
			Difficulty:    model.DifficultyHard,
		},
		{
			Language:      "Python",
			Kind:          model.KindQuiz,
			QuestionText:  "What is the output of `print(type([]))`?",
			Options:       []string{"<class 'list'>", "<class 'array'>", "<class 'tuple'>", "<class 'dict'>"},
			CorrectAnswer: "<class 'list'>",
			Difficulty:    model.DifficultyEasy,
		},
		{
			Language:      "Python",
			Kind:          model.KindMock,
			QuestionText:  "Which statement about Python's GIL is accurate?",
			Options:       []string{"Only one thread executes Python bytecode at a time", "It prevents all forms of concurrency", "It is released only at process exit", "It applies to multiprocessing workers"},
			CorrectAnswer: "Only one thread executes Python bytecode at a time",
			Difficulty:    model.DifficultyHard,
		},
		{
			Language:      "JavaScript",
			Kind:          model.KindQuiz,
			QuestionText:  "What does `typeof null` evaluate to?",
			Options:       []string{"\"object\"", "\"null\"", "\"undefined\"", "\"boolean\""},
			CorrectAnswer: "\"object\"",
			Difficulty:    model.DifficultyMedium,
		},
		{
			Language:      "Java",
			Kind:          model.KindQuiz,
			QuestionText:  "Which collection preserves insertion order and allows no duplicates?",
			Options:       []string{"LinkedHashSet", "HashSet", "TreeMap", "ArrayDeque"},
			CorrectAnswer: "LinkedHashSet",
			Difficulty:    model.DifficultyMedium,
		},
		{
			Language:      "C++",
			Kind:          model.KindQuiz,
			QuestionText:  "What does RAII primarily manage?",
			Options:       []string{"Resource lifetime tied to object scope", "Runtime type information", "Template instantiation", "Virtual dispatch tables"},
			CorrectAnswer: "Resource lifetime tied to object scope",
			Difficulty:    model.DifficultyMedium,
		},
	}
}
