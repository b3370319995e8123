package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"learnify"

	"github.com/joho/godotenv"
)

func main() {
	var (
		topic        = flag.String("topic", "", "Quiz topic or source text (required)")
		sourceFile   = flag.String("source-file", "", "Read source material from a file instead of -topic")
		title        = flag.String("title", "", "Quiz title (defaults to the topic)")
		subject      = flag.String("subject", "", "Quiz subject")
		numQuestions = flag.Int("questions", 5, "Number of questions to generate (1-10)")
		skillLevel   = flag.String("skill", "Intermediate", "Skill level (Beginner, Intermediate, Advanced)")
		timer        = flag.Int("timer", 0, "Timer in minutes (0 for untimed)")
		dbPath       = flag.String("db", "", "Save the quiz into this database instead of printing JSON")
		teacherEmail = flag.String("teacher", "", "Email of the teacher who will own the saved quiz (required with -db)")
		outputFile   = flag.String("output", "", "Output file for quiz JSON (default: stdout)")
		apiKey       = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		verbose      = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	learnify.SetVerbose(*verbose)
	godotenv.Load()

	source := *topic
	if *sourceFile != "" {
		data, err := os.ReadFile(*sourceFile)
		if err != nil {
			log.Fatalf("Failed to read source file: %v", err)
		}
		source = string(data)
	}
	if source == "" {
		log.Fatal("A topic is required. Use -topic or -source-file.")
	}

	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
		if *apiKey == "" {
			log.Fatal("OpenAI API key is required. Use -api-key flag or set OPENAI_API_KEY environment variable.")
		}
	}

	maker := learnify.NewQuizMaker(*apiKey)

	generationID := learnify.NewID()
	llmLog, err := learnify.NewLLMLog(generationID)
	if err != nil {
		log.Printf("Warning: LLM logging disabled: %v", err)
	} else {
		maker.SetLog(llmLog)
		defer llmLog.Close()
	}

	req := learnify.QuizGenerationRequest{
		SourceContent: source,
		NumQuestions:  *numQuestions,
		SkillLevel:    learnify.SkillLevel(*skillLevel),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	questions, err := maker.Generate(ctx, req)
	if err != nil {
		log.Fatalf("Failed to generate quiz: %v", err)
	}
	learnify.VerboseLog("Generated %d questions", len(questions))

	quizTitle := *title
	if quizTitle == "" {
		quizTitle = *topic
	}

	if *dbPath != "" {
		saveQuiz(*dbPath, *teacherEmail, quizTitle, *subject, *skillLevel, *timer, questions)
		return
	}

	quiz := learnify.Quiz{
		ID:         generationID,
		Title:      quizTitle,
		Subject:    *subject,
		SkillLevel: learnify.SkillLevel(*skillLevel),
		Questions:  questions,
		Timer:      *timer,
	}
	output, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal quiz: %v", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, output, 0644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		log.Printf("Quiz saved to: %s", *outputFile)
	} else {
		fmt.Println(string(output))
	}
}

// saveQuiz stores the generated quiz in the database, owned by the
// teacher with the given email.
func saveQuiz(dbPath, teacherEmail, title, subject, skillLevel string, timer int, questions []learnify.Question) {
	if teacherEmail == "" {
		log.Fatal("-teacher is required when saving with -db.")
	}

	store, err := learnify.OpenStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	teacher, err := store.UserByEmail(teacherEmail)
	if err != nil {
		log.Fatalf("Failed to find teacher %s: %v", teacherEmail, err)
	}
	if teacher.Role != learnify.RoleTeacher {
		log.Fatalf("User %s is not a teacher.", teacherEmail)
	}

	service := learnify.NewQuizService(store)
	quiz, err := service.Create(teacher.ID, learnify.NewQuizInput{
		Title:      title,
		Subject:    subject,
		SkillLevel: learnify.SkillLevel(skillLevel),
		Questions:  questions,
		Timer:      timer,
	})
	if err != nil {
		log.Fatalf("Failed to save quiz: %v", err)
	}
	log.Printf("Quiz %s saved with %d questions.", quiz.ID, len(quiz.Questions))
}
