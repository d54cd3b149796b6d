package main

import (
	"flag"
	"log"

	"speechcoach/internal/config"
	"speechcoach/internal/database"
	"speechcoach/internal/models"
	"speechcoach/internal/repository"
	"speechcoach/internal/security"
	"speechcoach/internal/service"
)

// Seeds a demo catalog: an instructor account, a beginner conversation
// course, and its first lessons with phrase and sentence pools.
func main() {
	email := flag.String("email", "instructor@example.com", "Instructor account email")
	password := flag.String("password", "practice123", "Instructor account password")
	flag.Parse()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)

	courseService := service.NewCourseService(courseRepo, lessonRepo)
	lessonService := service.NewLessonService(lessonRepo, courseRepo)

	instructor, err := userRepo.GetUserByEmail(*email)
	if err != nil {
		log.Fatalf("Failed to look up instructor: %v", err)
	}
	if instructor == nil {
		hash, err := security.HashPassword(*password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		instructor, err = userRepo.CreateUser(*email, hash, "Demo Instructor")
		if err != nil {
			log.Fatalf("Failed to create instructor: %v", err)
		}
		if instructor.Role == models.RoleStudent {
			if err := userRepo.UpdateUserRole(instructor.ID, models.RoleInstructor); err != nil {
				log.Fatalf("Failed to promote instructor: %v", err)
			}
			instructor.Role = models.RoleInstructor
		}
		log.Printf("Created instructor account %s", *email)
	}

	course, err := courseService.CreateCourse(&models.Course{
		Title:       "Everyday Conversations",
		Description: "Greetings, small talk, and the phrases you need every day.",
		Category:    "conversation",
		Level:       models.LevelBeginner,
		Skills:      []string{"conversation", "pronunciation"},
		Featured:    true,
	}, instructor)
	if err != nil {
		log.Fatalf("Failed to create course: %v", err)
	}
	log.Printf("Created course %q (id %d)", course.Title, course.ID)

	lessons := []service.LessonInput{
		{
			CourseID:    course.ID,
			Title:       "Greetings",
			Description: "Say hello and introduce yourself.",
			Position:    1,
			Phrases: []string{
				"Hello, how are you today?",
				"Nice to meet you.",
				"My name is Anna.",
			},
			Sentences: []string{
				"I am very happy to meet you today.",
				"How has your day been so far?",
				"It was lovely talking to you, see you soon.",
			},
		},
		{
			CourseID:    course.ID,
			Title:       "At the Cafe",
			Description: "Order food and drinks with confidence.",
			Position:    2,
			Phrases: []string{
				"A table for two, please.",
				"Could I see the menu?",
			},
			Sentences: []string{
				"I would like to order a coffee, please.",
				"Could we have the bill when you have a moment?",
			},
		},
	}

	for _, input := range lessons {
		id, err := lessonService.CreateLesson(input, instructor)
		if err != nil {
			log.Fatalf("Failed to create lesson %q: %v", input.Title, err)
		}
		log.Printf("Created lesson %q (id %d)", input.Title, id)
	}

	log.Println("Seed complete")
}
