package main

import (
	"context"
	"fmt"
	"time"

	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/database"
	"github.com/arenalabs/quizarena-backend/internal/logger"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/arenalabs/quizarena-backend/internal/repository"
	"github.com/arenalabs/quizarena-backend/internal/service"
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

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	participantRepo := repository.NewParticipantRepository(pool)
	authService := service.NewAuthService(cfg, rdb)
	participantService := service.NewParticipantService(participantRepo, authService)

	fmt.Println("=== Seeding 30 Participants ===")

	names := []string{
		"Aarav Sharma", "Bianca Rossi", "Carlos Mendez", "Diana Petrov", "Elena Costa",
		"Farhan Khan", "Grace Obi", "Hiro Tanaka", "Ines Moreau", "Jonas Berg",
		"Kira Novak", "Leon Fischer", "Mona Haddad", "Nikhil Rao", "Olga Ivanova",
		"Pedro Silva", "Quinn Walsh", "Rhea Kapoor", "Samir Patel", "Tara Singh",
		"Uma Iyer", "Viktor Horvat", "Wendy Chan", "Xavier Dubois", "Yara Aziz",
		"Zane Miller", "Anya Volkov", "Bruno Costa", "Chloe Martin", "Dev Mehta",
	}

	universities := []string{"Northfield University", "Lakeside Institute of Technology", "Crestwood College"}
	branches := []string{"CSE", "ECE", "ME", "CE"}

	successCount := 0
	for i, name := range names {
		req := &model.RegisterParticipantRequest{
			Name:       name,
			University: universities[i%len(universities)],
			Branch:     branches[i%len(branches)],
			Semester:   fmt.Sprintf("%d", (i%8)+1),
			Section:    string(rune('A' + i%3)),
			Email:      fmt.Sprintf("participant%02d@example.com", i+1),
			Password:   "quizarena",
		}

		participant, err := participantService.Register(ctx, req)
		if err != nil {
			fmt.Printf("Error creating participant %s (%s): %v\n", req.Name, req.Email, err)
			continue
		}

		// Seeded accounts go straight to active in round 1 so a fresh
		// environment is immediately testable.
		if _, err := participantService.SetActive(ctx, participant.ID, true); err != nil {
			fmt.Printf("Error activating participant %s: %v\n", req.Email, err)
			continue
		}
		if _, err := participantService.Promote(ctx, participant.ID); err != nil {
			fmt.Printf("Error promoting participant %s: %v\n", req.Email, err)
			continue
		}

		successCount++
		if (i+1)%10 == 0 {
			fmt.Printf("Created %d participants...\n", i+1)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d participants.\n", successCount, len(names))
}
