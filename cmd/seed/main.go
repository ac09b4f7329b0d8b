package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/heartline/heartline/backend/config"
	"github.com/heartline/heartline/backend/internal/cache"
	"github.com/heartline/heartline/backend/internal/clock"
	"github.com/heartline/heartline/backend/internal/database"
	"github.com/heartline/heartline/backend/internal/logging"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/repository"
	"github.com/heartline/heartline/backend/internal/service"
	"github.com/heartline/heartline/backend/internal/types"
)

const demoPassword = "heartline-demo-123"

type demoUser struct {
	email       string
	displayName string
	admin       bool
	traits      [5]int
	lifestyle   models.LifestylePreferences
	smoking     bool
	interests   []string
	aboutMe     string
}

var demoUsers = []demoUser{
	{
		email:       "maya@example.com",
		displayName: "Maya",
		traits:      [5]int{80, 70, 60, 90, 50},
		lifestyle:   models.LifestylePreferences{RelationshipType: "serious", Frequency: "weekly", Budget: "high", Travel: "domestic"},
		interests:   []string{"hiking", "cooking", "jazz"},
		aboutMe:     "Weekend hiker, weekday cook. Looking for someone to share long dinners with.",
	},
	{
		email:       "leo@example.com",
		displayName: "Leo",
		traits:      [5]int{80, 70, 40, 90, 50},
		lifestyle:   models.LifestylePreferences{RelationshipType: "serious", Frequency: "weekly", Budget: "high", Travel: "domestic"},
		interests:   []string{"climbing", "cooking", "film"},
		aboutMe:     "Climbing gyms, film nights and an ever growing spice collection.",
	},
	{
		email:       "sam@example.com",
		displayName: "Sam",
		traits:      [5]int{40, 55, 85, 60, 35},
		lifestyle:   models.LifestylePreferences{RelationshipType: "casual", Frequency: "daily", Budget: "medium", Travel: "international"},
		smoking:     true,
		interests:   []string{"travel", "music", "surfing", "photography"},
		aboutMe:     "Always planning the next trip. Ask me about the best beaches I have found.",
	},
	{
		email:       "admin@example.com",
		displayName: "Admin",
		admin:       true,
		traits:      [5]int{50, 50, 50, 50, 50},
		lifestyle:   models.LifestylePreferences{RelationshipType: "friendship"},
	},
}

func main() {
	withPremium := flag.Bool("premium", true, "Activate a profile boost for the first demo user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})

	db, err := database.Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.RunMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)
	authService := service.NewAuthService(db, cfg.JWTSecret, clock.Real{})
	personalityService := service.NewPersonalityService(users, repository.NewPersonalityRepository(db), cache.NewScoreCache(nil, 0))
	premiumService := service.NewPremiumService(users, profiles, repository.NewPremiumFeatureRepository(db), clock.Real{})

	created := 0
	for i, demo := range demoUsers {
		user, err := authService.Register(ctx, &types.RegisterRequest{
			Email:       demo.email,
			Password:    demoPassword,
			DisplayName: demo.displayName,
		})
		if errors.Is(err, service.ErrUserExists) {
			logging.Info().Str("email", demo.email).Msg("user already exists, skipping")
			continue
		}
		if err != nil {
			logging.Fatal().Err(err).Str("email", demo.email).Msg("failed to create user")
		}

		if demo.admin {
			user.Role = models.RoleAdmin
			if err := users.Update(ctx, user); err != nil {
				logging.Fatal().Err(err).Msg("failed to promote admin")
			}
		}

		if _, err := personalityService.SubmitQuestionnaire(ctx, user.ID, questionnaire(demo)); err != nil {
			logging.Fatal().Err(err).Str("email", demo.email).Msg("failed to submit questionnaire")
		}

		if i == 0 && *withPremium {
			if _, err := premiumService.ActivateFeature(ctx, user.ID, models.FeatureProfileBoost, nil); err != nil {
				logging.Warn().Err(err).Msg("failed to activate profile boost")
			}
		}

		created++
		logging.Info().Str("email", demo.email).Str("role", user.Role).Msg("created demo user")
	}

	logging.Info().
		Int("created", created).
		Str("password", demoPassword).
		Msg("demo users ready")
}

func questionnaire(demo demoUser) *types.QuestionnaireRequest {
	t := demo.traits
	smoking, no := demo.smoking, false
	return &types.QuestionnaireRequest{
		PersonalityTraits: models.PersonalityTraits{
			Openness:          &t[0],
			Conscientiousness: &t[1],
			Extraversion:      &t[2],
			Agreeableness:     &t[3],
			Neuroticism:       &t[4],
		},
		LifestylePreferences: demo.lifestyle,
		DealBreakers: models.DealBreakers{
			Smoking:  &smoking,
			Drinking: &no,
			Drugs:    &no,
			Religion: models.SensitivityNotImportant,
			Politics: models.SensitivityNotImportant,
			Children: models.SensitivityNotImportant,
			Marriage: models.SensitivityNotImportant,
		},
		Interests:        demo.interests,
		AboutMe:          demo.aboutMe,
		WhatImLookingFor: "Someone kind, curious and up for an adventure now and then.",
	}
}
