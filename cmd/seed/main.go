// Command seed loads sample users, connections and posts for local feed
// testing. Running it twice is safe.
package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"gameon/auth"
	"gameon/database"
	"gameon/models"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type seedConfig struct {
	MongoURI      string `env:"MONGODB_URI,required,notEmpty"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"gameon"`
}

const samplePassword = "password123"

type sampleUser struct {
	email     string
	name      string
	role      models.Role
	dob       string
	interests []string
}

var sampleUsers = []sampleUser{
	{"marcus.athlete@example.com", "Marcus Trent", models.RoleAthlete, "2002-05-15", []string{"Soccer", "Basketball"}},
	{"sarah.athlete@example.com", "Sarah Williams", models.RoleAthlete, "2003-08-22", []string{"Tennis", "Soccer"}},
	{"john.coach@example.com", "Coach John Smith", models.RoleCoach, "1985-03-10", []string{"Soccer", "Coaching"}},
	{"elite.academy@example.com", "Elite FC Academy", models.RoleAcademy, "", []string{"Soccer", "Basketball", "Tennis"}},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
	log.Println("Feed data seeded successfully!")
}

func run() error {
	_ = godotenv.Load()

	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		if err := database.Disconnect(context.Background(), client); err != nil {
			log.Printf("MongoDB disconnect: %v", err)
		}
	}()

	store := database.NewStore(client, cfg.MongoDatabase)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	log.Println("Seeding feed data...")
	return seed(ctx, store)
}

func seed(ctx context.Context, store *database.Store) error {
	hash, err := auth.HashPassword(samplePassword)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	users := make([]*models.User, len(sampleUsers))
	for i, su := range sampleUsers {
		u := &models.User{
			ID:                  primitive.NewObjectID(),
			Email:               su.email,
			Name:                su.name,
			Role:                su.role,
			Status:              models.StatusActive,
			AuthProvider:        models.ProviderCredentials,
			PasswordHash:        &hash,
			Interests:           su.interests,
			OnboardingCompleted: true,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if su.dob != "" {
			dob, err := time.Parse("2006-01-02", su.dob)
			if err != nil {
				return err
			}
			u.DateOfBirth = &dob
		}
		if users[i], err = store.UpsertUser(ctx, u); err != nil {
			return err
		}
	}
	log.Println("Users created")
	marcus, sarah, coach, academy := users[0], users[1], users[2], users[3]

	for _, pair := range [][2]*models.User{{marcus, coach}, {marcus, academy}, {sarah, coach}} {
		_, err := store.UpsertConnection(ctx, &models.Connection{
			SenderID:   pair[0].ID,
			ReceiverID: pair[1].ID,
			Status:     models.ConnectionAccepted,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}
	}
	log.Println("Connections created")

	posts := []struct {
		author  *models.User
		content string
		tags    []string
	}{
		{marcus, "Just finished an incredible training session! 💪 Working on my finishing skills. The grind never stops! #AthleteLife #Soccer", []string{"Soccer"}},
		{coach, "Looking forward to tomorrow's trial session in Manchester. Excited to see the new talent! If you're attending, make sure to bring your A-game. 🔥", []string{"Soccer"}},
		{academy, "Registration now open for our U-19 Summer Camp! Limited spots available. Professional coaching, world-class facilities. Visit our profile for more details. ⚽🎯", []string{"Soccer", "Basketball"}},
		{sarah, "Match day vibes! Ready to dominate the court today. Let's get this win! 🎾💯", []string{"Tennis"}},
		{marcus, "Proud to announce I've been selected for the regional team! All the hard work is paying off. Thank you to my coaches and supporters! 🏆", []string{"Soccer", "Basketball"}},
	}
	// spaced an hour apart so the seeded feed has a stable order
	for i, p := range posts {
		_, err := store.UpsertPost(ctx, &models.Post{
			AuthorID:   p.author.ID,
			Content:    p.content,
			SportsTags: p.tags,
			Visibility: models.VisibilityPublic,
			MediaURLs:  []string{},
			SeedKey:    "seed-post-" + strconv.Itoa(i+1),
			CreatedAt:  now.Add(-time.Duration(len(posts)-i) * time.Hour),
		})
		if err != nil {
			return err
		}
	}
	log.Println("Posts created")
	return nil
}
