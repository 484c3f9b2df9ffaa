package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-user-registry/config"
	"github.com/oksasatya/go-ddd-user-registry/internal/application"
	"github.com/oksasatya/go-ddd-user-registry/internal/container"
	"github.com/oksasatya/go-ddd-user-registry/pkg/apperrors"
	"github.com/oksasatya/go-ddd-user-registry/pkg/helpers"
)

// demo users carry valid check digits
var demoUsers = []application.CreateUserInput{
	{Username: "demo_user", Email: "demo@example.com", TypeDoc: "CPF", NumberDoc: "111.444.777-35"},
	{Username: "maria_silva", Email: "maria.silva@example.com", TypeDoc: "CPF", NumberDoc: "529.982.247-25"},
	{Username: "acme_ltda", Email: "contato@acme.example.com", TypeDoc: "CNPJ", NumberDoc: "11.222.333/0001-81"},
	{Username: "beta_corp", Email: "finance@beta.example.com", TypeDoc: "CNPJ", NumberDoc: "11.444.777/0001-61"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	// seeding should not spam the mail pipeline
	cfg.EventsEnabled = false

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer c.Close()

	for _, in := range demoUsers {
		out, err := c.Users.Create.Execute(ctx, in)
		switch {
		case apperrors.Is(err, apperrors.ErrConflict):
			fmt.Printf("skipped existing user: username=%s email=%s\n", in.Username, in.Email)
		case err != nil:
			log.Fatalf("failed to seed %s: %v", in.Username, err)
		default:
			fmt.Printf("seeded user: id=%s username=%s email=%s %s=%s\n", out.ID, out.Username, out.Email, out.TypeDoc, out.NumberDoc)
		}
	}
}
