package main

import (
	"context"
	"fmt"
	"log"

	"github.com/lumina/internal/config"
	"github.com/lumina/internal/db"
	"github.com/lumina/internal/service"
	"gorm.io/gorm"
)

var seedParishes = []service.ParishInput{
	{
		Name:        "St. Mary's Catholic Church",
		Location:    "Austin, TX",
		Description: "A vibrant downtown parish with **daily Mass**, an active young adult ministry and a weekly food pantry.",
		WebsiteURL:  "https://example.org/st-marys",
		Featured:    true,
	},
	{
		Name:        "Holy Family Parish",
		Location:    "Round Rock, TX",
		Description: "Serving families across Williamson County since 1978.",
		Featured:    true,
	},
	{
		Name:     "San José Mission",
		Location: "San Antonio, TX",
	},
	{
		Name:        "Cathedral of the Sacred Heart",
		Location:    "Dallas, TX",
		Description: "Our cathedral community gathers for liturgy, formation and service.",
		WebsiteURL:  "https://example.org/sacred-heart",
	},
}

var seedFeedback = []service.FeedbackInput{
	{Name: "Fr. Michael", Message: "Lumina cut our bulletin preparation time in half. Our staff finally has time for people again.", IsPublic: true},
	{Name: "Maria G.", Email: "maria@example.org", Message: "The volunteer scheduling alone was worth it.", IsPublic: true},
	{Message: "Setup was easy and the support team answered every question.", IsPublic: true},
	{Name: "Deacon Paul", Message: "Would love a Spanish language toggle for the parish app."},
}

var seedDemoRequests = []service.DemoRequestInput{
	{Name: "Sr. Agnes", ParishName: "St. Clare", Location: "Houston, TX", Email: "agnes@example.org", Message: "We have about 900 registered families."},
	{Name: "John Miller", ParishName: "Our Lady of Guadalupe", Location: "El Paso, TX", Email: "john@example.org", Phone: "(555) 010-2020"},
}

// Seeds sample parishes, feedback and demo requests into the configured database.
func main() {
	cfg := config.Load()
	gdb, err := db.Open(cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	fmt.Println("Generating sample data...")

	ctx := context.Background()
	parishes, err := createTestParishes(ctx, gdb)
	if err != nil {
		log.Fatalf("failed to seed parishes: %v", err)
	}
	feedback, err := createTestFeedback(ctx, gdb)
	if err != nil {
		log.Fatalf("failed to seed feedback: %v", err)
	}
	demos, err := createTestDemoRequests(ctx, gdb)
	if err != nil {
		log.Fatalf("failed to seed demo requests: %v", err)
	}

	fmt.Printf("Done: %d parishes, %d feedback, %d demo requests\n", parishes, feedback, demos)
}

// createTestParishes inserts the sample parishes unless the directory already
// has entries. It returns the number created.
func createTestParishes(ctx context.Context, gdb *gorm.DB) (int, error) {
	svc := service.NewParishService(gdb, nil)

	count, err := svc.Count()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		fmt.Println("Parishes already exist, skipping")
		return 0, nil
	}

	for _, input := range seedParishes {
		if _, err := svc.Create(ctx, input); err != nil {
			return 0, fmt.Errorf("%s: %w", input.Name, err)
		}
	}
	return len(seedParishes), nil
}

func createTestFeedback(ctx context.Context, gdb *gorm.DB) (int, error) {
	svc := service.NewFeedbackService(gdb, nil)

	existing, err := svc.List()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		fmt.Println("Feedback already exists, skipping")
		return 0, nil
	}

	for _, input := range seedFeedback {
		if _, err := svc.Create(ctx, input); err != nil {
			return 0, err
		}
	}
	return len(seedFeedback), nil
}

func createTestDemoRequests(ctx context.Context, gdb *gorm.DB) (int, error) {
	svc := service.NewDemoRequestService(gdb, nil, nil)

	existing, err := svc.List()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		fmt.Println("Demo requests already exist, skipping")
		return 0, nil
	}

	for _, input := range seedDemoRequests {
		if _, err := svc.Create(ctx, input); err != nil {
			return 0, err
		}
	}
	return len(seedDemoRequests), nil
}
