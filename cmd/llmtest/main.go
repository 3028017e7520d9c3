package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/serenova-spa/recommend-platform/internal/catalog"
	appconfig "github.com/serenova-spa/recommend-platform/internal/config"
	"github.com/serenova-spa/recommend-platform/internal/llm"
	"github.com/serenova-spa/recommend-platform/internal/recommend"
	"github.com/serenova-spa/recommend-platform/pkg/logging"
)

// Manual smoke test for the recommendation chain: renders a sample
// questionnaire, runs the real model fallback chain and prints the parsed
// and matched result. Requires GEMINI_API_KEY.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New("debug", "development")

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		log.Fatal("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	entries, err := catalog.Load()
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	gemini, err := llm.NewGeminiClient(ctx, geminiKey)
	if err != nil {
		log.Fatalf("failed to create Gemini client: %v", err)
	}
	defer func() { _ = gemini.Close() }()

	chain := llm.NewModelChain(gemini, cfg.RecommendModelIDs, logger.Logger, nil)

	answers := []recommend.RenderedAnswer{
		{Question: "¿Qué zonas del cuerpo quieres trabajar?", Answer: "Espalda alta, Cuello y hombros"},
		{Question: "¿Cuál es tu objetivo principal?", Answer: "Aliviar dolor muscular"},
		{Question: "¿Qué nivel de presión prefieres? (1 = muy suave, 5 = muy fuerte)", Answer: "4"},
		{Question: "¿Qué tan alto es tu nivel de estrés en este momento? (1 = bajo, 5 = muy alto)", Answer: "5"},
		{Question: "¿Con qué frecuencia sientes molestias musculares?", Answer: "Varias veces por semana"},
		{Question: "¿Qué te gustaría incluir en tu experiencia?", Answer: "Nada en especial"},
		{Question: "¿Cuánto tiempo tienes para tu sesión?", Answer: "60 minutos"},
		{Question: "¿Has recibido masajes profesionales antes?", Answer: "Algunas veces"},
		{Question: "¿Hay alguna condición de salud que debamos considerar?", Answer: "Ninguna"},
		{Question: "¿Algo más que quieras contarnos sobre lo que buscas?", Answer: "Paso muchas horas frente a la computadora"},
	}

	orchestrator := recommend.NewOrchestrator(recommend.OrchestratorConfig{
		Generator: chain,
		Catalog:   entries,
		Logger:    logger,
	})

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Recommendation Chain Test")
	fmt.Println(strings.Repeat("=", 60))

	start := time.Now()
	result, err := orchestrator.Submit(ctx, "llmtest-session", answers)
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("submission failed after %v: %v", elapsed.Round(time.Millisecond), err)
	}

	fmt.Printf("\nModel: %s (%v)\n\n", result.Model, elapsed.Round(time.Millisecond))
	fmt.Println("--- Raw reply ---")
	fmt.Println(result.Raw)
	fmt.Println("\n--- Parsed ---")
	fmt.Printf("Service:  %s\n", result.Parsed.RecommendedService)
	fmt.Printf("Category: %s\n", result.Parsed.Category)
	fmt.Printf("Duration: %s\n", result.Parsed.DurationMinutes)
	fmt.Printf("Reason:   %s\n", result.Parsed.Reason)

	if result.Recommended != nil && result.Recommended.Entry != nil {
		fmt.Printf("\nMatched catalog entry: %s (%s)\n",
			result.Recommended.Entry.Name, result.Recommended.Entry.ID)
	} else {
		fmt.Println("\nNo catalog entry matched the recommended service")
	}
	for _, alt := range result.Alternatives {
		if alt.Entry != nil {
			fmt.Printf("Alternative: %s (%s)\n", alt.Entry.Name, alt.Entry.ID)
		} else {
			fmt.Printf("Alternative (unmatched): %s\n", alt.SourceText)
		}
	}
}
