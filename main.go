package main

import (
	"context"
	"log"
	"net/http"
	"path/filepath"

	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"dungeon_ai/config"
	"dungeon_ai/game"
	"dungeon_ai/handlers"
	"dungeon_ai/narrator"
	"dungeon_ai/save"
	"dungeon_ai/session"
	"dungeon_ai/setting"
	"dungeon_ai/templates"
)

func main() {
	// A missing .env is fine, the environment may carry everything already.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	sessions, err := session.NewManager(filepath.Join(cfg.DataDir, "sessions.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer sessions.Close()

	saves := save.NewStore(cfg.SaveDir, cfg.MaxSaveFiles)
	roller := game.NewRoller()

	settings, err := setting.All()
	if err != nil {
		log.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		templates.Home(settings).Render(r.Context(), w)
	})

	for _, s := range settings {
		names := make([]string, len(s.Archetypes))
		for i, a := range s.Archetypes {
			names[i] = a.Name
		}
		h := &handlers.Handler{
			Setting: s,
			Narrator: narrator.New(client, cfg.Model, cfg.Temperature,
				cfg.CompletionTimeout, narrator.GameTools(names)),
			Sessions: sessions,
			Saves:    saves,
			Roller:   roller,
		}
		h.Register(mux)
		log.Printf("Registered setting %q at /%s/", s.Name, s.ID)
	}

	log.Println("Listening on http://" + cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, mux))
}
