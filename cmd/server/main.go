package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"unishare/internal/api"
	"unishare/internal/assistant"
	"unishare/internal/config"
	"unishare/internal/storage"
)

func main() {
	log.SetFlags(log.Ltime | log.Lmsgprefix)
	log.SetPrefix("")

	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🎓 UNISHARE - Start")
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// Kommandozeilen-Flags
	configPath := flag.String("config", "config.json", "Pfad zur Konfigurationsdatei")
	port := flag.String("port", "", "Server-Port (überschreibt Konfiguration)")
	flag.Parse()

	// .env früh laden, damit GEMINI_API_KEY verfügbar ist
	godotenv.Load()

	// Konfiguration laden
	log.Println("📋 Lade Konfiguration...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("⚠️  Konnte Konfiguration nicht laden, verwende Standardwerte: %v", err)
	}
	if *port != "" {
		cfg.ServerPort = *port
	}
	log.Printf("   ✓ Konfiguration geladen")

	// Storage initialisieren
	log.Println("💾 Initialisiere Datenbank...")
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Fehler beim Initialisieren der Datenbank: %v", err)
	}
	defer store.Close()
	log.Printf("   ✓ Datenbank: %s", cfg.DatabasePath)

	// KI-Provider initialisieren
	log.Println("🤖 Initialisiere KI-Provider...")
	provider := assistant.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel)
	defer provider.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if provider.IsAvailable(ctx) {
		log.Printf("   ✓ %s bereit, Modell: %s", provider.GetName(), provider.GetCurrentModel())
	} else {
		log.Printf("   ⚠️  GEMINI_API_KEY ist nicht gesetzt")
		log.Println("      Assistenten-Anfragen werden mit einer Fehlermeldung beantwortet")
	}
	cancel()

	// API-Handler erstellen
	handler := api.NewHandler(store, provider, cfg)

	// Router erstellen
	router := api.NewRouter(handler)

	// Server starten
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// Graceful Shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("")
		log.Println("⏹️  Server wird heruntergefahren...")
		server.Close()
	}()

	log.Println("")
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("✅ Server läuft auf: http://localhost:%s", cfg.ServerPort)
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("📚 Dokumente-Ordner:", cfg.DocumentsPath)
	log.Println("💡 Drücke Strg+C zum Beenden")
	log.Println("")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server-Fehler: %v", err)
	}
}
