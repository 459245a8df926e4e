package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PratikJH153/OrbitAI/internal/actions"
	"github.com/PratikJH153/OrbitAI/internal/archive"
	"github.com/PratikJH153/OrbitAI/internal/config"
	"github.com/PratikJH153/OrbitAI/internal/conversation"
	"github.com/PratikJH153/OrbitAI/internal/httpserver"
	"github.com/PratikJH153/OrbitAI/internal/llm"
	"github.com/PratikJH153/OrbitAI/internal/protocol"
	"github.com/PratikJH153/OrbitAI/internal/session"
	"github.com/PratikJH153/OrbitAI/internal/speech"
	"github.com/PratikJH153/OrbitAI/internal/turn"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	})
	log := logrus.WithField("component", "main")

	cfg := config.Load()

	completer := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel, cfg.LLMTimeout, cfg.LLMRetries)
	engine := protocol.NewEngine(completer, cfg.StudentName)

	hub := httpserver.NewHub()
	mic := speech.NewPushMicrophone()
	transcriber := speech.NewOpenAITranscriber(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.WhisperModel)

	var synthesizer speech.Synthesizer
	switch cfg.TTSProvider {
	case config.TTSProviderElevenLabs:
		synthesizer = speech.NewElevenLabsSynthesizer(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID)
	default:
		synthesizer = speech.NewOpenAISynthesizer(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.TTSModel, cfg.TTSVoice)
	}

	// Synthesized speech is fanned out to connected browser clients.
	player := speech.PlayerFunc(func(ctx context.Context, audio []byte) error {
		hub.BroadcastAudio(audio)
		return nil
	})

	adapter := speech.NewAdapter(mic, transcriber, synthesizer, player,
		speech.WithMaxCaptureDuration(cfg.MaxRecordingDuration()))

	var archiver archive.Archiver = archive.Disabled{}
	if cfg.ArchiveEnabled() {
		a, err := archive.NewSupabaseArchiver(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
		if err != nil {
			log.WithError(err).Warn("supabase archiver unavailable, transcripts will not be archived")
		} else {
			archiver = a
		}
	}

	convo := conversation.NewLog()
	store := session.NewStore(cfg.StudentName)

	dispatcher := &actions.Dispatcher{
		OnShowActionPanel: func() {
			store.SetActionPanelVisible(true)
			// Seed the starter tasks the first time the panel opens.
			for _, dt := range actions.DefaultTasks() {
				if !store.HasTask(dt.Title) {
					store.AddTask(dt.Title, dt.Priority)
				}
			}
		},
		OnAddTask: func(title string, priority protocol.Priority) {
			store.AddTask(title, priority)
		},
		OnCompleteTask: func() {
			if task, ok := store.CompleteNextTask(); ok {
				log.Printf("task completed: %s (+%d points)", task.Title, task.Points)
			}
		},
		OnShowProblem:   func() { store.SetRightPanelVisible(true) },
		OnShowResources: func() { store.SetRightPanelVisible(true) },
		OnOpenTeamMap:   func() { store.SetTeamMapVisible(true) },
		OnCloseSession: func() {
			store.ShowEndPrompt(archive.Render(convo.Messages()))
		},
	}

	hooks := turn.Hooks{
		OnState: func(s turn.State) {
			hub.Broadcast(httpserver.Event{Type: "state", Data: s})
		},
		OnReply: func(r protocol.Reply) {
			hub.Broadcast(httpserver.Event{Type: "reply", Data: r})
		},
		OnDisplay: func(text string) {
			hub.Broadcast(httpserver.Event{Type: "display", Data: text})
		},
	}

	ctrl := turn.NewController(adapter, engine, turn.DefaultIntents(), convo, dispatcher, hooks)

	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(httpserver.Deps{
		Controller: ctrl,
		Store:      store,
		Convo:      convo,
		Archiver:   archiver,
		Mic:        mic,
		Hub:        hub,
		BaseCtx:    appCtx,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddress)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	case <-appCtx.Done():
		log.Println("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = server.Close()
	}
}
