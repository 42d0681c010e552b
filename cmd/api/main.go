package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"pocketspace/internal/adapter/api"
	"pocketspace/internal/adapter/api/handler"
	apimiddleware "pocketspace/internal/adapter/api/middleware"
	"pocketspace/internal/adapter/api/router"
	"pocketspace/internal/adapter/repository"
	"pocketspace/internal/infrastructure/firebase"
	"pocketspace/internal/infrastructure/oauth"
	"pocketspace/internal/infrastructure/storage"
	"pocketspace/internal/infrastructure/websocket"
	"pocketspace/internal/usecase"
	"pocketspace/pkg/config"
	"pocketspace/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []option.ClientOption
	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
		serviceAccountPath = ""
	} else if serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, serviceAccountPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	favorRepo := repository.NewFirestoreFavorRepository(firestoreClient)
	chatRoomRepo := repository.NewFirestoreChatRoomRepository(firestoreClient)
	fileMetadataRepo := repository.NewFirestoreFileMetadataRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	appleVerifier, err := oauth.NewAppleVerifier(cfg.AppleJWKSURL, cfg.AppleClientID)
	if err != nil {
		log.Fatalf("Failed to initialize Apple verifier: %v", err)
	}
	defer appleVerifier.Close()

	// Every registered connection gets its own unread session; the session's
	// aggregates are pushed to that connection as unread_update events.
	wsManager := websocket.NewManager(func(userID string, send func([]byte)) websocket.Session {
		return usecase.NewUnreadSession(chatRoomRepo, userID, func(agg *usecase.UnreadAggregate) {
			payload, err := json.Marshal(websocket.Envelope{
				Type: websocket.EventUnreadUpdate,
				Data: agg,
			})
			if err != nil {
				logger.Error("Failed to marshal unread aggregate for %s: %v", userID, err)
				return
			}
			send(payload)
		})
	})
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient,
		oauth.NewNaverVerifier(cfg.NaverUserInfoURL),
		oauth.NewKakaoVerifier(cfg.KakaoUserInfoURL),
		oauth.NewGoogleVerifier(cfg.GoogleUserInfoURL),
		appleVerifier,
	)
	userUseCase := usecase.NewUserUseCase(userRepo)
	listingUseCase := usecase.NewListingUseCase(listingRepo)
	chatUseCase := usecase.NewChatUseCase(chatRoomRepo, userRepo, listingRepo, wsManager)
	favorUseCase := usecase.NewFavorUseCase(favorRepo, chatUseCase, cfg.FavorTTL)
	fileUseCase := usecase.NewFileUseCase(storageClient, fileMetadataRepo, cfg.MaxUploadBytes)

	favorUseCase.StartExpirySweep(ctx, cfg.FavorSweepPeriod)

	handler.Setup(authUseCase, userUseCase, listingUseCase, favorUseCase, chatUseCase, fileUseCase)
	handler.SetupHealthHandler()

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)
	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware)

	router.Setup(e, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
