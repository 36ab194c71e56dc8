package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"swingfox_server/routes"
	"swingfox_server/services"
	"swingfox_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize S3 for attachment cleanup
	s3Client := services.InitializeS3Client()
	attachmentService := &services.AttachmentService{
		Client: s3Client,
		Bucket: envOrDefault("S3_BUCKET", "swingfox-attachments"),
	}

	// Initialize Redis for typing indicators
	redisClient := redis.NewClient(&redis.Options{
		Addr: envOrDefault("REDIS_ADDR", "localhost:6379"),
	})
	typingService := &services.TypingService{Redis: redisClient}

	// Initialize core services
	notificationService := &services.NotificationService{Dynamo: dynamoService}
	profileService := &services.ProfileService{Dynamo: dynamoService}
	messageService := &services.MessageService{Dynamo: dynamoService, Attachments: attachmentService}
	likeService := &services.LikeService{Dynamo: dynamoService, Notifier: notificationService}
	clubService := &services.ClubService{Dynamo: dynamoService}
	matchGateService := &services.MatchGateService{
		Edges:    likeService,
		Messages: messageService,
		FailOpen: envOrDefault("MATCH_GATE_FAIL_OPEN", "true") == "true",
	}

	// Live delivery over Socket.IO
	socketServer := socket.NewServer(typingService)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("❌ Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	botService := &services.BotTriggerService{
		Rules:    clubService,
		Messages: messageService,
		Events:   clubService,
		Notifier: notificationService,
		Fanout:   socketServer,
	}
	clubService.Bot = botService

	routerService := &services.ChannelRouterService{
		Gate:          matchGateService,
		Messages:      messageService,
		Profiles:      profileService,
		Participation: clubService,
		Notifier:      notificationService,
		Fanout:        socketServer,
		Bot:           botService,
		Attachments:   attachmentService,
	}
	conversationService := &services.ConversationService{
		Messages: messageService,
		Profiles: profileService,
	}

	// Set up the server port
	port := envOrDefault("PORT", "8080")
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to SwingFox")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterChatRoutes(r, routerService, messageService)
	routes.RegisterClubChatRoutes(r, routerService, messageService, clubService)
	routes.RegisterConversationRoutes(r, conversationService)
	routes.RegisterInteractionRoutes(r, likeService, matchGateService)
	routes.RegisterTypingRoutes(r, typingService)

	// Socket.IO endpoint for live delivery
	r.PathPrefix("/socket.io/").Handler(socketServer.Handler())

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}
