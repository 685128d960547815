package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"pawmatch_server/middleware"
	"pawmatch_server/routes"
	"pawmatch_server/services"
	"pawmatch_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Auth tokens
	jwtManager := middleware.NewJWTManagerFromEnv()

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService, Tokens: jwtManager}
	petService := &services.PetService{Dynamo: dynamoService}
	interactionService := &services.InteractionService{Dynamo: dynamoService}
	matchingService := &services.MatchingService{Dynamo: dynamoService}
	chatService := &services.ChatService{Dynamo: dynamoService, Interactions: interactionService}
	storeService := &services.StoreService{Dynamo: dynamoService, Users: userProfileService}

	// Realtime fan-out: socket server delivers, chat service publishes.
	socketServer := socket.NewSocketServer(chatService, jwtManager)
	chatService.Broadcast = &socket.Broadcaster{Server: socketServer}
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to PawMatch")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Realtime endpoint
	r.PathPrefix("/socket.io/").Handler(socketServer)

	// Register routes
	routes.RegisterUserProfileRoutes(r, userProfileService, jwtManager)
	routes.RegisterPetRoutes(r, petService, jwtManager)
	routes.RegisterInteractionRoutes(r, interactionService, jwtManager)
	routes.RegisterMatchingRoutes(r, matchingService, jwtManager)
	routes.RegisterChatRoutes(r, chatService, jwtManager)
	routes.RegisterStoreRoutes(r, storeService, jwtManager)
	routes.RegisterS3Routes(r, jwtManager)

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
