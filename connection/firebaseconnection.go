package connection

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	firebaseStorage "firebase.google.com/go/storage"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// FBConnection initializes the Firebase app and returns the Firestore and
// storage clients. Credentials come from GOOGLE_APPLICATION_CREDENTIALS,
// the default bucket from FIREBASE_STORAGE_BUCKET.
func FBConnection() (*firestore.Client, *firebaseStorage.Client, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: No .env file found or failed to load") // Use only in dev
	}

	serviceAccountKeyPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if serviceAccountKeyPath == "" {
		return nil, nil, fmt.Errorf("environment variable GOOGLE_APPLICATION_CREDENTIALS is not set")
	}

	ctx := context.Background()

	config := &firebase.Config{
		StorageBucket: os.Getenv("FIREBASE_STORAGE_BUCKET"),
	}
	app, err := firebase.NewApp(ctx, config, option.WithCredentialsFile(serviceAccountKeyPath))
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("error getting storage client: %w", err)
	}

	fmt.Println("Firestore connection successful")
	return client, storageClient, nil
}
