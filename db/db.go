package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	CompanyCollection     *mongo.Collection
	DownloadsCollection   *mongo.Collection
	VersionsCollection    *mongo.Collection
	ReleasePostCollection *mongo.Collection
	SettingsCollection    *mongo.Collection
	ActivitiesCollection  *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "vantagedb"
	}

	UserCollection = Client.Database(dbName).Collection("users")
	CompanyCollection = Client.Database(dbName).Collection("companies")
	DownloadsCollection = Client.Database(dbName).Collection("downloads")
	VersionsCollection = Client.Database(dbName).Collection("versions")
	ReleasePostCollection = Client.Database(dbName).Collection("releaseposts")
	SettingsCollection = Client.Database(dbName).Collection("settings")
	ActivitiesCollection = Client.Database(dbName).Collection("activities")
}
