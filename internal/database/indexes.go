package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

// EnsureOwnedIndexes creates the userId lookup index shared by the
// per-user collections (addresses, payment methods, orders, carts,
// wishlists).
func EnsureOwnedIndexes(db *mongo.Database, collections ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}

	for _, name := range collections {
		log.Printf("EnsureOwnedIndexes: creating userId_index on %s", name)
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, userIDIndex); err != nil {
			log.Printf("EnsureOwnedIndexes: %s userId index error: %v", name, err)
			return err
		}
	}
	return nil
}

// EnsureResetTokenIndexes sets a TTL index so expired reset tokens are
// reaped by the server instead of application code.
func EnsureResetTokenIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("password_reset_tokens").Indexes()

	ttlIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().
			SetName("expiresAt_ttl").
			SetExpireAfterSeconds(0),
	}

	log.Println("EnsureResetTokenIndexes: creating expiresAt_ttl index")
	if _, err := indexes.CreateOne(ctx, ttlIndex); err != nil {
		log.Println("EnsureResetTokenIndexes: ttl index error:", err)
		return err
	}

	hashIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "tokenHash", Value: 1}},
		Options: options.Index().SetName("tokenHash_index"),
	}

	if _, err := indexes.CreateOne(ctx, hashIndex); err != nil {
		log.Println("EnsureResetTokenIndexes: tokenHash index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	nameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("name_index"),
	}

	log.Println("EnsureProductIndexes: creating name_index")
	_, err := db.Collection("products").Indexes().CreateOne(ctx, nameIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: name index error:", err)
		return err
	}
	return nil
}
