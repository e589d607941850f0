package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Addresses and payment methods share one invariant: a user who owns at
// least one entity of a kind has exactly one marked default. The helpers
// below keep that flag consistent; every mutation that touches it runs the
// clear and set writes inside a single session transaction so concurrent
// requests cannot observe zero or two defaults.

// resolveDefaultFlag decides the isDefault value for a new entity. The first
// entity a user creates is forced default regardless of the request.
func resolveDefaultFlag(existingCount int64, requestedDefault bool) bool {
	return existingCount == 0 || requestedDefault
}

// withTransaction runs fn inside a mongo session transaction.
func withTransaction(ctx context.Context, db *mongo.Database, fn func(sessCtx mongo.SessionContext) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

// clearDefaults drops the default flag on every entity the user owns. Pass
// primitive.NilObjectID as except to clear all of them.
func clearDefaults(ctx context.Context, coll *mongo.Collection, userID, except primitive.ObjectID) error {
	filter := bson.M{"userId": userID}
	if !except.IsZero() {
		filter["_id"] = bson.M{"$ne": except}
	}

	_, err := coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isDefault": false}})
	return err
}

// defaultCandidate is the slice of an entity the promotion policy looks at.
type defaultCandidate struct {
	ID        primitive.ObjectID `bson:"_id"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// pickDefaultSurvivor chooses which remaining entity inherits the default
// flag after the previous default was deleted: the oldest by creation time,
// ties broken by the smaller id so the choice is deterministic.
func pickDefaultSurvivor(candidates []defaultCandidate) (primitive.ObjectID, bool) {
	if len(candidates) == 0 {
		return primitive.NilObjectID, false
	}

	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.CreatedAt.Before(best.CreatedAt) {
			best = candidate
			continue
		}
		if candidate.CreatedAt.Equal(best.CreatedAt) && candidate.ID.Hex() < best.ID.Hex() {
			best = candidate
		}
	}
	return best.ID, true
}

// promoteOldest makes the oldest remaining entity the default after the
// previous default was deleted. A user with no entities left is untouched.
func promoteOldest(ctx context.Context, coll *mongo.Collection, userID primitive.ObjectID) error {
	opts := options.Find().SetProjection(bson.M{"createdAt": 1})
	cursor, err := coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return err
	}

	var candidates []defaultCandidate
	if err := cursor.All(ctx, &candidates); err != nil {
		return err
	}

	survivor, ok := pickDefaultSurvivor(candidates)
	if !ok {
		return nil
	}

	_, err = coll.UpdateByID(ctx, survivor, bson.M{
		"$set": bson.M{"isDefault": true, "updatedAt": time.Now()},
	})
	return err
}

// setDefault clears every sibling then marks the target, in that order, so
// the invariant holds at commit. Idempotent.
func setDefault(ctx context.Context, coll *mongo.Collection, userID, id primitive.ObjectID) error {
	if err := clearDefaults(ctx, coll, userID, primitive.NilObjectID); err != nil {
		return err
	}

	_, err := coll.UpdateOne(ctx, bson.M{"_id": id, "userId": userID}, bson.M{
		"$set": bson.M{"isDefault": true, "updatedAt": time.Now()},
	})
	return err
}
