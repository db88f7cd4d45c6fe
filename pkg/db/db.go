package db

import (
	"context"
	"fmt"

	"transcript-export/pkg/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps the MongoDB client and the flashcard collection
type Client struct {
	mongoClient *mongo.Client
	database    *mongo.Database
	collection  *mongo.Collection
}

// NewClient creates a new database client
func NewClient(connectionString, databaseName, collectionName string) *Client {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		// Return client with nil - error will be caught during Connect()
		return &Client{}
	}

	database := mongoClient.Database(databaseName)
	collection := database.Collection(collectionName)

	return &Client{
		mongoClient: mongoClient,
		database:    database,
		collection:  collection,
	}
}

// Connect establishes connection to MongoDB
func (c *Client) Connect(ctx context.Context) error {
	if c.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.mongoClient.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (c *Client) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

// SaveFlashcards upserts each flashcard keyed by (audio, segment), so re-running the csv stage
// over the same transcripts does not duplicate documents.
func (c *Client) SaveFlashcards(ctx context.Context, cards []domain.Flashcard) error {
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}
	if len(cards) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(cards))
	for _, card := range cards {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"audio": card.Audio, "segment": card.Segment}).
			SetUpdate(flashcardUpsert(card)).
			SetUpsert(true))
	}

	_, err := c.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("failed to save flashcards: %w", err)
	}
	return nil
}

// flashcardUpsert refreshes the card's text fields and sets created_at only when the document
// is first inserted.
func flashcardUpsert(card domain.Flashcard) bson.M {
	return bson.M{
		"$set": bson.M{
			"sentence":    card.Sentence,
			"translation": card.Translation,
			"notes":       card.Notes,
			"audio":       card.Audio,
			"segment":     card.Segment,
		},
		"$setOnInsert": bson.M{
			"created_at": card.CreatedAt,
		},
	}
}

// CountFlashcards returns the number of archived flashcards for one audio reference.
func (c *Client) CountFlashcards(ctx context.Context, audio string) (int64, error) {
	if c.collection == nil {
		return 0, fmt.Errorf("collection not initialized")
	}
	return c.collection.CountDocuments(ctx, bson.M{"audio": audio})
}

// ListFlashcards returns every archived flashcard ordered by audio reference and segment.
func (c *Client) ListFlashcards(ctx context.Context) ([]domain.Flashcard, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	opts := options.Find().SetSort(bson.D{{Key: "audio", Value: 1}, {Key: "segment", Value: 1}})
	cursor, err := c.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find flashcards: %w", err)
	}
	defer cursor.Close(ctx)

	var cards []domain.Flashcard
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode flashcards: %w", err)
	}
	return cards, nil
}
