package db

import (
	"context"
	"fmt"
	"time"

	"github.com/NuZard84/go-speedtype/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TypingSentence struct {
	Story           string `bson:"story"`
	TotalCharacters int    `bson:"totalCharacters"`
	TotalWords      int    `bson:"totalWords"`
	Hash            string `bson:"hash"`
}

// SentenceSource serves random practice sentences from a mongo collection.
type SentenceSource struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func Connect(ctx context.Context, cfg config.MongoConfig) (*SentenceSource, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &SentenceSource{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *SentenceSource) Name() string { return "mongo" }

func (s *SentenceSource) Fetch(ctx context.Context) (string, error) {
	sentence, err := s.GetRandomSentence(ctx)
	if err != nil {
		return "", err
	}
	return sentence.Story, nil
}

func (s *SentenceSource) GetRandomSentence(ctx context.Context) (*TypingSentence, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sentence TypingSentence
	if cursor.Next(ctx) {
		if err := cursor.Decode(&sentence); err != nil {
			return nil, err
		}
		return &sentence, nil
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return nil, mongo.ErrNoDocuments
}

func (s *SentenceSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
