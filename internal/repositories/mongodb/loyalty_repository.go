package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type loyaltyRepository struct {
	programs *mongo.Collection
	cards    *mongo.Collection
}

func NewLoyaltyRepository(db *mongo.Database) interfaces.LoyaltyRepository {
	return &loyaltyRepository{
		programs: db.Collection("loyalty_programs"),
		cards:    db.Collection("loyalty_cards"),
	}
}

func (r *loyaltyRepository) CreateProgram(ctx context.Context, program *models.LoyaltyProgram) error {
	program.ID = primitive.NewObjectID()
	program.IsActive = true
	program.CreatedAt = time.Now()
	program.UpdatedAt = time.Now()

	_, err := r.programs.InsertOne(ctx, program)
	if err != nil {
		return fmt.Errorf("failed to create loyalty program: %w", err)
	}

	return nil
}

func (r *loyaltyRepository) GetProgramByID(ctx context.Context, id primitive.ObjectID) (*models.LoyaltyProgram, error) {
	var program models.LoyaltyProgram
	err := r.programs.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New(utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get loyalty program: %w", err)
	}

	return &program, nil
}

func (r *loyaltyRepository) GetProgramByBusiness(ctx context.Context, businessID primitive.ObjectID) (*models.LoyaltyProgram, error) {
	var program models.LoyaltyProgram
	err := r.programs.FindOne(ctx, bson.M{
		"business_id": businessID,
		"is_active":   true,
	}).Decode(&program)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New(utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get loyalty program: %w", err)
	}

	return &program, nil
}

func (r *loyaltyRepository) UpdateProgram(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.programs.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update loyalty program: %w", err)
	}

	return nil
}

func (r *loyaltyRepository) GetCard(ctx context.Context, userID, programID primitive.ObjectID) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	err := r.cards.FindOne(ctx, bson.M{
		"user_id":    userID,
		"program_id": programID,
	}).Decode(&card)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New(utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get loyalty card: %w", err)
	}

	return &card, nil
}

func (r *loyaltyRepository) ListCardsByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.LoyaltyCard, error) {
	cursor, err := r.cards.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list loyalty cards: %w", err)
	}
	defer cursor.Close(ctx)

	var cards []*models.LoyaltyCard
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode loyalty cards: %w", err)
	}

	return cards, nil
}

func (r *loyaltyRepository) AddStamp(ctx context.Context, userID primitive.ObjectID, program *models.LoyaltyProgram) (*models.LoyaltyCard, error) {
	now := time.Now()

	var card models.LoyaltyCard
	err := r.cards.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID, "program_id": program.ID},
		bson.M{
			"$inc": bson.M{"stamps": 1},
			"$set": bson.M{
				"last_stamp_at": now,
				"updated_at":    now,
			},
			"$setOnInsert": bson.M{
				"business_id": program.BusinessID,
				"created_at":  now,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&card)
	if err != nil {
		return nil, fmt.Errorf("failed to add loyalty stamp: %w", err)
	}

	return &card, nil
}

func (r *loyaltyRepository) ResetStamps(ctx context.Context, cardID primitive.ObjectID) error {
	_, err := r.cards.UpdateOne(
		ctx,
		bson.M{"_id": cardID},
		bson.M{
			"$set": bson.M{"stamps": 0, "updated_at": time.Now()},
			"$inc": bson.M{"rewards_earned": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to reset loyalty stamps: %w", err)
	}

	return nil
}
