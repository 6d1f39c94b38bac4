package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlabs/farming-engine/internal/db/model"
)

func (db *Database) GetSettings(ctx context.Context) (*model.SettingsDocument, error) {
	var settings model.SettingsDocument
	err := db.collection(model.SettingsCollection).
		FindOne(ctx, bson.M{"_id": model.SettingsID}).
		Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.SettingsID,
				Message: "engine settings not found",
			}
		}
		return nil, err
	}
	return &settings, nil
}

func (db *Database) UpsertSettings(ctx context.Context, settings *model.SettingsDocument) error {
	opts := options.Replace().SetUpsert(true)
	_, err := db.collection(model.SettingsCollection).
		ReplaceOne(ctx, bson.M{"_id": settings.ID}, settings, opts)
	return err
}
