package mongo

import (
	"context"
	"errors"

	adminapp "github.com/sngm3741/survey-club-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository はユーザーコレクションの読み取り専用リポジトリ。
// ユーザーの作成・削除は外部のユーザー管理フローが所有する。
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository はユーザーコレクションを束縛したリポジトリを生成する。
func NewUserRepository(db *mongo.Database, userCollection string) *UserRepository {
	return &UserRepository{users: db.Collection(userCollection)}
}

// Find は登録順のユーザー一覧を返す。
func (r *UserRepository) Find(ctx context.Context, paging adminapp.Paging) ([]admindomain.User, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if paging.Limit > 0 {
		findOpts.SetLimit(int64(paging.Limit))
		if paging.Page > 1 {
			findOpts.SetSkip(int64((paging.Page - 1) * paging.Limit))
		}
	}

	cursor, err := r.users.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]admindomain.User, 0)
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, mapUserDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByID は単一ユーザーを復元する。存在しなければ NotFound。
func (r *UserRepository) FindByID(ctx context.Context, id string) (*admindomain.User, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc UserDocument
	if err := r.users.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, admindomain.ErrNotFound
		}
		return nil, err
	}
	user := mapUserDocument(doc)
	return &user, nil
}

func mapUserDocument(doc UserDocument) admindomain.User {
	return admindomain.User{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		Email:     doc.Email,
		IsActive:  doc.IsActive,
		CreatedAt: doc.CreatedAt,
	}
}
