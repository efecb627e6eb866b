package mongo

import (
	"context"
	"time"

	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReconciliationRepository は整合性検出クエリと差別化された削除処理を担う。
// MongoDB はコレクション間の参照整合性を保証しないため、creatorId や
// surveyId の宙吊り参照はここでの検出が唯一の回収経路になる。
type ReconciliationRepository struct {
	surveys   *mongo.Collection
	questions *mongo.Collection
	responses *mongo.Collection

	userCollection     string
	questionCollection string
	responseCollection string
}

// NewReconciliationRepository は検出対象の 4 コレクションを束縛したリポジトリを生成する。
func NewReconciliationRepository(db *mongo.Database, surveyCollection, userCollection, questionCollection, responseCollection string) *ReconciliationRepository {
	return &ReconciliationRepository{
		surveys:            db.Collection(surveyCollection),
		questions:          db.Collection(questionCollection),
		responses:          db.Collection(responseCollection),
		userCollection:     userCollection,
		questionCollection: questionCollection,
		responseCollection: responseCollection,
	}
}

// notDeleted は全検出クエリ共通の前提条件。DELETED 済みの行を候補から外す
// ことで、連続実行時に 2 回目が必ずゼロ件になる冪等性を成立させる。
func notDeleted() bson.M {
	return bson.M{"status": bson.M{"$ne": admindomain.StatusDeleted.String()}}
}

// FindOrphaned は creatorId がどのユーザー行にも解決できないアンケートを返す。
// 作成者が物理削除された「真の孤児」のみが対象で、無効化ユーザーは含まない。
func (r *ReconciliationRepository) FindOrphaned(ctx context.Context) ([]admindomain.Survey, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: notDeleted()}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.userCollection,
			"localField":   "creatorId",
			"foreignField": "_id",
			"as":           "creator",
		}}},
		{{Key: "$match", Value: bson.M{"creator": bson.M{"$size": 0}}}},
		{{Key: "$project", Value: bson.M{"creator": 0}}},
	}
	return r.aggregate(ctx, pipeline)
}

// FindInactiveCreator は作成者のユーザー行が存在し、かつ isActive=false の
// アンケートを返す。行が存在する時点で FindOrphaned とは排他になる。
func (r *ReconciliationRepository) FindInactiveCreator(ctx context.Context) ([]admindomain.Survey, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: notDeleted()}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.userCollection,
			"localField":   "creatorId",
			"foreignField": "_id",
			"as":           "creator",
		}}},
		{{Key: "$unwind", Value: "$creator"}},
		{{Key: "$match", Value: bson.M{"creator.isActive": false}}},
		{{Key: "$project", Value: bson.M{"creator": 0}}},
	}
	return r.aggregate(ctx, pipeline)
}

// FindWithoutQuestions は設問が 1 件も存在しないアンケートを返す。
// 作成者や活性状態は問わない。
func (r *ReconciliationRepository) FindWithoutQuestions(ctx context.Context) ([]admindomain.Survey, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: notDeleted()}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.questionCollection,
			"localField":   "_id",
			"foreignField": "surveyId",
			"as":           "surveyQuestions",
		}}},
		{{Key: "$match", Value: bson.M{"surveyQuestions": bson.M{"$size": 0}}}},
		{{Key: "$project", Value: bson.M{"surveyQuestions": 0}}},
	}
	return r.aggregate(ctx, pipeline)
}

// FindStale は olderThan 以前に作成され、回答が 1 件も無いアンケートを返す。
// 境界は含む(ちょうど閾値日数前に作成されたものは対象)。
func (r *ReconciliationRepository) FindStale(ctx context.Context, olderThan time.Time) ([]admindomain.Survey, error) {
	match := notDeleted()
	match["createdAt"] = bson.M{"$lte": olderThan}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.responseCollection,
			"localField":   "_id",
			"foreignField": "surveyId",
			"as":           "surveyResponses",
		}}},
		{{Key: "$match", Value: bson.M{"surveyResponses": bson.M{"$size": 0}}}},
		{{Key: "$project", Value: bson.M{"surveyResponses": 0}}},
	}
	return r.aggregate(ctx, pipeline)
}

// HardDeleteSurveys は対象アンケートと配下の設問・回答を単一トランザクション内で
// 設問 → 回答 → 本体の順に削除する。ORM のカスケード注釈に相当する処理を
// 明示的な複数コレクション削除として自前で制御する。
func (r *ReconciliationRepository) HardDeleteSurveys(ctx context.Context, ids []string) (int64, error) {
	objectIDs, err := parseObjectIDs(ids)
	if err != nil {
		return 0, err
	}
	if len(objectIDs) == 0 {
		return 0, nil
	}

	session, err := r.surveys.Database().Client().StartSession()
	if err != nil {
		return 0, err
	}
	defer session.EndSession(ctx)

	deleted, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		surveyFilter := bson.M{"surveyId": bson.M{"$in": objectIDs}}
		if _, err := r.questions.DeleteMany(sessCtx, surveyFilter); err != nil {
			return nil, err
		}
		if _, err := r.responses.DeleteMany(sessCtx, surveyFilter); err != nil {
			return nil, err
		}
		result, err := r.surveys.DeleteMany(sessCtx, bson.M{"_id": bson.M{"$in": objectIDs}})
		if err != nil {
			return nil, err
		}
		return result.DeletedCount, nil
	})
	if err != nil {
		return 0, err
	}
	return deleted.(int64), nil
}

// SoftDeleteSurveys は対象行を isActive=false / status=DELETED に遷移させる。
// 行と配下の設問・回答は監査のためそのまま残す。単一の UpdateMany なので
// カテゴリ内の書き込みが途中で分断されることはない。
func (r *ReconciliationRepository) SoftDeleteSurveys(ctx context.Context, ids []string) (int64, error) {
	objectIDs, err := parseObjectIDs(ids)
	if err != nil {
		return 0, err
	}
	if len(objectIDs) == 0 {
		return 0, nil
	}

	update := bson.M{"$set": bson.M{
		"isActive":  false,
		"status":    admindomain.StatusDeleted.String(),
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.surveys.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": objectIDs}}, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *ReconciliationRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]admindomain.Survey, error) {
	cursor, err := r.surveys.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := make([]admindomain.Survey, 0)
	for cursor.Next(ctx) {
		var doc SurveyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		survey, err := mapSurveyDocument(doc)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, survey)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return surveys, nil
}

func parseObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := parseObjectID(id)
		if err != nil {
			return nil, err
		}
		objectIDs = append(objectIDs, objectID)
	}
	return objectIDs, nil
}
