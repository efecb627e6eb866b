package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	adminapp "github.com/sngm3741/survey-club-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminSurveyRepository は管理者向けアンケート集約を MongoDB 経由で扱うリポジトリ。
// ハード削除は設問・回答を同一トランザクション内で明示的にカスケード削除する。
type AdminSurveyRepository struct {
	surveys   *mongo.Collection
	questions *mongo.Collection
	responses *mongo.Collection

	questionCollection string
	responseCollection string
}

// NewAdminSurveyRepository はアンケート・設問・回答の 3 コレクションを束縛したリポジトリを生成する。
func NewAdminSurveyRepository(db *mongo.Database, surveyCollection, questionCollection, responseCollection string) *AdminSurveyRepository {
	return &AdminSurveyRepository{
		surveys:            db.Collection(surveyCollection),
		questions:          db.Collection(questionCollection),
		responses:          db.Collection(responseCollection),
		questionCollection: questionCollection,
		responseCollection: responseCollection,
	}
}

// Find は検索条件を Mongo クエリへ変換し、設問数・回答数付きの管理画面一覧を返す。
// 既定では DELETED を除外し、IncludeHidden 指定時のみ全件を対象にする。
func (r *AdminSurveyRepository) Find(ctx context.Context, filter adminapp.SurveyFilter, paging adminapp.Paging) ([]admindomain.Survey, error) {
	match := bson.M{}
	if status := strings.TrimSpace(filter.Status); status != "" {
		parsed, err := admindomain.ParseSurveyStatus(status)
		if err != nil {
			return nil, err
		}
		match["status"] = parsed.String()
	} else if !filter.IncludeHidden {
		match["status"] = bson.M{"$ne": admindomain.StatusDeleted.String()}
	}
	if creatorID := strings.TrimSpace(filter.CreatorID); creatorID != "" {
		id, err := parseObjectID(creatorID)
		if err != nil {
			return nil, err
		}
		match["creatorId"] = id
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
		match["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
	}
	pipeline = append(pipeline, r.countStages()...)
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}})
	if paging.Limit > 0 {
		if paging.Page > 1 {
			pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64((paging.Page - 1) * paging.Limit)}})
		}
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(paging.Limit)}})
	}

	return r.aggregateSurveys(ctx, pipeline)
}

// FindByID はアンケート ID を ObjectID 化し、設問数・回答数付きの単一エンティティを復元する。
func (r *AdminSurveyRepository) FindByID(ctx context.Context, id string) (*admindomain.Survey, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": objectID}}},
	}
	pipeline = append(pipeline, r.countStages()...)

	surveys, err := r.aggregateSurveys(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(surveys) == 0 {
		return nil, admindomain.ErrNotFound
	}
	return &surveys[0], nil
}

// Create はドメインアンケートを Mongo ドキュメントへ変換して新規登録する。
func (r *AdminSurveyRepository) Create(ctx context.Context, survey *admindomain.Survey) error {
	if survey == nil {
		return errors.New("survey payload is nil")
	}
	doc, err := mapDomainSurveyToDocument(survey)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	survey.ID = doc.ID.Hex()
	_, err = r.surveys.InsertOne(ctx, doc)
	return err
}

// Update はアンケートの差し替え更新を行う。対象が存在しなければ NotFound。
func (r *AdminSurveyRepository) Update(ctx context.Context, survey *admindomain.Survey) error {
	if survey == nil {
		return errors.New("survey payload is nil")
	}
	objectID, err := parseObjectID(survey.ID)
	if err != nil {
		return err
	}
	doc, err := mapDomainSurveyToDocument(survey)
	if err != nil {
		return err
	}

	update := bson.M{
		"title":       doc.Title,
		"description": doc.Description,
		"creatorId":   doc.CreatorID,
		"isActive":    doc.IsActive,
		"status":      doc.Status,
		"updatedAt":   time.Now().UTC(),
	}
	result, err := r.surveys.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return admindomain.ErrNotFound
	}
	return nil
}

// UpdateStatus は検証済みのステータス遷移のみを書き込む。
func (r *AdminSurveyRepository) UpdateStatus(ctx context.Context, id string, status admindomain.SurveyStatus, isActive bool) error {
	objectID, err := parseObjectID(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"status":    status.String(),
		"isActive":  isActive,
		"updatedAt": time.Now().UTC(),
	}
	result, err := r.surveys.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return admindomain.ErrNotFound
	}
	return nil
}

// Delete は単一アンケートのハード削除。設問 → 回答 → 本体の順で
// 同一トランザクション内から明示的に削除し、片側だけ消えた状態を残さない。
func (r *AdminSurveyRepository) Delete(ctx context.Context, id string) error {
	objectID, err := parseObjectID(id)
	if err != nil {
		return err
	}

	session, err := r.surveys.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := r.questions.DeleteMany(sessCtx, bson.M{"surveyId": objectID}); err != nil {
			return nil, err
		}
		if _, err := r.responses.DeleteMany(sessCtx, bson.M{"surveyId": objectID}); err != nil {
			return nil, err
		}
		result, err := r.surveys.DeleteOne(sessCtx, bson.M{"_id": objectID})
		if err != nil {
			return nil, err
		}
		if result.DeletedCount == 0 {
			return nil, admindomain.ErrNotFound
		}
		return nil, nil
	})
	return err
}

// Statistics はアンケート全体を集計し、型付きの統計値を返す。
func (r *AdminSurveyRepository) Statistics(ctx context.Context) (*admindomain.SurveyStatistics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
			"active": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$isActive", true}}, 1, 0,
			}}},
			"deleted": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", admindomain.StatusDeleted.String()}}, 1, 0,
			}}},
		}}},
	}

	cursor, err := r.surveys.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := admindomain.SurveyStatistics{}
	if cursor.Next(ctx) {
		var agg struct {
			Total   int `bson:"total"`
			Active  int `bson:"active"`
			Deleted int `bson:"deleted"`
		}
		if err := cursor.Decode(&agg); err != nil {
			return nil, err
		}
		stats.TotalSurveys = agg.Total
		stats.ActiveSurveys = agg.Active
		stats.DeletedSurveys = agg.Deleted
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	questionTotal, err := r.questions.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	responseTotal, err := r.responses.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats.TotalQuestions = int(questionTotal)
	stats.TotalResponses = int(responseTotal)
	if stats.TotalSurveys > 0 {
		stats.AvgResponsesPerSurvey = float64(stats.TotalResponses) / float64(stats.TotalSurveys)
	}
	return &stats, nil
}

// countStages は設問数・回答数を $lookup で付与する共通パイプライン断片。
func (r *AdminSurveyRepository) countStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         r.questionCollection,
			"localField":   "_id",
			"foreignField": "surveyId",
			"as":           "surveyQuestions",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.responseCollection,
			"localField":   "_id",
			"foreignField": "surveyId",
			"as":           "surveyResponses",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"questionCount": bson.M{"$size": "$surveyQuestions"},
			"responseCount": bson.M{"$size": "$surveyResponses"},
		}}},
		{{Key: "$project", Value: bson.M{
			"surveyQuestions": 0,
			"surveyResponses": 0,
		}}},
	}
}

// aggregateSurveys はパイプラインを実行してドメインの Survey 一覧へ変換する。
func (r *AdminSurveyRepository) aggregateSurveys(ctx context.Context, pipeline mongo.Pipeline) ([]admindomain.Survey, error) {
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

// mapSurveyDocument は Mongo 文書を Admin ドメイン Survey へ変換する。
func mapSurveyDocument(doc SurveyDocument) (admindomain.Survey, error) {
	status, err := admindomain.ParseSurveyStatus(doc.Status)
	if err != nil {
		return admindomain.Survey{}, err
	}
	return admindomain.Survey{
		ID:            doc.ID.Hex(),
		Title:         doc.Title,
		Description:   doc.Description,
		CreatorID:     doc.CreatorID.Hex(),
		IsActive:      doc.IsActive,
		Status:        status,
		QuestionCount: doc.QuestionCount,
		ResponseCount: doc.ResponseCount,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

// mapDomainSurveyToDocument はドメイン Survey を Mongo 保存形式に射影する。
func mapDomainSurveyToDocument(survey *admindomain.Survey) (SurveyDocument, error) {
	creatorID, err := parseObjectID(survey.CreatorID)
	if err != nil {
		return SurveyDocument{}, err
	}

	createdAt := survey.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := survey.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return SurveyDocument{
		Title:       survey.Title,
		Description: survey.Description,
		CreatorID:   creatorID,
		IsActive:    survey.IsActive,
		Status:      survey.Status.String(),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// parseObjectID は ID 文字列を検証し、不正な形式を InvalidArgument として弾く。
func parseObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", admindomain.ErrInvalidArgument, id)
	}
	return objectID, nil
}
