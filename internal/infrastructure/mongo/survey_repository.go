package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sngm3741/survey-club-services/api/internal/public/application"
	publicdomain "github.com/sngm3741/survey-club-services/api/internal/public/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SurveyRepository は Public コンテキスト向けのアンケート読み取りと回答登録を担う。
// 公開面に出すのは isActive かつ ACTIVE なアンケートのみ。
type SurveyRepository struct {
	surveys   *mongo.Collection
	questions *mongo.Collection
	responses *mongo.Collection

	questionCollection string
	responseCollection string
}

// NewSurveyRepository はアンケート・設問・回答コレクションを束縛したリポジトリを生成する。
func NewSurveyRepository(db *mongo.Database, surveyCollection, questionCollection, responseCollection string) *SurveyRepository {
	return &SurveyRepository{
		surveys:            db.Collection(surveyCollection),
		questions:          db.Collection(questionCollection),
		responses:          db.Collection(responseCollection),
		questionCollection: questionCollection,
		responseCollection: responseCollection,
	}
}

// FindActive は公開可能なアンケート一覧を設問数・回答数付きで返す。
func (r *SurveyRepository) FindActive(ctx context.Context, filter application.SurveyFilter, paging application.Paging) ([]publicdomain.Survey, error) {
	match := bson.M{
		"isActive": true,
		"status":   "ACTIVE",
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
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}
	if paging.Limit > 0 {
		if paging.Page > 1 {
			pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64((paging.Page - 1) * paging.Limit)}})
		}
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(paging.Limit)}})
	}

	cursor, err := r.surveys.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := make([]publicdomain.Survey, 0)
	for cursor.Next(ctx) {
		var doc SurveyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		surveys = append(surveys, mapPublicSurveyDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return surveys, nil
}

// FindByID は公開アンケート 1 件を設問一覧付きで返す。削除済み・非公開は NotFound。
func (r *SurveyRepository) FindByID(ctx context.Context, id string) (*publicdomain.SurveyDetail, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, publicdomain.ErrNotFound
	}

	var doc SurveyDocument
	filter := bson.M{
		"_id":      objectID,
		"isActive": true,
		"status":   bson.M{"$ne": "DELETED"},
	}
	if err := r.surveys.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, publicdomain.ErrNotFound
		}
		return nil, err
	}

	questions, err := r.findQuestions(ctx, objectID)
	if err != nil {
		return nil, err
	}
	responseCount, err := r.responses.CountDocuments(ctx, bson.M{"surveyId": objectID})
	if err != nil {
		return nil, err
	}

	survey := mapPublicSurveyDocument(doc)
	survey.QuestionCount = len(questions)
	survey.ResponseCount = int(responseCount)
	return &publicdomain.SurveyDetail{
		Survey:    survey,
		Questions: questions,
	}, nil
}

// InsertResponse は回答を登録する。回答受付は ACTIVE なアンケートに限る。
func (r *SurveyRepository) InsertResponse(ctx context.Context, submission *publicdomain.ResponseSubmission) (string, error) {
	if submission == nil {
		return "", errors.New("submission payload is nil")
	}
	surveyID, err := primitive.ObjectIDFromHex(strings.TrimSpace(submission.SurveyID))
	if err != nil {
		return "", publicdomain.ErrNotFound
	}

	count, err := r.surveys.CountDocuments(ctx, bson.M{
		"_id":      surveyID,
		"isActive": true,
		"status":   "ACTIVE",
	})
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", publicdomain.ErrNotFound
	}

	doc := ResponseDocument{
		ID:           primitive.NewObjectID(),
		SurveyID:     surveyID,
		RespondentID: submission.RespondentID,
		Answers:      submission.Answers,
		SubmittedAt:  submission.SubmittedAt,
	}
	if _, err := r.responses.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID.Hex(), nil
}

func (r *SurveyRepository) findQuestions(ctx context.Context, surveyID primitive.ObjectID) ([]publicdomain.Question, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.questions.Find(ctx, bson.M{"surveyId": surveyID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := make([]publicdomain.Question, 0)
	for cursor.Next(ctx) {
		var doc QuestionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		questions = append(questions, publicdomain.Question{
			ID:    doc.ID.Hex(),
			Text:  doc.Text,
			Order: doc.Order,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

func mapPublicSurveyDocument(doc SurveyDocument) publicdomain.Survey {
	return publicdomain.Survey{
		ID:            doc.ID.Hex(),
		Title:         doc.Title,
		Description:   doc.Description,
		Status:        doc.Status,
		QuestionCount: doc.QuestionCount,
		ResponseCount: doc.ResponseCount,
		CreatedAt:     doc.CreatedAt,
	}
}
