package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserDocument は MongoDB 上のユーザースキーマを Go 構造体として表現したもの。
// ユーザー管理フローが所有するコレクションであり、本サービスは読み取りのみ行う。
type UserDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email,omitempty"`
	IsActive  bool               `bson:"isActive"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// SurveyDocument は MongoDB 上のアンケートスキーマ。creatorId は users への
// 参照だが、ストア側では整合性を保証しない。
type SurveyDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	CreatorID   primitive.ObjectID `bson:"creatorId"`
	IsActive    bool               `bson:"isActive"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`

	// $lookup で付与される派生値。保存はされない。
	QuestionCount int `bson:"questionCount,omitempty"`
	ResponseCount int `bson:"responseCount,omitempty"`
}

// QuestionDocument はアンケートが排他的に所有する設問ドキュメント。
type QuestionDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	SurveyID primitive.ObjectID `bson:"surveyId"`
	Text     string             `bson:"text"`
	Order    int                `bson:"order"`
}

// ResponseDocument は回答ドキュメント。回答が1件でも存在するアンケートは
// staleness 判定の対象外になる。
type ResponseDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	SurveyID     primitive.ObjectID `bson:"surveyId"`
	RespondentID string             `bson:"respondentId"`
	Answers      map[string]string  `bson:"answers,omitempty"`
	SubmittedAt  time.Time          `bson:"submittedAt"`
}
