package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	envName         string
	userCount       int
	healthyCount    int
	orphanedCount   int
	inactiveCount   int
	emptyCount      int
	staleCount      int
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	users     string
	surveys   string
	questions string
	responses string
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email,omitempty"`
	IsActive  bool               `bson:"isActive"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type surveyDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	CreatorID   primitive.ObjectID `bson:"creatorId"`
	IsActive    bool               `bson:"isActive"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type questionDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	SurveyID primitive.ObjectID `bson:"surveyId"`
	Text     string             `bson:"text"`
	Order    int                `bson:"order"`
}

type responseDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	SurveyID     primitive.ObjectID `bson:"surveyId"`
	RespondentID string             `bson:"respondentId"`
	Answers      map[string]string  `bson:"answers,omitempty"`
	SubmittedAt  time.Time          `bson:"submittedAt"`
}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	cfg := collections{
		users:     envOrDefault("USER_COLLECTION", "users"),
		surveys:   envOrDefault("SURVEY_COLLECTION", "surveys"),
		questions: envOrDefault("QUESTION_COLLECTION", "questions"),
		responses: envOrDefault("RESPONSE_COLLECTION", "responses"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "survey-club")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		if err := dropCollections(ctx, db, cfg); err != nil {
			log.Fatalf("コレクション削除に失敗しました: %v", err)
		}
		log.Printf("既存コレクションを削除しました")
	}

	if err := ensureIndexes(ctx, db, cfg); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))

	userDocs := generateUsers(rng, opts.userCount)
	if len(userDocs) == 0 {
		log.Fatal("user docs が生成されませんでした")
	}
	if err := insertMany(ctx, db.Collection(cfg.users), toAnySlice(userDocs)); err != nil {
		log.Fatalf("ユーザーデータの挿入に失敗しました: %v", err)
	}

	surveyDocs, questionDocs, responseDocs := generateSurveys(rng, userDocs, opts)
	if len(surveyDocs) == 0 {
		log.Fatal("survey docs が生成されませんでした")
	}
	if err := insertMany(ctx, db.Collection(cfg.surveys), toAnySlice(surveyDocs)); err != nil {
		log.Fatalf("アンケートデータの挿入に失敗しました: %v", err)
	}
	if err := insertMany(ctx, db.Collection(cfg.questions), toAnySlice(questionDocs)); err != nil {
		log.Fatalf("設問データの挿入に失敗しました: %v", err)
	}
	if err := insertMany(ctx, db.Collection(cfg.responses), toAnySlice(responseDocs)); err != nil {
		log.Fatalf("回答データの挿入に失敗しました: %v", err)
	}

	log.Printf("シード完了: users=%d surveys=%d questions=%d responses=%d (seed=%d)",
		len(userDocs), len(surveyDocs), len(questionDocs), len(responseDocs), opts.randomSeed)
	log.Printf("不整合データ内訳: orphaned=%d inactiveCreator=%d withoutQuestions=%d stale=%d",
		opts.orphanedCount, opts.inactiveCount, opts.emptyCount, opts.staleCount)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "backend/env 内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.userCount, "users", 10, "生成するユーザー数（最後の1名は無効ユーザー）")
	flag.IntVar(&opts.healthyCount, "healthy", 20, "生成する正常アンケート数")
	flag.IntVar(&opts.orphanedCount, "orphaned", 3, "作成者が存在しないアンケート数")
	flag.IntVar(&opts.inactiveCount, "inactive", 3, "無効ユーザーが作成したアンケート数")
	flag.IntVar(&opts.emptyCount, "empty", 3, "設問ゼロのアンケート数")
	flag.IntVar(&opts.staleCount, "stale", 3, "回答ゼロの古いアンケート数")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.userCount < 2 {
		log.Fatal("users は 2 以上を指定してください（有効・無効ユーザーが各1名必要です）")
	}
	for _, c := range []int{opts.healthyCount, opts.orphanedCount, opts.inactiveCount, opts.emptyCount, opts.staleCount} {
		if c < 0 {
			log.Fatal("アンケート数に負値は指定できません")
		}
	}
	return opts
}

func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil {
			return err
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropCollections(ctx context.Context, db *mongo.Database, cfg collections) error {
	for _, name := range []string{cfg.users, cfg.surveys, cfg.questions, cfg.responses} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			// Drop は存在しない場合も err を返すので warning ログにとどめる
			log.Printf("WARN: コレクション %s の削除に失敗: %v", name, err)
		}
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, cfg collections) error {
	surveyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "creatorId", Value: 1}},
			Options: options.Index().SetName("idx_survey_creator"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_survey_status_created"),
		},
	}
	if _, err := db.Collection(cfg.surveys).Indexes().CreateMany(ctx, surveyIndexes); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.questions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "surveyId", Value: 1}, {Key: "order", Value: 1}},
		Options: options.Index().SetName("idx_question_survey_order"),
	}); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.responses).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "surveyId", Value: 1}, {Key: "submittedAt", Value: -1}},
		Options: options.Index().SetName("idx_response_survey_submitted"),
	}); err != nil {
		return err
	}

	return nil
}

func generateUsers(rng *rand.Rand, count int) []userDocument {
	now := time.Now().UTC()
	docs := make([]userDocument, 0, count)
	for i := 0; i < count; i++ {
		name := userNames[i%len(userNames)]
		doc := userDocument{
			ID:        primitive.NewObjectID(),
			Name:      fmt.Sprintf("%s%d", name, i+1),
			Email:     fmt.Sprintf("user%d@example.com", i+1),
			IsActive:  true,
			CreatedAt: now.Add(-time.Duration(rng.Intn(365)) * 24 * time.Hour),
		}
		docs = append(docs, doc)
	}
	// 末尾の1名は退会済みユーザーにして inactive-creator 検出の対象を作る
	docs[len(docs)-1].IsActive = false
	return docs
}

// generateSurveys は正常データに加えて、4種の参照不整合を意図的に混ぜた
// アンケート群を生成する。整合性クリーンアップの動作確認用。
func generateSurveys(rng *rand.Rand, users []userDocument, opts seedOptions) ([]surveyDocument, []questionDocument, []responseDocument) {
	now := time.Now().UTC()
	activeUsers := users[:len(users)-1]
	inactiveUser := users[len(users)-1]

	var surveys []surveyDocument
	var questions []questionDocument
	var responses []responseDocument

	newSurvey := func(creator primitive.ObjectID, createdAt time.Time) surveyDocument {
		title := surveyTitles[rng.Intn(len(surveyTitles))]
		return surveyDocument{
			ID:          primitive.NewObjectID(),
			Title:       fmt.Sprintf("%s #%d", title, len(surveys)+1),
			Description: surveyDescriptions[rng.Intn(len(surveyDescriptions))],
			CreatorID:   creator,
			IsActive:    true,
			Status:      "ACTIVE",
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		}
	}
	addQuestions := func(surveyID primitive.ObjectID, count int) {
		for i := 0; i < count; i++ {
			questions = append(questions, questionDocument{
				ID:       primitive.NewObjectID(),
				SurveyID: surveyID,
				Text:     questionTexts[rng.Intn(len(questionTexts))],
				Order:    i + 1,
			})
		}
	}
	addResponses := func(surveyID primitive.ObjectID, count int, after time.Time) {
		for i := 0; i < count; i++ {
			responses = append(responses, responseDocument{
				ID:           primitive.NewObjectID(),
				SurveyID:     surveyID,
				RespondentID: fmt.Sprintf("respondent-%04d", rng.Intn(10000)),
				Answers: map[string]string{
					"q1": answerTexts[rng.Intn(len(answerTexts))],
				},
				SubmittedAt: after.Add(time.Duration(1+rng.Intn(72)) * time.Hour),
			})
		}
	}

	// 正常系: 実在する有効ユーザーが作成し、設問と回答を持つ
	for i := 0; i < opts.healthyCount; i++ {
		creator := activeUsers[rng.Intn(len(activeUsers))]
		created := now.Add(-time.Duration(rng.Intn(20)) * 24 * time.Hour)
		s := newSurvey(creator.ID, created)
		surveys = append(surveys, s)
		addQuestions(s.ID, 2+rng.Intn(4))
		addResponses(s.ID, 1+rng.Intn(5), created)
	}

	// orphaned: creatorId が users に存在しない
	for i := 0; i < opts.orphanedCount; i++ {
		s := newSurvey(primitive.NewObjectID(), now.Add(-time.Duration(rng.Intn(20))*24*time.Hour))
		surveys = append(surveys, s)
		addQuestions(s.ID, 1+rng.Intn(3))
	}

	// inactive-creator: 退会済みユーザーが作成
	for i := 0; i < opts.inactiveCount; i++ {
		s := newSurvey(inactiveUser.ID, now.Add(-time.Duration(rng.Intn(20))*24*time.Hour))
		surveys = append(surveys, s)
		addQuestions(s.ID, 1+rng.Intn(3))
	}

	// without-questions: 設問が1件もない
	for i := 0; i < opts.emptyCount; i++ {
		creator := activeUsers[rng.Intn(len(activeUsers))]
		s := newSurvey(creator.ID, now.Add(-time.Duration(rng.Intn(20))*24*time.Hour))
		surveys = append(surveys, s)
	}

	// stale: 30日以上前に作成され回答ゼロ
	for i := 0; i < opts.staleCount; i++ {
		creator := activeUsers[rng.Intn(len(activeUsers))]
		created := now.Add(-time.Duration(31+rng.Intn(180)) * 24 * time.Hour)
		s := newSurvey(creator.ID, created)
		surveys = append(surveys, s)
		addQuestions(s.ID, 1+rng.Intn(3))
	}

	return surveys, questions, responses
}

func insertMany(ctx context.Context, col *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := col.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}

var userNames = []string{
	"佐藤", "鈴木", "高橋", "田中", "渡辺", "伊藤", "山本", "中村",
}

var surveyTitles = []string{
	"働き方に関するアンケート",
	"サービス満足度調査",
	"新機能の利用意向調査",
	"福利厚生についてのアンケート",
	"通勤事情アンケート",
}

var surveyDescriptions = []string{
	"回答は匿名で集計されます。",
	"所要時間は3分程度です。",
	"今後の改善の参考にさせていただきます。",
	"",
}

var questionTexts = []string{
	"現在の満足度を教えてください",
	"最もよく使う機能はどれですか",
	"改善してほしい点を教えてください",
	"利用頻度を教えてください",
	"同僚に勧めたいと思いますか",
}

var answerTexts = []string{
	"とても満足している",
	"おおむね満足している",
	"どちらともいえない",
	"あまり満足していない",
	"特になし",
}
