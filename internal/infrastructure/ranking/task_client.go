package ranking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"GeoRank-App/internal/domain/model"
)

const (
	taskPostPath = "/v3/serp/google/maps/task_post"
	taskGetPath  = "/v3/serp/google/maps/task_get/advanced/"

	// プロバイダのステータスコード
	statusTaskHanded  = 40601
	statusTaskInQueue = 40602
)

// errTaskTerminal はプロバイダがタスクを失敗として確定させたことを表す。再ポーリングしても結果は変わらない
var errTaskTerminal = errors.New("タスクが失敗で確定しました")

// LocationCodeResolver は地名をロケーションコードに変換する
type LocationCodeResolver interface {
	Resolve(name string) int
}

// RankMatcher は順位リストからビジネスの順位を探す
type RankMatcher interface {
	FindRank(results []model.RankedResult, businessName string) int
}

// TaskClientConfig はランキングタスククライアントの設定
type TaskClientConfig struct {
	BaseURL  string
	Login    string
	Password string

	LanguageCode string
	Device       string
	OS           string
	Depth        int
	Zoom         int

	InitialDelay    time.Duration // 投入から初回ポーリングまでの固定待機
	PollAttempts    int
	PollInterval    time.Duration
	MaxPollInterval time.Duration
	PollMultiplier  float64

	RateLimit float64 // 1秒あたりのリクエスト数（0以下で無制限）
	RateBurst int
	Timeout   time.Duration
}

// DefaultTaskClientConfig は既定の設定を返す
func DefaultTaskClientConfig() TaskClientConfig {
	return TaskClientConfig{
		BaseURL:         "https://api.dataforseo.com",
		LanguageCode:    "en",
		Device:          "desktop",
		OS:              "windows",
		Depth:           20,
		Zoom:            15,
		InitialDelay:    10 * time.Second,
		PollAttempts:    3,
		PollInterval:    5 * time.Second,
		MaxPollInterval: 20 * time.Second,
		PollMultiplier:  1.5,
		RateLimit:       2,
		RateBurst:       2,
		Timeout:         30 * time.Second,
	}
}

// TaskClient は外部ランキングプロバイダに非同期タスクを投入し、ポーリングで結果を取得する
// 状態遷移: Created → TaskSubmitted → Polling → Completed | Failed
type TaskClient struct {
	config     TaskClientConfig
	resolver   LocationCodeResolver
	matcher    RankMatcher
	httpClient *http.Client
	limiter    *rate.Limiter
	clock      Clock
}

// Option はTaskClientの任意設定
type Option func(*TaskClient)

// WithHTTPClient はHTTPクライアントを差し替える
func WithHTTPClient(client *http.Client) Option {
	return func(c *TaskClient) { c.httpClient = client }
}

// WithClock は時計を差し替える
func WithClock(clock Clock) Option {
	return func(c *TaskClient) { c.clock = clock }
}

// NewTaskClient は新しいTaskClientを生成する
func NewTaskClient(config TaskClientConfig, resolver LocationCodeResolver, matcher RankMatcher, opts ...Option) *TaskClient {
	if config.PollAttempts < 1 {
		config.PollAttempts = 1
	}
	if config.PollMultiplier < 1 {
		config.PollMultiplier = 1
	}
	if config.Depth <= 0 {
		config.Depth = 20
	}

	c := &TaskClient{
		config:     config,
		resolver:   resolver,
		matcher:    matcher,
		httpClient: &http.Client{Timeout: config.Timeout},
		clock:      NewRealClock(),
	}
	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryRank はキーワードと地点で順位を検索し、ビジネスの順位を返す
// ビジネスが見つからない場合は-1を返し、エラーにはしない
func (c *TaskClient) QueryRank(ctx context.Context, query model.RankQuery) (int, error) {
	task, err := c.SubmitTask(ctx, query)
	if err != nil {
		return model.RankNotFound, err
	}

	results, err := c.AwaitResults(ctx, task)
	if err != nil {
		return model.RankNotFound, err
	}

	rank := c.matcher.FindRank(results, query.BusinessName)
	log.Info().
		Str("task_id", task.ID).
		Str("keyword", query.Keyword).
		Str("business", query.BusinessName).
		Int("results", len(results)).
		Int("rank", rank).
		Msg("🏁 ランキングタスク完了")

	return rank, nil
}

// taskPostRequest はタスク投入APIのリクエスト
type taskPostRequest struct {
	Keyword            string `json:"keyword"`
	LocationCode       int    `json:"location_code,omitempty"`
	LocationCoordinate string `json:"location_coordinate,omitempty"`
	LanguageCode       string `json:"language_code"`
	Device             string `json:"device"`
	OS                 string `json:"os"`
	Depth              int    `json:"depth"`
}

// SubmitTask はタスクを投入する（Created → TaskSubmitted）
func (c *TaskClient) SubmitTask(ctx context.Context, query model.RankQuery) (*model.RankTask, error) {
	payload := taskPostRequest{
		Keyword:      query.Keyword,
		LanguageCode: c.config.LanguageCode,
		Device:       c.config.Device,
		OS:           c.config.OS,
		Depth:        c.config.Depth,
	}
	if query.Coordinate != nil {
		payload.LocationCoordinate = fmt.Sprintf("%.7f,%.7f,%dz", query.Coordinate.Lat, query.Coordinate.Lng, c.config.Zoom)
	} else {
		payload.LocationCode = c.resolver.Resolve(query.LocationName)
	}

	reqBody, err := json.Marshal([]taskPostRequest{payload})
	if err != nil {
		return nil, fmt.Errorf("%w: リクエストのシリアライズに失敗: %v", model.ErrTaskCreationFailed, err)
	}

	body, status, err := c.do(ctx, http.MethodPost, c.config.BaseURL+taskPostPath, reqBody)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", model.ErrTaskCreationFailed, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: APIからエラーステータスが返されました (status: %d)", model.ErrTaskCreationFailed, status)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: レスポンスのJSONが不正です", model.ErrTaskCreationFailed)
	}

	task := gjson.GetBytes(body, "tasks.0")
	if code := task.Get("status_code").Int(); !isSuccessCode(code) {
		return nil, fmt.Errorf("%w: タスクが拒否されました (%d %s)", model.ErrTaskCreationFailed, code, task.Get("status_message").String())
	}

	id := task.Get("id").String()
	if id == "" {
		return nil, fmt.Errorf("%w: タスクIDがありません", model.ErrTaskCreationFailed)
	}

	log.Debug().
		Str("task_id", id).
		Str("keyword", query.Keyword).
		Int("location_code", payload.LocationCode).
		Str("location_coordinate", payload.LocationCoordinate).
		Msg("📨 ランキングタスク投入")

	return &model.RankTask{
		ID:        id,
		CreatedAt: c.clock.Now(),
		Status:    model.TaskStatusPending,
	}, nil
}

// AwaitResults は固定の待機後にタスクをポーリングする（TaskSubmitted → Polling → Completed | Failed）
// 結果が得られないままポーリング回数を使い切るとErrNoResultsを返す
func (c *TaskClient) AwaitResults(ctx context.Context, task *model.RankTask) ([]model.RankedResult, error) {
	wait := c.config.InitialDelay
	interval := c.config.PollInterval

	for attempt := 1; attempt <= c.config.PollAttempts; attempt++ {
		if err := c.clock.Sleep(ctx, wait); err != nil {
			task.Status = model.TaskStatusFailed
			return nil, err
		}

		results, ready, err := c.fetchTask(ctx, task.ID)
		switch {
		case ctx.Err() != nil:
			task.Status = model.TaskStatusFailed
			return nil, ctx.Err()
		case errors.Is(err, errTaskTerminal):
			task.Status = model.TaskStatusFailed
			return nil, fmt.Errorf("%w: task %s: %v", model.ErrNoResults, task.ID, err)
		case err != nil:
			log.Warn().Err(err).Str("task_id", task.ID).Int("attempt", attempt).Msg("⚠️  ポーリング失敗")
		case ready:
			task.Status = model.TaskStatusReady
			return results, nil
		default:
			log.Debug().Str("task_id", task.ID).Int("attempt", attempt).Msg("⏳ タスク結果待ち")
		}

		wait = interval
		interval = time.Duration(float64(interval) * c.config.PollMultiplier)
		if c.config.MaxPollInterval > 0 && interval > c.config.MaxPollInterval {
			interval = c.config.MaxPollInterval
		}
	}

	task.Status = model.TaskStatusFailed
	return nil, fmt.Errorf("%w: task %s (%d回ポーリング)", model.ErrNoResults, task.ID, c.config.PollAttempts)
}

// fetchTask はタスクの状態を1回取得する。結果が揃っていればreadyがtrueになる
func (c *TaskClient) fetchTask(ctx context.Context, taskID string) ([]model.RankedResult, bool, error) {
	body, status, err := c.do(ctx, http.MethodGet, c.config.BaseURL+taskGetPath+taskID, nil)
	if err != nil {
		return nil, false, err
	}
	if status != http.StatusOK {
		return nil, false, fmt.Errorf("APIからエラーステータスが返されました (status: %d)", status)
	}
	if !gjson.ValidBytes(body) {
		return nil, false, fmt.Errorf("レスポンスのJSONが不正です")
	}

	task := gjson.GetBytes(body, "tasks.0")
	code := task.Get("status_code").Int()
	if code == statusTaskHanded || code == statusTaskInQueue {
		return nil, false, nil
	}
	if !isSuccessCode(code) {
		return nil, false, fmt.Errorf("%w (%d %s)", errTaskTerminal, code, task.Get("status_message").String())
	}

	items := task.Get("result.0.items")
	if !items.IsArray() || len(items.Array()) == 0 {
		return nil, false, nil
	}

	return parseItems(items), true, nil
}

// parseItems はプロバイダの項目配列を順位リストに変換する。順序と順位番号はそのまま保持する
func parseItems(items gjson.Result) []model.RankedResult {
	var results []model.RankedResult
	index := 0

	items.ForEach(func(_, item gjson.Result) bool {
		index++
		position := int(item.Get("rank_absolute").Int())
		if position <= 0 {
			position = int(item.Get("rank_group").Int())
		}
		if position <= 0 {
			position = int(item.Get("position").Int())
		}
		if position <= 0 {
			position = index
		}

		result := model.RankedResult{
			Position:    position,
			Title:       item.Get("title").String(),
			URL:         firstNonEmpty(item.Get("url").String(), item.Get("domain").String()),
			Description: firstNonEmpty(item.Get("description").String(), item.Get("snippet").String()),
		}

		rating := item.Get("rating.value")
		if !rating.Exists() {
			rating = item.Get("rating")
		}
		if rating.Type == gjson.Number {
			v := rating.Float()
			result.Rating = &v
		}

		results = append(results, result)
		return true
	})

	return results
}

// do はレート制限を守ってHTTPリクエストを実行し、ボディとステータスを返す
func (c *TaskClient) do(ctx context.Context, method, url string, body []byte) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("レート制限の待機に失敗: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Login != "" {
		req.SetBasicAuth(c.config.Login, c.config.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// isSuccessCode はプロバイダの5桁ステータスコードが成功(2xxxx)かどうか
func isSuccessCode(code int64) bool {
	return code >= 20000 && code < 30000
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
