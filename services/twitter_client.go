package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"pokedex_bot/config"
	"pokedex_bot/logger"
	"pokedex_bot/models"
)

const (
	DefaultAPIBaseURL    = "https://api.twitter.com/1.1"
	DefaultUploadBaseURL = "https://upload.twitter.com/1.1"

	// StatusURLTemplate 帖子的网页链接
	StatusURLTemplate = "https://twitter.com/i/web/status/%s"
)

// StatusURL 返回帖子的网页链接
func StatusURL(id string) string {
	return fmt.Sprintf(StatusURLTemplate, id)
}

// APIError 平台返回的非 2xx 响应
type APIError struct {
	Endpoint   string           `json:"-"`
	StatusCode int              `json:"-"`
	Errors     []APIErrorDetail `json:"errors"`
	Body       string           `json:"-"`
}

// APIErrorDetail 平台错误详情
type APIErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("twitter %s: HTTP %d: %s (code %d)", e.Endpoint, e.StatusCode, e.Errors[0].Message, e.Errors[0].Code)
	}
	return fmt.Sprintf("twitter %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// TwitterClientConfig 客户端配置
type TwitterClientConfig struct {
	APIBaseURL    string
	UploadBaseURL string
	Timeout       time.Duration
	// BaseClient 签名前使用的 http.Client，为空时使用 http.DefaultClient
	BaseClient *http.Client
}

var _ Platform = (*TwitterClient)(nil)

// TwitterClient 使用 OAuth1 用户上下文签名的 REST v1.1 客户端
type TwitterClient struct {
	http       *http.Client
	apiBase    string
	uploadBase string
}

// NewTwitterClient 创建客户端，凭证需要事先校验
func NewTwitterClient(creds config.Credentials, cfg TwitterClientConfig) *TwitterClient {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.UploadBaseURL == "" {
		cfg.UploadBaseURL = DefaultUploadBaseURL
	}

	ctx := context.Background()
	if cfg.BaseClient != nil {
		ctx = context.WithValue(ctx, oauth1.HTTPClient, cfg.BaseClient)
	}
	oauthConfig := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := oauthConfig.Client(ctx, token)
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	return &TwitterClient{
		http:       httpClient,
		apiBase:    strings.TrimRight(cfg.APIBaseURL, "/"),
		uploadBase: strings.TrimRight(cfg.UploadBaseURL, "/"),
	}
}

// 搜索接口返回的帖子结构
type apiUser struct {
	ScreenName string `json:"screen_name"`
}

type apiStatus struct {
	IDStr               string          `json:"id_str"`
	FullText            string          `json:"full_text"`
	Text                string          `json:"text"`
	Lang                string          `json:"lang"`
	User                apiUser         `json:"user"`
	FavoriteCount       int             `json:"favorite_count"`
	RetweetCount        int             `json:"retweet_count"`
	InReplyToScreenName *string         `json:"in_reply_to_screen_name"`
	Favorited           bool            `json:"favorited"`
	PossiblySensitive   bool            `json:"possibly_sensitive"`
	QuotedStatusIDStr   string          `json:"quoted_status_id_str"`
	RetweetedStatus     json.RawMessage `json:"retweeted_status"`
	Entities            struct {
		UserMentions []apiUser `json:"user_mentions"`
	} `json:"entities"`
}

func (s *apiStatus) toPost() models.Post {
	text := s.FullText
	if text == "" {
		text = s.Text
	}
	post := models.Post{
		ID:                s.IDStr,
		Text:              text,
		Lang:              s.Lang,
		AuthorHandle:      s.User.ScreenName,
		FavoriteCount:     s.FavoriteCount,
		RetweetCount:      s.RetweetCount,
		Favorited:         s.Favorited,
		PossiblySensitive: s.PossiblySensitive,
		QuotedStatusID:    s.QuotedStatusIDStr,
		IsRetweet:         len(s.RetweetedStatus) > 0 && string(s.RetweetedStatus) != "null",
	}
	if s.InReplyToScreenName != nil {
		post.InReplyToHandle = *s.InReplyToScreenName
	}
	for _, m := range s.Entities.UserMentions {
		post.MentionedHandles = append(post.MentionedHandles, m.ScreenName)
	}
	return post
}

// Search 调用 search/tweets
func (c *TwitterClient) Search(ctx context.Context, query string, limit int) (*SearchPage, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(limit))
	params.Set("tweet_mode", "extended")

	var result struct {
		Statuses []apiStatus `json:"statuses"`
	}
	header, err := c.do(ctx, http.MethodGet, c.apiBase+"/search/tweets.json?"+params.Encode(), "", nil, &result)
	if err != nil {
		return nil, err
	}

	page := &SearchPage{
		Hits:               make([]models.Post, 0, len(result.Statuses)),
		RateLimitRemaining: rateLimitRemaining(header),
	}
	for i := range result.Statuses {
		page.Hits = append(page.Hits, result.Statuses[i].toPost())
	}
	return page, nil
}

// UploadMedia 调用 media/upload，字段名为 media
func (c *TwitterClient) UploadMedia(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("media", filename)
	if err != nil {
		return "", fmt.Errorf("创建上传表单失败: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("写入上传表单失败: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("关闭上传表单失败: %w", err)
	}

	var result struct {
		MediaIDString string `json:"media_id_string"`
	}
	if _, err := c.do(ctx, http.MethodPost, c.uploadBase+"/media/upload.json", w.FormDataContentType(), &body, &result); err != nil {
		return "", err
	}
	logger.Debug("图片上传成功", "filename", filename, "media_id", result.MediaIDString)
	return result.MediaIDString, nil
}

// PostReply 调用 statuses/update 回复帖子
func (c *TwitterClient) PostReply(ctx context.Context, text, replyToID string, mediaIDs []string) (string, error) {
	form := url.Values{}
	form.Set("status", text)
	if replyToID != "" {
		form.Set("in_reply_to_status_id", replyToID)
	}
	if len(mediaIDs) > 0 {
		form.Set("media_ids", strings.Join(mediaIDs, ","))
	}

	var result struct {
		IDStr string `json:"id_str"`
	}
	if _, err := c.postForm(ctx, c.apiBase+"/statuses/update.json", form, &result); err != nil {
		return "", err
	}
	return result.IDStr, nil
}

// Favorite 调用 favorites/create
func (c *TwitterClient) Favorite(ctx context.Context, postID string) error {
	form := url.Values{}
	form.Set("id", postID)
	_, err := c.postForm(ctx, c.apiBase+"/favorites/create.json", form, nil)
	return err
}

// VerifyCredentials 调用 account/verify_credentials
func (c *TwitterClient) VerifyCredentials(ctx context.Context) (*Account, error) {
	params := url.Values{}
	params.Set("include_entities", "false")
	params.Set("skip_status", "true")
	params.Set("include_email", "false")

	var account Account
	if _, err := c.do(ctx, http.MethodGet, c.apiBase+"/account/verify_credentials.json?"+params.Encode(), "", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *TwitterClient) postForm(ctx context.Context, endpoint string, form url.Values, out any) (http.Header, error) {
	return c.do(ctx, http.MethodPost, endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), out)
}

func (c *TwitterClient) do(ctx context.Context, method, endpoint, contentType string, body io.Reader, out any) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 %s 失败: %w", endpointName(endpoint), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 响应失败: %w", endpointName(endpoint), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Endpoint:   endpointName(endpoint),
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
		_ = json.Unmarshal(data, apiErr)
		return resp.Header, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.Header, fmt.Errorf("解析 %s 响应失败: %w", endpointName(endpoint), err)
		}
	}
	return resp.Header, nil
}

// endpointName 去掉域名和查询参数，如 "search/tweets"
func endpointName(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	path := strings.TrimSuffix(u.Path, ".json")
	path = strings.TrimPrefix(path, "/1.1")
	return strings.TrimPrefix(path, "/")
}

func rateLimitRemaining(h http.Header) int {
	v := h.Get("x-rate-limit-remaining")
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
