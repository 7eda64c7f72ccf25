package naver

import (
	"golang.org/x/time/rate"

	"github.com/wonny/swingpick/pkg/config"
	"github.com/wonny/swingpick/pkg/httputil"
	"github.com/wonny/swingpick/pkg/logger"
)

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string

	rankPages   int
	rankCeiling int

	// 스크랩 대상 보호용 페이지 간 페이싱
	limiter *rate.Limiter
}

// NewClient creates a new Naver Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.NaverConfig) *Client {
	return &Client{
		httpClient:  httpClient,
		logger:      log,
		baseURL:     cfg.BaseURL,
		rankPages:   cfg.RankPages,
		rankCeiling: cfg.RankCeiling,
		limiter:     rate.NewLimiter(rate.Every(cfg.PageDelay), 1),
	}
}
