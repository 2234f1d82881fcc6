package kakaopay

//go:generate go run go.uber.org/mock/mockgen -source=./kakaopay.go -destination=./mocks/kakaopay_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	readyPath   = "/v1/payment/ready"
	approvePath = "/v1/payment/approve"
)

// ReadyRequest initiates a payment session with the provider. OrderID carries
// the booking id so callbacks can find their way back.
type ReadyRequest struct {
	OrderID     string
	UserID      string
	ItemName    string
	Quantity    int
	TotalAmount int
	ApprovalURL string
	CancelURL   string
	FailURL     string
}

type ReadyResponse struct {
	TID            string `json:"tid"`
	NextRedirectPC string `json:"next_redirect_pc_url"`
	CreatedAt      string `json:"created_at"`
}

type ApproveRequest struct {
	TID     string
	OrderID string
	UserID  string
	PgToken string
}

type ApproveResponse struct {
	AID        string `json:"aid"`
	TID        string `json:"tid"`
	ItemName   string `json:"item_name"`
	ApprovedAt string `json:"approved_at"`
}

type providerError struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}

// Client is the payment provider boundary. Responses are opaque beyond the
// fields declared here; callers decide how a failure affects booking state.
type Client interface {
	Ready(ctx context.Context, req ReadyRequest) (ReadyResponse, error)
	Approve(ctx context.Context, req ApproveRequest) (ApproveResponse, error)
}

type clientImpl struct {
	config     *config.Config
	httpClient *http.Client
	otel       otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Client {
	return &clientImpl{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		otel: otl,
	}
}

func (c *clientImpl) Ready(ctx context.Context, req ReadyRequest) (res ReadyResponse, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".kakaopay.Ready")
	defer scope.End()
	defer scope.TraceIfError(err)

	form := url.Values{}
	form.Set("cid", c.config.Payment.Kakao.CID)
	form.Set("partner_order_id", req.OrderID)
	form.Set("partner_user_id", req.UserID)
	form.Set("item_name", req.ItemName)
	form.Set("quantity", strconv.Itoa(req.Quantity))
	form.Set("total_amount", strconv.Itoa(req.TotalAmount))
	form.Set("tax_free_amount", "0")
	form.Set("approval_url", req.ApprovalURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("fail_url", req.FailURL)

	if err = c.post(ctx, readyPath, form, &res); err != nil {
		return ReadyResponse{}, err
	}

	if res.TID == constant.Empty || res.NextRedirectPC == constant.Empty {
		err = fmt.Errorf("payment ready response missing tid or redirect url")

		return ReadyResponse{}, err
	}

	return res, nil
}

func (c *clientImpl) Approve(ctx context.Context, req ApproveRequest) (res ApproveResponse, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".kakaopay.Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	form := url.Values{}
	form.Set("cid", c.config.Payment.Kakao.CID)
	form.Set("tid", req.TID)
	form.Set("partner_order_id", req.OrderID)
	form.Set("partner_user_id", req.UserID)
	form.Set("pg_token", req.PgToken)

	if err = c.post(ctx, approvePath, form, &res); err != nil {
		return ApproveResponse{}, err
	}

	return res, nil
}

func (c *clientImpl) post(ctx context.Context, path string, form url.Values, out any) error {
	endpoint := strings.TrimSuffix(c.config.Payment.Kakao.APIHost, "/") + path

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build payment request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderAuthorization, "KakaoAK "+c.config.Payment.Kakao.AdminKey)
	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeFormURLEncoded)

	response, err := c.httpClient.Do(request)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("payment provider request failed")

		return fmt.Errorf("payment provider request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read payment provider response: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		provErr := providerError{}
		if jsonErr := json.Unmarshal(body, &provErr); jsonErr == nil && provErr.Message != constant.Empty {
			return fmt.Errorf("payment provider rejected request: %s", provErr.Message)
		}

		return fmt.Errorf("payment provider returned status %d", response.StatusCode)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode payment provider response: %w", err)
	}

	return nil
}
