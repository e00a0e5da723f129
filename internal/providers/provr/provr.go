// Package provr adapts a regional card/bank processor (PROV-R) to the
// providers.Adapter interface. Unlike PROV-G's official SDK, PROV-R exposes
// a plain JSON REST API (transaction initialize/verify, transfer
// recipient/initiate/finalize, bank account resolve) so this adapter is
// built directly on the teacher's internal/client/http request pattern.
package provr

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/httpclient"
	"github.com/creatorpay/platform/internal/providers"
)

const defaultBaseURL = "https://api.prov-r.example.com"

// Adapter implements providers.Adapter against a regional REST processor.
type Adapter struct {
	client    *httpclient.Client
	secretKey string
	logger    *zap.Logger
}

func New(secretKey, baseURL string, logger *zap.Logger) *Adapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := httpclient.New(logger,
		httpclient.WithBaseURL(baseURL),
		httpclient.WithDefaultHeader("Authorization", "Bearer "+secretKey),
	)
	return &Adapter{client: client, secretKey: secretKey, logger: logger}
}

func (a *Adapter) Name() string { return "prov_r" }

type initializeTxnRequest struct {
	Email       string `json:"email"`
	AmountCents int64  `json:"amount"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference,omitempty"`
	CallbackURL string `json:"callback_url"`
	Subaccount  string `json:"subaccount,omitempty"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a *Adapter) CreateSession(ctx context.Context, req providers.CheckoutSessionRequest) (providers.CheckoutSession, error) {
	body := initializeTxnRequest{
		Email:       req.SubscriberEmail,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		CallbackURL: req.SuccessURL,
		Subaccount:  req.CreatorAccountID,
	}

	resp, err := a.client.Post(ctx, "/transaction/initialize", body)
	if err != nil {
		return providers.CheckoutSession{}, classifyHTTPErr(err, "provr: initialize transaction")
	}

	var env apiEnvelope
	if err := httpclient.DecodeJSON(resp, &env); err != nil {
		return providers.CheckoutSession{}, errs.Wrap(errs.ProviderUnavailable, "provr: decode initialize response", err)
	}
	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return providers.CheckoutSession{}, errs.Wrap(errs.ProviderUnavailable, "provr: decode initialize data", err)
	}

	return providers.CheckoutSession{URL: data.AuthorizationURL, SessionID: data.Reference}, nil
}

func (a *Adapter) CancelSubscription(ctx context.Context, providerSubscriptionID string, atPeriodEnd bool) error {
	action := "cancel"
	if atPeriodEnd {
		action = "disable"
	}
	_, err := a.client.Post(ctx, fmt.Sprintf("/subscription/%s/%s", providerSubscriptionID, action), nil)
	if err != nil {
		return classifyHTTPErr(err, "provr: cancel subscription")
	}
	return nil
}

func (a *Adapter) Reactivate(ctx context.Context, providerSubscriptionID string) error {
	_, err := a.client.Post(ctx, fmt.Sprintf("/subscription/%s/enable", providerSubscriptionID), nil)
	if err != nil {
		return classifyHTTPErr(err, "provr: reactivate subscription")
	}
	return nil
}

func (a *Adapter) ResolveAccount(ctx context.Context, bankCode, accountNumber string) (string, error) {
	resp, err := a.client.Get(ctx, "/bank/resolve",
		httpclient.WithQueryParam("account_number", accountNumber),
		httpclient.WithQueryParam("bank_code", bankCode))
	if err != nil {
		return "", classifyHTTPErr(err, "provr: resolve account")
	}

	var env apiEnvelope
	if err := httpclient.DecodeJSON(resp, &env); err != nil {
		return "", errs.Wrap(errs.ProviderUnavailable, "provr: decode resolve response", err)
	}
	var data struct {
		AccountName string `json:"account_name"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", errs.Wrap(errs.ProviderUnavailable, "provr: decode resolve data", err)
	}
	return data.AccountName, nil
}

func (a *Adapter) CreateOrGetRecipient(ctx context.Context, creatorID, bankCode, accountNumber string) (providers.TransferRecipient, error) {
	body := map[string]string{
		"type":           "nuban",
		"name":           creatorID,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       "NGN",
	}
	resp, err := a.client.Post(ctx, "/transferrecipient", body)
	if err != nil {
		return providers.TransferRecipient{}, classifyHTTPErr(err, "provr: create recipient")
	}

	var env apiEnvelope
	if err := httpclient.DecodeJSON(resp, &env); err != nil {
		return providers.TransferRecipient{}, errs.Wrap(errs.ProviderUnavailable, "provr: decode recipient response", err)
	}
	var data struct {
		RecipientCode string `json:"recipient_code"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return providers.TransferRecipient{}, errs.Wrap(errs.ProviderUnavailable, "provr: decode recipient data", err)
	}
	return providers.TransferRecipient{RecipientCode: data.RecipientCode}, nil
}

func (a *Adapter) InitiateTransfer(ctx context.Context, req providers.TransferRequest) (providers.TransferResult, error) {
	body := map[string]interface{}{
		"source":    "balance",
		"amount":    req.AmountCents,
		"recipient": req.RecipientCode,
		"reason":    req.Reason,
	}
	resp, err := a.client.Post(ctx, "/transfer", body)
	if err != nil {
		return providers.TransferResult{}, classifyHTTPErr(err, "provr: initiate transfer")
	}

	var env apiEnvelope
	if err := httpclient.DecodeJSON(resp, &env); err != nil {
		return providers.TransferResult{}, errs.Wrap(errs.ProviderUnavailable, "provr: decode transfer response", err)
	}
	var data struct {
		TransferCode string `json:"transfer_code"`
		Status       string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return providers.TransferResult{}, errs.Wrap(errs.ProviderUnavailable, "provr: decode transfer data", err)
	}

	return providers.TransferResult{
		TransferCode: data.TransferCode,
		Status:       data.Status,
		RequiresOTP:  data.Status == "otp",
	}, nil
}

func (a *Adapter) FinalizeOTP(ctx context.Context, transferCode, otp string) error {
	body := map[string]string{"transfer_code": transferCode, "otp": otp}
	_, err := a.client.Post(ctx, "/transfer/finalize_transfer", body)
	if err != nil {
		return classifyHTTPErr(err, "provr: finalize transfer otp")
	}
	return nil
}

func (a *Adapter) VerifyTransaction(ctx context.Context, reference string) (providers.ProviderTransaction, error) {
	resp, err := a.client.Get(ctx, fmt.Sprintf("/transaction/verify/%s", reference))
	if err != nil {
		return providers.ProviderTransaction{}, classifyHTTPErr(err, "provr: verify transaction")
	}

	var env apiEnvelope
	if err := httpclient.DecodeJSON(resp, &env); err != nil {
		return providers.ProviderTransaction{}, errs.Wrap(errs.ProviderUnavailable, "provr: decode verify response", err)
	}
	var data struct {
		Reference string            `json:"reference"`
		Status    string            `json:"status"`
		Amount    int64             `json:"amount"`
		Currency  string            `json:"currency"`
		Metadata  map[string]string `json:"metadata"`
		PaidAt    time.Time         `json:"paid_at"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return providers.ProviderTransaction{}, errs.Wrap(errs.ProviderUnavailable, "provr: decode verify data", err)
	}

	return providers.ProviderTransaction{
		Reference:   data.Reference,
		Status:      data.Status,
		AmountCents: data.Amount,
		Currency:    data.Currency,
		CreatorID:   data.Metadata["creator_id"],
		OccurredAt:  data.PaidAt,
	}, nil
}

func (a *Adapter) ListTransactionsSince(ctx context.Context, since time.Time) ([]providers.ProviderTransaction, error) {
	resp, err := a.client.Get(ctx, "/transaction",
		httpclient.WithQueryParam("from", since.Format(time.RFC3339)),
		httpclient.WithQueryParam("status", "success"))
	if err != nil {
		return nil, classifyHTTPErr(err, "provr: list transactions")
	}

	var env apiEnvelope
	if err := httpclient.DecodeJSON(resp, &env); err != nil {
		return nil, errs.Wrap(errs.ProviderUnavailable, "provr: decode list response", err)
	}
	var rows []struct {
		Reference string            `json:"reference"`
		Status    string            `json:"status"`
		Amount    int64             `json:"amount"`
		Currency  string            `json:"currency"`
		Metadata  map[string]string `json:"metadata"`
		PaidAt    time.Time         `json:"paid_at"`
	}
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, errs.Wrap(errs.ProviderUnavailable, "provr: decode list data", err)
	}

	out := make([]providers.ProviderTransaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, providers.ProviderTransaction{
			Reference:   row.Reference,
			Status:      row.Status,
			AmountCents: row.Amount,
			Currency:    row.Currency,
			CreatorID:   row.Metadata["creator_id"],
			SubscriberEmail: row.Metadata["subscriber_email"],
			OccurredAt:  row.PaidAt,
		})
	}
	return out, nil
}

// ChargeStoredAuthorization bills a previously-captured card authorization
// for the billing job's recurring-charge sweep (spec §4.8).
func (a *Adapter) ChargeStoredAuthorization(ctx context.Context, authCode string, amountCents int64, currency, reference string) (providers.ProviderTransaction, error) {
	body := map[string]interface{}{
		"authorization_code": authCode,
		"amount":             amountCents,
		"currency":           currency,
		"reference":          reference,
	}
	resp, err := a.client.Post(ctx, "/transaction/charge_authorization", body)
	if err != nil {
		return providers.ProviderTransaction{}, classifyHTTPErr(err, "provr: charge stored authorization")
	}

	var env apiEnvelope
	if err := httpclient.DecodeJSON(resp, &env); err != nil {
		return providers.ProviderTransaction{}, errs.Wrap(errs.ProviderUnavailable, "provr: decode charge authorization response", err)
	}
	var data struct {
		Reference string    `json:"reference"`
		Status    string    `json:"status"`
		Amount    int64     `json:"amount"`
		Currency  string    `json:"currency"`
		PaidAt    time.Time `json:"paid_at"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return providers.ProviderTransaction{}, errs.Wrap(errs.ProviderUnavailable, "provr: decode charge authorization data", err)
	}

	return providers.ProviderTransaction{
		Reference:   data.Reference,
		Status:      data.Status,
		AmountCents: data.Amount,
		Currency:    data.Currency,
		OccurredAt:  data.PaidAt,
	}, nil
}

// GetBalance reads the platform's available balance on the regional
// processor. accountID is accepted for interface symmetry with provg but
// unused: PROV-R's balance endpoint reports the platform account, not a
// per-subaccount figure.
func (a *Adapter) GetBalance(ctx context.Context, accountID string) (int64, string, error) {
	resp, err := a.client.Get(ctx, "/balance")
	if err != nil {
		return 0, "", classifyHTTPErr(err, "provr: get balance")
	}

	var env apiEnvelope
	if err := httpclient.DecodeJSON(resp, &env); err != nil {
		return 0, "", errs.Wrap(errs.ProviderUnavailable, "provr: decode balance response", err)
	}
	var rows []struct {
		Balance  int64  `json:"balance"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return 0, "", errs.Wrap(errs.ProviderUnavailable, "provr: decode balance data", err)
	}
	if len(rows) == 0 {
		return 0, "", nil
	}
	return rows[0].Balance, rows[0].Currency, nil
}

// VerifyWebhookSignature checks the provider's HMAC-SHA512 body signature,
// the REST-API analogue of stripe-go's webhook.ConstructEvent.
func (a *Adapter) VerifyWebhookSignature(body []byte, signatureHex string) bool {
	mac := hmac.New(sha512.New, []byte(a.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signatureHex))
}

func classifyHTTPErr(err error, context string) error {
	var httpErr *httpclient.Error
	if he, ok := err.(*httpclient.Error); ok {
		httpErr = he
	}
	if httpErr == nil {
		return errs.Wrap(errs.ProviderUnavailable, context, err)
	}

	switch {
	case httpErr.StatusCode == http.StatusNotFound:
		return errs.Wrap(errs.ProviderPermanent, fmt.Sprintf("%s: not found", context), err)
	case httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden:
		return errs.Wrap(errs.ProviderPermanent, fmt.Sprintf("%s: unauthorized", context), err)
	case httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500:
		return errs.Wrap(errs.ProviderUnavailable, context, err)
	case httpErr.StatusCode >= 400:
		return errs.Wrap(errs.InvalidRequest, context, err)
	default:
		return errs.Wrap(errs.ProviderUnavailable, context, err)
	}
}
