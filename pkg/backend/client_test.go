package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Spart911/southclub-storefront/pkg/enums"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://commerce.test/api", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientListProductsRequest(t *testing.T) {
	const expectedURL = "http://commerce.test/api/products/?page=2&size=5"
	respBody := `{"products":[{"id":"p1","name":"Tee","size":[1,2],"price":"1000","photos":[]}],"total":11,"page":2,"size":5}`

	var capturedURL string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client := newTestClient(t, rt)
	list, err := client.ListProducts(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if list.Total != 11 || len(list.Products) != 1 {
		t.Fatalf("unexpected list %+v", list)
	}
	if got := list.Products[0].PriceCents(); got != 100000 {
		t.Fatalf("unexpected price cents %d", got)
	}
}

func TestClientCreateOrderRequest(t *testing.T) {
	respBody := `{"id":"o1","order_number":"SC-1001","status":"pending","total_amount":"27.99","confirmation_token":"ct_abc","payment_url":"https://pay.test/o1","items":[]}`

	var capturedBody map[string]any
	var capturedContentType string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedContentType = req.Header.Get("Content-Type")
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(raw, &capturedBody); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client := newTestClient(t, rt)
	order, err := client.CreateOrder(context.Background(), OrderCreate{
		CustomerName:    "Ivan Petrov",
		CustomerEmail:   "ivan@example.com",
		CustomerPhone:   "79991234567",
		DeliveryAddress: "Lenina 1, 5",
		Items: []OrderItem{
			{ProductID: "p1", Quantity: 2, Size: 2, Price: AmountFromCents(1250)},
		},
		TotalAmount:   AmountFromCents(2799),
		PaymentMethod: enums.PaymentMethodYooKassa,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if capturedContentType != contentTypeJSON {
		t.Fatalf("unexpected content type %q", capturedContentType)
	}
	if capturedBody["payment_method"] != "yookassa" {
		t.Fatalf("unexpected payment method %v", capturedBody["payment_method"])
	}
	if capturedBody["total_amount"] != "27.99" {
		t.Fatalf("unexpected total amount %v", capturedBody["total_amount"])
	}
	if order.OrderNumber != "SC-1001" || order.ConfirmationToken != "ct_abc" {
		t.Fatalf("unexpected order %+v", order)
	}
	if order.TotalCents() != 2799 {
		t.Fatalf("unexpected total cents %d", order.TotalCents())
	}
}

func TestClientCreateOrderRequiresItems(t *testing.T) {
	client := newTestClient(t, roundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatal("request should not be sent")
		return nil, nil
	}))

	_, err := client.CreateOrder(context.Background(), OrderCreate{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClientAdminLoginSendsForm(t *testing.T) {
	respBody := `{"access_token":"tok123","token_type":"bearer","expires_in":3600}`

	var capturedForm string
	var capturedContentType string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedContentType = req.Header.Get("Content-Type")
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		capturedForm = string(raw)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client := newTestClient(t, rt)
	token, err := client.AdminLogin(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if capturedContentType != contentTypeForm {
		t.Fatalf("unexpected content type %q", capturedContentType)
	}
	if !strings.Contains(capturedForm, "grant_type=password") || !strings.Contains(capturedForm, "username=admin") {
		t.Fatalf("unexpected form body %q", capturedForm)
	}
	if token.AccessToken != "tok123" {
		t.Fatalf("unexpected token %+v", token)
	}
}

func TestClientAttachesBearerToken(t *testing.T) {
	respBody := `{"orders":[],"total":0,"page":1,"size":10}`

	var capturedAuth string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedAuth = req.Header.Get("Authorization")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client := newTestClient(t, rt)
	if _, err := client.ListOrders(context.Background(), "tok123", 1, 10); err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if capturedAuth != "Bearer tok123" {
		t.Fatalf("unexpected authorization header %q", capturedAuth)
	}
}

func TestClientMapsUpstreamErrors(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		wantCode   pkgerrors.Code
		wantDetail string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Not authenticated"}`, pkgerrors.CodeUnauthorized, ""},
		{"not found", http.StatusNotFound, `{"detail":"Order not found"}`, pkgerrors.CodeNotFound, ""},
		{"validation string", http.StatusUnprocessableEntity, `{"detail":"invalid email"}`, pkgerrors.CodeValidation, "invalid email"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"value too small"}]}`, pkgerrors.CodeValidation, "field required; value too small"},
		{"server error", http.StatusInternalServerError, `boom`, pkgerrors.CodeDependency, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: tc.status,
					Body:       io.NopCloser(strings.NewReader(tc.body)),
					Header:     http.Header{},
				}, nil
			})

			client := newTestClient(t, rt)
			_, err := client.GetOrder(context.Background(), "o1")
			appErr := pkgerrors.As(err)
			if appErr == nil {
				t.Fatalf("expected coded error, got %v", err)
			}
			if appErr.Code() != tc.wantCode {
				t.Fatalf("expected code %s, got %s", tc.wantCode, appErr.Code())
			}
			if tc.wantDetail != "" && !strings.Contains(appErr.Message(), tc.wantDetail) {
				t.Fatalf("expected message containing %q, got %q", tc.wantDetail, appErr.Message())
			}
		})
	}
}

func TestAmountConversionRoundTrip(t *testing.T) {
	if got := AmountToCents(decimal.RequireFromString("27.99")); got != 2799 {
		t.Fatalf("unexpected cents %d", got)
	}
	if got := AmountFromCents(2799).StringFixed(2); got != "27.99" {
		t.Fatalf("unexpected amount %s", got)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
