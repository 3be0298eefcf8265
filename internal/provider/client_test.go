package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func newTestClient(url string, opts ...ClientOption) *Client {
	opts = append([]ClientOption{
		WithRetryDelay(time.Millisecond),
		WithMaxDelay(5 * time.Millisecond),
	}, opts...)
	return NewClient(url, opts...)
}

func TestGetTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/parsed", r.URL.Path)
		assert.Equal(t, "Sig1", r.URL.Query().Get("txn_signature"))
		w.Write([]byte(`{"success":true,"result":{"signature":"Sig1","status":"Success","fee_payer":"` + testWallet + `"}}`))
	}))
	defer srv.Close()

	tx, err := newTestClient(srv.URL).GetTransaction(context.Background(), "Sig1")
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, "Sig1", tx.Signature)
	assert.Equal(t, testWallet, tx.FeePayer)
}

func TestGetTransaction_Unknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"result":{}}`))
	}))
	defer srv.Close()

	tx, err := newTestClient(srv.URL).GetTransaction(context.Background(), "SigUnknown")
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestGetTransaction_EmptySignature(t *testing.T) {
	_, err := newTestClient("http://unused").GetTransaction(context.Background(), "")
	assert.Error(t, err)
}

func TestClientSendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		w.Write([]byte(`{"success":true,"result":{"signature":"Sig1"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, WithAPIKey("secret")).GetTransaction(context.Background(), "Sig1")
	require.NoError(t, err)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"success":true,"result":{"signature":"Sig1"}}`))
	}))
	defer srv.Close()

	tx, err := newTestClient(srv.URL).GetTransaction(context.Background(), "Sig1")
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, 3, calls)
}

func TestClientRetriesRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, WithMaxRetries(2)).GetTransaction(context.Background(), "Sig1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries")
	assert.Equal(t, 3, calls)
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetTransaction(context.Background(), "Sig1")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClientProviderErrorNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"success":false,"message":"invalid account"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetTransaction(context.Background(), "Sig1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid account")
	assert.Equal(t, 1, calls)
}

func TestGetWalletTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/history", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, testWallet, q.Get("account"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "SigOld", q.Get("before_tx_signature"))
		w.Write([]byte(`{"success":true,"result":[{"signature":"Sig2"},{"signature":"Sig1"}]}`))
	}))
	defer srv.Close()

	txs, err := newTestClient(srv.URL).GetWalletTransactions(context.Background(), testWallet, HistoryOpts{
		Before: "SigOld",
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "Sig2", txs[0].Signature)
}

func TestGetWalletTransactions_DefaultLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"success":true,"result":[]}`))
	}))
	defer srv.Close()

	txs, err := newTestClient(srv.URL).GetWalletTransactions(context.Background(), testWallet, HistoryOpts{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestGetWalletTransactions_EmptyWallet(t *testing.T) {
	_, err := newTestClient("http://unused").GetWalletTransactions(context.Background(), "", HistoryOpts{})
	assert.Error(t, err)
}
