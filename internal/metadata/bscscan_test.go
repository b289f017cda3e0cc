package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newScanServer(t *testing.T, handler http.HandlerFunc) *BscScanClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewBscScanClient("test-key")
	client.baseURL = srv.URL
	return client
}

func TestGetContractSourceVerified(t *testing.T) {
	client := newScanServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "getsourcecode" {
			t.Errorf("unexpected action %q", r.URL.Query().Get("action"))
		}
		if r.URL.Query().Get("chainid") != "56" {
			t.Errorf("requests must pin chainid=56, got %q", r.URL.Query().Get("chainid"))
		}
		w.Write([]byte(`{"status":"1","message":"OK","result":[{"SourceCode":"contract Token {}","ContractName":"Token"}]}`))
	})

	source, verified, proxy, err := client.GetContractSource(context.Background(), "0x1111111111111111111111111111111111111111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verified || source != "contract Token {}" {
		t.Fatalf("verified=%t source=%q", verified, source)
	}
	if proxy {
		t.Fatal("no proxy flag in response")
	}
}

func TestGetContractSourceProxyFlag(t *testing.T) {
	client := newScanServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"1","message":"OK","result":[{"SourceCode":"contract Shim {}","ContractName":"Shim","Proxy":"1"}]}`))
	})

	_, _, proxy, err := client.GetContractSource(context.Background(), "0x1111111111111111111111111111111111111111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !proxy {
		t.Fatal("explorer proxy flag lost")
	}
}

func TestGetContractSourceUnverified(t *testing.T) {
	client := newScanServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"1","message":"OK","result":[{"SourceCode":"","ABI":"Contract source code not verified"}]}`))
	})

	source, verified, _, err := client.GetContractSource(context.Background(), "0x1111111111111111111111111111111111111111")
	if err != nil {
		t.Fatalf("unverified is not an error: %v", err)
	}
	if verified || source != "" {
		t.Fatalf("verified=%t source=%q, want unverified", verified, source)
	}
}

func TestGetContractSourceAPIError(t *testing.T) {
	client := newScanServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Max rate limit reached"}`))
	})

	_, _, _, err := client.GetContractSource(context.Background(), "0x1111111111111111111111111111111111111111")
	if err == nil || !strings.Contains(err.Error(), "Max rate limit reached") {
		t.Fatalf("API error must surface, got %v", err)
	}
}

func TestGetTopHolders(t *testing.T) {
	client := newScanServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "tokenholderlist" {
			t.Errorf("unexpected action %q", r.URL.Query().Get("action"))
		}
		w.Write([]byte(`{"status":"1","result":[
			{"TokenHolderAddress":"0xaaa","TokenHolderQuantity":"1000"},
			{"TokenHolderAddress":"0xbbb","TokenHolderQuantity":"500"},
			{"TokenHolderAddress":"0xbad","TokenHolderQuantity":"not-a-number"}
		]}`))
	})

	holders, err := client.GetTopHolders(context.Background(), "0x1111111111111111111111111111111111111111", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(holders) != 2 {
		t.Fatalf("malformed quantities must be skipped, got %d holders", len(holders))
	}
	if holders[0].Address != "0xaaa" || holders[0].Balance.Int64() != 1000 {
		t.Fatalf("holder %+v", holders[0])
	}
}
