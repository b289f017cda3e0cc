package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/inertlabs/tokenguard/internal/models"
)

// BscScanClient fetches verified source and holder data from the explorer.
type BscScanClient struct {
	apikey     string
	baseURL    string
	httpClient *http.Client
}

type contractSourceResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  []struct {
		SourceCode   string `json:"SourceCode"`
		ABI          string `json:"ABI"`
		ContractName string `json:"ContractName"`
		Proxy        string `json:"Proxy"`
	} `json:"result"`
}

type holderListResponse struct {
	Status string `json:"status"`
	Result []struct {
		Address  string `json:"TokenHolderAddress"`
		Quantity string `json:"TokenHolderQuantity"`
	} `json:"result"`
}

// apiErrorResponse is used when the API returns an error (result is a string).
type apiErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

func NewBscScanClient(apiKey string) *BscScanClient {
	return &BscScanClient{
		apikey:     apiKey,
		baseURL:    "https://api.etherscan.io/v2/api",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetContractSource returns the verified source text, or "" when the
// contract is unverified, plus the explorer's proxy flag.
func (c *BscScanClient) GetContractSource(ctx context.Context, contractAddress string) (source string, verified, proxy bool, err error) {
	url := fmt.Sprintf("%s?chainid=56&module=contract&action=getsourcecode&address=%s&apikey=%s",
		c.baseURL, contractAddress, c.apikey)

	body, err := c.get(ctx, url)
	if err != nil {
		return "", false, false, err
	}

	var errResp apiErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Status == "0" {
		return "", false, false, fmt.Errorf("bscscan API error: %s", errResp.Result)
	}

	var result contractSourceResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", false, false, fmt.Errorf("unmarshal source response: %w", err)
	}

	if result.Status != "1" || len(result.Result) == 0 {
		return "", false, false, nil
	}
	proxy = result.Result[0].Proxy == "1"
	if result.Result[0].SourceCode == "" {
		return "", false, proxy, nil
	}
	return result.Result[0].SourceCode, true, proxy, nil
}

// GetTopHolders returns up to limit top holders by balance.
func (c *BscScanClient) GetTopHolders(ctx context.Context, contractAddress string, limit int) ([]models.Holder, error) {
	url := fmt.Sprintf("%s?chainid=56&module=token&action=tokenholderlist&contractaddress=%s&page=1&offset=%d&apikey=%s",
		c.baseURL, contractAddress, limit, c.apikey)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var errResp apiErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Status == "0" {
		return nil, fmt.Errorf("bscscan API error: %s", errResp.Result)
	}

	var result holderListResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal holder response: %w", err)
	}

	holders := make([]models.Holder, 0, len(result.Result))
	for _, h := range result.Result {
		balance, ok := new(big.Int).SetString(h.Quantity, 10)
		if !ok {
			continue
		}
		holders = append(holders, models.Holder{Address: h.Address, Balance: balance})
	}
	return holders, nil
}

func (c *BscScanClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bscscan request: %w", err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
