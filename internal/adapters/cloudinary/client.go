package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eventstage/internal/domain"
)

const baseURL = "https://api.cloudinary.com/v1_1"

// Config holds Cloudinary API credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

type destroyResponse struct {
	Result string `json:"result"`
}

type httpMediaStore struct {
	client    *http.Client
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

// NewMediaStore returns a MediaStore that deletes assets through the
// Cloudinary admin API. When the config carries no cloud name a no-op store
// is returned, so local setups work without Cloudinary credentials.
func NewMediaStore(client *http.Client, cfg Config) domain.MediaStore {
	if cfg.CloudName == "" {
		return &noopMediaStore{}
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &httpMediaStore{
		client:    client,
		baseURL:   baseURL,
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		now:       time.Now,
	}
}

func (s *httpMediaStore) Destroy(ctx context.Context, publicID string) error {
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", s.apiKey)
	form.Set("signature", s.sign(publicID, timestamp))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", s.baseURL, s.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call cloudinary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary api returned status: %d", resp.StatusCode)
	}

	var data destroyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode cloudinary response: %w", err)
	}
	// "not found" is fine for our purposes: the asset is gone either way.
	if data.Result != "ok" && data.Result != "not found" {
		return fmt.Errorf("cloudinary destroy failed: %s", data.Result)
	}
	return nil
}

// sign computes the SHA-1 request signature over the sorted parameters,
// per the Cloudinary authentication scheme.
func (s *httpMediaStore) sign(publicID, timestamp string) string {
	payload := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, s.apiSecret)
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

type noopMediaStore struct{}

func (n *noopMediaStore) Destroy(ctx context.Context, publicID string) error {
	log.Println("[MEDIA] Asset would be destroyed (noop)", "public_id", publicID)
	return nil
}
