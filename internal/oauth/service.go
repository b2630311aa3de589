package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"socialhub/internal/config"
	"socialhub/internal/model"
)

const stateTTL = 10 * time.Minute

// Well-known OAuth2 endpoints for the supported platforms.
var (
	twitterEndpoint = oauth2.Endpoint{
		AuthURL:  "https://twitter.com/i/oauth2/authorize",
		TokenURL: "https://api.twitter.com/2/oauth2/token",
	}
	linkedinEndpoint = oauth2.Endpoint{
		AuthURL:  "https://www.linkedin.com/oauth/v2/authorization",
		TokenURL: "https://www.linkedin.com/oauth/v2/accessToken",
	}
)

// Service runs the authorization-code flow for the supported
// providers and keeps SocialAccount credentials fresh.
type Service struct {
	db      *gorm.DB
	redis   *redis.Client
	logger  *logrus.Entry
	configs map[model.Provider]*oauth2.Config

	// userinfo endpoints, overridable in tests
	profileURLs map[model.Provider]string
	httpClient  *http.Client
}

// NewService creates an OAuth service from the app configuration.
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Entry) *Service {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		db:     db,
		redis:  redisClient,
		logger: logger.WithField("component", "oauth"),
		configs: map[model.Provider]*oauth2.Config{
			model.ProviderTwitter: {
				ClientID:     cfg.Twitter.ClientID,
				ClientSecret: cfg.Twitter.ClientSecret,
				RedirectURL:  cfg.Twitter.RedirectURL,
				Endpoint:     twitterEndpoint,
				Scopes:       []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
			},
			model.ProviderLinkedIn: {
				ClientID:     cfg.LinkedIn.ClientID,
				ClientSecret: cfg.LinkedIn.ClientSecret,
				RedirectURL:  cfg.LinkedIn.RedirectURL,
				Endpoint:     linkedinEndpoint,
				Scopes:       []string{"openid", "profile", "w_member_social"},
			},
		},
		profileURLs: map[model.Provider]string{
			model.ProviderTwitter:  "https://api.twitter.com/2/users/me",
			model.ProviderLinkedIn: "https://api.linkedin.com/v2/userinfo",
		},
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *Service) config(p model.Provider) (*oauth2.Config, error) {
	cfg, ok := s.configs[p]
	if !ok {
		return nil, fmt.Errorf("unsupported provider %q", p)
	}
	return cfg, nil
}

func stateKey(state string) string {
	return "oauth:state:" + state
}

// AuthURL returns the provider consent URL for the user, with a
// one-time state nonce stored in Redis.
func (s *Service) AuthURL(ctx context.Context, userID int, p model.Provider) (string, error) {
	cfg, err := s.config(p)
	if err != nil {
		return "", err
	}

	state := uuid.NewString()
	if err := s.redis.Set(ctx, stateKey(state), userID, stateTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// HandleCallback validates the state nonce, exchanges the code, loads
// the platform profile, and upserts the (user, provider) account.
func (s *Service) HandleCallback(ctx context.Context, p model.Provider, state, code string) (*model.SocialAccount, error) {
	cfg, err := s.config(p)
	if err != nil {
		return nil, err
	}

	userID, err := s.redis.GetDel(ctx, stateKey(state)).Int()
	if err == redis.Nil {
		return nil, fmt.Errorf("unknown or expired oauth state")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load oauth state: %w", err)
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	providerUserID, displayName, err := s.fetchProfile(ctx, p, token.AccessToken)
	if err != nil {
		return nil, err
	}

	account := &model.SocialAccount{}
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, p).
		First(account).Error
	switch {
	case err == nil:
		// reconnect: refresh credentials in place
	case errors.Is(err, gorm.ErrRecordNotFound):
		account.ID = uuid.NewString()
		account.UserID = userID
		account.Provider = p
	default:
		return nil, err
	}

	account.ProviderUserID = providerUserID
	account.DisplayName = displayName
	account.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		account.RefreshToken = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		account.TokenExpiresAt = &expiry
	}

	if err := s.db.WithContext(ctx).Save(account).Error; err != nil {
		return nil, fmt.Errorf("failed to save social account: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user":     userID,
		"provider": p,
	}).Info("Social account connected")
	return account, nil
}

// Ensure refreshes the account's access token when it is about to
// expire, persisting the new credentials. Accounts without a refresh
// token are left as-is.
func (s *Service) Ensure(ctx context.Context, account *model.SocialAccount) error {
	if account.TokenExpiresAt == nil || time.Until(*account.TokenExpiresAt) > time.Minute {
		return nil
	}
	if account.RefreshToken == "" {
		return nil
	}

	cfg, err := s.config(account.Provider)
	if err != nil {
		return err
	}

	src := cfg.TokenSource(ctx, &oauth2.Token{
		RefreshToken: account.RefreshToken,
		Expiry:       *account.TokenExpiresAt,
	})
	token, err := src.Token()
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}

	account.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		account.RefreshToken = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		account.TokenExpiresAt = &expiry
	}

	return s.db.WithContext(ctx).
		Model(&model.SocialAccount{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"access_token":     account.AccessToken,
			"refresh_token":    account.RefreshToken,
			"token_expires_at": account.TokenExpiresAt,
		}).Error
}

type twitterProfile struct {
	Data struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"data"`
}

type linkedinProfile struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
}

func (s *Service) fetchProfile(ctx context.Context, p model.Provider, accessToken string) (id, name string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.profileURLs[p], nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("profile request returned status %d: %s", resp.StatusCode, string(body))
	}

	switch p {
	case model.ProviderTwitter:
		var parsed twitterProfile
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", "", fmt.Errorf("failed to decode twitter profile: %w", err)
		}
		return parsed.Data.ID, parsed.Data.Name, nil
	case model.ProviderLinkedIn:
		var parsed linkedinProfile
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", "", fmt.Errorf("failed to decode linkedin profile: %w", err)
		}
		return parsed.Sub, parsed.Name, nil
	default:
		return "", "", fmt.Errorf("unsupported provider %q", p)
	}
}
