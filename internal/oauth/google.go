// Package oauth resolves third-party access tokens into identity profiles.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rramosdev/shop-backoffice/internal/service"
)

// GoogleProvider exchanges a Google OAuth access token for the profile
// behind it via the userinfo endpoint. No SDK is involved: the endpoint is
// a single authenticated GET returning JSON.
type GoogleProvider struct {
	UserInfoURL string
	Client      *http.Client
}

func NewGoogleProvider(userInfoURL string) *GoogleProvider {
	return &GoogleProvider{
		UserInfoURL: userInfoURL,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type userInfo struct {
	Sub        string `json:"sub"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
}

// Fetch validates accessToken against the provider and returns the profile
// it belongs to. Any non-200 answer means the token is not acceptable.
func (g *GoogleProvider) Fetch(ctx context.Context, accessToken string) (service.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserInfoURL, nil)
	if err != nil {
		return service.Profile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.Client.Do(req)
	if err != nil {
		return service.Profile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return service.Profile{}, fmt.Errorf("userinfo: unexpected status %d", resp.StatusCode)
	}
	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return service.Profile{}, err
	}
	if info.Email == "" {
		return service.Profile{}, fmt.Errorf("userinfo: profile has no email")
	}
	return service.Profile{
		ExternalID: info.Sub,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		Email:      info.Email,
	}, nil
}
