package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/vision/v1"
)

// NewTokenSource resolves Google credentials into an oauth2.TokenSource.
// A non-empty credentialsFile is read as service-account JSON; otherwise
// application default credentials are used.
func NewTokenSource(ctx context.Context, credentialsFile string) (oauth2.TokenSource, error) {
	if credentialsFile != "" {
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		creds, err := googleoauth.CredentialsFromJSON(ctx, data, vision.CloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("parse credentials: %w", err)
		}
		return creds.TokenSource, nil
	}

	creds, err := googleoauth.FindDefaultCredentials(ctx, vision.CloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("find default credentials: %w", err)
	}
	return creds.TokenSource, nil
}
